package adyen

import (
	"errors"
	"testing"
)

const testHMACKey = "44782def4cf22b905f6c552c0ecfeebbe0b2ed0b5c2d0b2c6f9e51a2ca2e07c5"

func notificationItem() *NotificationRequestItem {
	return &NotificationRequestItem{
		EventCode:           "AUTHORISATION",
		EventDate:           "2026-08-01T10:00:00+02:00",
		MerchantAccountCode: "TestMerchant",
		MerchantReference:   "00001001",
		PspReference:        "PSP123456789",
		Success:             "true",
		Amount:              Amount{Value: 10595, Currency: "EUR"},
		AdditionalData:      map[string]string{},
	}
}

func TestValidateHMACRoundTrip(t *testing.T) {
	item := notificationItem()
	signature, err := SignNotification(item, testHMACKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	item.AdditionalData["hmacSignature"] = signature

	valid, err := ValidateHMAC(item, testHMACKey)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !valid {
		t.Fatal("expected valid signature")
	}
}

func TestValidateHMACTamperedItem(t *testing.T) {
	item := notificationItem()
	signature, err := SignNotification(item, testHMACKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	item.AdditionalData["hmacSignature"] = signature
	item.Amount.Value = 1

	valid, err := ValidateHMAC(item, testHMACKey)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if valid {
		t.Fatal("tampered item must not validate")
	}
}

func TestValidateHMACMissingSignature(t *testing.T) {
	item := notificationItem()
	_, err := ValidateHMAC(item, testHMACKey)
	if !errors.Is(err, ErrMissingHMACSignature) {
		t.Fatalf("expected ErrMissingHMACSignature, got %v", err)
	}
}

func TestValidateHMACInvalidKey(t *testing.T) {
	item := notificationItem()
	item.AdditionalData["hmacSignature"] = "c2ln"
	_, err := ValidateHMAC(item, "not-hex")
	if !errors.Is(err, ErrInvalidHMACKey) {
		t.Fatalf("expected ErrInvalidHMACKey, got %v", err)
	}
}

func TestValidateHMACWrongKey(t *testing.T) {
	item := notificationItem()
	signature, err := SignNotification(item, testHMACKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	item.AdditionalData["hmacSignature"] = signature

	otherKey := "00000000000000000000000000000000000000000000000000000000000000ff"
	valid, err := ValidateHMAC(item, otherKey)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if valid {
		t.Fatal("signature must not validate under a different key")
	}
}
