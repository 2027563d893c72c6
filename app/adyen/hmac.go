package adyen

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

const hmacSignatureKey = "hmacSignature"

var (
	ErrMissingHMACSignature = errors.New("notification has no hmac signature")
	ErrInvalidHMACKey       = errors.New("hmac key is not valid hex")
)

// ValidateHMAC checks the signature Adyen attaches to every notification
// item. The signed payload is the colon-joined field list from the webhook
// documentation; the key is configured as a hex string.
func ValidateHMAC(item *NotificationRequestItem, hmacKey string) (bool, error) {
	signature := strings.TrimSpace(item.AdditionalData[hmacSignatureKey])
	if signature == "" {
		return false, ErrMissingHMACSignature
	}

	key, err := hex.DecodeString(strings.TrimSpace(hmacKey))
	if err != nil {
		return false, ErrInvalidHMACKey
	}

	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(signingString(item)))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

// SignNotification computes the signature for a notification item. Used by
// tests and by tooling that replays recorded webhooks.
func SignNotification(item *NotificationRequestItem, hmacKey string) (string, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hmacKey))
	if err != nil {
		return "", ErrInvalidHMACKey
	}
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(signingString(item)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

func signingString(item *NotificationRequestItem) string {
	return strings.Join([]string{
		item.PspReference,
		item.OriginalReference,
		item.MerchantAccountCode,
		item.MerchantReference,
		strconv.FormatInt(item.Amount.Value, 10),
		item.Amount.Currency,
		item.EventCode,
		item.Success,
	}, ":")
}
