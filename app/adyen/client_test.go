package adyen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPaymentsSendsHeadersAndBody(t *testing.T) {
	var gotAPIKey, gotIdempotencyKey string
	var gotBody PaymentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotAPIKey = r.Header.Get("X-API-Key")
		gotIdempotencyKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(&PaymentsResponse{ResultCode: ResultAuthorised, PspReference: "PSP1"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", MerchantAccount: "TestMerchant", CheckoutBaseURL: server.URL})
	result, err := client.Payments(context.Background(), &PaymentRequest{
		MerchantAccount: "TestMerchant",
		Reference:       "00001001",
		Amount:          Amount{Value: 100, Currency: "EUR"},
	}, "idem-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAPIKey != "key" {
		t.Fatalf("unexpected api key header: %s", gotAPIKey)
	}
	if gotIdempotencyKey != "idem-1" {
		t.Fatalf("unexpected idempotency key header: %s", gotIdempotencyKey)
	}
	if gotBody.Reference != "00001001" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
	if result.ResultCode != ResultAuthorised || result.PspReference != "PSP1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPaymentMethodsFillsMerchantAccount(t *testing.T) {
	var gotBody PaymentMethodsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(&PaymentMethodsResponse{PaymentMethods: json.RawMessage(`[]`)})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", MerchantAccount: "TestMerchant", CheckoutBaseURL: server.URL})
	if _, err := client.PaymentMethods(context.Background(), &PaymentMethodsRequest{Channel: ChannelWeb}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody.MerchantAccount != "TestMerchant" {
		t.Fatalf("merchant account not defaulted: %+v", gotBody)
	}
}

func TestPaymentsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errorCode": "101"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", CheckoutBaseURL: server.URL})
	_, err := client.Payments(context.Background(), &PaymentRequest{}, "")
	if err == nil {
		t.Fatal("expected error for 4xx response")
	}
}

func TestPaymentsRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{CheckoutBaseURL: "http://localhost:0"})
	if _, err := client.Payments(context.Background(), &PaymentRequest{}, ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
