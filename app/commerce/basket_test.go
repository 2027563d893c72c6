package commerce

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func basketTestClient(server *httptest.Server) *BasketClient {
	return NewBasketClient(Config{ShopBaseURL: server.URL, SiteID: "RefArch"})
}

func TestGetBasketMapsCustomAttributes(t *testing.T) {
	var gotPath, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{
			"basket_id": "basket-1",
			"currency": "EUR",
			"order_total": 105.95,
			"c_orderNo": "00001001",
			"c_adyenPartialPaymentData": "{\"order\":{\"orderData\":\"blob\"}}"
		}`))
	}))
	defer server.Close()

	client := basketTestClient(server)
	basket, err := client.GetBasket(context.Background(), "shopper-token", "basket-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/s/RefArch/dw/shop/v23_2/baskets/basket-1" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer shopper-token" {
		t.Fatalf("unexpected authorization: %s", gotAuth)
	}
	if basket.OrderNo != "00001001" {
		t.Fatalf("custom order number lost: %+v", basket)
	}
	if !strings.Contains(basket.PartialPaymentData, "orderData") {
		t.Fatalf("partial payment data lost: %+v", basket)
	}
}

func TestGetBasketNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := basketTestClient(server)
	_, err := client.GetBasket(context.Background(), "shopper-token", "missing")
	if !errors.Is(err, ErrBasketNotFound) {
		t.Fatalf("expected ErrBasketNotFound, got %v", err)
	}
}

func TestGetCustomerBaskets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/s/RefArch/dw/shop/v23_2/customers/cust-1/baskets" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"baskets": [{"basket_id": "basket-1"}, {"basket_id": "basket-2"}]}`))
	}))
	defer server.Close()

	client := basketTestClient(server)
	baskets, err := client.GetCustomerBaskets(context.Background(), "shopper-token", "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(baskets) != 2 || baskets[0].BasketID != "basket-1" {
		t.Fatalf("unexpected baskets: %+v", baskets)
	}
}

func TestUpdateBillingAddress(t *testing.T) {
	var gotMethod, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"basket_id": "basket-1"}`))
	}))
	defer server.Close()

	client := basketTestClient(server)
	_, err := client.UpdateBillingAddress(context.Background(), "shopper-token", "basket-1", &OrderAddress{
		Address1: "1 Way", City: "Town", PostalCode: "00000", CountryCode: "DE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("unexpected method: %s", gotMethod)
	}
	if gotQuery != "use_as_shipping=false" {
		t.Fatalf("unexpected query: %s", gotQuery)
	}
}

func TestUpdateShippingAddress(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"basket_id": "basket-1"}`))
	}))
	defer server.Close()

	client := basketTestClient(server)
	_, err := client.UpdateShippingAddress(context.Background(), "shopper-token", "basket-1", "me", &OrderAddress{
		Address1: "1 Way", City: "Town", PostalCode: "00000", CountryCode: "DE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/s/RefArch/dw/shop/v23_2/baskets/basket-1/shipments/me/shipping_address" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
}

func TestRemovePaymentInstrumentPath(t *testing.T) {
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"basket_id": "basket-1"}`))
	}))
	defer server.Close()

	client := basketTestClient(server)
	if _, err := client.RemovePaymentInstrument(context.Background(), "shopper-token", "basket-1", "pi-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("unexpected method: %s", gotMethod)
	}
	if gotPath != "/s/RefArch/dw/shop/v23_2/baskets/basket-1/payment_instruments/pi-1" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
}
