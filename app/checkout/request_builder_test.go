package checkout

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
	"github.com/vibast-solutions/ms-go-checkout/app/commerce"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func builderConfig() BuilderConfig {
	return BuilderConfig{
		MerchantAccount:    "TestMerchant",
		ReturnURL:          "https://shop.example.com/checkout/return",
		ApplicationName:    "ms-go-checkout",
		ApplicationVersion: "1.0.0",
	}
}

func builderBasket() *commerce.Basket {
	return &commerce.Basket{
		BasketID:   "basket-1",
		Currency:   "EUR",
		OrderTotal: 105.95,
		OrderNo:    "00001001",
		ProductItems: []commerce.ProductItem{
			{ItemID: "item-1", ProductName: "Sneaker", Quantity: 2, BasePrice: 50.00, Price: 100.00, Tax: 19.00, TaxRate: 0.19},
		},
		ShippingItems: []commerce.ShippingItem{
			{ItemID: "ship-1", ItemText: "Standard Shipping", Price: 5.95, Tax: 1.13, TaxRate: 0.19},
		},
		BillingAddress: &commerce.OrderAddress{
			FirstName: "Jo", LastName: "Doe",
			Address1: "1 Way", City: "Town", PostalCode: "00000", CountryCode: "DE",
		},
		Shipments: []commerce.Shipment{
			{ShipmentID: "me", ShippingAddress: &commerce.OrderAddress{
				Address1: "1 Way", City: "Town", PostalCode: "00000", CountryCode: "DE",
			}},
		},
		CustomerInfo: commerce.CustomerInfo{CustomerID: "cust-1", Email: "jo@example.com"},
	}
}

func mustParseState(t *testing.T, raw string) *StateData {
	t.Helper()
	state, err := ParseStateData([]byte(raw))
	if err != nil {
		t.Fatalf("parse state data: %v", err)
	}
	return state
}

func buildStandard(t *testing.T, basket *commerce.Basket, state *StateData) *adyen.PaymentRequest {
	t.Helper()
	builder := NewPaymentRequestBuilder(builderConfig(), basket, state, RequestInfo{CustomerID: "cust-1", RemoteIP: "203.0.113.7"}, testLogger())
	req, err := builder.BuildStandard()
	if err != nil {
		t.Fatalf("build standard: %v", err)
	}
	return req
}

func TestBuildStandardBasics(t *testing.T) {
	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}}`)
	req := buildStandard(t, builderBasket(), state)

	if req.MerchantAccount != "TestMerchant" {
		t.Fatalf("unexpected merchant account: %s", req.MerchantAccount)
	}
	if req.Reference != "00001001" {
		t.Fatalf("unexpected reference: %s", req.Reference)
	}
	if req.Amount.Value != 10595 || req.Amount.Currency != "EUR" {
		t.Fatalf("unexpected amount: %+v", req.Amount)
	}
	if req.Channel != adyen.ChannelWeb {
		t.Fatalf("unexpected channel: %s", req.Channel)
	}
	if req.ReturnURL != "https://shop.example.com/checkout/return" {
		t.Fatalf("unexpected return url: %s", req.ReturnURL)
	}
	if req.ShopperReference != "cust-1" || req.ShopperEmail != "jo@example.com" {
		t.Fatalf("unexpected shopper fields: %s %s", req.ShopperReference, req.ShopperEmail)
	}
	if req.ShopperIP != "203.0.113.7" {
		t.Fatalf("unexpected shopper ip: %s", req.ShopperIP)
	}
	if req.ShopperName == nil || req.ShopperName.FirstName != "Jo" {
		t.Fatalf("unexpected shopper name: %+v", req.ShopperName)
	}
	if req.BillingAddress == nil || req.BillingAddress.Country != "DE" {
		t.Fatalf("unexpected billing address: %+v", req.BillingAddress)
	}
	if req.DeliveryAddress == nil {
		t.Fatal("expected delivery address")
	}
	if req.AuthenticationData == nil || req.AuthenticationData.ThreeDSRequestData.NativeThreeDS != "preferred" {
		t.Fatalf("unexpected authentication data: %+v", req.AuthenticationData)
	}
	if req.ApplicationInfo == nil || req.ApplicationInfo.MerchantApplication.Name != "ms-go-checkout" {
		t.Fatalf("unexpected application info: %+v", req.ApplicationInfo)
	}
	if req.ShopperInteraction != adyen.ShopperInteractionEcommerce {
		t.Fatalf("unexpected shopper interaction: %s", req.ShopperInteraction)
	}
	if len(req.LineItems) != 0 {
		t.Fatalf("card payments must not carry line items: %+v", req.LineItems)
	}
}

func TestBuildStandardOmitsIncompleteAddress(t *testing.T) {
	basket := builderBasket()
	basket.BillingAddress.PostalCode = ""
	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}}`)

	req := buildStandard(t, basket, state)
	if req.BillingAddress != nil {
		t.Fatalf("incomplete billing address must be omitted: %+v", req.BillingAddress)
	}
	if req.DeliveryAddress == nil {
		t.Fatal("complete delivery address must survive")
	}
}

func TestBuildStandardUnknownCurrencyFails(t *testing.T) {
	basket := builderBasket()
	basket.Currency = "WAT"
	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}}`)

	builder := NewPaymentRequestBuilder(builderConfig(), basket, state, RequestInfo{}, testLogger())
	_, err := builder.BuildStandard()
	if err == nil {
		t.Fatal("expected error for unknown currency")
	}
	var invalid *InvalidCurrencyError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCurrencyError, got %T", err)
	}
}

func TestBuildStandardOpenInvoice(t *testing.T) {
	state := mustParseState(t, `{"paymentMethod": {"type": "klarna_account"}}`)
	req := buildStandard(t, builderBasket(), state)

	if len(req.LineItems) != 2 {
		t.Fatalf("expected line items for open invoice method, got %d", len(req.LineItems))
	}
	if req.LineItems[0].TaxAmount == 0 {
		t.Fatalf("open invoice line items must carry tax: %+v", req.LineItems[0])
	}
	if req.CountryCode != "DE" {
		t.Fatalf("country code must follow the billing address: %s", req.CountryCode)
	}
}

func TestBuildStandardForwardsInstallmentsAndCountry(t *testing.T) {
	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}, "installments": {"value": 3}, "countryCode": "NL"}`)
	req := buildStandard(t, builderBasket(), state)

	var installments struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(req.Installments, &installments); err != nil || installments.Value != 3 {
		t.Fatalf("installments not forwarded: %s", req.Installments)
	}
	if req.CountryCode != "NL" {
		t.Fatalf("country code not forwarded: %s", req.CountryCode)
	}
}

func TestBuildStandardExpressZeroTax(t *testing.T) {
	state := mustParseState(t, `{"paymentMethod": {"type": "paypal"}}`)
	req := buildStandard(t, builderBasket(), state)

	if len(req.LineItems) != 2 {
		t.Fatalf("expected line items for express method, got %d", len(req.LineItems))
	}
	for _, item := range req.LineItems {
		if item.TaxAmount != 0 || item.TaxPercentage != 0 {
			t.Fatalf("express line items must be zero tax: %+v", item)
		}
	}
}

func TestBuildStandardRecurringStore(t *testing.T) {
	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}, "storePaymentMethod": true}`)
	req := buildStandard(t, builderBasket(), state)

	if !req.StorePaymentMethod {
		t.Fatal("expected storePaymentMethod to be set")
	}
	if req.RecurringProcessingModel != adyen.RecurringProcessingModelCardOnFile {
		t.Fatalf("unexpected recurring model: %s", req.RecurringProcessingModel)
	}
	if req.ShopperInteraction != adyen.ShopperInteractionEcommerce {
		t.Fatalf("storing keeps the shopper present: %s", req.ShopperInteraction)
	}
}

func TestBuildStandardRecurringStoredMethod(t *testing.T) {
	state := mustParseState(t, `{"paymentMethod": {"type": "scheme", "storedPaymentMethodId": "8415"}}`)
	req := buildStandard(t, builderBasket(), state)

	if req.RecurringProcessingModel != adyen.RecurringProcessingModelCardOnFile {
		t.Fatalf("unexpected recurring model: %s", req.RecurringProcessingModel)
	}
	if req.ShopperInteraction != adyen.ShopperInteractionContAuth {
		t.Fatalf("stored method reuse must be ContAuth: %s", req.ShopperInteraction)
	}
}

func TestBuildStandardPartialPaymentRemaining(t *testing.T) {
	basket := builderBasket()
	continuation := PartialPaymentOrder{
		Order:           adyen.OrderData{OrderData: "order-blob", PspReference: "PSP1"},
		RemainingAmount: adyen.Amount{Value: 4000, Currency: "EUR"},
	}
	data, _ := json.Marshal(continuation)
	basket.PartialPaymentData = string(data)

	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}}`)
	builder := NewPaymentRequestBuilder(builderConfig(), basket, state, RequestInfo{}, testLogger())
	req, err := builder.BuildStandard()
	if err != nil {
		t.Fatalf("build standard: %v", err)
	}

	if !builder.PartialPayment() {
		t.Fatal("expected partial payment branch")
	}
	if req.Amount.Value != 4000 {
		t.Fatalf("amount must be the remaining balance: %+v", req.Amount)
	}
	if req.Order == nil || req.Order.OrderData != "order-blob" {
		t.Fatalf("continuation order must be attached: %+v", req.Order)
	}
}

func TestBuildStandardPartialPaymentGiftcardCap(t *testing.T) {
	basket := builderBasket()
	continuation := PartialPaymentOrder{
		Order:           adyen.OrderData{OrderData: "order-blob"},
		RemainingAmount: adyen.Amount{Value: 4000, Currency: "EUR"},
	}
	data, _ := json.Marshal(continuation)
	basket.PartialPaymentData = string(data)

	state := mustParseState(t, `{"paymentMethod": {"type": "giftcard"}, "giftcardBalance": {"value": 1500, "currency": "EUR"}}`)
	req := buildStandard(t, basket, state)

	if req.Amount.Value != 1500 {
		t.Fatalf("giftcard amount must be capped at its balance: %+v", req.Amount)
	}
}

func TestBuildStandardPartialPaymentGiftcardCoversRemaining(t *testing.T) {
	basket := builderBasket()
	continuation := PartialPaymentOrder{
		Order:           adyen.OrderData{OrderData: "order-blob"},
		RemainingAmount: adyen.Amount{Value: 1000, Currency: "EUR"},
	}
	data, _ := json.Marshal(continuation)
	basket.PartialPaymentData = string(data)

	state := mustParseState(t, `{"paymentMethod": {"type": "giftcard"}, "giftcardBalance": {"value": 5000, "currency": "EUR"}}`)
	req := buildStandard(t, basket, state)

	if req.Amount.Value != 1000 {
		t.Fatalf("amount must never exceed the remaining balance: %+v", req.Amount)
	}
}

func TestBuildStripsEmptyOrder(t *testing.T) {
	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}, "order": {}}`)
	req := buildStandard(t, builderBasket(), state)

	if req.Order != nil {
		t.Fatalf("order without continuation data must be stripped: %+v", req.Order)
	}
}

func TestBuildStandardIgnoresUnreadablePartialData(t *testing.T) {
	basket := builderBasket()
	basket.PartialPaymentData = "{broken"

	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}}`)
	builder := NewPaymentRequestBuilder(builderConfig(), basket, state, RequestInfo{}, testLogger())
	req, err := builder.BuildStandard()
	if err != nil {
		t.Fatalf("build standard: %v", err)
	}
	if builder.PartialPayment() {
		t.Fatal("broken continuation data must not trigger the partial branch")
	}
	if req.Amount.Value != 10595 {
		t.Fatalf("amount must fall back to the basket total: %+v", req.Amount)
	}
}

func TestBuildStandardRiskData(t *testing.T) {
	state := mustParseState(t, `{"paymentMethod": {"type": "scheme"}}`)
	req := buildStandard(t, builderBasket(), state)

	if req.AdditionalData["riskdata.basket.item1.productTitle"] != "Sneaker" {
		t.Fatalf("unexpected risk data: %+v", req.AdditionalData)
	}
	if req.AdditionalData["riskdata.basket.item1.amountPerItem"] != "50" {
		t.Fatalf("unexpected per-item amount: %+v", req.AdditionalData)
	}
	if req.AdditionalData["riskdata.basket.item1.quantity"] != "2" {
		t.Fatalf("unexpected quantity: %+v", req.AdditionalData)
	}
	if req.AdditionalData["riskdata.basket.item1.currency"] != "EUR" {
		t.Fatalf("unexpected currency: %+v", req.AdditionalData)
	}
}
