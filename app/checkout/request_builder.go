package checkout

import (
	"encoding/json"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
	"github.com/vibast-solutions/ms-go-checkout/app/commerce"
)

const giftcardMethodType = "giftcard"

// BuilderConfig is the merchant-level context bound into every request.
type BuilderConfig struct {
	MerchantAccount    string
	ReturnURL          string
	ApplicationName    string
	ApplicationVersion string
}

// RequestInfo carries per-call context from the originating HTTP request.
type RequestInfo struct {
	CustomerID string
	RemoteIP   string
}

// PartialPaymentOrder is the continuation state a multi-step payment leaves
// on the basket: the provider order token plus the amount still owed.
type PartialPaymentOrder struct {
	Order           adyen.OrderData `json:"order"`
	RemainingAmount adyen.Amount    `json:"remainingAmount"`
}

// PaymentRequestBuilder assembles a provider payment request in staged,
// idempotent steps. Every stage either validates its field or omits it;
// only an unresolvable amount (unknown currency) fails the whole build.
type PaymentRequestBuilder struct {
	cfg    BuilderConfig
	basket *commerce.Basket
	state  *StateData
	info   RequestInfo
	log    logrus.FieldLogger

	req            adyen.PaymentRequest
	partialPayment bool
	err            error
}

func NewPaymentRequestBuilder(cfg BuilderConfig, basket *commerce.Basket, state *StateData, info RequestInfo, log logrus.FieldLogger) *PaymentRequestBuilder {
	if state == nil {
		state = &StateData{}
	}
	return &PaymentRequestBuilder{
		cfg:    cfg,
		basket: basket,
		state:  state,
		info:   info,
		log:    log,
	}
}

// BuildStandard runs the full standard chain in its documented order and
// finalizes the request. Billing address resolves before open-invoice data
// because the latter reads the resolved country code.
func (b *PaymentRequestBuilder) BuildStandard() (*adyen.PaymentRequest, error) {
	return b.
		WithStateData().
		WithBillingAddress(nil).
		WithDeliveryAddress(nil).
		WithReference("").
		WithMerchantAccount("").
		WithAmount(nil).
		WithApplicationInfo().
		WithAuthenticationData().
		WithChannel("").
		WithReturnURL("").
		WithShopperReference("").
		WithShopperEmail("").
		WithShopperIP("").
		WithShopperName(nil).
		WithOpenInvoiceData().
		WithExpressLineItems().
		WithRecurringData().
		WithRiskData().
		Build()
}

// WithStateData copies the whitelisted client-supplied fields into the
// request. Addresses and recurring flags have dedicated stages.
func (b *PaymentRequestBuilder) WithStateData() *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}

	b.req.PaymentMethod = b.state.PaymentMethod
	b.req.BrowserInfo = b.state.BrowserInfo
	b.req.Installments = b.state.Installments
	b.req.Origin = b.state.Origin
	b.req.TelephoneNumber = b.state.TelephoneNumber
	b.req.DateOfBirth = b.state.DateOfBirth
	b.req.SocialSecurityNumber = b.state.SocialSecurityNumber
	b.req.CountryCode = b.state.CountryCode
	if b.state.Order != nil {
		order := *b.state.Order
		b.req.Order = &order
	}
	return b
}

func (b *PaymentRequestBuilder) WithMerchantAccount(account string) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if account == "" {
		account = b.cfg.MerchantAccount
	}
	b.req.MerchantAccount = account
	return b
}

func (b *PaymentRequestBuilder) WithReference(reference string) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if reference == "" && b.basket != nil {
		reference = b.basket.OrderNo
	}
	b.req.Reference = reference
	return b
}

// WithAmount resolves the charge amount. For a partial payment the amount is
// the remaining balance (capped at the checked gift-card balance for
// gift-card methods); otherwise the full basket total in minor units. An
// unknown currency is a hard error carried through to Build.
func (b *PaymentRequestBuilder) WithAmount(amount *adyen.Amount) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if amount != nil {
		b.req.Amount = *amount
		return b
	}
	if b.basket == nil {
		return b
	}

	if continuation := b.partialPaymentOrder(); continuation != nil {
		order := continuation.Order
		b.req.Order = &order
		b.partialPayment = true

		resolved := continuation.RemainingAmount
		if b.state.PaymentMethodType() == giftcardMethodType && b.state.GiftcardBalance != nil &&
			b.state.GiftcardBalance.Value < resolved.Value {
			resolved = *b.state.GiftcardBalance
			resolved.Currency = continuation.RemainingAmount.Currency
		}
		b.req.Amount = resolved
		return b
	}

	value, err := MinorUnits(b.basket.OrderTotal, b.basket.Currency)
	if err != nil {
		b.err = err
		return b
	}
	b.req.Amount = adyen.Amount{Value: value, Currency: b.basket.Currency}
	return b
}

func (b *PaymentRequestBuilder) WithBillingAddress(address *adyen.Address) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if address == nil {
		address = b.resolveAddress(b.state.BillingAddress, b.basketBillingAddress())
	}
	b.req.BillingAddress = b.validatedAddress(address, "billingAddress")
	return b
}

func (b *PaymentRequestBuilder) WithDeliveryAddress(address *adyen.Address) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if address == nil {
		address = b.resolveAddress(b.state.DeliveryAddress, b.basketShippingAddress())
	}
	b.req.DeliveryAddress = b.validatedAddress(address, "deliveryAddress")
	return b
}

func (b *PaymentRequestBuilder) WithChannel(channel string) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if channel == "" {
		channel = adyen.ChannelWeb
	}
	b.req.Channel = channel
	return b
}

func (b *PaymentRequestBuilder) WithReturnURL(returnURL string) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if returnURL == "" {
		returnURL = b.cfg.ReturnURL
	}
	b.req.ReturnURL = returnURL
	return b
}

func (b *PaymentRequestBuilder) WithShopperReference(reference string) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if reference == "" {
		reference = b.info.CustomerID
	}
	if reference == "" && b.basket != nil {
		reference = b.basket.CustomerInfo.CustomerID
	}
	b.req.ShopperReference = reference
	return b
}

func (b *PaymentRequestBuilder) WithShopperEmail(email string) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if email == "" {
		email = b.state.ShopperEmail
	}
	if email == "" && b.basket != nil {
		email = b.basket.CustomerInfo.Email
	}
	b.req.ShopperEmail = email
	return b
}

func (b *PaymentRequestBuilder) WithShopperIP(ip string) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if ip == "" {
		ip = b.info.RemoteIP
	}
	b.req.ShopperIP = ip
	return b
}

func (b *PaymentRequestBuilder) WithShopperName(name *adyen.Name) *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if name == nil {
		name = b.state.ShopperName
	}
	if name == nil {
		if billing := b.basketBillingAddress(); billing != nil && (billing.FirstName != "" || billing.LastName != "") {
			name = &adyen.Name{FirstName: billing.FirstName, LastName: billing.LastName}
		}
	}
	b.req.ShopperName = name
	return b
}

func (b *PaymentRequestBuilder) WithApplicationInfo() *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	b.req.ApplicationInfo = &adyen.ApplicationInfo{
		MerchantApplication: adyen.ApplicationInfoEntry{
			Name:    b.cfg.ApplicationName,
			Version: b.cfg.ApplicationVersion,
		},
		ExternalPlatform: adyen.ApplicationInfoEntry{
			Name: "commerce-storefront",
		},
	}
	return b
}

func (b *PaymentRequestBuilder) WithAuthenticationData() *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	b.req.AuthenticationData = &adyen.AuthenticationData{
		ThreeDSRequestData: adyen.ThreeDSRequestData{NativeThreeDS: "preferred"},
	}
	return b
}

// WithOpenInvoiceData attaches line items and the billing country for
// open-invoice methods. Must run after WithBillingAddress, which it reads.
func (b *PaymentRequestBuilder) WithOpenInvoiceData() *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if !IsOpenInvoiceMethod(b.state.PaymentMethodType()) || b.basket == nil {
		return b
	}

	items, err := LineItems(b.basket)
	if err != nil {
		b.err = err
		return b
	}
	b.req.LineItems = items
	if b.req.BillingAddress != nil {
		b.req.CountryCode = b.req.BillingAddress.Country
	}
	return b
}

// WithExpressLineItems attaches zero-tax line items for express methods,
// where the basket's tax is not final at submit time.
func (b *PaymentRequestBuilder) WithExpressLineItems() *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}
	if !IsExpressMethod(b.state.PaymentMethodType()) || b.basket == nil {
		return b
	}

	items, err := ZeroTaxLineItems(b.basket)
	if err != nil {
		b.err = err
		return b
	}
	b.req.LineItems = items
	return b
}

// WithRecurringData sets the stored-payment flags. Storing and reusing are
// independent conditions; reusing a stored method also means the shopper is
// not present, so it takes precedence for the interaction field.
func (b *PaymentRequestBuilder) WithRecurringData() *PaymentRequestBuilder {
	if b.err != nil {
		return b
	}

	b.req.ShopperInteraction = adyen.ShopperInteractionEcommerce

	if b.state.StorePaymentMethod {
		b.req.StorePaymentMethod = true
		b.req.RecurringProcessingModel = adyen.RecurringProcessingModelCardOnFile
	}
	if b.state.StoredPaymentMethodID() != "" {
		b.req.RecurringProcessingModel = adyen.RecurringProcessingModelCardOnFile
		b.req.ShopperInteraction = adyen.ShopperInteractionContAuth
	}
	return b
}

// WithRiskData attaches per-line-item risk fields.
func (b *PaymentRequestBuilder) WithRiskData() *PaymentRequestBuilder {
	if b.err != nil || b.basket == nil || len(b.basket.ProductItems) == 0 {
		return b
	}

	data := make(map[string]string, len(b.basket.ProductItems)*4)
	for i, product := range b.basket.ProductItems {
		prefix := riskItemPrefix(i + 1)
		data[prefix+".productTitle"] = product.ProductName
		data[prefix+".amountPerItem"] = formatAmount(product.BasePrice)
		data[prefix+".quantity"] = formatQuantity(product.Quantity)
		data[prefix+".currency"] = b.basket.Currency
	}
	b.req.AdditionalData = data
	return b
}

// Build finalizes the request. An order sub-object without continuation
// data is stripped so an empty shell is never sent.
func (b *PaymentRequestBuilder) Build() (*adyen.PaymentRequest, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.req.Order.HasContinuationData() {
		b.req.Order = nil
	}
	req := b.req
	return &req, nil
}

// PartialPayment reports whether the amount stage took the partial-payment
// branch.
func (b *PaymentRequestBuilder) PartialPayment() bool {
	return b.partialPayment
}

func (b *PaymentRequestBuilder) partialPaymentOrder() *PartialPaymentOrder {
	if b.basket == nil || b.basket.PartialPaymentData == "" {
		return nil
	}
	var continuation PartialPaymentOrder
	if err := json.Unmarshal([]byte(b.basket.PartialPaymentData), &continuation); err != nil {
		b.log.WithError(err).Warn("Ignoring unreadable partial payment data on basket")
		return nil
	}
	if !continuation.Order.HasContinuationData() {
		return nil
	}
	return &continuation
}

func (b *PaymentRequestBuilder) resolveAddress(fromState *adyen.Address, fromBasket *commerce.OrderAddress) *adyen.Address {
	if fromState != nil {
		return fromState
	}
	return FormatAddress(fromBasket)
}

// validatedAddress returns the address only when complete. A partial
// address is dropped entirely and the omission logged with the missing
// field names; the request may still be legitimately submittable without it.
func (b *PaymentRequestBuilder) validatedAddress(address *adyen.Address, field string) *adyen.Address {
	if address == nil {
		return nil
	}
	if missing := MissingAddressFields(address); len(missing) > 0 {
		b.log.WithFields(logrus.Fields{
			"field":   field,
			"missing": missing,
		}).Warn("Omitting incomplete address from payment request")
		return nil
	}
	return address
}

func (b *PaymentRequestBuilder) basketBillingAddress() *commerce.OrderAddress {
	if b.basket == nil {
		return nil
	}
	return b.basket.BillingAddress
}

func (b *PaymentRequestBuilder) basketShippingAddress() *commerce.OrderAddress {
	if b.basket == nil || len(b.basket.Shipments) == 0 {
		return nil
	}
	return b.basket.Shipments[0].ShippingAddress
}

func riskItemPrefix(n int) string {
	return "riskdata.basket.item" + strconv.Itoa(n)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatQuantity(v int64) string {
	return strconv.FormatInt(v, 10)
}
