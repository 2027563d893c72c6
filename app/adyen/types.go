package adyen

import "encoding/json"

const (
	ChannelWeb = "Web"

	ShopperInteractionEcommerce = "Ecommerce"
	ShopperInteractionContAuth  = "ContAuth"

	RecurringProcessingModelCardOnFile = "CardOnFile"
)

// Result codes returned by the /payments and /payments/details endpoints.
const (
	ResultAuthorised       = "Authorised"
	ResultRefused          = "Refused"
	ResultError            = "Error"
	ResultCancelled        = "Cancelled"
	ResultRedirectShopper  = "RedirectShopper"
	ResultIdentifyShopper  = "IdentifyShopper"
	ResultChallengeShopper = "ChallengeShopper"
	ResultPresentToShopper = "PresentToShopper"
	ResultPending          = "Pending"
	ResultReceived         = "Received"
)

// Amount is a monetary value in the currency's minor units.
type Amount struct {
	Value    int64  `json:"value"`
	Currency string `json:"currency"`
}

type Address struct {
	Street            string `json:"street"`
	HouseNumberOrName string `json:"houseNumberOrName"`
	City              string `json:"city"`
	PostalCode        string `json:"postalCode"`
	StateOrProvince   string `json:"stateOrProvince,omitempty"`
	Country           string `json:"country"`
}

type Name struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LineItem struct {
	ID                 string `json:"id"`
	Description        string `json:"description"`
	Quantity           int64  `json:"quantity"`
	AmountIncludingTax int64  `json:"amountIncludingTax"`
	AmountExcludingTax int64  `json:"amountExcludingTax"`
	TaxAmount          int64  `json:"taxAmount"`
	TaxPercentage      int64  `json:"taxPercentage"`
}

// OrderData is the continuation token for a multi-step (partial) payment.
// Adyen issues it on the first partial authorisation and expects it back on
// every following /payments call for the same order.
type OrderData struct {
	OrderData    string `json:"orderData,omitempty"`
	PspReference string `json:"pspReference,omitempty"`
}

// HasContinuationData reports whether the sub-object actually carries a
// continuation token. An order object without one must not be sent at all.
func (o *OrderData) HasContinuationData() bool {
	return o != nil && (o.OrderData != "" || o.PspReference != "")
}

type ApplicationInfo struct {
	MerchantApplication ApplicationInfoEntry `json:"merchantApplication"`
	ExternalPlatform    ApplicationInfoEntry `json:"externalPlatform"`
}

type ApplicationInfoEntry struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type AuthenticationData struct {
	ThreeDSRequestData ThreeDSRequestData `json:"threeDSRequestData"`
}

type ThreeDSRequestData struct {
	NativeThreeDS string `json:"nativeThreeDS"`
}

// PaymentRequest is the body of POST /payments. Optional fields carry
// omitempty so a stage that never ran leaves no trace on the wire.
type PaymentRequest struct {
	MerchantAccount string `json:"merchantAccount"`
	Reference       string `json:"reference"`
	Amount          Amount `json:"amount"`

	Channel   string `json:"channel,omitempty"`
	ReturnURL string `json:"returnUrl,omitempty"`
	Origin    string `json:"origin,omitempty"`

	ShopperReference string `json:"shopperReference,omitempty"`
	ShopperEmail     string `json:"shopperEmail,omitempty"`
	ShopperIP        string `json:"shopperIP,omitempty"`
	ShopperName      *Name  `json:"shopperName,omitempty"`
	TelephoneNumber  string `json:"telephoneNumber,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`

	BillingAddress  *Address `json:"billingAddress,omitempty"`
	DeliveryAddress *Address `json:"deliveryAddress,omitempty"`

	CountryCode string     `json:"countryCode,omitempty"`
	LineItems   []LineItem `json:"lineItems,omitempty"`

	PaymentMethod json.RawMessage `json:"paymentMethod,omitempty"`
	BrowserInfo   json.RawMessage `json:"browserInfo,omitempty"`
	Installments  json.RawMessage `json:"installments,omitempty"`

	StorePaymentMethod       bool   `json:"storePaymentMethod,omitempty"`
	RecurringProcessingModel string `json:"recurringProcessingModel,omitempty"`
	ShopperInteraction       string `json:"shopperInteraction,omitempty"`

	SocialSecurityNumber string `json:"socialSecurityNumber,omitempty"`

	ApplicationInfo    *ApplicationInfo    `json:"applicationInfo,omitempty"`
	AuthenticationData *AuthenticationData `json:"authenticationData,omitempty"`

	AdditionalData map[string]string `json:"additionalData,omitempty"`

	Order *OrderData `json:"order,omitempty"`
}

type PaymentMethodsRequest struct {
	MerchantAccount  string  `json:"merchantAccount"`
	ShopperReference string  `json:"shopperReference,omitempty"`
	ShopperLocale    string  `json:"shopperLocale,omitempty"`
	CountryCode      string  `json:"countryCode,omitempty"`
	Amount           *Amount `json:"amount,omitempty"`
	Channel          string  `json:"channel,omitempty"`
}

// PaymentMethodsResponse is passed through to the drop-in widget untouched.
type PaymentMethodsResponse struct {
	PaymentMethods       json.RawMessage `json:"paymentMethods"`
	StoredPaymentMethods json.RawMessage `json:"storedPaymentMethods,omitempty"`
}

type DetailsRequest struct {
	Details     json.RawMessage `json:"details,omitempty"`
	PaymentData string          `json:"paymentData,omitempty"`
}

type PaymentsResponse struct {
	ResultCode        string          `json:"resultCode"`
	PspReference      string          `json:"pspReference,omitempty"`
	MerchantReference string          `json:"merchantReference,omitempty"`
	RefusalReason     string          `json:"refusalReason,omitempty"`
	Action            json.RawMessage `json:"action,omitempty"`
	Order             *OrderData      `json:"order,omitempty"`
}

// NotificationEnvelope is the webhook payload: a list of wrapped items.
type NotificationEnvelope struct {
	Live              string                    `json:"live"`
	NotificationItems []NotificationItemWrapper `json:"notificationItems"`
}

type NotificationItemWrapper struct {
	NotificationRequestItem NotificationRequestItem `json:"NotificationRequestItem"`
}

type NotificationRequestItem struct {
	EventCode           string            `json:"eventCode"`
	EventDate           string            `json:"eventDate"`
	MerchantAccountCode string            `json:"merchantAccountCode"`
	MerchantReference   string            `json:"merchantReference"`
	OriginalReference   string            `json:"originalReference,omitempty"`
	PspReference        string            `json:"pspReference"`
	PaymentMethod       string            `json:"paymentMethod,omitempty"`
	Reason              string            `json:"reason,omitempty"`
	Success             string            `json:"success"`
	Amount              Amount            `json:"amount"`
	AdditionalData      map[string]string `json:"additionalData,omitempty"`
}
