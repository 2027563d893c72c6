package checkout

import (
	"encoding/json"

	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
)

// allowedStateDataFields is the full set of client-supplied fields permitted
// to flow into a payment request. Anything else the drop-in (or anyone
// posing as it) sends is discarded before request assembly.
var allowedStateDataFields = map[string]struct{}{
	"paymentMethod":        {},
	"billingAddress":       {},
	"deliveryAddress":      {},
	"shopperName":          {},
	"shopperEmail":         {},
	"telephoneNumber":      {},
	"dateOfBirth":          {},
	"socialSecurityNumber": {},
	"countryCode":          {},
	"origin":               {},
	"browserInfo":          {},
	"installments":         {},
	"storePaymentMethod":   {},
	"order":                {},
	"giftcardBalance":      {},
}

// FilterStateData drops every field that is not explicitly whitelisted.
func FilterStateData(raw map[string]json.RawMessage) map[string]json.RawMessage {
	filtered := make(map[string]json.RawMessage, len(raw))
	for key, value := range raw {
		if _, ok := allowedStateDataFields[key]; ok {
			filtered[key] = value
		}
	}
	return filtered
}

// StateData is the parsed, filtered form of what the drop-in submitted.
type StateData struct {
	PaymentMethod        json.RawMessage  `json:"paymentMethod,omitempty"`
	BillingAddress       *adyen.Address   `json:"billingAddress,omitempty"`
	DeliveryAddress      *adyen.Address   `json:"deliveryAddress,omitempty"`
	ShopperName          *adyen.Name      `json:"shopperName,omitempty"`
	ShopperEmail         string           `json:"shopperEmail,omitempty"`
	TelephoneNumber      string           `json:"telephoneNumber,omitempty"`
	DateOfBirth          string           `json:"dateOfBirth,omitempty"`
	SocialSecurityNumber string           `json:"socialSecurityNumber,omitempty"`
	CountryCode          string           `json:"countryCode,omitempty"`
	Origin               string           `json:"origin,omitempty"`
	BrowserInfo          json.RawMessage  `json:"browserInfo,omitempty"`
	Installments         json.RawMessage  `json:"installments,omitempty"`
	StorePaymentMethod   bool             `json:"storePaymentMethod,omitempty"`
	Order                *adyen.OrderData `json:"order,omitempty"`
	GiftcardBalance      *adyen.Amount    `json:"giftcardBalance,omitempty"`
}

// ParseStateData filters the raw client payload and decodes the survivors.
func ParseStateData(raw []byte) (*StateData, error) {
	if len(raw) == 0 {
		return &StateData{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	filtered, err := json.Marshal(FilterStateData(fields))
	if err != nil {
		return nil, err
	}

	state := &StateData{}
	if err := json.Unmarshal(filtered, state); err != nil {
		return nil, err
	}
	return state, nil
}

// PaymentMethodType extracts the method type from the raw paymentMethod
// object. Empty when absent or unparseable.
func (s *StateData) PaymentMethodType() string {
	if s == nil || len(s.PaymentMethod) == 0 {
		return ""
	}
	var method struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(s.PaymentMethod, &method) != nil {
		return ""
	}
	return method.Type
}

// StoredPaymentMethodID extracts the saved-method identifier when the
// shopper is reusing a stored payment method.
func (s *StateData) StoredPaymentMethodID() string {
	if s == nil || len(s.PaymentMethod) == 0 {
		return ""
	}
	var method struct {
		StoredPaymentMethodID string `json:"storedPaymentMethodId"`
	}
	if json.Unmarshal(s.PaymentMethod, &method) != nil {
		return ""
	}
	return method.StoredPaymentMethodID
}
