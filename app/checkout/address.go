package checkout

import (
	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
	"github.com/vibast-solutions/ms-go-checkout/app/commerce"
)

// FormatAddress maps a commerce-platform address onto the provider's shape.
// Missing fields become empty strings; validity is judged separately.
func FormatAddress(address *commerce.OrderAddress) *adyen.Address {
	if address == nil {
		return nil
	}
	return &adyen.Address{
		Street:            address.Address1,
		HouseNumberOrName: address.Address2,
		City:              address.City,
		PostalCode:        address.PostalCode,
		StateOrProvince:   address.StateCode,
		Country:           address.CountryCode,
	}
}

// MissingAddressFields returns the names of required fields that are empty.
// An address is only submittable when this returns an empty slice; a partial
// address is dropped entirely rather than sent malformed.
func MissingAddressFields(address *adyen.Address) []string {
	if address == nil {
		return []string{"street", "city", "postalCode", "country"}
	}

	var missing []string
	if address.Street == "" {
		missing = append(missing, "street")
	}
	if address.City == "" {
		missing = append(missing, "city")
	}
	if address.PostalCode == "" {
		missing = append(missing, "postalCode")
	}
	if address.Country == "" {
		missing = append(missing, "country")
	}
	return missing
}
