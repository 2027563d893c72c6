package checkout

import "strings"

// Exact-match open-invoice method types.
var openInvoiceMethods = map[string]struct{}{
	"zip":      {},
	"affirm":   {},
	"clearpay": {},
}

// Provider families whose sub-variants (e.g. klarna_account, ratepay_directdebit)
// all require itemized invoice data.
var openInvoicePrefixes = []string{
	"afterpay",
	"klarna",
	"ratepay",
	"facilypay",
}

// Express methods submit before the basket's tax is final, so their line
// items go out with zero tax.
var expressMethods = map[string]struct{}{
	"paypal":    {},
	"applepay":  {},
	"amazonpay": {},
}

// IsOpenInvoiceMethod reports whether a payment method type requires
// line-level invoice data in the payment request.
func IsOpenInvoiceMethod(methodType string) bool {
	if methodType == "" {
		return false
	}
	if _, ok := openInvoiceMethods[methodType]; ok {
		return true
	}
	for _, prefix := range openInvoicePrefixes {
		if strings.Contains(methodType, prefix) {
			return true
		}
	}
	return false
}

func IsExpressMethod(methodType string) bool {
	_, ok := expressMethods[methodType]
	return ok
}
