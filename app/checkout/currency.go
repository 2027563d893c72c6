package checkout

import (
	"fmt"
	"math"
)

// ErrInvalidCurrency must propagate to the caller: converting with a wrong
// decimal count would corrupt the charged amount.
type InvalidCurrencyError struct {
	Code string
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("invalid currency code %q", e.Code)
}

// currencyDecimals maps ISO 4217 codes to their minor-unit exponent.
var currencyDecimals = map[string]int{
	"AED": 2, "AUD": 2, "BRL": 2, "CAD": 2, "CHF": 2, "CNY": 2,
	"CZK": 2, "DKK": 2, "EUR": 2, "GBP": 2, "HKD": 2, "HUF": 2,
	"ILS": 2, "INR": 2, "MXN": 2, "MYR": 2, "NOK": 2, "NZD": 2,
	"PHP": 2, "PLN": 2, "RON": 2, "RUB": 2, "SAR": 2, "SEK": 2,
	"SGD": 2, "THB": 2, "TRY": 2, "TWD": 2, "USD": 2, "ZAR": 2,

	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "IDR": 0, "ISK": 0,
	"JPY": 0, "KMF": 0, "KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0,
	"VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,

	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// CurrencyDecimals returns the registered minor-unit exponent for a code.
func CurrencyDecimals(code string) (int, error) {
	decimals, ok := currencyDecimals[code]
	if !ok {
		return 0, &InvalidCurrencyError{Code: code}
	}
	return decimals, nil
}

// MinorUnits converts a major-unit decimal amount into the integer minor
// units the payment API requires.
func MinorUnits(amount float64, code string) (int64, error) {
	decimals, err := CurrencyDecimals(code)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(amount * math.Pow10(decimals))), nil
}
