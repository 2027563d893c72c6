package mapper

import (
	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
	"github.com/vibast-solutions/ms-go-checkout/app/types"
)

// NormalizeResult maps a provider result code onto the storefront's
// normalized checkout response. Unknown codes are treated as final failures.
func NormalizeResult(result *adyen.PaymentsResponse) *types.CheckoutResponse {
	switch result.ResultCode {
	case adyen.ResultAuthorised:
		return &types.CheckoutResponse{
			IsFinal:           true,
			IsSuccessful:      boolPtr(true),
			MerchantReference: result.MerchantReference,
		}
	case adyen.ResultRefused, adyen.ResultError, adyen.ResultCancelled:
		return &types.CheckoutResponse{
			IsFinal:           true,
			IsSuccessful:      boolPtr(false),
			MerchantReference: result.MerchantReference,
		}
	case adyen.ResultRedirectShopper, adyen.ResultIdentifyShopper, adyen.ResultChallengeShopper,
		adyen.ResultPresentToShopper, adyen.ResultPending:
		return &types.CheckoutResponse{
			IsFinal: false,
			Action:  result.Action,
		}
	case adyen.ResultReceived:
		return &types.CheckoutResponse{IsFinal: false}
	default:
		return &types.CheckoutResponse{
			IsFinal:      true,
			IsSuccessful: boolPtr(false),
		}
	}
}

func boolPtr(v bool) *bool {
	return &v
}
