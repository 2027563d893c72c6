package checkout

import (
	"math"

	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
	"github.com/vibast-solutions/ms-go-checkout/app/commerce"
)

// LineItems maps basket products, shipping and promotions into the
// provider's per-item invoice line format, tax included. Used by
// open-invoice payment methods.
func LineItems(basket *commerce.Basket) ([]adyen.LineItem, error) {
	return buildLineItems(basket, true)
}

// ZeroTaxLineItems builds the same lines with all tax fields zeroed, for
// express flows where tax is not known at submit time.
func ZeroTaxLineItems(basket *commerce.Basket) ([]adyen.LineItem, error) {
	return buildLineItems(basket, false)
}

func buildLineItems(basket *commerce.Basket, withTax bool) ([]adyen.LineItem, error) {
	if basket == nil {
		return nil, nil
	}
	currency := basket.Currency

	items := make([]adyen.LineItem, 0, len(basket.ProductItems)+len(basket.ShippingItems)+len(basket.OrderPriceAdjustments))

	for _, product := range basket.ProductItems {
		quantity := product.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		item, err := buildLineItem(
			product.ItemID,
			product.ProductName,
			quantity,
			product.Price/float64(quantity),
			product.Tax/float64(quantity),
			product.TaxRate,
			currency,
			withTax,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	for _, shipping := range basket.ShippingItems {
		item, err := buildLineItem(shipping.ItemID, shipping.ItemText, 1, shipping.Price, shipping.Tax, shipping.TaxRate, currency, withTax)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	// Promotions come in as negative-priced lines.
	for _, adjustment := range basket.OrderPriceAdjustments {
		item, err := buildLineItem(adjustment.PriceAdjustmentID, adjustment.ItemText, 1, adjustment.Price, adjustment.Tax, adjustment.TaxRate, currency, withTax)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func buildLineItem(id, description string, quantity int64, unitPrice, unitTax, taxRate float64, currency string, withTax bool) (adyen.LineItem, error) {
	excludingTax, err := MinorUnits(unitPrice, currency)
	if err != nil {
		return adyen.LineItem{}, err
	}

	item := adyen.LineItem{
		ID:                 id,
		Description:        description,
		Quantity:           quantity,
		AmountExcludingTax: excludingTax,
		AmountIncludingTax: excludingTax,
	}

	if withTax {
		taxAmount, err := MinorUnits(unitTax, currency)
		if err != nil {
			return adyen.LineItem{}, err
		}
		item.TaxAmount = taxAmount
		item.AmountIncludingTax = excludingTax + taxAmount
		item.TaxPercentage = int64(math.Round(taxRate * 10000))
	}

	return item, nil
}
