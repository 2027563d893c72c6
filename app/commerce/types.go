package commerce

// Shapes mirror the commerce platform's shop and data API payloads. Only the
// fields this service reads are mapped; everything else passes through the
// platform untouched.

// Order status dimensions. Each one is updated independently.
const (
	OrderStatusCreated   = "created"
	OrderStatusNew       = "new"
	OrderStatusFailed    = "failed"
	OrderStatusCompleted = "completed"

	ConfirmationStatusConfirmed    = "confirmed"
	ConfirmationStatusNotConfirmed = "not_confirmed"

	PaymentStatusPaid    = "paid"
	PaymentStatusNotPaid = "not_paid"

	ExportStatusReady       = "ready"
	ExportStatusNotExported = "not_exported"
)

type CustomerInfo struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
}

type OrderAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	StateCode   string `json:"state_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

type ProductItem struct {
	ItemID      string  `json:"item_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	BasePrice   float64 `json:"base_price"`
	Price       float64 `json:"price"`
	Tax         float64 `json:"tax"`
	TaxRate     float64 `json:"tax_rate"`
}

type ShippingItem struct {
	ItemID   string  `json:"item_id"`
	ItemText string  `json:"item_text"`
	Price    float64 `json:"price"`
	Tax      float64 `json:"tax"`
	TaxRate  float64 `json:"tax_rate"`
}

type PriceAdjustment struct {
	PriceAdjustmentID string  `json:"price_adjustment_id"`
	ItemText          string  `json:"item_text"`
	Price             float64 `json:"price"`
	Tax               float64 `json:"tax"`
	TaxRate           float64 `json:"tax_rate"`
}

type Shipment struct {
	ShipmentID      string        `json:"shipment_id"`
	ShippingAddress *OrderAddress `json:"shipping_address"`
}

type PaymentInstrument struct {
	PaymentInstrumentID string  `json:"payment_instrument_id"`
	PaymentMethodID     string  `json:"payment_method_id"`
	Amount              float64 `json:"amount"`
}

type Basket struct {
	BasketID              string              `json:"basket_id"`
	Currency              string              `json:"currency"`
	OrderTotal            float64             `json:"order_total"`
	ProductTotal          float64             `json:"product_total"`
	ProductItems          []ProductItem       `json:"product_items"`
	ShippingItems         []ShippingItem      `json:"shipping_items"`
	OrderPriceAdjustments []PriceAdjustment   `json:"order_price_adjustments"`
	BillingAddress        *OrderAddress       `json:"billing_address"`
	Shipments             []Shipment          `json:"shipments"`
	PaymentInstruments    []PaymentInstrument `json:"payment_instruments"`
	CustomerInfo          CustomerInfo        `json:"customer_info"`

	// Custom attributes written by the storefront ahead of payment.
	OrderNo            string `json:"c_orderNo"`
	PartialPaymentData string `json:"c_adyenPartialPaymentData"`
}

type Order struct {
	OrderNo            string              `json:"order_no"`
	Currency           string              `json:"currency"`
	OrderTotal         float64             `json:"order_total"`
	CustomerInfo       CustomerInfo        `json:"customer_info"`
	BillingAddress     *OrderAddress       `json:"billing_address"`
	Shipments          []Shipment          `json:"shipments"`
	PaymentInstruments []PaymentInstrument `json:"payment_instruments"`

	Status             string `json:"status"`
	PaymentStatus      string `json:"payment_status"`
	ExportStatus       string `json:"export_status"`
	ConfirmationStatus string `json:"confirmation_status"`
}

type BasketPaymentInstrumentRequest struct {
	Amount          float64           `json:"amount"`
	PaymentMethodID string            `json:"payment_method_id"`
	PaymentCard     map[string]string `json:"payment_card,omitempty"`
}
