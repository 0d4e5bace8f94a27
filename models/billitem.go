package models

import "github.com/shopspring/decimal"

// BillItem represents a single line on a bill: one item, a quantity, and the
// unit price captured at billing time (independent of the item's current price).
type BillItem struct {
	ID         int             `json:"id"`
	BillID     int             `json:"bill_id"`
	ItemID     int             `json:"item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	// Computed fields
	ItemCode *string `json:"item_code,omitempty"`
	ItemName *string `json:"item_name,omitempty"`
}

// NewBillItem constructs a line with its total price derived immediately.
func NewBillItem(billID, itemID, quantity int, unitPrice decimal.Decimal) BillItem {
	return BillItem{
		BillID:     billID,
		ItemID:     itemID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// SetQuantity updates the quantity, recomputing the total price when a unit
// price has already been set.
func (bi *BillItem) SetQuantity(quantity int) {
	bi.Quantity = quantity
	if !bi.UnitPrice.IsZero() {
		bi.TotalPrice = bi.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	}
}

// SetUnitPrice updates the unit price, recomputing the total price when a
// quantity has already been set.
func (bi *BillItem) SetUnitPrice(unitPrice decimal.Decimal) {
	bi.UnitPrice = unitPrice
	if bi.Quantity != 0 {
		bi.TotalPrice = unitPrice.Mul(decimal.NewFromInt(int64(bi.Quantity)))
	}
}

// CalculateTotalPrice recomputes the total from the current quantity and unit
// price. No-op while either field is still unset.
func (bi *BillItem) CalculateTotalPrice() {
	if bi.Quantity != 0 && !bi.UnitPrice.IsZero() {
		bi.TotalPrice = bi.UnitPrice.Mul(decimal.NewFromInt(int64(bi.Quantity)))
	}
}

// BillItemInput is one line of a bill creation request. UnitPrice may be
// omitted, in which case the item's current price is captured.
type BillItemInput struct {
	ItemID    int              `json:"item_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

func (bi *BillItemInput) Validate() string {
	if bi.ItemID <= 0 {
		return "item_id is required"
	}
	if bi.Quantity <= 0 {
		return "quantity must be positive"
	}
	if bi.UnitPrice != nil && !bi.UnitPrice.IsPositive() {
		return "unit_price must be positive"
	}
	return ""
}
