package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInsufficientStock is returned when a stock reduction would take an
// item's quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock available")

// Item represents a book or product in the inventory.
type Item struct {
	ID            int             `json:"id"`
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	Description   *string         `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	Category      *string         `json:"category"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HasSufficientStock reports whether the item can cover the requested quantity.
func (i *Item) HasSufficientStock(requested int) bool {
	return i.StockQuantity >= requested
}

// ReduceStock subtracts quantity from the item's stock. It fails without
// mutating when the reduction would leave stock negative.
func (i *Item) ReduceStock(quantity int) error {
	if quantity > i.StockQuantity {
		return ErrInsufficientStock
	}
	i.StockQuantity -= quantity
	return nil
}

// IncreaseStock adds quantity to the item's stock. Used for restocking and
// for reversing billed quantities on cancellation or refund.
func (i *Item) IncreaseStock(quantity int) {
	i.StockQuantity += quantity
}

// ItemInput is used for creating/updating items.
type ItemInput struct {
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	Description   *string         `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	Category      *string         `json:"category"`
}

func (i *ItemInput) Validate() string {
	if i.ItemCode == "" {
		return "item_code is required"
	}
	if len(i.ItemCode) > 20 {
		return "item_code must be at most 20 characters"
	}
	if i.ItemName == "" {
		return "item_name is required"
	}
	if len(i.ItemName) > 100 {
		return "item_name must be at most 100 characters"
	}
	if !i.UnitPrice.IsPositive() {
		return "unit_price must be positive"
	}
	if i.StockQuantity < 0 {
		return "stock_quantity must be non-negative"
	}
	if i.Category != nil && len(*i.Category) > 50 {
		return "category must be at most 50 characters"
	}
	return ""
}

// StockAdjustmentInput is used for restocking or reducing an item's stock.
type StockAdjustmentInput struct {
	Quantity  int    `json:"quantity"`
	Operation string `json:"operation"` // increase, reduce
}

func (s *StockAdjustmentInput) Validate() string {
	if s.Quantity <= 0 {
		return "quantity must be positive"
	}
	switch s.Operation {
	case "increase", "reduce":
	default:
		return "operation must be one of: increase, reduce"
	}
	return ""
}
