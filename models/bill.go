package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values for a bill. A new bill always starts PENDING.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
	StatusRefunded  = "REFUNDED"
)

// Bill represents a billing header for one customer.
type Bill struct {
	ID            int             `json:"id"`
	BillNumber    string          `json:"bill_number"`
	CustomerID    int             `json:"customer_id"`
	BillDate      string          `json:"bill_date"`
	UnitsBilled   decimal.Decimal `json:"units_billed"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []BillItem      `json:"items,omitempty"`
	// Computed fields
	CustomerName *string `json:"customer_name,omitempty"`
}

// NewBill constructs a bill header in the initial PENDING state.
func NewBill(customerID int, billDate string) Bill {
	return Bill{
		CustomerID:    customerID,
		BillDate:      billDate,
		PaymentStatus: StatusPending,
	}
}

// CalculateTotalAmount sums the total price of every line item. It returns
// zero for an empty collection and never mutates the stored TotalAmount;
// writing the recomputed value back is the caller's decision.
func (b *Bill) CalculateTotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, bi := range b.Items {
		total = total.Add(bi.TotalPrice)
	}
	return total
}

// CalculateTotalUnits sums the quantity of every line item as a decimal,
// zero for an empty collection.
func (b *Bill) CalculateTotalUnits() decimal.Decimal {
	total := decimal.Zero
	for _, bi := range b.Items {
		total = total.Add(decimal.NewFromInt(int64(bi.Quantity)))
	}
	return total
}

// ValidStatusTransition reports whether a bill may move from one payment
// status to another. CANCELLED and REFUNDED are terminal.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusCancelled
	case StatusPaid:
		return to == StatusRefunded
	}
	return false
}

// BillInput is used for creating bills. Line items are created together with
// the header so stock can be adjusted in the same transaction.
type BillInput struct {
	BillNumber string          `json:"bill_number"`
	CustomerID int             `json:"customer_id"`
	BillDate   string          `json:"bill_date"`
	Items      []BillItemInput `json:"items"`
}

func (b *BillInput) Validate() string {
	if len(b.BillNumber) > 20 {
		return "bill_number must be at most 20 characters"
	}
	if b.CustomerID <= 0 {
		return "customer_id is required"
	}
	if b.BillDate == "" {
		return "bill_date is required"
	}
	if len(b.Items) == 0 {
		return "at least one item is required"
	}
	for _, it := range b.Items {
		if msg := it.Validate(); msg != "" {
			return msg
		}
	}
	return ""
}

// BillStatusInput is used for moving a bill through its payment lifecycle.
type BillStatusInput struct {
	PaymentStatus string `json:"payment_status"`
}

func (b *BillStatusInput) Validate() string {
	switch b.PaymentStatus {
	case StatusPending, StatusPaid, StatusCancelled, StatusRefunded:
	default:
		return "payment_status must be one of: PENDING, PAID, CANCELLED, REFUNDED"
	}
	return ""
}
