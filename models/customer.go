package models

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a bookshop account holder.
type Customer struct {
	ID              int             `json:"id"`
	AccountNumber   string          `json:"account_number"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	TelephoneNumber string          `json:"telephone_number"`
	UnitsConsumed   decimal.Decimal `json:"units_consumed"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	// Computed fields
	BillCount int `json:"bill_count,omitempty"`
}

// AddUnitsConsumed increases the customer's accumulated consumption.
func (c *Customer) AddUnitsConsumed(units decimal.Decimal) {
	c.UnitsConsumed = c.UnitsConsumed.Add(units)
}

// SubtractUnitsConsumed decreases accumulated consumption, clamped at zero
// so a reversal can never drive the counter negative.
func (c *Customer) SubtractUnitsConsumed(units decimal.Decimal) {
	c.UnitsConsumed = c.UnitsConsumed.Sub(units)
	if c.UnitsConsumed.IsNegative() {
		c.UnitsConsumed = decimal.Zero
	}
}

// Sri Lankan phone format: +94 followed by 9 or 10 digits.
var phonePattern = regexp.MustCompile(`^\+94[0-9]{9,10}$`)

// CustomerInput is used for creating/updating customers.
type CustomerInput struct {
	AccountNumber   string `json:"account_number"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	TelephoneNumber string `json:"telephone_number"`
}

func (c *CustomerInput) Validate() string {
	if c.AccountNumber == "" {
		return "account_number is required"
	}
	if len(c.AccountNumber) > 20 {
		return "account_number must be at most 20 characters"
	}
	if c.Name == "" {
		return "name is required"
	}
	if len(c.Name) > 100 {
		return "name must be at most 100 characters"
	}
	if c.Address == "" {
		return "address is required"
	}
	if c.TelephoneNumber == "" {
		return "telephone_number is required"
	}
	if len(c.TelephoneNumber) > 20 || !phonePattern.MatchString(c.TelephoneNumber) {
		return "telephone_number must be a valid Sri Lankan number (+94XXXXXXXXX)"
	}
	return ""
}
