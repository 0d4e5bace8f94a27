package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type dashboardData struct {
	TotalCustomers int `json:"total_customers"`
	TotalItems     int `json:"total_items"`
	TotalBills     int `json:"total_bills"`

	PendingBills  int             `json:"pending_bills"`
	PendingAmount decimal.Decimal `json:"pending_amount"` // sum of PENDING bill totals
	PaidAmount    decimal.Decimal `json:"paid_amount"`    // sum of PAID bill totals

	LowStockItems int `json:"low_stock_items"` // stock at or below 5

	RecentBills []map[string]any `json:"recent_bills"`
}

// GetDashboard retrieves dashboard summary statistics
// @Summary      Get dashboard
// @Description  Get totals for customers, items, and bills, plus low-stock and recent-bill summaries.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response{data=dashboardData}
// @Router       /dashboard [get]
// @Security     BasicAuth
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	var d dashboardData

	DB.QueryRow("SELECT COUNT(*) FROM customers").Scan(&d.TotalCustomers)
	DB.QueryRow("SELECT COUNT(*) FROM items").Scan(&d.TotalItems)
	DB.QueryRow("SELECT COUNT(*) FROM bills").Scan(&d.TotalBills)

	DB.QueryRow("SELECT COUNT(*) FROM bills WHERE payment_status = 'PENDING'").Scan(&d.PendingBills)
	d.PendingAmount = sumBillTotals("PENDING")
	d.PaidAmount = sumBillTotals("PAID")

	DB.QueryRow("SELECT COUNT(*) FROM items WHERE stock_quantity <= 5").Scan(&d.LowStockItems)

	// Recent 5 bills
	rows, err := DB.Query(`SELECT b.id, b.bill_number, b.total_amount, b.payment_status, b.bill_date, c.name
		FROM bills b JOIN customers c ON b.customer_id = c.id
		ORDER BY b.created_at DESC LIMIT 5`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var id int
			var number, amount, status, date, customer string
			rows.Scan(&id, &number, &amount, &status, &date, &customer)
			d.RecentBills = append(d.RecentBills, map[string]any{
				"id":             id,
				"bill_number":    number,
				"total_amount":   amount,
				"payment_status": status,
				"bill_date":      date,
				"customer_name":  customer,
			})
		}
	}
	if d.RecentBills == nil {
		d.RecentBills = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, d)
}

// sumBillTotals adds bill totals in decimal so the rollup stays exact.
func sumBillTotals(status string) decimal.Decimal {
	total := decimal.Zero
	rows, err := DB.Query("SELECT total_amount FROM bills WHERE payment_status = ?", status)
	if err != nil {
		return total
	}
	defer rows.Close()
	for rows.Next() {
		var amount decimal.Decimal
		if rows.Scan(&amount) == nil {
			total = total.Add(amount)
		}
	}
	return total
}
