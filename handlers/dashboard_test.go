package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pahanaedu/bookshop/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	customer := createTestCustomer(t, router)
	book := createTestItem(t, router, "BK-001", "10.00", 3) // low stock after billing
	createTestItem(t, router, "BK-002", "12.00", 50)

	status, env := doRequest(t, router, http.MethodPost, "/api/v1/bills", models.BillInput{
		CustomerID: customer.ID,
		BillDate:   "2026-08-30",
		Items:      []models.BillItemInput{{ItemID: book.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = doRequest(t, router, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, status)

	var d struct {
		TotalCustomers int             `json:"total_customers"`
		TotalItems     int             `json:"total_items"`
		TotalBills     int             `json:"total_bills"`
		PendingBills   int             `json:"pending_bills"`
		PendingAmount  decimal.Decimal `json:"pending_amount"`
		LowStockItems  int             `json:"low_stock_items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &d))

	assert.Equal(t, 1, d.TotalCustomers)
	assert.Equal(t, 2, d.TotalItems)
	assert.Equal(t, 1, d.TotalBills)
	assert.Equal(t, 1, d.PendingBills)
	assert.Equal(t, 1, d.LowStockItems)
	assert.True(t, d.PendingAmount.Equal(dec("20.00")), "got %s", d.PendingAmount)
}
