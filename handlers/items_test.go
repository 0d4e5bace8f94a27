package handlers

import (
	"net/http"
	"testing"

	"github.com/pahanaedu/bookshop/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemValidation(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	status, env := doRequest(t, router, http.MethodPost, "/api/v1/items", models.ItemInput{
		ItemCode: "BK-001", ItemName: "Clean Code", UnitPrice: dec("0"), StockQuantity: 5,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "unit_price")
}

func TestDuplicateItemCodeConflicts(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	createTestItem(t, router, "BK-001", "10.00", 5)
	status, env := doRequest(t, router, http.MethodPost, "/api/v1/items", models.ItemInput{
		ItemCode: "BK-001", ItemName: "Another Book", UnitPrice: dec("12.00"),
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, env.Error, "item_code")
}

func TestAdjustItemStock(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	item := createTestItem(t, router, "BK-001", "10.00", 5)
	path := "/api/v1/items/" + itoa(item.ID) + "/stock"

	status, env := doRequest(t, router, http.MethodPost, path,
		models.StockAdjustmentInput{Quantity: 7, Operation: "increase"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, 12, decode[models.Item](t, env.Data).StockQuantity)

	status, env = doRequest(t, router, http.MethodPost, path,
		models.StockAdjustmentInput{Quantity: 12, Operation: "reduce"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, 0, decode[models.Item](t, env.Data).StockQuantity)
}

func TestReduceStockBelowZeroRejected(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	item := createTestItem(t, router, "BK-001", "10.00", 3)

	status, env := doRequest(t, router, http.MethodPost, "/api/v1/items/"+itoa(item.ID)+"/stock",
		models.StockAdjustmentInput{Quantity: 4, Operation: "reduce"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, env.Error, "insufficient stock")

	assert.Equal(t, 3, fetchItem(t, router, item.ID).StockQuantity, "failed reduction leaves stock unchanged")
}

func TestAdjustStockUnknownItem(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	status, _ := doRequest(t, router, http.MethodPost, "/api/v1/items/99/stock",
		models.StockAdjustmentInput{Quantity: 1, Operation: "increase"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteBilledItemRejected(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	customer := createTestCustomer(t, router)
	item := createTestItem(t, router, "BK-001", "10.00", 5)

	status, env := doRequest(t, router, http.MethodPost, "/api/v1/bills", models.BillInput{
		CustomerID: customer.ID,
		BillDate:   "2026-08-30",
		Items:      []models.BillItemInput{{ItemID: item.ID, Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = doRequest(t, router, http.MethodDelete, "/api/v1/items/"+itoa(item.ID), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, env.Error, "referenced")
}

func TestListItemsFilters(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	createTestItem(t, router, "BK-001", "10.00", 2)
	createTestItem(t, router, "BK-002", "12.00", 50)

	status, env := doRequest(t, router, http.MethodGet, "/api/v1/items?low_stock=5", nil)
	require.Equal(t, http.StatusOK, status)
	items := decode[[]models.Item](t, env.Data)
	require.Len(t, items, 1)
	assert.Equal(t, "BK-001", items[0].ItemCode)

	status, env = doRequest(t, router, http.MethodGet, "/api/v1/items?search=BK-002", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Item](t, env.Data), 1)
}
