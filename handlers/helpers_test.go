package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pahanaedu/bookshop/db"
	"github.com/stretchr/testify/require"
)

// setupTestDB points the shared handler DB at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	database.SetMaxOpenConns(1)
	_, err = database.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	DB = database
	t.Cleanup(func() { database.Close() })
}

func testRouter() http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/customers", ListCustomers)
		r.Post("/customers", CreateCustomer)
		r.Get("/customers/{id}", GetCustomer)
		r.Put("/customers/{id}", UpdateCustomer)
		r.Delete("/customers/{id}", DeleteCustomer)
		r.Get("/customers/{id}/bills", GetCustomerBills)

		r.Get("/items", ListItems)
		r.Post("/items", CreateItem)
		r.Get("/items/{id}", GetItem)
		r.Put("/items/{id}", UpdateItem)
		r.Delete("/items/{id}", DeleteItem)
		r.Post("/items/{id}/stock", AdjustItemStock)

		r.Get("/bills", ListBills)
		r.Post("/bills", CreateBill)
		r.Get("/bills/{id}", GetBill)
		r.Delete("/bills/{id}", DeleteBill)
		r.Put("/bills/{id}/status", UpdateBillStatus)
		r.Get("/bills/{id}/items", GetBillLineItems)

		r.Get("/dashboard", GetDashboard)
	})
	return r
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// doRequest runs one request through the test router and decodes the envelope.
func doRequest(t *testing.T, router http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
