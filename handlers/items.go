package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pahanaedu/bookshop/models"
)

const itemSelectQuery = `SELECT id, item_code, item_name, description, unit_price,
	stock_quantity, category, created_at, updated_at FROM items`

func scanItem(scanner interface{ Scan(...any) error }) (models.Item, error) {
	var i models.Item
	err := scanner.Scan(&i.ID, &i.ItemCode, &i.ItemName, &i.Description, &i.UnitPrice,
		&i.StockQuantity, &i.Category, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func getItemByID(id int) (models.Item, error) {
	return scanItem(DB.QueryRow(itemSelectQuery+" WHERE id = ?", id))
}

// ListItems lists all inventory items
// @Summary      List items
// @Description  Get a list of all inventory items with current stock levels.
// @Tags         items
// @Produce      json
// @Param        category   query     string  false  "Filter by category"
// @Param        search     query     string  false  "Search by code, name, or description"
// @Param        low_stock  query     int     false  "Only items with stock at or below this level"
// @Success      200        {object}  Response{data=[]models.Item}
// @Router       /items [get]
// @Security     BasicAuth
func ListItems(w http.ResponseWriter, r *http.Request) {
	query := itemSelectQuery
	var conditions []string
	var args []any

	if c := r.URL.Query().Get("category"); c != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, c)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(item_code LIKE ? OR item_name LIKE ? OR description LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s, s)
	}
	if ls := r.URL.Query().Get("low_stock"); ls != "" {
		conditions = append(conditions, "stock_quantity <= ?")
		args = append(args, ls)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY item_name"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		items = append(items, i)
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetItem retrieves a single item by ID
// @Summary      Get item
// @Description  Get details and stock level of a specific item.
// @Tags         items
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  Response{data=models.Item}
// @Failure      404  {object}  Response{error=string}
// @Router       /items/{id} [get]
// @Security     BasicAuth
func GetItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	i, err := getItemByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, i)
}

// CreateItem creates a new inventory item
// @Summary      Create item
// @Description  Add a new item to the inventory.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        item  body      models.ItemInput  true  "Item contents"
// @Success      201   {object}  Response{data=models.Item}
// @Failure      400   {object}  Response{error=string}
// @Router       /items [post]
// @Security     BasicAuth
func CreateItem(w http.ResponseWriter, r *http.Request) {
	var input models.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int
	err := DB.QueryRow(`INSERT INTO items (item_code, item_name, description, unit_price, stock_quantity, category)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		input.ItemCode, input.ItemName, input.Description, input.UnitPrice,
		input.StockQuantity, input.Category).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusConflict, "item_code already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	i, err := getItemByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created item: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, i)
}

// UpdateItem updates an existing item
// @Summary      Update item
// @Description  Update details of an existing inventory item. Stock is adjusted via the stock endpoint, not here.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Item ID"
// @Param        item  body      models.ItemInput  true  "Updated item contents"
// @Success      200   {object}  Response{data=models.Item}
// @Failure      400   {object}  Response{error=string}
// @Failure      404   {object}  Response{error=string}
// @Router       /items/{id} [put]
// @Security     BasicAuth
func UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE items SET item_code = ?, item_name = ?, description = ?,
		unit_price = ?, category = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.ItemCode, input.ItemName, input.Description, input.UnitPrice, input.Category, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	i, err := getItemByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated item: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, i)
}

// DeleteItem deletes an item
// @Summary      Delete item
// @Description  Remove an item from the inventory. Fails if the item appears on any bill.
// @Tags         items
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /items/{id} [delete]
// @Security     BasicAuth
func DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			writeError(w, http.StatusConflict, "item is referenced by existing bills")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// AdjustItemStock restocks or reduces an item's stock
// @Summary      Adjust item stock
// @Description  Increase or reduce an item's stock quantity. Reductions that would leave stock negative are rejected.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id          path      int                          true  "Item ID"
// @Param        adjustment  body      models.StockAdjustmentInput  true  "Adjustment contents"
// @Success      200         {object}  Response{data=models.Item}
// @Failure      400         {object}  Response{error=string}
// @Failure      404         {object}  Response{error=string}
// @Failure      409         {object}  Response{error=string}
// @Router       /items/{id}/stock [post]
// @Security     BasicAuth
func AdjustItemStock(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.StockAdjustmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := getItemByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if input.Operation == "increase" {
		if _, err := DB.Exec(`UPDATE items SET stock_quantity = stock_quantity + ?,
			updated_at = CURRENT_TIMESTAMP WHERE id = ?`, input.Quantity, id); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	} else {
		// Guarded in the WHERE clause so concurrent reductions cannot drive
		// stock below zero.
		res, err := DB.Exec(`UPDATE items SET stock_quantity = stock_quantity - ?,
			updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock_quantity >= ?`,
			input.Quantity, id, input.Quantity)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeError(w, http.StatusConflict, models.ErrInsufficientStock.Error())
			return
		}
	}

	i, err := getItemByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch adjusted item: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, i)
}
