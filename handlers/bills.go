package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pahanaedu/bookshop/models"
	"github.com/shopspring/decimal"
)

const billSelectQuery = `SELECT b.id, b.bill_number, b.customer_id, b.bill_date, b.units_billed,
		b.total_amount, b.payment_status, b.created_at, c.name
		FROM bills b
		JOIN customers c ON b.customer_id = c.id`

func scanBill(scanner interface{ Scan(...any) error }) (models.Bill, error) {
	var b models.Bill
	err := scanner.Scan(&b.ID, &b.BillNumber, &b.CustomerID, &b.BillDate, &b.UnitsBilled,
		&b.TotalAmount, &b.PaymentStatus, &b.CreatedAt, &b.CustomerName)
	return b, err
}

func getBillByID(id int) (models.Bill, error) {
	return scanBill(DB.QueryRow(billSelectQuery+" WHERE b.id = ?", id))
}

func getBillItems(billID int) ([]models.BillItem, error) {
	rows, err := DB.Query(`SELECT bi.id, bi.bill_id, bi.item_id, bi.quantity, bi.unit_price, bi.total_price,
		i.item_code, i.item_name
		FROM bill_items bi
		JOIN items i ON bi.item_id = i.id
		WHERE bi.bill_id = ? ORDER BY bi.id`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.BillItem{}
	for rows.Next() {
		var bi models.BillItem
		if err := rows.Scan(&bi.ID, &bi.BillID, &bi.ItemID, &bi.Quantity, &bi.UnitPrice,
			&bi.TotalPrice, &bi.ItemCode, &bi.ItemName); err != nil {
			return nil, err
		}
		items = append(items, bi)
	}
	return items, rows.Err()
}

// ListBills lists all bills
// @Summary      List bills
// @Description  Get a list of all bills with payment status and totals.
// @Tags         bills
// @Produce      json
// @Param        customer_id  query     int     false  "Filter by customer"
// @Param        status       query     string  false  "Filter by payment status"
// @Param        from         query     string  false  "Bills dated on or after (YYYY-MM-DD)"
// @Param        to           query     string  false  "Bills dated on or before (YYYY-MM-DD)"
// @Param        search       query     string  false  "Search by bill number or customer name"
// @Success      200          {object}  Response{data=[]models.Bill}
// @Router       /bills [get]
// @Security     BasicAuth
func ListBills(w http.ResponseWriter, r *http.Request) {
	query := billSelectQuery
	var conditions []string
	var args []any

	if s := r.URL.Query().Get("status"); s != "" {
		conditions = append(conditions, "b.payment_status = ?")
		args = append(args, s)
	}
	if cid := r.URL.Query().Get("customer_id"); cid != "" {
		conditions = append(conditions, "b.customer_id = ?")
		args = append(args, cid)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "b.bill_date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "b.bill_date <= ?")
		args = append(args, to)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(b.bill_number LIKE ? OR c.name LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY b.created_at DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		bills = append(bills, b)
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

// GetBill retrieves a single bill by ID
// @Summary      Get bill
// @Description  Get a bill with its line items.
// @Tags         bills
// @Produce      json
// @Param        id   path      int  true  "Bill ID"
// @Success      200  {object}  Response{data=models.Bill}
// @Failure      404  {object}  Response{error=string}
// @Router       /bills/{id} [get]
// @Security     BasicAuth
func GetBill(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	b, err := getBillByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "bill not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	if b.Items, err = getBillItems(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateBill creates a bill with its line items
// @Summary      Create bill
// @Description  Create a bill with line items in one transaction. Stock is reduced per line; the whole bill is rejected if any line lacks stock. Omitted unit prices capture the item's current price.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        bill  body      models.BillInput  true  "Bill contents"
// @Success      201   {object}  Response{data=models.Bill}
// @Failure      400   {object}  Response{error=string}
// @Failure      404   {object}  Response{error=string}
// @Failure      409   {object}  Response{error=string}
// @Router       /bills [post]
// @Security     BasicAuth
func CreateBill(w http.ResponseWriter, r *http.Request) {
	var input models.BillInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	billNumber := input.BillNumber
	if billNumber == "" {
		// Same auto-numbering scheme as transfers: short unique suffix.
		billNumber = "BILL-" + strings.ToUpper(uuid.NewString()[:8])
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	var unitsConsumed decimal.Decimal
	err = tx.QueryRow("SELECT units_consumed FROM customers WHERE id = ?", input.CustomerID).Scan(&unitsConsumed)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Build every line and reduce stock before touching the bills table, so
	// a failed line aborts the whole bill.
	bill := models.NewBill(input.CustomerID, input.BillDate)
	for _, line := range input.Items {
		var item models.Item
		err := tx.QueryRow("SELECT id, item_code, stock_quantity, unit_price FROM items WHERE id = ?",
			line.ItemID).Scan(&item.ID, &item.ItemCode, &item.StockQuantity, &item.UnitPrice)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item "+strconv.Itoa(line.ItemID)+" not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if err := item.ReduceStock(line.Quantity); err != nil {
			writeError(w, http.StatusConflict, err.Error()+": "+item.ItemCode)
			return
		}
		res, err := tx.Exec(`UPDATE items SET stock_quantity = stock_quantity - ?,
			updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock_quantity >= ?`,
			line.Quantity, line.ItemID, line.Quantity)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeError(w, http.StatusConflict, models.ErrInsufficientStock.Error()+": "+item.ItemCode)
			return
		}

		price := item.UnitPrice
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		bill.Items = append(bill.Items, models.NewBillItem(0, line.ItemID, line.Quantity, price))
	}

	bill.TotalAmount = bill.CalculateTotalAmount()
	bill.UnitsBilled = bill.CalculateTotalUnits()

	var billID int
	err = tx.QueryRow(`INSERT INTO bills (bill_number, customer_id, bill_date, units_billed, total_amount, payment_status)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		billNumber, input.CustomerID, input.BillDate, bill.UnitsBilled, bill.TotalAmount,
		bill.PaymentStatus).Scan(&billID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusConflict, "bill_number already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, bi := range bill.Items {
		if _, err := tx.Exec(`INSERT INTO bill_items (bill_id, item_id, quantity, unit_price, total_price)
			VALUES (?, ?, ?, ?, ?)`,
			billID, bi.ItemID, bi.Quantity, bi.UnitPrice, bi.TotalPrice); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	customer := models.Customer{UnitsConsumed: unitsConsumed}
	customer.AddUnitsConsumed(bill.UnitsBilled)
	if _, err := tx.Exec(`UPDATE customers SET units_consumed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		customer.UnitsConsumed, input.CustomerID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	b, err := getBillByID(billID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created bill: "+err.Error())
		return
	}
	if b.Items, err = getBillItems(billID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// UpdateBillStatus moves a bill through its payment lifecycle
// @Summary      Update bill status
// @Description  Move a bill to a new payment status. PENDING may become PAID or CANCELLED; PAID may become REFUNDED. Cancellation and refund restore item stock and customer units.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id      path      int                     true  "Bill ID"
// @Param        status  body      models.BillStatusInput  true  "Target status"
// @Success      200     {object}  Response{data=models.Bill}
// @Failure      400     {object}  Response{error=string}
// @Failure      404     {object}  Response{error=string}
// @Failure      409     {object}  Response{error=string}
// @Router       /bills/{id}/status [put]
// @Security     BasicAuth
func UpdateBillStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.BillStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	var current string
	var customerID int
	var unitsBilled decimal.Decimal
	err = tx.QueryRow("SELECT payment_status, customer_id, units_billed FROM bills WHERE id = ?", id).
		Scan(&current, &customerID, &unitsBilled)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !models.ValidStatusTransition(current, input.PaymentStatus) {
		writeError(w, http.StatusConflict, "cannot move bill from "+current+" to "+input.PaymentStatus)
		return
	}

	// Cancellation and refund reverse the billing: stock goes back on the
	// shelf and the customer's consumption counter is rolled back.
	if input.PaymentStatus == models.StatusCancelled || input.PaymentStatus == models.StatusRefunded {
		rows, err := tx.Query("SELECT item_id, quantity FROM bill_items WHERE bill_id = ?", id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		type restock struct{ itemID, quantity int }
		var restocks []restock
		for rows.Next() {
			var rs restock
			if err := rows.Scan(&rs.itemID, &rs.quantity); err != nil {
				rows.Close()
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			restocks = append(restocks, rs)
		}
		rows.Close()

		for _, rs := range restocks {
			if _, err := tx.Exec(`UPDATE items SET stock_quantity = stock_quantity + ?,
				updated_at = CURRENT_TIMESTAMP WHERE id = ?`, rs.quantity, rs.itemID); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		var unitsConsumed decimal.Decimal
		if err := tx.QueryRow("SELECT units_consumed FROM customers WHERE id = ?", customerID).
			Scan(&unitsConsumed); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		customer := models.Customer{UnitsConsumed: unitsConsumed}
		customer.SubtractUnitsConsumed(unitsBilled)
		if _, err := tx.Exec(`UPDATE customers SET units_consumed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			customer.UnitsConsumed, customerID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if _, err := tx.Exec("UPDATE bills SET payment_status = ? WHERE id = ?",
		input.PaymentStatus, id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	b, err := getBillByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated bill: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteBill deletes a bill
// @Summary      Delete bill
// @Description  Remove a bill and its line items. Does not adjust stock; cancel the bill first if stock should be restored.
// @Tags         bills
// @Produce      json
// @Param        id   path      int  true  "Bill ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /bills/{id} [delete]
// @Security     BasicAuth
func DeleteBill(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// GetBillLineItems retrieves a bill's line items
// @Summary      Get bill line items
// @Description  Get all line items on a specific bill.
// @Tags         bills
// @Produce      json
// @Param        id   path      int  true  "Bill ID"
// @Success      200  {object}  Response{data=[]models.BillItem}
// @Router       /bills/{id}/items [get]
// @Security     BasicAuth
func GetBillLineItems(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	items, err := getBillItems(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}
