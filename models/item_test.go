package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasSufficientStock(t *testing.T) {
	i := Item{StockQuantity: 10}
	assert.True(t, i.HasSufficientStock(5))
	assert.True(t, i.HasSufficientStock(10), "requested == stock is sufficient")
	assert.True(t, i.HasSufficientStock(0))
	assert.False(t, i.HasSufficientStock(11))
}

func TestReduceStock(t *testing.T) {
	i := Item{StockQuantity: 10}
	require.NoError(t, i.ReduceStock(4))
	assert.Equal(t, 6, i.StockQuantity)

	// Reducing to exactly zero is allowed
	require.NoError(t, i.ReduceStock(6))
	assert.Equal(t, 0, i.StockQuantity)
}

func TestReduceStockInsufficient(t *testing.T) {
	i := Item{StockQuantity: 3}
	err := i.ReduceStock(4)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, i.StockQuantity, "failed reduction must not mutate stock")
}

func TestIncreaseStock(t *testing.T) {
	i := Item{StockQuantity: 2}
	i.IncreaseStock(5)
	assert.Equal(t, 7, i.StockQuantity)
	i.IncreaseStock(0)
	assert.Equal(t, 7, i.StockQuantity)
}

func TestItemInputValidate(t *testing.T) {
	valid := ItemInput{ItemCode: "BK-001", ItemName: "The Go Programming Language", UnitPrice: dec("45.00"), StockQuantity: 10}
	assert.Empty(t, valid.Validate())

	missingCode := valid
	missingCode.ItemCode = ""
	assert.NotEmpty(t, missingCode.Validate())

	longCode := valid
	longCode.ItemCode = "BK-0000000000000000001"
	assert.NotEmpty(t, longCode.Validate())

	freeItem := valid
	freeItem.UnitPrice = dec("0")
	assert.NotEmpty(t, freeItem.Validate())

	negativeStock := valid
	negativeStock.StockQuantity = -1
	assert.NotEmpty(t, negativeStock.Validate())
}

func TestStockAdjustmentInputValidate(t *testing.T) {
	assert.Empty(t, (&StockAdjustmentInput{Quantity: 5, Operation: "increase"}).Validate())
	assert.Empty(t, (&StockAdjustmentInput{Quantity: 5, Operation: "reduce"}).Validate())
	assert.NotEmpty(t, (&StockAdjustmentInput{Quantity: 0, Operation: "increase"}).Validate())
	assert.NotEmpty(t, (&StockAdjustmentInput{Quantity: 5, Operation: "restock"}).Validate())
}
