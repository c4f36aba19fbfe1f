package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_DecreaseStock(t *testing.T) {
	p := Product{Name: "Keyboard", Stock: 10}

	require.NoError(t, p.DecreaseStock(4))
	assert.Equal(t, 6, p.Stock)
}

func TestProduct_DecreaseStock_Insufficient(t *testing.T) {
	p := Product{Name: "Keyboard", Stock: 1}

	err := p.DecreaseStock(5)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Keyboard", stockErr.Product)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	// Stock untouched on failure.
	assert.Equal(t, 1, p.Stock)
}

func TestProduct_StockRoundTrip(t *testing.T) {
	p := Product{Name: "Mouse", Stock: 7}

	require.NoError(t, p.DecreaseStock(3))
	p.IncreaseStock(3)

	assert.Equal(t, 7, p.Stock)
}

func TestProduct_IsLowStock(t *testing.T) {
	p := Product{Stock: 2, MinStock: 5}
	assert.True(t, p.IsLowStock())

	p.Stock = 5
	assert.False(t, p.IsLowStock())
}
