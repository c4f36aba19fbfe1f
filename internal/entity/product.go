package entity

import "github.com/shopspring/decimal"

// Product is the stock-keeping aggregate. Stock never goes negative and is
// mutated only through DecreaseStock and IncreaseStock.
type Product struct {
	ID         int64           `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	GrossPrice decimal.Decimal `json:"gross_price"`
	Stock      int             `json:"stock"`
	MinStock   int             `json:"min_stock"`
	Active     bool            `json:"active"`
}

// DecreaseStock removes qty units from stock. It fails when qty exceeds the
// available stock, leaving the product unchanged.
func (p *Product) DecreaseStock(qty int) error {
	if p.Stock < qty {
		return &InsufficientStockError{
			Product:   p.Name,
			Available: p.Stock,
			Requested: qty,
		}
	}
	p.Stock -= qty
	return nil
}

// IncreaseStock adds qty units back to stock, unconditionally.
func (p *Product) IncreaseStock(qty int) {
	p.Stock += qty
}

// IsLowStock reports whether stock has dropped below the minimum threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock < p.MinStock
}
