package shop

import "github.com/shopspring/decimal"

// Tally accumulates line subtotals in decimal so that totals built from
// many float prices stay exact.
type Tally struct {
	items int
	total decimal.Decimal
}

// Add records quantity units at unitPrice and returns the line subtotal.
func (t *Tally) Add(unitPrice float64, quantity int) float64 {
	sub := Subtotal(unitPrice, quantity)
	t.items += quantity
	t.total = t.total.Add(sub)
	f, _ := sub.Float64()
	return f
}

// Items is the total quantity added so far.
func (t *Tally) Items() int { return t.items }

// Total is the sum of all subtotals.
func (t *Tally) Total() float64 {
	f, _ := t.total.Float64()
	return f
}

// Subtotal is unit price times quantity.
func Subtotal(unitPrice float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}
