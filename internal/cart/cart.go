// Package cart holds the per-session shopping cart and its totals.
package cart

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marlanuera/CA1-Code/internal/models"
)

// TaxRate is applied to the subtotal of every cart.
var TaxRate = decimal.RequireFromString("0.08")

type Line struct {
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
}

func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Cart keeps insertion order and at most one line per product.
type Cart struct {
	Lines []Line `json:"lines"`
}

func (c *Cart) find(productID uint) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddOrSet overwrites the quantity of an existing line or appends a snapshot of p.
func (c *Cart) AddOrSet(p models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.find(p.ID); i >= 0 {
		c.Lines[i].Quantity = quantity
		return
	}
	c.Lines = append(c.Lines, Line{
		ProductID:   p.ID,
		ProductName: p.ProductName,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		Category:    p.Category,
		Quantity:    quantity,
	})
}

// SetQuantity ignores unknown products and non-positive quantities.
func (c *Cart) SetQuantity(productID uint, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	i := c.find(productID)
	if i < 0 {
		return false
	}
	c.Lines[i].Quantity = quantity
	return true
}

func (c *Cart) Remove(productID uint) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Totals() Totals {
	subtotal := decimal.Zero
	for _, l := range c.Lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax).Round(2),
	}
}

// ParseQuantity falls back to 1 for missing, non-numeric or non-positive input.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseSetQuantity returns ok=false when the raw value cannot be applied to an existing line.
func ParseSetQuantity(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
