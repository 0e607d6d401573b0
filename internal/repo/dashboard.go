package repo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/marlanuera/CA1-Code/internal/models"
)

type TopProduct struct {
	ProductID   uint
	ProductName string
	Units       int64
}

func (r *GormRepo) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total_amount)").
		Row().
		Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

// CountOrders counts all orders, or only those with status when it is non-empty.
func (r *GormRepo) CountOrders(ctx context.Context, status string) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// TopSellingProduct returns nil when nothing has been ordered yet. Sales are
// grouped by product id so a rename does not split them; the current name
// wins and a deleted product falls back to its recorded line name.
func (r *GormRepo) TopSellingProduct(ctx context.Context) (*TopProduct, error) {
	var rows []TopProduct
	if err := r.DB.WithContext(ctx).
		Table("orderitems AS oi").
		Select("oi.product_id, COALESCE(MAX(p.product_name), MAX(oi.product_name)) AS product_name, SUM(oi.quantity) AS units").
		Joins("LEFT JOIN products AS p ON p.id = oi.product_id").
		Group("oi.product_id").
		Order("units DESC, oi.product_id ASC").
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
