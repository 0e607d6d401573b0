package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/marlanuera/CA1-Code/internal/models"
)

// PlaceOrder decrements stock for every item and inserts the order with its
// items in one transaction. A missing product yields gorm.ErrRecordNotFound,
// a short one ErrOutOfStock; either way nothing is written.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				continue
			}

			var n int64
			if err := tx.Model(&models.Product{}).Where("id = ?", it.ProductID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("product %d: %w", it.ProductID, gorm.ErrRecordNotFound)
			}
			return fmt.Errorf("product %d: %w", it.ProductID, ErrOutOfStock)
		}

		return tx.Create(order).Error
	})
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
