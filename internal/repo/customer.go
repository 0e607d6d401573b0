package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marlanuera/CA1-Code/internal/models"
)

type CustomerSummary struct {
	ID          uint
	Username    string
	Email       string
	Address     string
	Contact     string
	TotalOrders int64
	TotalSpent  decimal.Decimal
}

func (r *GormRepo) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	var out []CustomerSummary
	if err := r.DB.WithContext(ctx).
		Table("users AS u").
		Select(`u.id, u.username, u.email, u.address, u.contact,
			COUNT(o.id) AS total_orders,
			COALESCE(SUM(o.total_amount), 0) AS total_spent`).
		Joins("LEFT JOIN orders AS o ON o.user_id = u.id").
		Where("u.role = ?", models.RoleUser).
		Group("u.id, u.username, u.email, u.address, u.contact").
		Order("u.username ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCustomer removes the user's order items, orders, reviews and the user
// row. Any failure rolls back every step.
func (r *GormRepo) DeleteCustomer(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("user_id = ?", userID).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}

		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return err
		}

		res := tx.Where("role = ?", models.RoleUser).Delete(&models.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
