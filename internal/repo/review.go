package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/marlanuera/CA1-Code/internal/models"
)

type ReviewView struct {
	ID          uint
	UserID      uint
	ProductID   uint
	Rating      int
	Comment     string
	CreatedAt   time.Time
	Username    string
	ProductName string
}

func (r *GormRepo) ListReviews(ctx context.Context) ([]ReviewView, error) {
	var out []ReviewView
	if err := r.DB.WithContext(ctx).
		Table("reviews AS r").
		Select("r.id, r.user_id, r.product_id, r.rating, r.comment, r.created_at, u.username, p.product_name").
		Joins("JOIN users AS u ON u.id = r.user_id").
		Joins("JOIN products AS p ON p.id = r.product_id").
		Order("r.created_at DESC, r.id DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
