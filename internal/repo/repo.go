package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrOutOfStock = errors.New("not enough stock")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
