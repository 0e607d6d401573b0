package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	OrderStatusPending = "pending"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	ProductName string          `gorm:"not null"                     json:"productName"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"  json:"price"`
	Stock       int             `gorm:"not null;default:0"           json:"stock"`
	Image       string          `json:"image"`
	Category    string          `gorm:"index"                        json:"category"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"not null"                 json:"username"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Address      string `json:"address"`
	Contact      string `json:"contact"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type Order struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID      uint            `gorm:"index;not null"              json:"userId"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tax"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalAmount"`
	Status      string          `gorm:"not null;default:pending"    json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"          json:"items"`
}

type OrderItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID     uint            `gorm:"index;not null"              json:"orderId"`
	ProductID   uint            `gorm:"index;not null"              json:"productId"`
	ProductName string          `gorm:"not null"                    json:"productName"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
	Quantity    int             `gorm:"not null"                    json:"quantity"`
}

func (OrderItem) TableName() string { return "orderitems" }

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"userId"`
	ProductID uint      `gorm:"index;not null"           json:"productId"`
	Rating    int       `gorm:"not null"                 json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionRecord is the server-side copy of a visitor session.
type SessionRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Data      []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

func (SessionRecord) TableName() string { return "sessions" }

// All lists every table in migration order.
func All() []any {
	return []any{&Product{}, &User{}, &Order{}, &OrderItem{}, &Review{}, &SessionRecord{}}
}
