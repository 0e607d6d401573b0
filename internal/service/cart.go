package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/marlanuera/CA1-Code/internal/cart"
	"github.com/marlanuera/CA1-Code/internal/events"
	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/repo"
)

// CartService applies cart operations to the cart it is handed; it never
// reaches into a session itself.
type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CartService) emit(ctx context.Context, userID uint, typ string, payload map[string]any) {
	if userID == 0 {
		return
	}
	events.Emit(ctx, s.Events, events.TopicCart, events.New(typ, idKey(userID), payload))
}

// Add looks the product up and overwrites or appends its line.
func (s *CartService) Add(ctx context.Context, c *cart.Cart, userID, productID uint, quantity int) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, notFoundOr("get product", err, ErrProductNotFound)
	}
	c.AddOrSet(*p, quantity)
	s.emit(ctx, userID, "cart_item_set", map[string]any{"product_id": productID, "quantity": quantity})
	return p, nil
}

func (s *CartService) SetQuantity(ctx context.Context, c *cart.Cart, userID, productID uint, quantity int) bool {
	ok := c.SetQuantity(productID, quantity)
	if ok {
		s.emit(ctx, userID, "cart_item_set", map[string]any{"product_id": productID, "quantity": quantity})
	}
	return ok
}

func (s *CartService) Remove(ctx context.Context, c *cart.Cart, userID, productID uint) bool {
	ok := c.Remove(productID)
	if ok {
		s.emit(ctx, userID, "cart_item_removed", map[string]any{"product_id": productID})
	}
	return ok
}

func (s *CartService) Clear(ctx context.Context, c *cart.Cart, userID uint) {
	c.Clear()
	s.emit(ctx, userID, "cart_cleared", nil)
}

type CheckoutService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// Checkout persists the order and only then clears c. On any error c is
// left as it was.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, c *cart.Cart) (*models.Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := c.Totals()
	order := &models.Order{
		UserID:      userID,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		TotalAmount: totals.Total,
		Status:      models.OrderStatusPending,
		Items:       make([]models.OrderItem, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.Price,
			Quantity:    l.Quantity,
		})
	}

	if err := s.Repo.PlaceOrder(ctx, order); err != nil {
		switch {
		case errors.Is(err, repo.ErrOutOfStock):
			return nil, fmt.Errorf("%w: %w", ErrInsufficientStock, err)
		default:
			return nil, notFoundOr("place order", err, ErrProductNotFound)
		}
	}

	c.Clear()

	events.Emit(ctx, s.Events, events.TopicOrder, events.New("order_placed", idKey(order.ID), map[string]any{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.TotalAmount.StringFixed(2),
		"items":    len(order.Items),
	}))
	return order, nil
}
