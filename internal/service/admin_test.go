package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlanuera/CA1-Code/internal/cart"
	"github.com/marlanuera/CA1-Code/internal/models"
)

func TestDashboard_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dash := &DashboardService{Repo: env.Repo}

	st, err := dash.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, st.TotalSales.IsZero())
	assert.Nil(t, st.TopProduct)

	u := seedUser(t, env)
	a := seedProduct(t, env, "Cheese", "10.00", 50)
	b := seedProduct(t, env, "Crackers", "5.00", 50)
	checkout := &CheckoutService{Repo: env.Repo}

	var c cart.Cart
	c.AddOrSet(a, 2)
	c.AddOrSet(b, 3)
	_, err = checkout.Checkout(ctx, u.ID, &c)
	require.NoError(t, err)
	c.AddOrSet(b, 4)
	_, err = checkout.Checkout(ctx, u.ID, &c)
	require.NoError(t, err)

	st, err = dash.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "59.40", st.TotalSales.StringFixed(2))
	assert.Equal(t, int64(2), st.TotalOrders)
	assert.Equal(t, int64(2), st.PendingOrders)
	require.NotNil(t, st.TopProduct)
	assert.Equal(t, "Crackers", st.TopProduct.ProductName)
	assert.Equal(t, int64(7), st.TopProduct.Units)
}

func TestCustomers_ListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &CustomerService{Repo: env.Repo, Events: env.Events}

	u := seedUser(t, env)
	p := seedProduct(t, env, "Cheese", "10.00", 50)
	checkout := &CheckoutService{Repo: env.Repo}
	for i := 0; i < 2; i++ {
		c := cart.Cart{}
		c.AddOrSet(p, 1)
		_, err := checkout.Checkout(ctx, u.ID, &c)
		require.NoError(t, err)
	}

	list, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].TotalOrders)
	assert.Equal(t, "21.60", list[0].TotalSpent.StringFixed(2))

	require.NoError(t, svc.DeleteCustomer(ctx, u.ID))
	require.ErrorIs(t, svc.DeleteCustomer(ctx, u.ID), ErrNotFound)

	var items int64
	require.NoError(t, env.Repo.DB.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestReviews_AddValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &ReviewService{Repo: env.Repo}
	u := seedUser(t, env)
	p := seedProduct(t, env, "Cheese", "10.00", 50)

	tests := []struct {
		name    string
		in      ReviewInput
		wantErr error
	}{
		{name: "no product", in: ReviewInput{Rating: "3"}, wantErr: ErrValidation},
		{name: "rating too low", in: ReviewInput{ProductID: "1", Rating: "0"}, wantErr: ErrValidation},
		{name: "rating too high", in: ReviewInput{ProductID: "1", Rating: "6"}, wantErr: ErrValidation},
		{name: "unknown product", in: ReviewInput{ProductID: "999", Rating: "3"}, wantErr: ErrProductNotFound},
	}
	for _, tt := range tests {
		_, err := svc.AddReview(ctx, u.ID, tt.in)
		assert.ErrorIs(t, err, tt.wantErr, tt.name)
	}

	rv, err := svc.AddReview(ctx, u.ID, ReviewInput{ProductID: idKey(p.ID), Rating: "5", Comment: " lovely "})
	require.NoError(t, err)
	assert.Equal(t, "lovely", rv.Comment)

	list, err := svc.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "shopper", list[0].Username)

	require.NoError(t, svc.DeleteReview(ctx, rv.ID))
	require.ErrorIs(t, svc.DeleteReview(ctx, rv.ID), ErrNotFound)
}
