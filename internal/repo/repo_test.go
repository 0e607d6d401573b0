package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedProduct(t *testing.T, r *GormRepo, name, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{ProductName: name, Price: dec(price), Stock: stock, Category: "grocery"}
	require.NoError(t, r.CreateProduct(context.Background(), &p))
	return p
}

func seedUser(t *testing.T, r *GormRepo, name, role string) models.User {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash", Role: role}
	require.NoError(t, r.CreateUser(context.Background(), &u))
	return u
}

func seedOrder(t *testing.T, r *GormRepo, userID uint, p models.Product, qty int, total string) models.Order {
	t.Helper()
	o := models.Order{
		UserID:      userID,
		Subtotal:    dec(total),
		Tax:         decimal.Zero,
		TotalAmount: dec(total),
		Status:      models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: p.ID, ProductName: p.ProductName, UnitPrice: p.Price, Quantity: qty},
		},
	}
	require.NoError(t, r.PlaceOrder(context.Background(), &o))
	return o
}

func TestPlaceOrder_DecrementsStock(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	ctx := context.Background()
	u := seedUser(t, r, "bob", models.RoleUser)
	p := seedProduct(t, r, "Milk", "2.00", 5)

	o := seedOrder(t, r, u.ID, p, 3, "6.00")
	assert.NotZero(t, o.ID)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	orders, err := r.ListOrdersByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 3, orders[0].Items[0].Quantity)
}

func TestPlaceOrder_OutOfStockWritesNothing(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	ctx := context.Background()
	u := seedUser(t, r, "bob", models.RoleUser)
	a := seedProduct(t, r, "Bread", "1.50", 10)
	b := seedProduct(t, r, "Eggs", "3.00", 1)

	o := models.Order{
		UserID: u.ID, Subtotal: dec("9.00"), Tax: dec("0.72"), TotalAmount: dec("9.72"),
		Items: []models.OrderItem{
			{ProductID: a.ID, ProductName: a.ProductName, UnitPrice: a.Price, Quantity: 2},
			{ProductID: b.ID, ProductName: b.ProductName, UnitPrice: b.Price, Quantity: 2},
		},
	}
	err := r.PlaceOrder(ctx, &o)
	require.ErrorIs(t, err, ErrOutOfStock)

	got, err := r.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock, "first decrement rolled back")

	n, err := r.CountOrders(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlaceOrder_MissingProduct(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	u := seedUser(t, r, "bob", models.RoleUser)

	o := models.Order{
		UserID: u.ID,
		Items:  []models.OrderItem{{ProductID: 404, ProductName: "ghost", UnitPrice: dec("1.00"), Quantity: 1}},
	}
	err := r.PlaceOrder(context.Background(), &o)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDashboardQueries(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	ctx := context.Background()

	total, err := r.TotalSales(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	top, err := r.TopSellingProduct(ctx)
	require.NoError(t, err)
	assert.Nil(t, top)

	u := seedUser(t, r, "carol", models.RoleUser)
	milk := seedProduct(t, r, "Milk", "2.00", 50)
	tea := seedProduct(t, r, "Tea", "4.00", 50)
	seedOrder(t, r, u.ID, milk, 2, "4.32")
	seedOrder(t, r, u.ID, tea, 5, "21.60")
	seedOrder(t, r, u.ID, milk, 1, "2.16")

	total, err = r.TotalSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, "28.08", total.StringFixed(2))

	n, err := r.CountOrders(ctx, models.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	top, err = r.TopSellingProduct(ctx)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, "Tea", top.ProductName)
	assert.Equal(t, int64(5), top.Units)
}

func TestListCustomers(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	ctx := context.Background()

	zed := seedUser(t, r, "zed", models.RoleUser)
	seedUser(t, r, "amy", models.RoleUser)
	seedUser(t, r, "root", models.RoleAdmin)
	p := seedProduct(t, r, "Rice", "5.00", 10)
	seedOrder(t, r, zed.ID, p, 1, "5.40")
	seedOrder(t, r, zed.ID, p, 2, "10.80")

	got, err := r.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "amy", got[0].Username)
	assert.Equal(t, int64(0), got[0].TotalOrders)
	assert.Equal(t, "zed", got[1].Username)
	assert.Equal(t, int64(2), got[1].TotalOrders)
	assert.Equal(t, "16.20", got[1].TotalSpent.StringFixed(2))
}

func TestDeleteCustomer_RemovesEverything(t *testing.T) {
	db := testutil.InitTestDB(t)
	r := New(db)
	ctx := context.Background()

	u := seedUser(t, r, "dave", models.RoleUser)
	p := seedProduct(t, r, "Jam", "3.00", 10)
	seedOrder(t, r, u.ID, p, 1, "3.24")
	seedOrder(t, r, u.ID, p, 2, "6.48")
	require.NoError(t, r.CreateReview(ctx, &models.Review{UserID: u.ID, ProductID: p.ID, Rating: 4}))

	require.NoError(t, r.DeleteCustomer(ctx, u.ID))

	var orders, items, reviews int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&models.Review{}).Count(&reviews).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, reviews)

	_, err := r.GetUser(ctx, u.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteCustomer_RollsBackWhenOrdersStepFails(t *testing.T) {
	db := testutil.InitTestDB(t)
	r := New(db)
	ctx := context.Background()

	u := seedUser(t, r, "erin", models.RoleUser)
	p := seedProduct(t, r, "Oil", "7.00", 10)
	seedOrder(t, r, u.ID, p, 1, "7.56")
	seedOrder(t, r, u.ID, p, 1, "7.56")

	failOrders := errors.New("orders delete failed")
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:fail_orders", func(tx *gorm.DB) {
		if tx.Statement.Table == "orders" {
			_ = tx.AddError(failOrders)
		}
	}))

	err := r.DeleteCustomer(ctx, u.ID)
	require.ErrorIs(t, err, failOrders)

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(2), orders)
	assert.Equal(t, int64(2), items, "order items must survive the rollback")

	_, err = r.GetUser(ctx, u.ID)
	require.NoError(t, err)
}

func TestDeleteCustomer_NotFoundAndAdminProtected(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	ctx := context.Background()

	require.ErrorIs(t, r.DeleteCustomer(ctx, 999), gorm.ErrRecordNotFound)

	admin := seedUser(t, r, "boss", models.RoleAdmin)
	require.ErrorIs(t, r.DeleteCustomer(ctx, admin.ID), gorm.ErrRecordNotFound)
}

func TestReviews(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	ctx := context.Background()

	u := seedUser(t, r, "fay", models.RoleUser)
	p := seedProduct(t, r, "Honey", "8.00", 3)
	first := models.Review{UserID: u.ID, ProductID: p.ID, Rating: 5, Comment: "great"}
	require.NoError(t, r.CreateReview(ctx, &first))
	second := models.Review{UserID: u.ID, ProductID: p.ID, Rating: 2, Comment: "meh"}
	require.NoError(t, r.CreateReview(ctx, &second))

	got, err := r.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fay", got[0].Username)
	assert.Equal(t, "Honey", got[0].ProductName)

	require.NoError(t, r.DeleteReview(ctx, first.ID))
	require.ErrorIs(t, r.DeleteReview(ctx, first.ID), gorm.ErrRecordNotFound)
}

func TestDeleteProduct_RemovesReviews(t *testing.T) {
	db := testutil.InitTestDB(t)
	r := New(db)
	ctx := context.Background()

	u := seedUser(t, r, "gus", models.RoleUser)
	p := seedProduct(t, r, "Salt", "0.50", 3)
	require.NoError(t, r.CreateReview(ctx, &models.Review{UserID: u.ID, ProductID: p.ID, Rating: 3}))

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	require.ErrorIs(t, r.DeleteProduct(ctx, p.ID), gorm.ErrRecordNotFound)

	var n int64
	require.NoError(t, db.Model(&models.Review{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSearchProducts(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	seedProduct(t, r, "Green Apples", "1.00", 3)
	seedProduct(t, r, "Bananas", "1.00", 3)

	got, err := r.SearchProducts(context.Background(), "apple", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Green Apples", got[0].ProductName)
}

func TestSearchProducts_WildcardsMatchLiterally(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	ctx := context.Background()
	seedProduct(t, r, "Green Apples", "1.00", 3)
	seedProduct(t, r, "Cola 50% Less Sugar", "1.00", 3)
	seedProduct(t, r, "Rice_Cakes", "1.00", 3)
	seedProduct(t, r, "Rice Bran", "1.00", 3)

	got, err := r.SearchProducts(ctx, "%", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cola 50% Less Sugar", got[0].ProductName)

	got, err = r.SearchProducts(ctx, "e_c", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rice_Cakes", got[0].ProductName)

	got, err = r.SearchProducts(ctx, `\`, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTopSellingProduct_SurvivesRename(t *testing.T) {
	r := New(testutil.InitTestDB(t))
	ctx := context.Background()

	u := seedUser(t, r, "frank", models.RoleUser)
	milk := seedProduct(t, r, "Milk", "2.00", 50)
	bread := seedProduct(t, r, "Bread", "1.50", 50)
	seedOrder(t, r, u.ID, milk, 3, "6.48")

	milk.ProductName = "Whole Milk"
	require.NoError(t, r.UpdateProduct(ctx, &milk))
	seedOrder(t, r, u.ID, milk, 3, "6.48")
	seedOrder(t, r, u.ID, bread, 5, "8.10")

	top, err := r.TopSellingProduct(ctx)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, milk.ID, top.ProductID)
	assert.Equal(t, "Whole Milk", top.ProductName)
	assert.Equal(t, int64(6), top.Units)

	require.NoError(t, r.DeleteProduct(ctx, milk.ID))
	top, err = r.TopSellingProduct(ctx)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, milk.ID, top.ProductID)
	assert.Equal(t, "Whole Milk", top.ProductName)
}
