package service

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/repo"
)

type DashboardStats struct {
	TotalSales    decimal.Decimal
	TotalOrders   int64
	PendingOrders int64
	TopProduct    *repo.TopProduct
}

type DashboardService struct {
	Repo *repo.GormRepo
}

// Stats runs the aggregate reads concurrently. They are independent reads and
// are not taken from a single snapshot.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.Repo.TotalSales(gctx)
		if err != nil {
			return dbErr("total sales", err)
		}
		st.TotalSales = v
		return nil
	})
	g.Go(func() error {
		n, err := s.Repo.CountOrders(gctx, "")
		if err != nil {
			return dbErr("count orders", err)
		}
		st.TotalOrders = n
		return nil
	})
	g.Go(func() error {
		n, err := s.Repo.CountOrders(gctx, models.OrderStatusPending)
		if err != nil {
			return dbErr("count pending orders", err)
		}
		st.PendingOrders = n
		return nil
	})
	g.Go(func() error {
		top, err := s.Repo.TopSellingProduct(gctx)
		if err != nil {
			return dbErr("top product", err)
		}
		st.TopProduct = top
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}
