package service

import (
	"context"

	"github.com/marlanuera/CA1-Code/internal/events"
	"github.com/marlanuera/CA1-Code/internal/repo"
)

type CustomerService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]repo.CustomerSummary, error) {
	out, err := s.Repo.ListCustomers(ctx)
	if err != nil {
		return nil, dbErr("list customers", err)
	}
	return out, nil
}

// DeleteCustomer removes the customer and everything they own atomically.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCustomer(ctx, id); err != nil {
		return notFoundOr("delete customer", err, ErrNotFound)
	}
	events.Emit(ctx, s.Events, events.TopicUser, events.New("user_deleted", idKey(id), map[string]any{"id": id}))
	return nil
}
