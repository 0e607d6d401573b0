package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/repo"
)

const maxCommentLen = 1000

type ReviewInput struct {
	ProductID string
	Rating    string
	Comment   string
}

type ReviewService struct {
	Repo *repo.GormRepo
}

func (s *ReviewService) ListReviews(ctx context.Context) ([]repo.ReviewView, error) {
	out, err := s.Repo.ListReviews(ctx)
	if err != nil {
		return nil, dbErr("list reviews", err)
	}
	return out, nil
}

func (s *ReviewService) AddReview(ctx context.Context, userID uint, in ReviewInput) (*models.Review, error) {
	pid, err := strconv.ParseUint(strings.TrimSpace(in.ProductID), 10, 64)
	if err != nil || pid == 0 {
		return nil, fmt.Errorf("%w: product is required", ErrValidation)
	}
	rating, err := strconv.Atoi(strings.TrimSpace(in.Rating))
	if err != nil || rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) > maxCommentLen {
		return nil, fmt.Errorf("%w: comment too long", ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, uint(pid)); err != nil {
		return nil, notFoundOr("get product", err, ErrProductNotFound)
	}

	rv := &models.Review{UserID: userID, ProductID: uint(pid), Rating: rating, Comment: comment}
	if err := s.Repo.CreateReview(ctx, rv); err != nil {
		return nil, dbErr("create review", err)
	}
	return rv, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteReview(ctx, id); err != nil {
		return notFoundOr("delete review", err, ErrNotFound)
	}
	return nil
}
