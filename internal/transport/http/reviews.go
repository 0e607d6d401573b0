package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/middleware/auth"
	"github.com/marlanuera/CA1-Code/internal/service"
	"github.com/marlanuera/CA1-Code/internal/session"
)

type ReviewHTTP struct {
	Reviews *service.ReviewService
	Catalog *service.CatalogService
}

func (h *ReviewHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.list")

	reviews, err := h.Reviews.ListReviews(ctx)
	if err != nil {
		l.Error("list_reviews_failed", "status", 500, "reason", "cannot list reviews", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}
	products, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		l.Error("list_reviews_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}
	return page(c, "reviews", "Reviews", echo.Map{"Reviews": reviews, "Products": products})
}

func (h *ReviewHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.add")

	_, err := h.Reviews.AddReview(ctx, userID(c), service.ReviewInput{
		ProductID: c.FormValue("productId"),
		Rating:    c.FormValue("rating"),
		Comment:   c.FormValue("comment"),
	})
	switch {
	case err == nil:
		return flashRedirect(c, session.FlashSuccess, "Thanks for your review!", "/reviews")
	case errors.Is(err, service.ErrValidation):
		l.Warn("add_review_failed", "status", 302, "reason", "invalid form", "error", err)
		return flashRedirect(c, session.FlashError, "Please pick a product and a rating from 1 to 5", "/reviews")
	case errors.Is(err, service.ErrProductNotFound):
		l.Warn("add_review_failed", "status", 302, "reason", "product not found", "error", err)
		return flashRedirect(c, session.FlashError, MsgProductNotFound, "/reviews")
	default:
		l.Error("add_review_failed", "status", 302, "reason", "cannot save review", "error", err)
		return flashRedirect(c, session.FlashError, MsgDatabaseError, "/reviews")
	}
}

func (h *ReviewHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.delete")

	if !session.Get(c).IsAdmin() {
		l.Warn("delete_review_failed", "status", 302, "reason", "not an admin", "user_id", userID(c), "error", service.ErrForbidden)
		return flashRedirect(c, session.FlashError, auth.MsgAccessDenied, "/reviews")
	}

	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Reviews.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_review_failed", "status", 302, "reason", "review not found", "error", err)
			return redirect(c, "/reviews")
		}
		l.Error("delete_review_failed", "status", 302, "reason", "cannot delete review", "error", err)
		return flashRedirect(c, session.FlashError, MsgDatabaseError, "/reviews")
	}
	return flashRedirect(c, session.FlashSuccess, "Review deleted", "/reviews")
}
