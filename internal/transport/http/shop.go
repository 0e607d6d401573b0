package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marlanuera/CA1-Code/internal/cart"
	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/service"
	"github.com/marlanuera/CA1-Code/internal/session"
)

const (
	MsgProductNotFound = "Product not found"
	MsgOrderPlaced     = "Order placed successfully!"
	MsgCartEmpty       = "Your cart is empty"
	MsgOutOfStock      = "Some items are no longer in stock. Please review your cart."
	MsgCheckoutFailed  = "We could not place your order. Your cart has been kept."
)

type ShopHTTP struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Checkout *service.CheckoutService
}

func (h *ShopHTTP) Shopping(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.shopping")

	products, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		l.Error("list_products_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}
	return page(c, "shopping", "Shop", echo.Map{"Products": products})
}

func (h *ShopHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return redirect(c, "/shopping")
	}

	products, err := h.Catalog.SearchProducts(ctx, q)
	if err != nil {
		l.Error("search_failed", "status", 500, "reason", "search backend", "query", q, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search is unavailable")
	}
	return page(c, "shopping", "Search", echo.Map{"Products": products, "Query": q})
}

func (h *ShopHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.product")

	id, err := paramID(c)
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not a positive integer", "error", err)
		return err
	}

	p, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}
	return page(c, "product", p.ProductName, echo.Map{"Product": p})
}

func (h *ShopHTTP) ViewCart(c echo.Context) error {
	crt := session.Get(c).Cart()
	return page(c, "cart", "Your cart", echo.Map{"Cart": crt, "Totals": crt.Totals()})
}

func (h *ShopHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")
	sess := session.Get(c)

	id, err := paramID(c)
	if err != nil {
		l.Warn("add_to_cart_failed", "status", 302, "reason", "bad id", "error", err)
		return flashRedirect(c, session.FlashError, MsgProductNotFound, "/shopping")
	}

	qty := cart.ParseQuantity(c.FormValue("quantity"))
	if _, err := h.Cart.Add(ctx, sess.Cart(), userID(c), id, qty); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("add_to_cart_failed", "status", 302, "reason", "product not found", "product_id", id, "error", err)
			return flashRedirect(c, session.FlashError, MsgProductNotFound, "/shopping")
		}
		l.Error("add_to_cart_failed", "status", 302, "reason", "database", "error", err)
		return flashRedirect(c, session.FlashError, MsgDatabaseError, "/shopping")
	}
	return redirect(c, "/cart")
}

func (h *ShopHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c)
	if err != nil {
		return redirect(c, "/cart")
	}
	if qty, ok := cart.ParseSetQuantity(c.FormValue("quantity")); ok {
		h.Cart.SetQuantity(ctx, session.Get(c).Cart(), userID(c), id, qty)
	}
	return redirect(c, "/cart")
}

func (h *ShopHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c)
	if err != nil {
		return redirect(c, "/cart")
	}
	h.Cart.Remove(ctx, session.Get(c).Cart(), userID(c), id)
	return redirect(c, "/cart")
}

func (h *ShopHTTP) ClearCart(c echo.Context) error {
	h.Cart.Clear(c.Request().Context(), session.Get(c).Cart(), userID(c))
	return redirect(c, "/cart")
}

func (h *ShopHTTP) CheckoutForm(c echo.Context) error {
	crt := session.Get(c).Cart()
	return page(c, "checkout", "Checkout", echo.Map{"Cart": crt, "Totals": crt.Totals()})
}

func (h *ShopHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")
	sess := session.Get(c)

	order, err := h.Checkout.Checkout(ctx, sess.User().ID, sess.Cart())
	switch {
	case err == nil:
		l.Info("checkout_success", "order_id", order.ID, "total", order.TotalAmount.StringFixed(2))
		return flashRedirect(c, session.FlashSuccess, MsgOrderPlaced, "/shopping")
	case errors.Is(err, service.ErrEmptyCart):
		l.Warn("checkout_failed", "status", 302, "reason", "empty cart", "error", err)
		return flashRedirect(c, session.FlashError, MsgCartEmpty, "/cart")
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrProductNotFound):
		l.Warn("checkout_failed", "status", 302, "reason", "stock", "error", err)
		return flashRedirect(c, session.FlashError, MsgOutOfStock, "/cart")
	default:
		l.Error("checkout_failed", "status", 302, "reason", "cannot persist order", "error", err)
		return flashRedirect(c, session.FlashError, MsgCheckoutFailed, "/checkout")
	}
}
