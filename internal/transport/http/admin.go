package httpserver

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marlanuera/CA1-Code/internal/export"
	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/service"
	"github.com/marlanuera/CA1-Code/internal/session"
)

type AdminHTTP struct {
	Catalog   *service.CatalogService
	Dashboard *service.DashboardService
	Customers *service.CustomerService
}

func (h *AdminHTTP) Inventory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.inventory")

	pageNo, _ := strconv.Atoi(c.QueryParam("page"))
	products, pg, err := h.Catalog.ListProductsPage(ctx, pageNo)
	if err != nil {
		l.Error("inventory_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}
	stats, err := h.Dashboard.Stats(ctx)
	if err != nil {
		l.Error("inventory_failed", "status", 500, "reason", "dashboard queries", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Dashboard error")
	}
	return page(c, "inventory", "Inventory", echo.Map{"Products": products, "Page": pg, "Stats": stats})
}

func (h *AdminHTTP) ExportInventory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.export")

	products, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		l.Error("export_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}

	var buf bytes.Buffer
	if err := export.WriteInventory(&buf, products); err != nil {
		l.Error("export_failed", "status", 500, "reason", "cannot build workbook", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventory.xlsx"`)
	l.Info("export_success", "products", len(products))
	return c.Blob(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

func formImage(c echo.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	return fh, nil
}

func productInput(c echo.Context) service.ProductInput {
	return service.ProductInput{
		ProductName: c.FormValue("productName"),
		Price:       c.FormValue("price"),
		Stock:       c.FormValue("stock"),
		Category:    c.FormValue("category"),
	}
}

func (h *AdminHTTP) AddProductForm(c echo.Context) error {
	return page(c, "product_form", "Add product", echo.Map{"Action": "/addProduct"})
}

func (h *AdminHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.add_product")

	image, err := formImage(c)
	if err != nil {
		l.Warn("create_product_failed", "status", 302, "reason", "bad upload", "error", err)
		return flashRedirect(c, session.FlashError, "Invalid image upload", "/addProduct")
	}

	p, err := h.Catalog.CreateProduct(ctx, productInput(c), image)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_product_failed", "status", 302, "reason", "invalid form", "error", err)
			return flashRedirect(c, session.FlashError, err.Error(), "/addProduct")
		}
		l.Error("create_product_failed", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return flashRedirect(c, session.FlashSuccess, "Product added", "/inventory")
}

func (h *AdminHTTP) EditProductForm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.edit_product")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("edit_product_failed", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
		}
		l.Error("edit_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}
	return page(c, "product_form", "Edit product", echo.Map{
		"Action":  "/updateProduct/" + strconv.FormatUint(uint64(p.ID), 10),
		"Product": p,
	})
}

func (h *AdminHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_product")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	back := "/updateProduct/" + c.Param("id")

	image, err := formImage(c)
	if err != nil {
		l.Warn("update_product_failed", "status", 302, "reason", "bad upload", "error", err)
		return flashRedirect(c, session.FlashError, "Invalid image upload", back)
	}

	if _, err := h.Catalog.UpdateProduct(ctx, id, productInput(c), image); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			l.Warn("update_product_failed", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_product_failed", "status", 302, "reason", "invalid form", "error", err)
			return flashRedirect(c, session.FlashError, err.Error(), back)
		default:
			l.Error("update_product_failed", "status", 500, "reason", "cannot update product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
		}
	}

	l.Info("update_product_success", "product_id", id)
	return flashRedirect(c, session.FlashSuccess, "Product updated", "/inventory")
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("delete_product_failed", "status", 302, "reason", "product not found", "error", err)
			return flashRedirect(c, session.FlashError, MsgProductNotFound, "/inventory")
		}
		l.Error("delete_product_failed", "status", 302, "reason", "cannot delete product", "error", err)
		return flashRedirect(c, session.FlashError, MsgDatabaseError, "/inventory")
	}

	l.Info("delete_product_success", "product_id", id)
	return flashRedirect(c, session.FlashSuccess, "Product deleted", "/inventory")
}

func (h *AdminHTTP) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customers")

	customers, err := h.Customers.ListCustomers(ctx)
	if err != nil {
		l.Error("list_customers_failed", "status", 500, "reason", "cannot list customers", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgDatabaseError)
	}
	return page(c, "customers", "Customers", echo.Map{"Customers": customers})
}

func (h *AdminHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_customer")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Customers.DeleteCustomer(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_customer_failed", "status", 302, "reason", "customer not found", "error", err)
			return flashRedirect(c, session.FlashError, "Customer not found", "/admin/customers")
		}
		l.Error("delete_customer_failed", "status", 302, "reason", "transaction rolled back", "error", err)
		return flashRedirect(c, session.FlashError, "Error deleting customer", "/admin/customers")
	}

	l.Info("delete_customer_success", "customer_id", id)
	return flashRedirect(c, session.FlashSuccess, "Customer account deleted successfully", "/admin/customers")
}
