package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/marlanuera/CA1-Code/internal/db"
	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/middleware/auth"
	"github.com/marlanuera/CA1-Code/internal/middleware/csrf"
	"github.com/marlanuera/CA1-Code/internal/session"
)

type Deps struct {
	DB        *gorm.DB
	Sessions  session.Store
	Session   session.Config
	CSRF      csrf.Config
	UploadDir string

	Auth    *AuthHTTP
	Shop    *ShopHTTP
	Admin   *AdminHTTP
	Reviews *ReviewHTTP
}

var healthPaths = []string{"/health/live", "/health/ready"}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	if d.UploadDir != "" {
		e.Static("/images", d.UploadDir)
	}

	d.Session.SkipPaths = append(d.Session.SkipPaths, healthPaths...)
	d.CSRF.SkipPaths = append(d.CSRF.SkipPaths, healthPaths...)
	web := e.Group("", session.Middleware(d.Sessions, d.Session), csrf.Middleware(d.CSRF))

	web.GET("/", d.Auth.Home)
	web.GET("/register", d.Auth.RegisterForm)
	web.POST("/register", d.Auth.Register)
	web.GET("/login", d.Auth.LoginForm)
	web.POST("/login", d.Auth.Login)
	web.GET("/logout", d.Auth.Logout)

	// Guards are attached per route: sibling groups sharing the "" prefix would
	// fight over the catch-all not-found route.
	user := auth.RequireAuthenticated
	admin := auth.RequireAdmin

	web.GET("/shopping", d.Shop.Shopping, user)
	web.GET("/search", d.Shop.Search, user)
	web.GET("/product/:id", d.Shop.Product, user)

	web.GET("/cart", d.Shop.ViewCart, user)
	web.POST("/add-to-cart/:id", d.Shop.AddToCart, user)
	web.POST("/update-cart/:id", d.Shop.UpdateCart, user)
	web.POST("/remove-from-cart/:id", d.Shop.RemoveFromCart, user)
	web.POST("/cart/clear", d.Shop.ClearCart, user)
	web.GET("/checkout", d.Shop.CheckoutForm, user)
	web.POST("/checkout", d.Shop.PlaceOrder, user)

	web.GET("/profile", d.Auth.Profile, user)
	web.POST("/profile", d.Auth.UpdateProfile, user)

	web.GET("/reviews", d.Reviews.List, user)
	web.POST("/reviews/add", d.Reviews.Add, user)
	web.POST("/reviews/delete/:id", d.Reviews.Delete, user)

	web.GET("/inventory", d.Admin.Inventory, admin)
	web.GET("/inventory/export", d.Admin.ExportInventory, admin)
	web.GET("/addProduct", d.Admin.AddProductForm, admin)
	web.POST("/addProduct", d.Admin.AddProduct, admin)
	web.GET("/updateProduct/:id", d.Admin.EditProductForm, admin)
	web.POST("/updateProduct/:id", d.Admin.UpdateProduct, admin)
	web.POST("/deleteProduct/:id", d.Admin.DeleteProduct, admin)
	web.GET("/admin/customers", d.Admin.ListCustomers, admin)
	web.POST("/admin/customers/delete/:id", d.Admin.DeleteCustomer, admin)
}
