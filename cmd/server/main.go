package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/marlanuera/CA1-Code/internal/config"
	"github.com/marlanuera/CA1-Code/internal/db"
	"github.com/marlanuera/CA1-Code/internal/events"
	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/middleware/csrf"
	loggingmw "github.com/marlanuera/CA1-Code/internal/middleware/logging"
	"github.com/marlanuera/CA1-Code/internal/repo"
	"github.com/marlanuera/CA1-Code/internal/search"
	"github.com/marlanuera/CA1-Code/internal/service"
	"github.com/marlanuera/CA1-Code/internal/session"
	httpserver "github.com/marlanuera/CA1-Code/internal/transport/http"
	"github.com/marlanuera/CA1-Code/internal/upload"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")
	config.MustOneOf(cfg.SessionStore, "SESSION_STORE", "db", "cookie", "redis")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	var (
		store session.Store
		rdb   *redis.Client
	)
	switch cfg.SessionStore {
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pctx).Err()
		pcancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		store = session.NewRedisStore(rdb, cfg.SessionSecret, cfg.SessionTTL)
	case "cookie":
		store = session.NewCookieStore(cfg.SessionSecret, cfg.SessionTTL)
	default:
		dbStore := session.NewDBStore(gdb, cfg.SessionSecret, cfg.SessionTTL)
		go purgeSessions(appCtx, dbStore, logger)
		store = dbStore
	}

	images, err := upload.NewStore(cfg.UploadDir, cfg.MaxUploadMB)
	if err != nil {
		log.Fatalf("upload store: %v", err)
	}

	pub, err := events.NewFromBackend(cfg.EventsBackend, cfg.KafkaBrokers, cfg.AMQPURL)
	if err != nil {
		log.Fatalf("events: %v", err)
	}

	r := repo.New(gdb)

	var searcher search.Searcher = &search.SQLSearcher{Repo: r}
	esEnabled := false
	if cfg.ESURL != "" {
		es, err := search.NewESSearcher(search.ESConfig{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search_fallback", "reason", "elasticsearch unavailable, using SQL search", "error", err)
		} else {
			searcher = es
			esEnabled = true
		}
	}

	catalog := &service.CatalogService{Repo: r, Search: searcher, Events: pub, Images: images}
	if esEnabled {
		ictx, icancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := catalog.Reindex(logging.IntoContext(ictx, logger)); err != nil {
			logger.Warn("search_reindex_failed", "error", err)
		}
		icancel()
	}

	renderer, err := httpserver.NewRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = httpserver.ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB+1)))

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.EnforceSameOrigin = cfg.CSRFSameOrigin

	httpserver.Register(e, &httpserver.Deps{
		DB:       gdb,
		Sessions: store,
		Session: session.Config{
			CookieName: "session",
			TTL:        cfg.SessionTTL,
			Secure:     cfg.CookieSecure,
		},
		CSRF:      csrfCfg,
		UploadDir: cfg.UploadDir,

		Auth: &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Events: pub, AllowAdminSignup: cfg.AllowAdminSignup}},
		Shop: &httpserver.ShopHTTP{
			Catalog:  catalog,
			Cart:     &service.CartService{Repo: r, Events: pub},
			Checkout: &service.CheckoutService{Repo: r, Events: pub},
		},
		Admin: &httpserver.AdminHTTP{
			Catalog:   catalog,
			Dashboard: &service.DashboardService{Repo: r},
			Customers: &service.CustomerService{Repo: r, Events: pub},
		},
		Reviews: &httpserver.ReviewHTTP{
			Reviews: &service.ReviewService{Repo: r},
			Catalog: catalog,
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "session_store", cfg.SessionStore, "events", cfg.EventsBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	appCancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("events_close_failed", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis_close_failed", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("stopped")
}

func purgeSessions(ctx context.Context, store *session.DBStore, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("session_purge_failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("sessions_purged", "count", n)
			}
		}
	}
}
