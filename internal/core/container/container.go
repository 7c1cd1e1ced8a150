package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SarprasYP/sispras/internal/core/config"
	"github.com/SarprasYP/sispras/internal/inventory/assets"
	"github.com/SarprasYP/sispras/internal/inventory/reconcile"
	"github.com/SarprasYP/sispras/internal/inventory/reports"
	"github.com/SarprasYP/sispras/internal/inventory/serial"
	"github.com/SarprasYP/sispras/internal/inventory/stocks"
	"github.com/SarprasYP/sispras/internal/rate_limiter"
	"github.com/SarprasYP/sispras/internal/repository"
	"github.com/SarprasYP/sispras/internal/repository/memory"
	"github.com/SarprasYP/sispras/internal/repository/user"
	"github.com/SarprasYP/sispras/pkg/models"
	"github.com/SarprasYP/sispras/pkg/roles"
	"github.com/SarprasYP/sispras/pkg/security"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginAttempts = 5
	loginWindow   = time.Minute
	devJWTSecret  = "sispras-development-secret"
)

type stores struct {
	ledger  repository.LedgerStore
	assets  repository.AssetStore
	catalog repository.Catalog
	reports repository.ReportStore
	users   repository.UserStore
}

type Container struct {
	Tokens        *security.TokenManager
	RateLimiter   *rate_limiter.RateLimiter
	LoginHandler  *security.LoginHandler
	AssetHandler  *assets.AssetHandler
	StockHandler  *stocks.StockHandler
	ReportHandler *reports.ReportHandler
	Reconciler    *reconcile.Reconciler
	// Ping checks the datastore; nil on the in-memory store.
	Ping func(ctx context.Context) error
	// MemoryStore is set when no database is configured.
	MemoryStore *memory.Store
}

// NewAppContainer wires the application on top of db, or on a fresh
// in-memory store when db is nil.
func NewAppContainer(cfg *config.Config, db *sql.DB, logger *zap.Logger) (*Container, error) {
	var (
		s        stores
		ping     func(ctx context.Context) error
		memStore *memory.Store
	)
	if db != nil {
		repo := repository.NewRepository(db, cfg.Database.QueryTimeout)
		assetRepo := assets.NewRepository(repo)
		s = stores{
			ledger:  stocks.NewRepository(repo),
			assets:  assetRepo,
			catalog: assetRepo,
			reports: reports.NewRepository(repo),
			users:   user.NewRepository(repo),
		}
		ping = db.PingContext
	} else {
		memStore = memory.New()
		if cfg.Auth.DevAdminPassword != "" {
			if err := seedAdmin(memStore, cfg.Auth.DevAdminPassword); err != nil {
				return nil, err
			}
		}
		s = stores{ledger: memStore, assets: memStore, catalog: memStore, reports: memStore, users: memStore}
		logger.Warn("DATABASE_URL not set, using the in-memory store")
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = devJWTSecret
	}
	tokens := security.NewTokenManager(secret, security.DefaultTokenTTL)
	limiter := rate_limiter.NewRateLimiter(loginAttempts, loginWindow)

	stockService := stocks.NewStockService(s.ledger, stocks.RetryPolicy{
		MaxRetries: cfg.Ledger.MaxRetries,
		Backoff:    cfg.Ledger.RetryBackoff,
	}, logger.Named("svc.stocks"))
	assetService := assets.NewAssetService(s.assets, serial.NewGenerator(s.catalog), logger.Named("svc.assets"))
	reportService := reports.NewReportService(s.reports)

	return &Container{
		Tokens:        tokens,
		RateLimiter:   limiter,
		LoginHandler:  security.NewLoginHandler(s.users, tokens, limiter, logger.Named("security")),
		AssetHandler:  assets.NewAssetHandler(assetService),
		StockHandler:  stocks.NewStockHandler(stockService),
		ReportHandler: reports.NewReportHandler(reportService),
		Reconciler:    reconcile.NewReconciler(s.ledger, logger.Named("reconcile")),
		Ping:          ping,
		MemoryStore:   memStore,
	}, nil
}

func seedAdmin(store *memory.Store, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	store.AddUser(models.User{
		Username:     "admin",
		Fullname:     "Administrator",
		PasswordHash: string(hash),
		Role:         string(roles.Admin),
	})
	return nil
}
