package app

import (
	"context"
	"net/http"
	"time"

	"family-ledger-go/internal/config"
	"family-ledger-go/internal/db"
	assetsdomain "family-ledger-go/internal/domain/assets"
	bootstrapdomain "family-ledger-go/internal/domain/bootstrap"
	familydomain "family-ledger-go/internal/domain/family"
	transactionsdomain "family-ledger-go/internal/domain/transactions"
	userdomain "family-ledger-go/internal/domain/user"
	assetsrepo "family-ledger-go/internal/repository/postgres/assets"
	bootstraprepo "family-ledger-go/internal/repository/postgres/bootstrap"
	familyrepo "family-ledger-go/internal/repository/postgres/family"
	transactionsrepo "family-ledger-go/internal/repository/postgres/transactions"
	userrepo "family-ledger-go/internal/repository/postgres/user"
	"family-ledger-go/internal/transport/httpserver"
	"family-ledger-go/internal/transport/httpserver/handler"
	"family-ledger-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	bootstrap  *bootstrapdomain.Service
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	families := familydomain.NewService(familyrepo.NewPostgres(dbConn))
	assets := assetsdomain.NewService(assetsrepo.NewPostgres(dbConn), families.Guard())
	transactions := transactionsdomain.NewService(transactionsrepo.NewPostgres(dbConn), families.Guard())
	bootstrap := bootstrapdomain.NewService(bootstraprepo.NewPostgres(dbConn), families, log)

	handlers := handler.New(log, users, families, assets, transactions, bootstrap)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, users, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		bootstrap:  bootstrap,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// RunBootstrap backfills the family model on startup: membership-less users
// get a default family, then orphaned rows get their owner's family. Both
// routines are idempotent, so running them on every boot is harmless.
func (a *App) RunBootstrap(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if _, err := a.bootstrap.InitializeAllUsers(ctx); err != nil {
		a.log.InternalError("app: user initialization failed", err)
	}
	if _, err := a.bootstrap.MigrateOrphanData(ctx); err != nil {
		a.log.InternalError("app: orphan data migration failed", err)
	}
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
