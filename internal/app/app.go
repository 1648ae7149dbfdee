package app

import (
	"fmt"

	"trading-journal-go/internal/cache"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/demo"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/market"
	"trading-journal-go/internal/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the wired components shared by the server and the CLI.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Service *journal.Service

	cache *cache.StatsCache
}

// New opens the database and builds the journal service with the optional
// cache and market client the config enables.
func New(cfg config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewDatabase(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return newWithDB(cfg, log, db)
}

func newWithDB(cfg config.Config, log *zap.Logger, db *gorm.DB) (*App, error) {
	a := &App{Config: cfg, Log: log, DB: db}

	var quotes market.QuoteClient
	if cfg.Market.Enabled {
		quotes = market.NewRestClient(cfg.Market, log)
		log.Info("Market reference prices enabled", zap.String("base_url", cfg.Market.BaseURL))
	}

	opts := []journal.Option{
		journal.WithDemoGenerator(demo.NewGenerator(cfg.Demo, quotes, log), cfg.Demo.MaxCount),
	}
	if cfg.Cache.Enabled {
		c, err := cache.New(cfg.Cache.MaxCost, cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create dashboard cache: %w", err)
		}
		a.cache = c
		opts = append(opts, journal.WithCache(c))
	}

	a.Service = journal.NewService(store.New(db), log, opts...)
	return a, nil
}

// Close releases the cache and the database pool.
func (a *App) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Warn("Failed to close database", zap.Error(err))
		}
	}
}
