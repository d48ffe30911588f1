package main

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"employee-bot/internal/app/service"
	"employee-bot/internal/repository/sqlite"
	"employee-bot/pkg/workerpool"
)

// app is the storage and service graph shared by every command.
type app struct {
	db        *sql.DB
	pool      *workerpool.WorkerPool
	async     *service.AsyncService
	employees *service.EmployeeService
}

func openApp() (*app, error) {
	db, err := sqlite.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	pool := workerpool.NewWorkerPool(cfg.Workers.Count, cfg.Workers.Queue)
	logger.Debug("storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("path", cfg.Storage.Path))
	return &app{
		db:        db,
		pool:      pool,
		async:     service.NewAsyncService(pool),
		employees: service.NewEmployeeService(sqlite.NewEmployeeStore(db), logger),
	}, nil
}

func (a *app) close() {
	a.pool.Close()
	if err := a.db.Close(); err != nil {
		logger.Warn("close db", zap.Error(err))
	}
}
