// Package app is the composition root: it assembles storage, the backend
// client, the stores and the deep-link handler, and owns their lifecycle.
// Nothing in here is a global; callers construct an App, use it, Close it.
package app

import (
	"context"
	"log/slog"

	"github.com/mobilearn/appcore/internal/backend"
	"github.com/mobilearn/appcore/internal/config"
	"github.com/mobilearn/appcore/internal/deeplink"
	"github.com/mobilearn/appcore/internal/model"
	"github.com/mobilearn/appcore/internal/persist"
	"github.com/mobilearn/appcore/internal/storage"
	"github.com/mobilearn/appcore/internal/storage/sqlite"
	"github.com/mobilearn/appcore/internal/store"
)

// App bundles the client core's stores behind one lifecycle.
type App struct {
	Session  *store.SessionStore
	Features *store.FeatureStore
	Payment  *store.PaymentStore
	Courses  *store.CourseStore
	DeepLink *deeplink.Handler

	db     storage.Store
	logger *slog.Logger
}

// New wires the dependency graph and restores persisted state.
//
// When the on-device database cannot be opened the app falls back to
// in-memory storage: everything works for this run, state is lost on
// exit, and the degradation is logged once here.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, navigator deeplink.Navigator) (*App, error) {
	var db storage.Store
	db, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		logger.Warn("on-device storage unavailable, state will not survive restarts",
			slog.String("path", cfg.Storage.Path),
			slog.String("error", err.Error()),
		)
		db = storage.NewMemory()
	}

	client := backend.NewClient(cfg.API.BaseURL, cfg.API.Version, cfg.API.Timeout)

	session := store.NewSessionStore(
		client,
		persist.NewContainer[model.Session](db, storage.KeyAuthStore),
		logger,
		client.SetToken,
	)
	features := store.NewFeatureStore(
		persist.NewContainer[model.FeatureFlags](db, storage.KeyAdminStore),
		logger,
	)
	payment := store.NewPaymentStore(
		persist.NewContainer[model.PaymentConfig](db, storage.KeyPaymentStore),
		logger,
	)
	courses := store.NewCourseStore(client, logger)

	a := &App{
		Session:  session,
		Features: features,
		Payment:  payment,
		Courses:  courses,
		DeepLink: deeplink.NewHandler(navigator, logger),
		db:       db,
		logger:   logger,
	}

	// Restore failures already degraded the stores to defaults; nothing
	// else to do beyond the logging the stores performed.
	_ = session.Restore(ctx)
	_ = features.Restore(ctx)
	_ = payment.Restore(ctx)

	return a, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.db.Close()
}
