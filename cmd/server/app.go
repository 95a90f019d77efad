package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/parcel-api/internal/api"
	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/events"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/platform/stripe"
	"github.com/phrazzld/parcel-api/internal/service"
	"github.com/phrazzld/parcel-api/internal/service/auth"
	"github.com/phrazzld/parcel-api/internal/service/authz"
	"github.com/phrazzld/parcel-api/internal/store"
	"github.com/phrazzld/parcel-api/internal/trackingid"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	stores *store.Stores

	verifier auth.TokenVerifier
	policy   *authz.Policy
	gateway  service.PaymentGateway

	paymentService  service.PaymentService
	parcelService   service.ParcelService
	userService     service.UserService
	riderService    service.RiderService
	trackingService service.TrackingService

	eventEmitter *events.InMemoryEventEmitter
}

// initializeApp loads configuration, sets up logging and connects to the
// configured database.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app, err := newApplication(cfg, log, stores)
	if err != nil {
		_ = stores.Close(context.Background())
		return nil, err
	}
	return app, nil
}

// newApplication wires services onto stores. The payment gateway and token
// verifier are built from cfg.
func newApplication(cfg *config.Config, logger *slog.Logger, stores *store.Stores) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		stores: stores,
	}

	verifier, err := auth.NewJWTVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	app.verifier = verifier

	gateway, err := stripe.NewGateway(cfg.Payment, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize payment gateway: %w", err)
	}
	app.gateway = gateway

	trackingIDs, err := trackingid.NewGenerator(cfg.Tracking.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracking id generator: %w", err)
	}

	if err := app.wireServices(trackingIDs); err != nil {
		return nil, fmt.Errorf("failed to wire services: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// wireServices builds the domain services and registers the event handlers.
func (app *application) wireServices(trackingIDs service.TrackingIDGenerator) error {
	timeouts := service.Timeouts{
		Query:   app.config.Database.QueryTimeout,
		Gateway: app.config.Payment.GatewayTimeout,
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	trackingEvents, err := service.NewTrackingEventHandler(
		app.stores.Tracking, app.stores.Parcels, timeouts.Query, app.logger)
	if err != nil {
		return err
	}
	app.eventEmitter.RegisterHandler(trackingEvents)

	if app.policy, err = authz.NewPolicy(app.stores.Users, timeouts.Query); err != nil {
		return err
	}
	if app.paymentService, err = service.NewPaymentService(
		app.stores.Payments, app.gateway, app.eventEmitter, timeouts, app.logger); err != nil {
		return err
	}
	if app.parcelService, err = service.NewParcelService(
		app.stores.Parcels, trackingIDs, app.eventEmitter, timeouts, app.logger); err != nil {
		return err
	}
	if app.userService, err = service.NewUserService(app.stores.Users, timeouts, app.logger); err != nil {
		return err
	}
	if app.riderService, err = service.NewRiderService(
		app.stores.Riders, app.stores.Users, app.eventEmitter, timeouts, app.logger); err != nil {
		return err
	}
	if app.trackingService, err = service.NewTrackingService(app.stores.Tracking, timeouts, app.logger); err != nil {
		return err
	}
	return nil
}

// handlers builds the HTTP handlers for the wired services.
func (app *application) handlers() api.Handlers {
	return api.Handlers{
		Payments: api.NewPaymentHandler(app.paymentService, app.logger),
		Parcels:  api.NewParcelHandler(app.parcelService, app.logger),
		Users:    api.NewUserHandler(app.userService, app.logger),
		Riders:   api.NewRiderHandler(app.riderService, app.logger),
		Tracking: api.NewTrackingHandler(app.trackingService, app.logger),
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases
// resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.stores != nil && app.stores.Close != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.stores.Close(ctx); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
