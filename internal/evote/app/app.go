package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/evote/internal/evote/http"
	"github.com/aussiebroadwan/evote/internal/evote/mail"
	"github.com/aussiebroadwan/evote/internal/evote/service"
	"github.com/aussiebroadwan/evote/internal/evote/store"
	"github.com/aussiebroadwan/evote/internal/evote/store/drivers/sqlite"
	"github.com/aussiebroadwan/evote/pkg/cryptox"
	"github.com/aussiebroadwan/evote/pkg/jwtx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the voting service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager
	mailer     mail.Sender

	otpService          *service.OTPService
	sessionService      *service.SessionService
	ballotService       *service.BallotService
	tallyService        *service.TallyService
	adminService        *service.AdminService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "evote",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := initSessionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keyManager = keyManager

	mailer, err := newMailer(app.cfg)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.mailer = mailer
	app.logger.Info("mail driver configured", "driver", app.cfg.MailDriver)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case sig := <-shutdown:
			app.logger.Info("shutdown signal received", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return app.Serve(ctx, ln)
}

// Serve runs the HTTP server and housekeeping on ln until ctx is cancelled,
// then shuts down gracefully.
func (app *Application) Serve(ctx context.Context, ln net.Listener) error {
	app.housekeepingService.Start()

	app.logger.Info("evote service starting", "addr", ln.Addr().String(), "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down evote service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("evote service stopped")
	return nil
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func newMailer(cfg Config) (mail.Sender, error) {
	switch cfg.MailDriver {
	case "", "log":
		return mail.LogSender{}, nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, errors.New("SMTP_HOST is required for the smtp mail driver")
		}
		return &mail.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.otpService = &service.OTPService{
		Store:       app.db,
		Mailer:      app.mailer,
		TTL:         app.cfg.OTPTTL,
		MaxAttempts: app.cfg.OTPMaxAttempts,
	}
	app.sessionService = &service.SessionService{
		Keys:     app.keyManager,
		Issuer:   app.cfg.Issuer,
		VoterTTL: app.cfg.VoterSessionTTL,
		AdminTTL: app.cfg.AdminSessionTTL,
	}
	app.ballotService = &service.BallotService{Store: app.db}
	app.tallyService = &service.TallyService{Store: app.db}
	app.adminService = &service.AdminService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.OTPService = app.otpService
	router.SessionService = app.sessionService
	router.BallotService = app.ballotService
	router.TallyService = app.tallyService
	router.AdminService = app.adminService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
