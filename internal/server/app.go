// Package server wires configuration, storage, the model gateway and the HTTP
// surface together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/auditoria/internal/dbx"
	"github.com/dmitrijs2005/auditoria/internal/logging"
	"github.com/dmitrijs2005/auditoria/internal/server/auth"
	"github.com/dmitrijs2005/auditoria/internal/server/config"
	"github.com/dmitrijs2005/auditoria/internal/server/inference"
	"github.com/dmitrijs2005/auditoria/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/auditoria/internal/server/services"
	"github.com/dmitrijs2005/auditoria/internal/server/storage"
	"github.com/dmitrijs2005/auditoria/internal/server/web"
	"github.com/jmoiron/sqlx"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sqlx.DB
	userService   *services.UserService
	batchService  *services.BatchService
	reportService *services.ReportService
	sessions      auth.SessionCodec
}

// NewApp opens the database, applies migrations, seeds the admin user and
// builds the services. The caller owns Close.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	db, dialect, err := dbx.Open(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewSQLRepositoryManager(dialect)
	if err := rm.RunMigrations(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	us := services.NewUserService(db, rm, c, logger.With("module", "users"))
	if err := us.EnsureSeedAdmin(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := newStore(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	gateway := inference.NewClient(inference.Config{
		Host:    c.OllamaHost,
		Model:   c.OllamaModel,
		APIKey:  c.OllamaAPIKey,
		Timeout: c.InferenceTimeout,
	}, inference.WithLogger(logger.With("module", "inference")))

	mode, err := auth.ParseSessionMode(c.SessionMode)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	sessions, err := auth.NewSessionCodec(mode, []byte(c.SecretKey), c.SessionTTL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   us,
		batchService:  services.NewBatchService(db, rm, store, gateway, c, logger.With("module", "batch")),
		reportService: services.NewReportService(db, rm, c),
		sessions:      sessions,
	}, nil
}

func newStore(ctx context.Context, c *config.Config, logger logging.Logger) (storage.Store, error) {
	local := storage.NewLocalStore(c.UploadDir)
	if !c.S3Enabled() {
		return local, nil
	}

	s3cfg := storage.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Prefix:       c.S3Prefix,
	}
	client, err := storage.NewS3Client(ctx, s3cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	logger.Info(ctx, "mirroring uploads to s3", "bucket", c.S3Bucket)
	return storage.NewMirrorStore(local, client, s3cfg, logger.With("module", "s3")), nil
}

func (app *App) Users() *services.UserService     { return app.userService }
func (app *App) Reports() *services.ReportService { return app.reportService }

// Handler returns the HTTP routes.
func (app *App) Handler() *web.Handler {
	return web.NewHandler(app.userService, app.batchService, app.reportService, app.sessions, app.config.StaticDir, app.logger.With("module", "web"))
}

func (app *App) Close() error {
	return app.db.Close()
}

// RunAndClose runs the app and then closes it, on the error path as well.
func (app *App) RunAndClose(ctx context.Context) error {
	runErr := app.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "server stopped", "error", runErr)
	}

	closeErr := app.Close()
	if closeErr != nil {
		app.logger.Error(ctx, "close failed", "error", closeErr)
	}

	return errors.Join(runErr, closeErr)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	srv := web.NewHTTPServer(app.config.ListenAddr, app.Handler().Router(), app.config.ShutdownTimeout, app.logger)
	return srv.Run(ctx)
}
