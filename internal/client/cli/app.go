package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/contactx/contactx/internal/client/client"
	"github.com/contactx/contactx/internal/client/config"
	"github.com/contactx/contactx/internal/client/repositories/cache"
	"github.com/contactx/contactx/internal/client/repositories/metadata"
	"github.com/contactx/contactx/internal/client/resilience"
	"github.com/contactx/contactx/internal/client/services"
	"github.com/contactx/contactx/internal/client/session"
	"github.com/contactx/contactx/internal/client/storage"
	"github.com/contactx/contactx/internal/cryptox"
	"github.com/contactx/contactx/internal/filex"
	"github.com/contactx/contactx/internal/logging"
)

// ErrReported means the failure was already shown to the user.
var ErrReported = errors.New("command failed")

const (
	logFileName    = "contactx.log"
	sessionKeyFile = "session.key"
)

type App struct {
	store  session.Store
	prefs  *session.Preferences
	auth   services.AuthService
	api    services.APIService
	upload services.ImageUploadService
	guard  resilience.Guard
	logger logging.Logger

	reader      *bufio.Reader
	out         io.Writer
	jsonOut     bool
	interactive bool
	now         func() time.Time
	retryDelay  time.Duration

	closers []io.Closer
}

type Options struct {
	In   io.Reader
	Out  io.Writer
	Err  io.Writer
	JSON bool
}

// NewApp opens the local database under cfg.DataDir and wires the services.
// Development builds log to Err; production builds log to a file in the
// data directory so that the terminal only shows output and toasts.
func NewApp(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	var closers []io.Closer
	logOut := opts.Err
	if !cfg.Development() {
		f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		closers = append(closers, f)
		logOut = f
	}
	logger := logging.New(cfg.Development(), logOut)

	db, err := storage.InitDatabase(ctx, filepath.Join(dir, filepath.Base(cfg.DatabasePath())))
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("init database: %w", err)
	}
	closers = append([]io.Closer{db}, closers...)

	sealer, err := cryptox.NewDeviceSealer(filepath.Join(dir, sessionKeyFile))
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("session key: %w", err)
	}
	store := session.NewSealedSQLiteStore(db, sealer)
	httpClient := client.New(client.Options{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.Timeout,
		Store:       store,
		Logger:      logger,
		Development: cfg.Development(),
	})

	a := newApp(db, store, httpClient, logger, opts)
	a.interactive = opts.In == os.Stdin && stdinIsTerminal()
	a.closers = closers
	logger.Debug(ctx, "app started", "api", cfg.APIBaseURL, "data_dir", dir)
	return a, nil
}

// newApp wires services over an open database and client. store must be
// the same store the client reads tokens from.
func newApp(db *sql.DB, store session.Store, c client.Doer, logger logging.Logger, opts Options) *App {
	cardCache := session.NewCache(cache.NewSQLiteRepository(db), logger)

	return &App{
		store:      store,
		prefs:      session.NewPreferences(metadata.NewSQLiteRepository(db)),
		auth:       services.NewAuthService(c, store, logger),
		api:        services.NewAPIService(c, cardCache, logger),
		upload:     services.NewImageUploadService(c),
		guard:      resilience.NewGuard(logger, NewToastNotifier(opts.Out)),
		logger:     logger,
		reader:     bufio.NewReader(opts.In),
		out:        opts.Out,
		jsonOut:    opts.JSON,
		now:        time.Now,
		retryDelay: resilience.DefaultRetryDelay,
	}
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

func (a *App) notify(ctx context.Context, level resilience.Level, msg string) {
	a.guard.Notifier.Notify(ctx, level, msg)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	tok, err := a.store.Token(ctx)
	return err == nil && tok != ""
}

// getStatus is the shell prompt suffix: the signed-in phone number, if any.
func (a *App) getStatus(ctx context.Context) string {
	user, err := a.store.User(ctx)
	if err != nil || len(user) == 0 {
		if a.isLoggedIn(ctx) {
			return "(signed in)"
		}
		return ""
	}
	for _, path := range []string{"phoneNumber", "name", "id"} {
		if v := gjson.GetBytes(user, path).String(); v != "" {
			return "(" + v + ")"
		}
	}
	return "(signed in)"
}
