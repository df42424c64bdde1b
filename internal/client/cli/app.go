package cli

import (
	"bufio"
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/ingeniuz/internal/client/audit"
	"github.com/dmitrijs2005/ingeniuz/internal/client/client"
	"github.com/dmitrijs2005/ingeniuz/internal/client/config"
	"github.com/dmitrijs2005/ingeniuz/internal/client/credstore"
	"github.com/dmitrijs2005/ingeniuz/internal/client/metrics"
	"github.com/dmitrijs2005/ingeniuz/internal/client/models"
	"github.com/dmitrijs2005/ingeniuz/internal/client/repositories/blobs"
	"github.com/dmitrijs2005/ingeniuz/internal/client/services"
	"github.com/dmitrijs2005/ingeniuz/internal/client/session"
	"github.com/dmitrijs2005/ingeniuz/internal/client/storage"
	"github.com/dmitrijs2005/ingeniuz/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// sessionIface is the part of session.Session the commands use.
type sessionIface interface {
	CurrentIdentity(ctx context.Context) (*models.Identity, error)
	TokenExpiry(ctx context.Context) (time.Time, bool, error)
	Logout(ctx context.Context) error
}

// auditReader lists the audit log for the logs command.
type auditReader interface {
	ReadAll(ctx context.Context) ([]audit.Entry, error)
}

// codeSource hands out the current one-time codes. Only the development
// provider has one.
type codeSource interface {
	Codes(email string) (emailOtp, smsOtp string, err error)
}

type App struct {
	config      *config.Config
	authService services.AuthService
	session     sessionIface
	logs        auditReader
	codes       codeSource
	log         logging.Logger

	db          *sql.DB
	metrics     *http.Server
	metricsAddr string

	userName string
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens local storage and wires the identity provider, credential
// store, audit log and session around it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel)

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	app, err := newApp(ctx, c, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, logger logging.Logger) (*App, error) {
	local := blobs.NewSQLiteRepository(db)

	sealer, err := storage.DeviceSealer(ctx, local, deviceSecret(c))
	if err != nil {
		return nil, fmt.Errorf("device key: %w", err)
	}

	auditRepo, err := auditBackend(ctx, c, local)
	if err != nil {
		return nil, err
	}

	creds := credstore.New(db, sealer)
	sess := session.New(creds)
	sink := audit.NewSink(blobs.NewEncrypted(auditRepo, sealer), logger.With("component", "audit"))
	m := metrics.New(prometheus.NewRegistry())

	app := &App{
		config:  c,
		session: sess,
		logs:    sink,
		log:     logger,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	var provider client.IdentityProvider
	if c.DevProvider {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("dev signing key: %w", err)
		}
		dev := client.NewDevProvider(c.AppName, key)
		provider = dev
		app.codes = dev
		logger.Warn(ctx, "using development identity provider")
	} else {
		hc := &http.Client{Timeout: c.RequestTimeout, Transport: sess.Transport(http.DefaultTransport)}
		provider = client.NewGraphQLClient(c.GraphQLEndpoint(), hc)
		logger.Info(ctx, "identity provider", "endpoint", c.GraphQLEndpoint(), "env", c.AppEnv)
	}

	app.authService = services.NewAuthService(services.AuthDeps{
		Provider:    provider,
		Credentials: creds,
		Audit:       sink,
		Logger:      logger.With("component", "auth"),
		Metrics:     m,
	})

	if c.MetricsAddr != "" {
		if err := app.serveMetrics(ctx, c.MetricsAddr, m); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func auditBackend(ctx context.Context, c *config.Config, local blobs.Repository) (blobs.Repository, error) {
	switch c.AuditBackend {
	case "", config.AuditBackendSQLite:
		return local, nil
	case config.AuditBackendS3:
		repo, err := blobs.NewS3RepositoryFromConfig(ctx, blobs.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3Endpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Prefix:       c.S3Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 audit backend: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown audit backend %q", c.AuditBackend)
	}
}

// deviceSecret falls back to host-bound material when no secret is
// configured, so the database is at least useless on another machine.
func deviceSecret(c *config.Config) []byte {
	if c.DeviceSecret != "" {
		return []byte(c.DeviceSecret)
	}
	host, _ := os.Hostname()
	return []byte(c.AppName + "|" + host)
}

func (a *App) serveMetrics(ctx context.Context, addr string, m *metrics.Metrics) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	a.metricsAddr = ln.Addr().String()

	go func() {
		if err := a.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error(ctx, "metrics server stopped", "error", err)
		}
	}()
	a.log.Info(ctx, "serving metrics", "addr", a.metricsAddr)
	return nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	a.Root(ctx)
}

// Close stops the metrics listener and closes the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		errs = append(errs, a.metrics.Shutdown(shutdownCtx))
		cancel()
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	id, err := a.session.CurrentIdentity(ctx)
	if err != nil {
		a.log.Warn(ctx, "reading session failed", "error", err)
		return false
	}
	return id != nil
}
