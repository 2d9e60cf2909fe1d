package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/socrp/internal/client/client"
	"github.com/dmitrijs2005/socrp/internal/client/config"
	"github.com/dmitrijs2005/socrp/internal/client/services"
	"github.com/dmitrijs2005/socrp/internal/client/session"
	"github.com/dmitrijs2005/socrp/internal/filex"
	"github.com/dmitrijs2005/socrp/internal/logging"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       session.Store
	closeStore  func() error
	api         client.Client
	authService services.AuthService
	editor      *services.ProfileEditor
	shares      *services.ShareService
	admin       *services.AdminView
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the session database and wires the API client and services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if !filex.IsMemoryDSN(c.SessionDBPath) {
		if _, err := filex.EnsureParentDir(c.SessionDBPath); err != nil {
			logger.Error(ctx, "error preparing session directory", "path", c.SessionDBPath, "error", err)
			return nil, err
		}
	}

	store, err := session.OpenSQLiteStore(ctx, c.SessionDBPath, logger)
	if err != nil {
		logger.Error(ctx, "error opening session store", "path", c.SessionDBPath, "error", err)
		return nil, err
	}

	gw, err := client.NewGateway(c.APIBaseURL, store,
		client.WithLogger(logger),
		client.WithTimeout(c.RequestTimeout),
		client.WithRateLimit(c.RequestsPerSecond),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app := newApp(client.NewAPIClient(gw), store, c.MediaBaseURL, logger, bufio.NewReader(os.Stdin), os.Stdout)
	app.config = c
	app.closeStore = store.Close
	return app, nil
}

func newApp(api client.Client, store session.Store, mediaBase string, logger logging.Logger, r *bufio.Reader, w io.Writer) *App {
	return &App{
		logger:      logger,
		store:       store,
		api:         api,
		authService: services.NewAuthService(api, store, logger),
		editor:      services.NewProfileEditor(api, logger),
		shares:      services.NewShareService(api, mediaBase),
		admin:       services.NewAdminView(api, store, logger),
		reader:      r,
		out:         w,
	}
}

// Run blocks in the REPL until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	printlnFn("Certification portal CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

func (a *App) freshEditor() *services.ProfileEditor {
	return services.NewProfileEditor(a.api, a.logger)
}

func (a *App) signedIn() bool {
	return a.authService.SignedIn(context.Background(), session.RoleUser)
}

func (a *App) adminSignedIn() bool {
	return a.authService.SignedIn(context.Background(), session.RoleAdmin)
}

func (a *App) getStatus() string {
	s := ""
	if a.signedIn() {
		s = "user "
	}
	if a.adminSignedIn() {
		s += "admin:" + a.admin.View().String()
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
