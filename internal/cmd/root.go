package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gadgetloop/storefront/internal/api"
	"github.com/gadgetloop/storefront/internal/cart"
	"github.com/gadgetloop/storefront/internal/catalog"
	"github.com/gadgetloop/storefront/internal/config"
	"github.com/gadgetloop/storefront/internal/credentials"
	"github.com/gadgetloop/storefront/internal/errors"
	"github.com/gadgetloop/storefront/internal/guard"
	"github.com/gadgetloop/storefront/internal/log"
	"github.com/gadgetloop/storefront/internal/profile"
	"github.com/gadgetloop/storefront/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "gadgetloop",
	Short: "Shop the GadgetLoop electronics store from your terminal",
	Long: `gadgetloop is the command-line client for the GadgetLoop electronics store.
It talks to the remote storefront API: browse the catalog, manage your cart,
place cash-on-delivery orders, and pay online through Khalti.

Your login persists in ~/.gadgetloop/credentials.json, so authenticated
commands keep working across invocations until you log out or the token
expires.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	cfgFile string
	apiURL  string
	verbose bool
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the provided context so
// in-flight requests are cancelled when the process receives a signal.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gadgetloop/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "storefront API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

// app bundles the client-side stores every command works against. One app is
// built per invocation; commands share it through getApp.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	client  *api.Client
	session *session.Store
	cart    *cart.Store
	catalog *catalog.Client
	profile *profile.Client
}

var currentApp *app

func getApp() (*app, error) {
	if currentApp != nil {
		return currentApp, nil
	}

	path := cfgFile
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	logCfg := log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Format: log.ParseFormat(cfg.LogFormat),
		Output: log.OutputStderr(),
	}
	if verbose {
		logCfg.Level = log.LevelDebug
	}
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	credsPath := cfg.CredentialsPath
	if credsPath == "" {
		credsPath, err = credentials.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	client := api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)

	sessionStore := session.NewStore(client, credentials.NewStore(credsPath), logger)
	cartStore := cart.NewStore(client, logger)
	cartStore.BindSession(sessionStore)

	currentApp = &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		session: sessionStore,
		cart:    cartStore,
		catalog: catalog.NewClient(client),
		profile: profile.NewClient(client),
	}
	return currentApp, nil
}

// requireSession resolves the stored credential and checks the guard for the
// given destination. Commands that mutate the cart or account call this
// before touching the API.
func requireSession(ctx context.Context, a *app, route guard.Route) error {
	a.session.Bootstrap(ctx)

	decision := guard.Decide(a.session.Snapshot(), route)
	switch decision.Outcome {
	case guard.Render:
		return nil
	case guard.RedirectToLogin:
		return errors.NewUnauthenticatedError(route.Path).
			WithSuggestion("Run 'gadgetloop auth login' to sign in")
	case guard.RedirectToFallback:
		user, _ := a.session.CurrentUser()
		role := ""
		if user != nil {
			role = user.Role
		}
		return errors.NewUnauthorizedError(role, route.RequiredRoles)
	default:
		// Pending after a bootstrap means the resolution never settled,
		// which points at a programming error rather than user state.
		return errors.New(errors.ErrCodeUnauthenticated, "session did not settle")
	}
}
