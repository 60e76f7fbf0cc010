package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"academia/apperrors"
	"academia/backend/rest"
	"academia/config"
	"academia/services"
	"academia/storage"
)

var (
	verbose bool
	timeout time.Duration

	// app wird in PersistentPreRunE aufgebaut.
	app *application
)

// application hält die gemeinsam genutzten Abhängigkeiten der Befehle.
type application struct {
	cfg     *config.Config
	logger  *zap.Logger
	kv      *storage.KV
	client  *rest.Client
	session *services.Session
}

func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	kv, err := storage.OpenKV(cfg)
	if err != nil {
		return nil, err
	}
	return &application{
		cfg:     cfg,
		logger:  logger,
		kv:      kv,
		client:  rest.NewClient(cfg, logger),
		session: services.NewSession(kv, logger),
	}, nil
}

func (a *application) close() {
	_ = a.logger.Sync()
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("Failed to close session store", zap.Error(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "academia",
	Short: "Client for the academic networking platform",
	Long: `academia talks to the platform's REST API.

Browse and publish theses and videos, open their content,
read and write the feed and manage your profile.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = newApplication()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.close()
			app = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, accountCmd)
	rootCmd.AddCommand(profileCmd, resourcesCmd, feedCmd, serveCmd)
}

// withLoginHint ergänzt Auth-Fehler um den Hinweis, sich neu anzumelden.
func withLoginHint(err error) error {
	if err == nil || !apperrors.IsAuth(err) {
		return err
	}
	if errors.Is(err, apperrors.ErrUnauthorized) {
		return fmt.Errorf("session expired, run 'academia login' again: %w", err)
	}
	return fmt.Errorf("not logged in, run 'academia login' first: %w", err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
