package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeanpaul/studymentor/internal/config"
	"github.com/jeanpaul/studymentor/internal/logging"
	"github.com/jeanpaul/studymentor/internal/provider"
	"github.com/jeanpaul/studymentor/internal/session"
	"github.com/jeanpaul/studymentor/internal/store"
	"github.com/jeanpaul/studymentor/internal/tui"
	"github.com/jeanpaul/studymentor/internal/types"
)

// Set with -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
)

// envFiles are loaded before anything else. Variables already present in the
// environment win.
var envFiles = []string{".env", ".env.SECURE"}

var (
	configPath string
	noMarkdown bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()
	if err != nil {
		fatal("%s", err)
	}
	if interrupted {
		os.Exit(130)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studymentor",
		Short:         "AI-powered study assistant for your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runInteractive,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml")
	root.PersistentFlags().BoolVar(&noMarkdown, "no-markdown", false, "Print answers without markdown rendering")

	root.AddCommand(
		askCmd(),
		exportCmd(),
		exportsCmd(),
		statsCmd(),
		doctorCmd(),
		configCmd(),
		versionCmd(),
	)
	return root
}

// env is what every command needs after startup.
type env struct {
	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
	store  *store.Store
}

func bootstrap() (*env, error) {
	loadEnvFiles()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if noMarkdown {
		cfg.RenderMarkdown = false
	}

	logger, closer, err := logging.Setup(cfg.Log, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"version":  version,
		"data_dir": cfg.DataDir,
	}).Debug("Starting")

	return &env{
		cfg:    cfg,
		log:    logger,
		closer: closer,
		store:  store.New(cfg.Paths(), logrus.NewEntry(logger)),
	}, nil
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, tui.WarnStyle.Render("warning: "+f+": "+err.Error()))
		}
	}
}

// newProvider builds the client for kind from the configured endpoint.
func (e *env) newProvider(kind types.ProviderKind) provider.Provider {
	pc := e.cfg.ProviderFor(kind)
	return provider.New(kind,
		provider.WithModel(pc.Model),
		provider.WithBaseURL(pc.BaseURL),
		provider.WithLogger(logrus.NewEntry(e.log).WithField("component", "provider")),
	)
}

func (e *env) openSession() *session.Session {
	return session.Open(e.store, e.newProvider, e.cfg.DefaultKind(),
		session.WithLogger(logrus.NewEntry(e.log)))
}

func (e *env) Close() error { return e.closer.Close() }

func runInteractive(cmd *cobra.Command, _ []string) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.New(e.openSession(), os.Stdin, os.Stdout, tui.Options{
		ExportDir: e.cfg.ExportDir,
		Markdown:  e.cfg.RenderMarkdown && tui.IsTerminal(os.Stdout),
	})
	app.Run(cmd.Context())
	return nil
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}
