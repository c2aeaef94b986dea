package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/config"
	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/logging"
	"github.com/pbaille/journal/internal/printer"
	"github.com/pbaille/journal/internal/reflection"
	"github.com/pbaille/journal/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{}
	err := execute(ctx, a, newRootCmd(a))
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app carries what every command needs once flags and config are parsed.
type app struct {
	configPath string
	dataPath   string
	backend    string
	ephemeral  bool

	cfg    *config.Config
	logger *zap.Logger

	kv       storage.KV
	store    *journal.Store
	settings *journal.Settings
}

// execute runs cmd and releases storage afterwards, whether or not the
// command succeeded.
func execute(ctx context.Context, a *app, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "journal",
		Short:        "Journal with AI reflections",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./journal.yaml)")
	flags.StringVar(&a.dataPath, "data", "", "storage directory (overrides storage.path)")
	flags.StringVar(&a.backend, "backend", "", "storage backend: diskv, sqlite or memory")
	flags.BoolVar(&a.ephemeral, "ephemeral", false, "keep entries in memory only")

	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(editCmd(a))
	rootCmd.AddCommand(rmCmd(a))
	rootCmd.AddCommand(pinCmd(a))
	rootCmd.AddCommand(tagCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(tagsCmd(a))
	rootCmd.AddCommand(themeCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataPath != "" {
		cfg.Storage.Path = a.dataPath
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if a.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: validate: %w", err)
	}

	logger, err := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return fmt.Errorf("config: log: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// openStore opens storage and loads the journal. Unreadable stored entries
// are reported and the session continues without persistence.
func (a *app) openStore(cmd *cobra.Command) (*journal.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	kv, err := storage.Open(a.cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.kv = kv

	client := reflection.New(a.cfg.Client, a.logger)
	s := journal.New(kv, client, journal.WithLogger(a.logger))
	if err := s.Load(); err != nil {
		a.printer(cmd).Notice("warning: %v; changes will not be saved this session", err)
	}
	a.store = s
	a.settings = journal.NewSettings(kv, a.logger)
	return s, nil
}

func (a *app) openSettings(cmd *cobra.Command) (*journal.Settings, error) {
	if _, err := a.openStore(cmd); err != nil {
		return nil, err
	}
	return a.settings, nil
}

func (a *app) printer(cmd *cobra.Command) *printer.Printer {
	dark := false
	if a.settings != nil {
		dark = a.settings.DarkMode()
	}
	return printer.New(cmd.OutOrStdout(), dark)
}

// resolve expands an id prefix. An unknown id is reported and ok is false;
// it is not an error.
func (a *app) resolve(cmd *cobra.Command, prefix string) (id string, ok bool, err error) {
	s, err := a.openStore(cmd)
	if err != nil {
		return "", false, err
	}
	id, err = s.Resolve(prefix)
	if errors.Is(err, domain.ErrNotFound) {
		a.printer(cmd).Notice("no entry matching %q", prefix)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv, a.store, a.settings = nil, nil, nil
	return err
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
