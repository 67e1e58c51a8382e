package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"movies/internal/config"
	"movies/internal/logging"
	"movies/internal/menu"
	"movies/internal/storage"
)

type flags struct {
	configPath string
	store      string
	uri        string
	dataDir    string
	logLevel   string
}

// reportedError ошибка, которую run уже вывел сам
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := executeRoot(context.Background(), cmd, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// executeRoot запускает команду и печатает ошибки cobra (флаги, аргументы),
// которые иначе потерялись бы из-за SilenceErrors
func executeRoot(ctx context.Context, cmd *cobra.Command, errOut io.Writer) error {
	err := cmd.ExecuteContext(ctx)

	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintln(errOut, "Error:", err)
	}
	return err
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "movies",
		Short:         "View, add, update and delete movie records",
		Long:          "movies is an interactive menu for managing movie records stored in MongoDB or in a local JSON collection.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, in, out, errOut)
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (.yml, .yaml, .toml, .edn, .json, .env)")
	cmd.Flags().StringVar(&f.store, "store", "", "store backend: mongo or file")
	cmd.Flags().StringVar(&f.uri, "uri", "", "MongoDB connection string")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "directory for the file store")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

// apply переопределяет значения конфига флагами, если они заданы
func (f flags) apply(cfg *config.Config) {
	if f.store != "" {
		cfg.Store = f.store
	}
	if f.uri != "" {
		cfg.MongoURI = f.uri
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
}

func run(ctx context.Context, f flags, in io.Reader, out, errOut io.Writer) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return reportedError{err}
	}
	f.apply(cfg)

	logger, err := logging.New(errOut, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return reportedError{err}
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		return reportedError{err}
	}

	// подключаемся до показа меню
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error("couldn't connect to store", "store", cfg.Store, "err", err)
		return reportedError{err}
	}
	logger.Info("connected to store", "store", cfg.Store, "collection", cfg.Collection)

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.OpTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("error closing store", "err", err)
		}
	}()

	return menu.New(store, in, out, logger, cfg.OpTimeout).Run(ctx)
}
