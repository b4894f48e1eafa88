package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tenderkit/internal/config"
	"tenderkit/internal/failure"
	"tenderkit/internal/i18n"
	"tenderkit/internal/logging"
)

// app holds the state shared by all commands of one invocation
type app struct {
	configPath string
	lang       string

	cfg     *config.Config
	logger  *zap.Logger
	cleanup func()
}

func main() {
	a := &app{}

	if err := a.rootCmd().Execute(); err != nil {
		failure.Write(os.Stderr, err, a.language())
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tenderkit",
		Short: "Arabic formatting, validation and export tools for tender analysis",
		Long: `tenderkit bundles the utilities behind the tender analysis dashboard:
Arabic money, percent and date formatting, keyword-in-context search,
progress classification, rule-based record validation, spreadsheet and
JSON export, and workspace bootstrap.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.cleanup != nil {
				a.cleanup()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "path to the TOML configuration file")
	root.PersistentFlags().StringVar(&a.lang, "lang", "", "message language (ar, en)")

	root.AddCommand(
		a.initCmd(),
		a.formatCmd(),
		a.progressCmd(),
		a.kwicCmd(),
		a.validateCmd(),
		a.exportCmd(),
		a.uploadCmd(),
	)

	return root
}

// setup loads the configuration and builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.lang != "" {
		cfg.App.Language = i18n.Resolve(a.lang)
	}

	logCfg := cfg.Logging
	logCfg.File = cfg.Path(logCfg.File)

	logger, cleanup, err := logging.New(cfg.App.Name, logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger.With(zap.String("command", cmd.Name()))
	a.cleanup = cleanup

	a.logger.Debug("configuration loaded", zap.String("path", a.configPath), zap.String("version", cfg.App.Version))

	return nil
}

// language picks the message language, also before the configuration is loaded
func (a *app) language() string {
	if a.cfg != nil {
		return a.cfg.App.Language
	}

	return i18n.Resolve(a.lang, os.Getenv("LANG"))
}
