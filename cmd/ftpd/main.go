package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lanshare/ftpd"
	"github.com/lanshare/ftpd/config"
	"github.com/lanshare/ftpd/internal/i18n"
	"github.com/lanshare/ftpd/internal/logger"
	"github.com/lanshare/ftpd/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "ftpd",
	Short:   "ftpd is a small configuration-driven FTP server for LAN file sharing",
	Long:    "ftpd resolves a TOML configuration (accounts, permissions, connection limits, passive ports) into a running FTP server. A missing configuration file is created with documented defaults.",
	Version: version.VERSION,
	RunE:    rootRunE,

	SilenceUsage: true,
}

var (
	configFile string
	sharedDir  string
	port       int
	lang       string
)

func rootRunE(cmd *cobra.Command, args []string) error {
	log := logger.New()
	sink := logger.NewSink(log, i18n.NewRenderer(resolveLocale(lang)))

	opts := []ftpd.Option{
		ftpd.WithSink(sink),
		ftpd.WithEngineLogger(logger.Engine(log)),
	}
	if sharedDir != "" {
		opts = append(opts, ftpd.WithSharedDir(sharedDir))
	}
	if port != 0 {
		opts = append(opts, ftpd.WithPort(port))
	}
	manager := ftpd.New(configFile, opts...)

	// flag > document > default: without an explicit --language, the
	// configuration's language field selects the log locale
	if !cmd.Flags().Changed("language") {
		applyDocumentLanguage(manager.Store(), configFile, sink)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.Run(ctx); err != nil {
		// runtime failures were already reported through the sink
		var rf *ftpd.RuntimeFailure
		if !errors.As(err, &rf) {
			sink.Emit(i18n.LevelError, "server_startup_failed", map[string]any{"error": err.Error()})
		}
		return err
	}
	return nil
}

// resolveLocale maps a language tag to a supported locale, running host
// detection for "auto".
func resolveLocale(tag string) string {
	if tag == i18n.LocaleAuto {
		return i18n.Detect()
	}
	return i18n.Normalize(tag)
}

// applyDocumentLanguage re-binds the sink's renderer to the configuration
// document's language field. A document that cannot be read or validated
// keeps the current renderer; the startup path reports that error itself.
func applyDocumentLanguage(store *config.Store, path string, sink *logger.Sink) {
	cfg, err := store.Read(path)
	if err != nil {
		return
	}
	sink.SetRenderer(i18n.NewRenderer(resolveLocale(cfg.Language)))
}

func main() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", config.DefaultConfigName, "path to the configuration file; created with defaults when absent")
	rootCmd.Flags().StringVarP(&sharedDir, "shared-dir", "s", "", "shared directory for accounts without a home (default: ./"+config.DefaultSharedDir+")")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "listening port, overrides the configuration file")
	rootCmd.Flags().StringVarP(&lang, "language", "l", i18n.LocaleZhCN, "log language: zh_CN, en_US, or auto")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
