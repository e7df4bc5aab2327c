package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dewiweb/docserver/internal/api"
	"github.com/dewiweb/docserver/internal/catalog"
	"github.com/dewiweb/docserver/internal/config"
	"github.com/dewiweb/docserver/internal/parser"
	"github.com/dewiweb/docserver/internal/sandbox"
	"github.com/dewiweb/docserver/internal/stats"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "docserver",
		Short: "Serve a documentation tree to the browser viewer",
		Long: `docserver lists and reads Markdown documents, Mermaid diagrams and UI
mockups under a document root, for the browser-based documentation viewer.
Nothing outside the document root is readable through the API.

Configuration is read from flags, DOCSERVER_* environment variables (a .env
file is loaded first) and an optional .docserver.yaml.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfigFile(v, cfgFile); err != nil {
				return err
			}
			return run(cmd.Context(), config.Load(v))
		},
	}

	config.SetDefaults(v)

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .docserver.yaml in the working directory)")
	flags.StringP("port", "p", "8080", "port to listen on")
	flags.String("serve-dir", ".", "directory request paths are relative to")
	flags.String("document-root", "docs/architecture", "readable subtree of the serve dir")
	flags.StringSlice("mockup-prefix", []string{"docs/architecture/target"}, "subtrees served by /mockup (repeatable)")
	flags.StringSlice("exclude", []string{"node_modules", "vendor"}, "path substrings skipped by listings")
	flags.Bool("legacy-status-codes", false, "report every error as HTTP 500")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	for key, flag := range map[string]string{
		config.KeyPort:              "port",
		config.KeyServeDir:          "serve-dir",
		config.KeyDocumentRoot:      "document-root",
		config.KeyMockupPrefixes:    "mockup-prefix",
		config.KeyExclude:           "exclude",
		config.KeyLegacyStatusCodes: "legacy-status-codes",
		config.KeyLogLevel:          "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".docserver")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func run(ctx context.Context, cfg config.Config) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	resolver, err := sandbox.NewResolver(cfg.ServeDir, cfg.DocumentRoot)
	if err != nil {
		log.Error("invalid document root", "error", err)
		return err
	}
	builder := catalog.NewBuilder(resolver, catalog.Options{
		MockupPrefixes:  cfg.MockupPrefixes,
		Exclude:         cfg.Exclude,
		SectionPriority: cfg.SectionPriority,
		Parser:          parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	}, log)

	srv := api.NewServer(resolver, builder, stats.NewRecorder(cfg.StatsWindow), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting docserver",
		"port", cfg.Port,
		"serve_dir", resolver.ServeDir(),
		"document_root", resolver.Root(),
		"mockup_prefixes", cfg.MockupPrefixes,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
