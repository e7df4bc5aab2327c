package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/dewiweb/docserver/internal/catalog"
	"github.com/dewiweb/docserver/internal/sandbox"
)

// EnvPrefix namespaces environment overrides, e.g. DOCSERVER_DOCUMENT_ROOT.
const EnvPrefix = "DOCSERVER"

// Keys.
const (
	KeyPort                 = "port"
	KeyServeDir             = "serve_dir"
	KeyDocumentRoot         = "document_root"
	KeyMockupPrefixes       = "mockup_prefixes"
	KeyExclude              = "exclude"
	KeySectionPriority      = "section_priority"
	KeyLegacyStatusCodes    = "legacy_status_codes"
	KeyLogLevel             = "log_level"
	KeyPDFFallbackPdftotext = "pdf_fallback_pdftotext"
	KeyStatsWindow          = "stats_window"
)

type Config struct {
	Port string

	// ServeDir is what request paths are relative to; DocumentRoot is the
	// readable subtree inside it.
	ServeDir     string
	DocumentRoot string

	// MockupPrefixes narrow /mockup and /list-mockups; each lies inside
	// DocumentRoot.
	MockupPrefixes []string

	// Listing
	Exclude         []string
	SectionPriority []string

	// LegacyStatusCodes reports every failure as 500.
	LegacyStatusCodes bool

	LogLevel string

	// PDF
	PDFFallbackPdftotext bool

	// Latency stats
	StatsWindow time.Duration
}

// SetDefaults registers defaults and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyServeDir, ".")
	v.SetDefault(KeyDocumentRoot, "docs/architecture")
	v.SetDefault(KeyMockupPrefixes, []string{"docs/architecture/target"})
	v.SetDefault(KeyExclude, []string{"node_modules", "vendor"})
	v.SetDefault(KeySectionPriority, catalog.DefaultSectionPriority)
	v.SetDefault(KeyLegacyStatusCodes, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPDFFallbackPdftotext, false)
	v.SetDefault(KeyStatsWindow, time.Hour)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from v.
func Load(v *viper.Viper) Config {
	cfg := Config{
		Port: v.GetString(KeyPort),

		ServeDir:     v.GetString(KeyServeDir),
		DocumentRoot: v.GetString(KeyDocumentRoot),

		MockupPrefixes: list(v.GetStringSlice(KeyMockupPrefixes)),

		Exclude:         list(v.GetStringSlice(KeyExclude)),
		SectionPriority: list(v.GetStringSlice(KeySectionPriority)),

		LegacyStatusCodes: v.GetBool(KeyLegacyStatusCodes),

		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),

		PDFFallbackPdftotext: v.GetBool(KeyPDFFallbackPdftotext),

		StatsWindow: v.GetDuration(KeyStatsWindow),
	}

	if cfg.ServeDir == "" {
		cfg.ServeDir = "."
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.By(validPort)),
		validation.Field(&c.DocumentRoot, validation.Required, validation.By(validPrefix)),
		validation.Field(&c.MockupPrefixes,
			validation.Required,
			validation.Each(validation.By(validPrefix), validation.By(inside(c.DocumentRoot))),
		),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.StatsWindow, validation.Min(time.Second)),
	)
}

// Level maps LogLevel onto slog.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validPort(value any) error {
	s, _ := value.(string)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return errors.New("must be a port number between 1 and 65535")
	}
	return nil
}

func validPrefix(value any) error {
	s, _ := value.(string)
	_, err := sandbox.CleanPrefix(s)
	return err
}

func inside(root string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		r, err := sandbox.CleanPrefix(root)
		if err != nil {
			// Reported on document_root itself.
			return nil
		}
		p, err := sandbox.CleanPrefix(s)
		if err != nil {
			return nil
		}
		if p != r && !strings.HasPrefix(p, r+"/") {
			return fmt.Errorf("must be inside the document root %q", r)
		}
		return nil
	}
}

// list flattens comma-separated items, as environment variables deliver
// lists as a single string.
func list(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
