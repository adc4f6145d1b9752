package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrguard/internal/classify"
	"github.com/nao1215/qrguard/internal/config"
	"github.com/nao1215/qrguard/internal/database"
	"github.com/nao1215/qrguard/internal/gemini"
	qlog "github.com/nao1215/qrguard/internal/log"
	"github.com/nao1215/qrguard/internal/report"
)

// buildConfig creates a Config from defaults, the configuration file and
// the command flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	if err := applyFlag(cmd, "config", &cfg.ConfigFilePath, cmd.Flags().GetString); err != nil {
		return nil, err
	}

	// An explicitly named file must exist; the default search is optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	var file *config.File
	if configPath != "" {
		var err error
		file, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.APIKey = config.ResolveAPIKey(os.LookupEnv, file.APIKeyEnvNames()...)

	for _, err := range []error{
		applyFlag(cmd, "verbose", &cfg.Verbose, cmd.Flags().GetBool),
		applyFlag(cmd, "log-json", &cfg.LogJSON, cmd.Flags().GetBool),
		applyFlag(cmd, "model", &cfg.Model, cmd.Flags().GetString),
		applyFlag(cmd, "proxy", &cfg.ProxyAddress, cmd.Flags().GetString),
		applyFlag(cmd, "timeout", &cfg.Timeout, cmd.Flags().GetDuration),
		applyFlag(cmd, "json", &cfg.JSONReport, cmd.Flags().GetBool),
		applyFlag(cmd, "markdown", &cfg.MarkdownReport, cmd.Flags().GetBool),
		applyFlag(cmd, "output", &cfg.ReportFile, cmd.Flags().GetString),
		applyFlag(cmd, "batch", &cfg.BatchSize, cmd.Flags().GetInt),
		applyFlag(cmd, "device", &cfg.CameraDevice, cmd.Flags().GetString),
		applyFlag(cmd, "addr", &cfg.ServerAddr, cmd.Flags().GetString),
	} {
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyFlag copies a flag value into dst when the command defines the flag
// and the user set it. Unset flags keep the value from the config file.
func applyFlag[T any](cmd *cobra.Command, name string, dst *T, get func(string) (T, error)) error {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// newLogger creates the secure logger selected by the configuration.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogJSON {
		return qlog.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return qlog.NewSecureLogger(w, cfg.Verbose)
}

// newClassifier creates a classification client backed by Gemini.
func newClassifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*classify.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	adapter, err := gemini.New(ctx, gemini.Config{
		APIKey:       cfg.APIKey,
		Model:        cfg.Model,
		BaseURL:      cfg.BaseURL,
		ProxyAddress: cfg.ProxyAddress,
		Timeout:      cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("classification client ready",
		"model", adapter.Model(),
		"proxy", cfg.ProxyAddress,
	)

	return classify.NewClient(adapter, classify.WithLogger(logger)), nil
}

// openLibrary opens the case library in the configured data directory.
func openLibrary(cfg *config.Config) (*database.Library, error) {
	lib, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open case library: %w", err)
	}
	return lib, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// openOutput returns the report destination: the configured report file,
// or stdout. The returned close function is always non-nil.
func openOutput(cfg *config.Config, stdout io.Writer) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain the scanned content, so the file is owner-only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// newWriter returns the report writer for the configured format.
func newWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out,
			report.WithColor(useColor(out)),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// useColor reports whether out is a terminal and NO_COLOR is unset.
func useColor(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// addReportFlags adds the output format flags shared by several commands.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}
