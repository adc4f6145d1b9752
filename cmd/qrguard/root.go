package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrguard/internal/config"
)

// NewRootCmd creates the root command for qrguard.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qrguard",
		Short: "Check QR codes for fraud before you open them",
		Long: `qrguard checks QR code payloads for phishing, malware and scams.

A payload is captured from a camera, read from an image file, or given as
text, then sent to Google Gemini, which returns a structured verdict:
SAFE, WARNING, DANGER or UNKNOWN, with reasons and safety tips.

The API key is read from GEMINI_API_KEY (or API_KEY).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .qrguard in current or home directory)")
	cmd.PersistentFlags().String("model", "", "Gemini model (default: "+config.DefaultModel+")")
	cmd.PersistentFlags().String("proxy", "",
		"Route API traffic through a SOCKS5 proxy (e.g., 127.0.0.1:9050 for Tor)")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewDevicesCmd())
	cmd.AddCommand(NewSimulateCmd())
	cmd.AddCommand(NewCasesCmd())
	cmd.AddCommand(NewQuizCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
