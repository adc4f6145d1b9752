package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrguard/internal/capture"
	"github.com/nao1215/qrguard/internal/execx"
)

// NewDevicesCmd creates the devices command.
func NewDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List video capture devices",
		Long: `Devices lists the Video4Linux capture devices that 'qrguard scan --camera'
can use. The first device is used when --device is not given.`,
		Args: cobra.NoArgs,
		RunE: runDevicesCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runDevicesCmd executes the devices command.
func runDevicesCmd(cmd *cobra.Command, _ []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	camera := capture.NewV4L2Camera(execx.OSRunner{}, capture.WithFFmpegPath(cfg.FFmpegPath))
	devices, err := camera.Devices(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if devices == nil {
			devices = []capture.Device{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(devices)
	}

	if len(devices) == 0 {
		writeLine(out, "No capture devices found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tPATH")
	for i, d := range devices {
		id := d.ID
		if i == 0 {
			id += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, d.Label, d.Path)
	}
	return tw.Flush()
}
