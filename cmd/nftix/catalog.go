package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravkun27/nftix/internal/catalog"
	"github.com/ravkun27/nftix/internal/domain"
)

var (
	normalizeFormat string
	normalizeStatus string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect catalog documents",
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file|-]",
	Short: "Normalize a raw catalog document and print the events as JSON",
	Long: `Reads a JSON or YAML catalog (an array of records or an object with an
"events" array) from a file, or from stdin when the argument is "-" or
omitted, and prints the fully populated events in catalog order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeFormat, "format", "", "input format: json or yaml (default from the file extension)")
	normalizeCmd.Flags().StringVar(&normalizeStatus, "status", "", "only print events with this status")
	catalogCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	data, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	format := catalog.FormatJSON
	if path != "-" {
		format = catalog.FormatFromPath(path)
	}
	if normalizeFormat != "" {
		format = catalog.Format(normalizeFormat)
		if format != catalog.FormatJSON && format != catalog.FormatYAML {
			return fmt.Errorf("unsupported format %q", normalizeFormat)
		}
	}

	records, err := catalog.Decode(data, format)
	if err != nil {
		return err
	}

	events := catalog.Normalize(records, time.Now())
	if normalizeStatus != "" {
		status := domain.EventStatus(normalizeStatus)
		if !status.IsValid() {
			return fmt.Errorf("unknown status %q", normalizeStatus)
		}
		events = catalog.FilterByStatus(events, status)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
