package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/veilproj/veil/internal/config"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Analyze a file or stdin without rewriting it",
	Long: `Scan reports what redaction would find: per-category counts, the
privacy risk score, and named-entity spans when the NER capability is
available. The input text is not echoed back.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "scan")
	defer span.End()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	var src io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		src = f
	}

	text, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	res := engine.Scan(ctx, string(text))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
