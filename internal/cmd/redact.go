package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/veilproj/veil/internal/config"
)

var (
	redactNoSynthetic bool
	redactJSONSummary bool
)

var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Redact a file or stdin, streaming line by line",
	Long: `Redact reads the given file (or stdin when omitted) and writes the
redacted text to stdout one line at a time, holding only the current line in
memory. A summary with per-category counts and the risk score goes to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRedact,
}

func init() {
	redactCmd.Flags().BoolVar(&redactNoSynthetic, "no-synthetic", false, "use fixed placeholders instead of synthetic values")
	redactCmd.Flags().BoolVar(&redactJSONSummary, "json", false, "print the summary as JSON")
	rootCmd.AddCommand(redactCmd)
}

func runRedact(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "redact")
	defer span.End()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if redactNoSynthetic {
		cfg.SyntheticEnabled = false
	}
	// NER is advisory and needs the full text; the streaming CLI mode
	// skips it regardless of config.
	cfg.NEREnabled = false

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

	res, err := engine.RedactStream(ctx, src, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("redacting: %w", err)
	}

	if redactJSONSummary {
		summary, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), string(summary))
		return nil
	}

	log.Info().
		Int("emails", res.Counts.Emails).
		Int("ips", res.Counts.IPs).
		Int("secrets", res.Counts.Secrets).
		Int("urls", res.Counts.URLs).
		Int("aws_keys", res.Counts.AWSKeys).
		Int("jwts", res.Counts.JWTs).
		Int("phones", res.Counts.Phones).
		Float64("pii_score", res.PIIScore).
		Msg("redaction_summary")
	return nil
}
