package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nayna-import-api/internal/importer"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	kind    string
	file    string
	asJSON  bool
	maxRows int
	reasons int
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a CSV file and report what would be imported",
		Long: `Parse reads a CSV file with the import rules for the given kind and
prints how many rows would be accepted and skipped. Nothing is stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", importer.KindGuests, "Record kind (guests, rooms)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV file to parse (required)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print parsed records as JSON")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "Maximum data rows to read (0 for no limit)")
	cmd.Flags().IntVar(&opts.reasons, "reasons", 20, "Maximum skip reasons to print")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runParse(cmd *cobra.Command, opts *parseOptions) error {
	schema, ok := importer.Lookup(opts.kind)
	if !ok {
		return fmt.Errorf("unknown kind %q, expected one of %v", opts.kind, importer.Kinds())
	}
	if err := importer.CheckFilename(filepath.Base(opts.file)); err != nil {
		return fmt.Errorf("%s: %w", opts.file, err)
	}

	raw, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	text, err := importer.Decode(raw)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", opts.file, err)
	}

	res := importer.ParseWithOptions(text, schema, importer.Options{
		MaxRows:        opts.maxRows,
		CollectReasons: true,
		MaxReasons:     opts.reasons,
	})

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "%s: %d accepted, %d skipped\n", opts.file, len(res.Records), res.Skipped)
	for _, r := range res.Reasons {
		fmt.Fprintf(out, "  line %d: %s\n", r.Line, r.Message)
	}
	if res.Empty() {
		fmt.Fprintf(out, "No valid %s data found in CSV file\n", importer.Noun(opts.kind))
	}
	return nil
}
