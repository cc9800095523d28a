package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nayna-import-api/internal/importer"
	"github.com/spf13/cobra"
)

func newSchemasCmd() *cobra.Command {
	var template bool

	cmd := &cobra.Command{
		Use:   "schemas [kind]",
		Short: "List import schemas and the header spellings they accept",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := importer.Kinds()
			if len(args) == 1 {
				kinds = args
			}

			out := cmd.OutOrStdout()
			for _, kind := range kinds {
				schema, ok := importer.Lookup(kind)
				if !ok {
					return fmt.Errorf("unknown kind %q, expected one of %v", kind, importer.Kinds())
				}

				if template {
					fmt.Fprintln(out, strings.Join(schema.Headers(), ","))
					continue
				}

				fmt.Fprintf(out, "%s\n", kind)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "  FIELD\tREQUIRED\tTYPE\tDEFAULT\tHEADERS")
				for _, f := range schema.Fields() {
					fmt.Fprintf(tw, "  %s\t%t\t%s\t%s\t%s\n",
						f.Key, f.Required, f.Coerce, f.Default, strings.Join(f.Aliases, ", "))
				}
				tw.Flush()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, "Print only the CSV header row")
	return cmd
}
