package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peter-kozarec/hedgefx/internal/document"
)

func newFmtCmd(e *env) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Validate a strategy document and print it in canonical form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("-f is required")
			}

			doc, err := document.Load(path)
			if err != nil {
				return err
			}
			strategy, err := doc.Strategy()
			if err != nil {
				return err
			}
			for i, leg := range strategy {
				if _, err := leg.Resolve(doc.ReferenceSpot); err != nil {
					return fmt.Errorf("leg %d (%s): %w", i, leg.Type, err)
				}
			}

			canonical := document.FromStrategy(doc.Name, doc.Market, strategy)
			canonical.ReferenceSpot = doc.ReferenceSpot
			return canonical.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Strategy document (YAML)")
	return cmd
}
