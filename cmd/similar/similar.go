// Package similar contains the structure similarity search command.
package similar

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ops4go/phacts/internal/output"
	"github.com/ops4go/phacts/internal/runtime"
)

// Command creates the similar command.
func Command(rt *runtime.Context) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "similar <smiles>",
		Short: "Find compounds structurally similar to a SMILES string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.RequireService()
			if err != nil {
				return err
			}
			mol, err := svc.Toolkit().ParseSMILES(args[0])
			if err != nil {
				return err
			}

			var t *float64
			if cmd.Flags().Changed("threshold") {
				t = &threshold
			}

			// Text output streams matches as they are produced.
			if rt.Format == output.FormatText {
				w := cmd.OutOrStdout()
				for uri, err := range svc.FindSimilar(cmd.Context(), mol, t) {
					if err != nil {
						return err
					}
					fmt.Fprintln(w, uri)
				}
				return nil
			}

			uris, err := svc.CollectSimilar(cmd.Context(), mol, t)
			if err != nil {
				return err
			}
			return rt.Write(cmd.OutOrStdout(), uris)
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Tanimoto similarity cutoff in (0, 1] (default from settings)")
	return cmd
}
