// Package uri contains the command that looks up the compound URI of a structure.
package uri

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/runtime"
)

// Command creates the uri command.
func Command(rt *runtime.Context) *cobra.Command {
	var inchi string

	cmd := &cobra.Command{
		Use:   "uri <smiles>",
		Short: "Look up the compound URI for a structure",
		Long: `Look up the compound URI for a structure by its InChI. The built-in chemistry
toolkit does not derive InChI from SMILES, so pass it with --inchi.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.RequireService()
			if err != nil {
				return err
			}
			mol, err := svc.Toolkit().ParseSMILES(args[0])
			if err != nil {
				return err
			}
			if inchi != "" {
				mol.SetInChI(inchi)
			}

			found, ok, err := svc.ResolveURIForStructure(cmd.Context(), mol)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(fmt.Errorf("no compound matches %s", args[0])).
					Component("cli").
					Category(errors.CategoryNotFound).
					Build()
			}
			return rt.Write(cmd.OutOrStdout(), found)
		},
	}

	cmd.Flags().StringVar(&inchi, "inchi", "", "InChI identifier of the structure")
	return cmd
}
