// Package mapuri contains the command that lists the exact matches of a URI.
package mapuri

import (
	"github.com/spf13/cobra"

	"github.com/ops4go/phacts/internal/runtime"
)

// Command creates the map command.
func Command(rt *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:     "map <uri>",
		Short:   "List the URIs other datasets use for the same concept",
		Example: "  phacts map http://www.conceptwiki.org/concept/38932552-111f-4a4e-a46a-4ed1d7bdf9d5",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.RequireService()
			if err != nil {
				return err
			}
			uris, err := svc.MapURI(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return rt.Write(cmd.OutOrStdout(), uris)
		},
	}
}
