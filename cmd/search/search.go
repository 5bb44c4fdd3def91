// Package search contains the command that resolves free text to concepts.
package search

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ops4go/phacts/internal/phacts"
	"github.com/ops4go/phacts/internal/progress"
	"github.com/ops4go/phacts/internal/runtime"
)

// Command creates the search command.
func Command(rt *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:       "search compounds|proteins <text>",
		Short:     "Search ConceptWiki for compounds or proteins",
		Example:   "  phacts search compounds aspirin",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"compounds", "proteins"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := phacts.ParseKind(args[0])
			if err != nil {
				return err
			}
			svc, err := rt.RequireService()
			if err != nil {
				return err
			}

			records, err := svc.Search(cmd.Context(), strings.Join(args[1:], " "), kind, progress.NewTracker(nil))
			if err != nil {
				return err
			}
			return rt.Write(cmd.OutOrStdout(), records)
		},
	}
}
