// Package endpoint contains the commands that show and change the API endpoint.
package endpoint

import (
	"github.com/spf13/cobra"

	"github.com/ops4go/phacts/internal/runtime"
)

// Settings is the rendered form of the endpoint preferences.
type Settings struct {
	Endpoint    string `json:"endpoint" yaml:"endpoint"`
	ConceptBase string `json:"concept_base" yaml:"concept_base"`
}

func (s Settings) String() string {
	return "endpoint:     " + s.Endpoint + "\nconcept base: " + s.ConceptBase
}

// Command creates the endpoint command group.
func Command(rt *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Show or change the Open PHACTS endpoint",
	}
	cmd.AddCommand(getCommand(rt), setCommand(rt))
	return cmd
}

func current(rt *runtime.Context) (Settings, error) {
	svc, err := rt.RequireService()
	if err != nil {
		return Settings{}, err
	}
	return Settings{Endpoint: svc.Endpoint(), ConceptBase: svc.ConceptBase()}, nil
}

func getCommand(rt *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the endpoint and concept base in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := current(rt)
			if err != nil {
				return err
			}
			return rt.Write(cmd.OutOrStdout(), s)
		},
	}
}

func setCommand(rt *runtime.Context) *cobra.Command {
	var conceptBase string

	cmd := &cobra.Command{
		Use:   "set <url>",
		Short: "Store a new endpoint in the preferences",
		Long: `Store a new endpoint in the preferences. With the memory backend the change
only lasts for this process; configure prefs.backend as file or sqlite to keep it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.RequireService()
			if err != nil {
				return err
			}
			if err := svc.SetEndpoint(args[0]); err != nil {
				return err
			}
			if conceptBase != "" {
				if err := svc.SetConceptBase(conceptBase); err != nil {
					return err
				}
			}
			s, err := current(rt)
			if err != nil {
				return err
			}
			return rt.Write(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().StringVar(&conceptBase, "concept-base", "", "Also store a new concept base URL")
	return cmd
}
