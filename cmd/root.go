package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ops4go/phacts/cmd/annotate"
	"github.com/ops4go/phacts/cmd/endpoint"
	"github.com/ops4go/phacts/cmd/mapuri"
	"github.com/ops4go/phacts/cmd/search"
	"github.com/ops4go/phacts/cmd/serve"
	"github.com/ops4go/phacts/cmd/similar"
	"github.com/ops4go/phacts/cmd/uri"
	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/output"
	"github.com/ops4go/phacts/internal/runtime"
)

// RootCommand creates and returns the root command
func RootCommand(rt *runtime.Context) *cobra.Command {
	var opts runtime.Options

	rootCmd := &cobra.Command{
		Use:           "phacts",
		Short:         "Open PHACTS query CLI",
		Long:          "Search, annotate and map compounds and proteins through the Open PHACTS linked data API.",
		Version:       rt.Build.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, &opts); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		search.Command(rt),
		annotate.Command(rt),
		mapuri.Command(rt),
		similar.Command(rt),
		uri.Command(rt),
		endpoint.Command(rt),
		serve.Command(rt),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rt.Init(opts)
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return rt.Close()
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, opts *runtime.Options) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Config file (default searches ., ~/.config/phacts, /etc/phacts)")
	flags.BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug output")
	formats := make([]string, 0, len(output.Formats))
	for _, f := range output.Formats {
		formats = append(formats, string(f))
	}
	flags.StringVarP(&opts.Output, "output", "o", "",
		fmt.Sprintf("Output format: %s (default %q)", strings.Join(formats, ", "), conf.DefaultOutput))

	for _, name := range []string{"debug", "output"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}
