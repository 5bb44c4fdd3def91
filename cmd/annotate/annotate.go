// Package annotate contains the command that resolves and annotates entities.
package annotate

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/phacts"
	"github.com/ops4go/phacts/internal/progress"
	"github.com/ops4go/phacts/internal/runtime"
)

// Command creates the annotate command.
func Command(rt *runtime.Context) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "annotate compounds|proteins <text>",
		Short: "Search for entities and annotate them with their properties",
		Long: `Search ConceptWiki for the text and annotate every match. Compounds get their
structure, properties and pharmacology; proteins their target record.

Interrupting the command stops after the entity in progress and prints what
was annotated so far.`,
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

			ctx := cmd.Context()
			tracker := progress.NewTracker(nil)

			entities, err := svc.Search(ctx, strings.Join(args[1:], " "), kind, tracker)
			if err != nil {
				return err
			}
			if limit > 0 && len(entities) > limit {
				entities = entities[:limit]
			}

			stop := cancelOnInterrupt(tracker)
			defer stop()

			var result any
			switch kind {
			case phacts.KindCompound:
				result, err = svc.CompoundAnnotations(ctx, entities, tracker)
			default:
				result, err = svc.ProteinAnnotations(ctx, entities, tracker)
			}
			if err != nil {
				return err
			}

			if snap := tracker.Snapshot(); snap.Cancelled {
				logger.Global().Module("cli").Warn("annotation interrupted, output is partial",
					logger.Int("done", snap.Done),
					logger.Int("total", snap.Total))
			}
			return rt.Write(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Annotate at most this many matches (0 = all)")
	return cmd
}

// cancelOnInterrupt turns SIGINT/SIGTERM into a cooperative cancel of tracker.
func cancelOnInterrupt(tracker *progress.Tracker) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case <-sigChan:
			tracker.Cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
