package watch

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/league-results/log"
	standingsCmd "github.com/mpapenbr/league-results/pkg/cmd/standings"
	"github.com/mpapenbr/league-results/pkg/cmd/util"
	"github.com/mpapenbr/league-results/pkg/config"
	"github.com/mpapenbr/league-results/pkg/snapshot"
)

var category string

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "recomputes the standings whenever the data file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := util.SetupLogger()
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return watchStandings(log.AddToContext(ctx, logger))
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category to compute")
	cmd.Flags().DurationVar(&config.WatchDebounce, "debounce", 500*time.Millisecond,
		"quiet period after a change before the standings are recomputed")
	return cmd
}

func watchStandings(ctx context.Context) error {
	store := snapshot.NewStore()
	l := log.GetFromContext(ctx).Named("watch")
	show := func() {
		league, err := store.Get(ctx, config.DataFile)
		if err != nil {
			l.Error("could not load league", log.ErrorField(err))
			return
		}
		if err := standingsCmd.Print(os.Stdout, league, category); err != nil {
			l.Error("could not print standings", log.ErrorField(err))
		}
	}
	show()
	w := NewWatcher(config.DataFile,
		WithDebounce(config.WatchDebounce),
		WithLogger(l),
		WithOnChange(func() {
			store.Invalidate(ctx, config.DataFile)
			show()
		}))
	err := w.Run(ctx)
	l.Info("watch terminated")
	return err
}
