package standings

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/cmd/util"
	"github.com/mpapenbr/league-results/pkg/config"
	"github.com/mpapenbr/league-results/pkg/model"
	"github.com/mpapenbr/league-results/pkg/snapshot"
)

var category string

func NewStandingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "prints the league table",
		Long:  "prints the league table of a category, all categories if none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			league, err := util.LoadLeague()
			if err != nil {
				return err
			}
			return Print(os.Stdout, league, category)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category to compute")
	return cmd
}

// Print computes and writes the league table of category.
// An empty category prints every category with results.
func Print(w io.Writer, league *snapshot.League, category string) error {
	p, err := league.NewProcessor()
	if err != nil {
		log.Error("invalid adjudication", log.ErrorField(err))
		return err
	}
	categories := []string{category}
	if category == "" {
		categories = league.Categories()
	}
	races := slices.Clone(league.Races)
	slices.SortStableFunc(races, func(a, b model.Race) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
	})
	for _, c := range categories {
		entries := p.ComputeStandings(league.Races, c, league.AllResults())
		if config.OutputFormat == config.OutputTable || config.OutputFormat == "" {
			fmt.Fprintf(w, "Category %s\n", c)
		}
		if err := util.WriteStandings(w, config.OutputFormat, races, entries); err != nil {
			return err
		}
	}
	return nil
}
