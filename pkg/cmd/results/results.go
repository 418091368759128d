package results

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/cmd/util"
	"github.com/mpapenbr/league-results/pkg/config"
	"github.com/mpapenbr/league-results/pkg/model"
)

var (
	raceID   string
	category string
)

func NewResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "prints the results of a race category",
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			return printResults()
		},
	}
	cmd.Flags().StringVar(&raceID, "race", "", "id of the race")
	cmd.Flags().StringVar(&category, "category", "", "category to compute")
	_ = cmd.MarkFlagRequired("race")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func printResults() error {
	league, err := util.LoadLeague()
	if err != nil {
		return err
	}
	race, ok := league.Race(raceID)
	if !ok {
		return fmt.Errorf("race %s not found", raceID)
	}
	p, err := league.NewProcessor()
	if err != nil {
		log.Error("invalid adjudication", log.ErrorField(err))
		return err
	}
	res, err := p.ComputeCategoryResults(race, category, league.Results[raceID][category])
	if err != nil {
		log.Error("could not compute results", log.ErrorField(err))
		return err
	}
	log.Debug("computed results",
		log.String("race", raceID),
		log.String("category", category),
		log.Int("rows", len(res.Rows)))
	if config.OutputFormat == config.OutputTable {
		var route *model.Route
		if r, ok := league.Route(race.RouteID); ok {
			route = &r
		}
		if err := util.WriteRaceHeader(os.Stdout, race, route, category); err != nil {
			return err
		}
	}
	return util.WriteCategoryResult(os.Stdout, config.OutputFormat, res)
}
