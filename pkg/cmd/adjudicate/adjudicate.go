package adjudicate

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/cmd/util"
	"github.com/mpapenbr/league-results/pkg/processing"
)

var (
	raceID  string
	riderID string
	action  string
)

func NewAdjudicateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjudicate",
		Short: "disqualifies, declassifies or excludes a rider",
		Long: `changes the status of a rider in a race and stores it in the data file.
Actions: dq, declassify, exclude, clear-dq, clear-declassify, clear-exclude`,
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			return adjudicate()
		},
	}
	cmd.Flags().StringVar(&raceID, "race", "", "id of the race")
	cmd.Flags().StringVar(&riderID, "rider", "", "zwift id of the rider")
	cmd.Flags().StringVar(&action, "action", "", "action to apply")
	_ = cmd.MarkFlagRequired("race")
	_ = cmd.MarkFlagRequired("rider")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func adjudicate() error {
	league, err := util.LoadLeague()
	if err != nil {
		return err
	}
	p, err := league.NewProcessor()
	if err != nil {
		log.Error("invalid adjudication", log.ErrorField(err))
		return err
	}
	t, err := p.Adjudicate(league.RaceResults(raceID), riderID, processing.Action(action))
	if err != nil {
		log.Error("could not adjudicate", log.ErrorField(err))
		return err
	}
	if !t.Changed() {
		log.Info("status unchanged", log.String("rider", riderID), log.String("status", t.To.String()))
		return nil
	}
	league.ApplyAdjudication(p.Adjudication())
	if err := util.SaveLeague(league); err != nil {
		return err
	}
	log.Info("status changed",
		log.String("race", raceID),
		log.String("rider", riderID),
		log.String("from", t.From.String()),
		log.String("to", t.To.String()))
	return nil
}
