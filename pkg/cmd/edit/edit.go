package edit

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/cmd/util"
	"github.com/mpapenbr/league-results/pkg/processing"
	"github.com/mpapenbr/league-results/pkg/processing/timecodec"
)

var (
	raceID     string
	category   string
	riderID    string
	segmentKey string
	timeInput  string
)

func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "corrects the world time of a rider at a segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			return edit()
		},
	}
	cmd.Flags().StringVar(&raceID, "race", "", "id of the race")
	cmd.Flags().StringVar(&category, "category", "", "category of the rider")
	cmd.Flags().StringVar(&riderID, "rider", "", "zwift id of the rider")
	cmd.Flags().StringVar(&segmentKey, "segment", "", "segment key (e.g. 12_1_2)")
	cmd.Flags().StringVar(&timeInput, "time", "", "new world time (HH:MM:SS.mmm)")
	for _, name := range []string{"race", "category", "rider", "segment", "time"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func edit() error {
	league, err := util.LoadLeague()
	if err != nil {
		return err
	}
	race, ok := league.Race(raceID)
	if !ok {
		return fmt.Errorf("race %s not found", raceID)
	}
	cfg, ok := race.CategoryConfig(category)
	if !ok {
		return fmt.Errorf("race %s has no category %s", raceID, category)
	}
	p := processing.NewProcessor(processing.WithSettings(league.Settings))
	raw, res, err := p.EditWorldTime(
		league.Results[raceID][category], cfg.Segments, riderID, segmentKey, timeInput, time.Now())
	if err != nil {
		log.Error("could not edit world time", log.ErrorField(err))
		return err
	}
	league.SetResults(raceID, category, raw)
	if err := util.SaveLeague(league); err != nil {
		return err
	}
	log.Info("world time changed",
		log.String("rider", res.RiderID),
		log.String("segment", res.SegmentKey),
		log.String("old", timecodec.FormatTimeOfDay(res.Old)),
		log.String("new", timecodec.FormatTimeOfDay(res.New)))
	return nil
}
