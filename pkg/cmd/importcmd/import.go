package importcmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/cmd/util"
	"github.com/mpapenbr/league-results/pkg/importer/zwift"
)

var (
	raceID        string
	category      string
	sourceID      string
	finishersFile string
	segmentFiles  []string
	riders        map[string]string
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "imports results fetched from the Zwift API",
		Long: `reads the event results and the segment results of a category and stores
them as raw results in the data file. Existing results of the category are replaced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			return importResults()
		},
	}
	cmd.Flags().StringVar(&raceID, "race", "", "id of the race")
	cmd.Flags().StringVar(&category, "category", "", "category to import")
	cmd.Flags().StringVar(&sourceID, "source", "",
		"external result source (multi mode), resolves the category if --category is omitted")
	cmd.Flags().StringVar(&finishersFile, "finishers", "", "file with the event results")
	cmd.Flags().StringArrayVar(&segmentFiles, "segment", []string{},
		"segment results as <segmentId>=<file>, may be repeated")
	cmd.Flags().StringToStringVar(&riders, "rider", map[string]string{},
		"registered riders as <zwiftId>=<name>. If given, only these riders are imported")
	_ = cmd.MarkFlagRequired("race")
	_ = cmd.MarkFlagRequired("finishers")
	cmd.MarkFlagsOneRequired("category", "source")
	return cmd
}

func importResults() error {
	league, err := util.LoadLeague()
	if err != nil {
		return err
	}
	race, ok := league.Race(raceID)
	if !ok {
		return fmt.Errorf("race %s not found", raceID)
	}
	if category == "" {
		if category, ok = race.CategoryForSource(sourceID); !ok {
			return fmt.Errorf("race %s has no category for source %s", raceID, sourceID)
		}
	}
	cfg, ok := race.CategoryConfig(category)
	if !ok {
		return fmt.Errorf("race %s has no category %s", raceID, category)
	}
	finishers, err := os.ReadFile(finishersFile)
	if err != nil {
		return err
	}
	payloads := map[string][]byte{}
	for _, s := range segmentFiles {
		id, file, found := strings.Cut(s, "=")
		if !found {
			return fmt.Errorf("invalid segment argument %q", s)
		}
		if payloads[id], err = os.ReadFile(file); err != nil {
			return err
		}
	}
	opts := []zwift.Option{}
	if len(riders) > 0 {
		opts = append(opts, zwift.WithRegisteredRiders(riders))
	}
	raw, err := zwift.NewImporter(opts...).Import(finishers, payloads, cfg.Segments)
	if err != nil {
		log.Error("could not import results", log.ErrorField(err))
		return err
	}
	league.SetResults(raceID, category, raw)
	if err := util.SaveLeague(league); err != nil {
		return err
	}
	log.Info("imported results",
		log.String("race", raceID),
		log.String("category", category),
		log.Int("riders", len(raw)))
	return nil
}
