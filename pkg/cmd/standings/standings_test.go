package standings

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/league-results/pkg/config"
	"github.com/mpapenbr/league-results/pkg/model"
	"github.com/mpapenbr/league-results/pkg/snapshot"
	"github.com/mpapenbr/league-results/testsupport/sampledata"
)

func sampleLeague() *snapshot.League {
	l := &snapshot.League{Settings: sampledata.SampleSettings(), Races: sampledata.SampleRaces()}
	for raceID, rr := range sampledata.SampleResults() {
		for cat, riders := range rr.Categories {
			l.SetResults(raceID, cat, riders)
		}
	}
	return l
}

func TestPrint(t *testing.T) {
	config.OutputFormat = config.OutputTable
	var buf bytes.Buffer
	assert.NoError(t, Print(&buf, sampleLeague(), ""))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Category A", lines[0])
	assert.Equal(t, []string{"Rank", "Rider", "Total", "Races", "r1", "r2", "r3", "Last", "race"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1", "Anna", "35", "3", "20", "15", "(0)", "2024-01-15"}, strings.Fields(lines[2]))

	config.OutputFormat = config.OutputJSON
	defer func() { config.OutputFormat = config.OutputTable }()
	buf.Reset()
	assert.NoError(t, Print(&buf, sampleLeague(), sampledata.Category))
	var entries []model.StandingsEntry
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Len(t, entries, 3)
}
