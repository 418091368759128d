package util

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/league-results/pkg/config"
	"github.com/mpapenbr/league-results/pkg/model"
)

// WriteStructured writes v as json or yaml.
// It reports false if the format is table (or unknown).
func WriteStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// WriteCategoryResult renders a result table in the configured format.
func WriteCategoryResult(w io.Writer, format string, res *model.CategoryResult) error {
	if done, err := WriteStructured(w, format, res); done {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"Pos", "Rider", "Status", "Finish"}
	header = append(header, lo.Map(res.Columns, func(c model.Column, _ int) string { return c.Label })...)
	header = append(header, "Points", "League", "")
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i := range res.Rows {
		row := &res.Rows[i]
		cols := []string{strconv.Itoa(row.Position), row.Name, statusLabel(row.Status), row.Finish.Display}
		cols = append(cols, lo.Map(row.Cells, func(c model.Cell, _ int) string { return c.Display })...)
		league := "-"
		if row.LeaguePoints != nil {
			league = strconv.Itoa(*row.LeaguePoints)
		}
		stale := ""
		if row.Stale {
			stale = "*"
		}
		cols = append(cols, strconv.Itoa(row.TotalPoints), league, stale)
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}

// WriteRaceHeader writes a one line race summary for table output.
// The route is optional, distance and elevation are omitted without it.
//
//nolint:whitespace // readability
func WriteRaceHeader(
	w io.Writer,
	race model.Race,
	route *model.Route,
	category string,
) error {
	line := fmt.Sprintf("%s (%s, %s) %s",
		race.Name, race.Type, race.Date.Format("2006-01-02"), category)
	if route != nil {
		line += fmt.Sprintf(" - %s %.1f km %.0f m",
			route.Name, race.TotalDistance(*route, category), race.TotalElevation(*route, category))
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// WriteStandings renders the league table in the configured format.
func WriteStandings(w io.Writer, format string, races []model.Race, entries []model.StandingsEntry) error {
	if done, err := WriteStructured(w, format, entries); done {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"Rank", "Rider", "Total", "Races"}
	header = append(header, lo.Map(races, func(r model.Race, _ int) string { return r.ID })...)
	header = append(header, "Last race")
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i := range entries {
		e := &entries[i]
		byRace := lo.SliceToMap(e.Results, func(r model.RaceResult) (string, model.RaceResult) {
			return r.RaceID, r
		})
		cols := []string{strconv.Itoa(e.Rank), e.Name, strconv.Itoa(e.BestTotal), strconv.Itoa(e.RaceCount)}
		for _, race := range races {
			r, ok := byRace[race.ID]
			switch {
			case !ok:
				cols = append(cols, "-")
			case r.Counted:
				cols = append(cols, strconv.Itoa(r.Points))
			default:
				cols = append(cols, "("+strconv.Itoa(r.Points)+")")
			}
		}
		last := "-"
		if !e.LastRaceDate.IsZero() {
			last = e.LastRaceDate.Format("2006-01-02")
		}
		cols = append(cols, last)
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}

func statusLabel(st model.Status) string {
	switch st {
	case model.StatusDisqualified:
		return "DQ"
	case model.StatusDeclassified:
		return "DECL"
	case model.StatusClean, model.StatusExcluded:
	}
	return ""
}
