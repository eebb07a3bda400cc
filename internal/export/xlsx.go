// Package export builds the Excel backup workbook: full players, seasons,
// and match tables plus the current lifetime ranking. Spreadsheet mechanics
// are delegated to excelize.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/courtrank/league-data/internal/config"
	"github.com/courtrank/league-data/internal/ranking"
	"github.com/courtrank/league-data/internal/store"
)

// Workbook assembles the backup workbook from the store. The Rankings sheet
// covers the given scope; the data sheets are always complete.
func Workbook(ctx context.Context, st *store.Store, cfg *config.Config, scope ranking.Scope) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := playersSheet(ctx, f, st); err != nil {
		f.Close()
		return nil, err
	}
	if err := seasonsSheet(ctx, f, st); err != nil {
		f.Close()
		return nil, err
	}
	if err := matchesSheet(ctx, f, st); err != nil {
		f.Close()
		return nil, err
	}
	if err := rankingsSheet(ctx, f, st, cfg, scope); err != nil {
		f.Close()
		return nil, err
	}

	// Drop the default sheet left over from NewFile.
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)
	return f, nil
}

func playersSheet(ctx context.Context, f *excelize.File, st *store.Store) error {
	players, err := st.ListPlayers(ctx)
	if err != nil {
		return fmt.Errorf("export players: %w", err)
	}
	const sheet = "Players"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "ID", "Name", "Created")
	for i, p := range players {
		writeRow(f, sheet, i+2, p.ID, p.Name, p.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func seasonsSheet(ctx context.Context, f *excelize.File, st *store.Store) error {
	seasons, err := st.ListSeasons(ctx)
	if err != nil {
		return fmt.Errorf("export seasons: %w", err)
	}
	const sheet = "Seasons"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "ID", "Name", "Start", "End", "Active", "Loss fee")
	for i, s := range seasons {
		end := ""
		if s.EndDate != nil {
			end = s.EndDate.Format(ranking.DateFormat)
		}
		fee := ""
		if s.LossFee != nil {
			fee = fmt.Sprintf("%d", *s.LossFee)
		}
		writeRow(f, sheet, i+2, s.ID, s.Name, s.StartDate.Format(ranking.DateFormat), end, s.Active, fee)
	}
	return nil
}

func matchesSheet(ctx context.Context, f *excelize.File, st *store.Store) error {
	matches, err := st.ListMatches(ctx)
	if err != nil {
		return fmt.Errorf("export matches: %w", err)
	}
	const sheet = "Matches"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "ID", "Season", "Played", "Team 1", "Team 2", "Score", "Winner")
	for i, m := range matches {
		writeRow(f, sheet, i+2,
			m.ID, m.SeasonID, m.PlayedOn.Format(ranking.DateFormat),
			idList(m.Team1()), idList(m.Team2()),
			fmt.Sprintf("%d-%d", m.Score1, m.Score2), m.WinnerTeam)
	}
	return nil
}

func rankingsSheet(ctx context.Context, f *excelize.File, st *store.Store, cfg *config.Config, scope ranking.Scope) error {
	rows, err := ranking.Compute(ctx, ranking.StoreSource{Store: st},
		scope, ranking.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("export rankings: %w", err)
	}
	const sheet = "Rankings"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "Rank", "Name", "Matches", "Wins", "Losses", "Points", "Win %", "Money lost")
	for i, r := range rows {
		writeRow(f, sheet, i+2,
			i+1, r.Name, r.TotalMatches, r.Wins, r.Losses, r.Points, r.WinPercentage, r.MoneyLost)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}

func idList(ids []int64) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += "+"
		}
		out += fmt.Sprintf("%d", id)
	}
	return out
}
