package stats

import (
	"sort"

	"github.com/JordyAP28/sistema-deportivo/models"
)

// Discrepancy описывает одно расхождение между сохранённой агрегатной строкой
// и свежим пересчётом.
type Discrepancy struct {
	ClubID   int    `json:"club_id"`
	Field    string `json:"field"`
	Expected int    `json:"expected"`
	Actual   int    `json:"actual"`
}

// DiffStandings compares persisted standing rows against a fresh recomputation
// field by field. The result is empty when fully consistent, and sorted by
// club id then field name so repeated runs report identically.
func DiffStandings(expected []*models.ClubStanding, persisted []*models.ClubStanding) []Discrepancy {
	expByClub := make(map[int]*models.ClubStanding, len(expected))
	for _, s := range expected {
		expByClub[s.ClubID] = s
	}
	actByClub := make(map[int]*models.ClubStanding, len(persisted))
	for _, s := range persisted {
		actByClub[s.ClubID] = s
	}

	var out []Discrepancy

	for clubID, exp := range expByClub {
		act, ok := actByClub[clubID]
		if !ok {
			out = append(out, Discrepancy{ClubID: clubID, Field: "row", Expected: 1, Actual: 0})
			continue
		}
		out = append(out, diffRow(clubID, exp, act)...)
	}
	for clubID := range actByClub {
		if _, ok := expByClub[clubID]; !ok {
			out = append(out, Discrepancy{ClubID: clubID, Field: "row", Expected: 0, Actual: 1})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ClubID != out[j].ClubID {
			return out[i].ClubID < out[j].ClubID
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func diffRow(clubID int, exp, act *models.ClubStanding) []Discrepancy {
	fields := []struct {
		name     string
		exp, act int
	}{
		{"points", exp.Points, act.Points},
		{"played", exp.Played, act.Played},
		{"wins", exp.Wins, act.Wins},
		{"draws", exp.Draws, act.Draws},
		{"losses", exp.Losses, act.Losses},
		{"goals_for", exp.GoalsFor, act.GoalsFor},
		{"goals_against", exp.GoalsAgainst, act.GoalsAgainst},
		{"rank", exp.Rank, act.Rank},
	}

	var out []Discrepancy
	for _, f := range fields {
		if f.exp != f.act {
			out = append(out, Discrepancy{ClubID: clubID, Field: f.name, Expected: f.exp, Actual: f.act})
		}
	}
	return out
}
