package stats

import (
	"fmt"
	"sort"

	"github.com/JordyAP28/sistema-deportivo/models"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

// ComputeStandings folds a tournament's finished matches into one standing row
// per club. The fold is associative and commutative per club, so the result
// does not depend on the iteration order of matches. Rows are created lazily
// the first time a club appears in a finished match; clubs that merely
// registered get no row.
func ComputeStandings(tournamentID int, matches []*models.Match) (map[int]*models.ClubStanding, error) {
	byClub := make(map[int]*models.ClubStanding)

	get := func(clubID int, name string) *models.ClubStanding {
		s, ok := byClub[clubID]
		if !ok {
			s = &models.ClubStanding{
				TournamentID: tournamentID,
				ClubID:       clubID,
				ClubName:     name,
			}
			byClub[clubID] = s
		}
		return s
	}

	for _, m := range matches {
		if err := validateFinishedMatch(tournamentID, m); err != nil {
			return nil, err
		}

		home := get(m.HomeClubID, clubName(m.HomeClub))
		away := get(m.AwayClubID, clubName(m.AwayClub))

		gh, ga := *m.HomeGoals, *m.AwayGoals

		home.Played++
		away.Played++
		home.GoalsFor += gh
		home.GoalsAgainst += ga
		away.GoalsFor += ga
		away.GoalsAgainst += gh

		switch {
		case gh > ga:
			home.Points += pointsPerWin
			home.Wins++
			away.Losses++
		case gh < ga:
			away.Points += pointsPerWin
			away.Wins++
			home.Losses++
		default:
			home.Points += pointsPerDraw
			away.Points += pointsPerDraw
			home.Draws++
			away.Draws++
		}
	}

	return byClub, nil
}

// RankStandings produces the final table: points desc, goal difference desc,
// goals-for desc, club name asc. The name tie-break guarantees a total order,
// so repeated runs over the same facts yield an identical table regardless of
// map iteration order. Rank is assigned 1..n after sorting.
func RankStandings(byClub map[int]*models.ClubStanding) []*models.ClubStanding {
	table := make([]*models.ClubStanding, 0, len(byClub))
	for _, s := range byClub {
		table = append(table, s)
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if a.ClubName != b.ClubName {
			return a.ClubName < b.ClubName
		}
		return a.ClubID < b.ClubID
	})

	for i, s := range table {
		s.Rank = i + 1
	}
	return table
}

func validateFinishedMatch(tournamentID int, m *models.Match) error {
	if m == nil {
		return fmt.Errorf("%w: nil match", ErrInvalidFact)
	}
	if m.TournamentID != tournamentID {
		return fmt.Errorf("%w: match %d belongs to tournament %d, not %d", ErrInvalidFact, m.ID, m.TournamentID, tournamentID)
	}
	if m.Status != models.MatchStatusFinished {
		return fmt.Errorf("%w: match %d has status %q, expected finished", ErrInvalidFact, m.ID, m.Status)
	}
	if m.DeletedAt != nil {
		return fmt.Errorf("%w: match %d is soft-deleted", ErrInvalidFact, m.ID)
	}
	if m.HomeClubID == m.AwayClubID {
		return fmt.Errorf("%w: match %d has identical home and away club %d", ErrInvalidFact, m.ID, m.HomeClubID)
	}
	if m.HomeGoals == nil || m.AwayGoals == nil {
		return fmt.Errorf("%w: finished match %d is missing a score", ErrInvalidFact, m.ID)
	}
	if *m.HomeGoals < 0 || *m.AwayGoals < 0 {
		return fmt.Errorf("%w: match %d has negative score %d:%d", ErrInvalidFact, m.ID, *m.HomeGoals, *m.AwayGoals)
	}
	return nil
}

func clubName(c *models.Club) string {
	if c == nil {
		return ""
	}
	return c.Name
}
