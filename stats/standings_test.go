package stats

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordyAP28/sistema-deportivo/models"
)

func finishedMatch(id, tournamentID, homeID, awayID, homeGoals, awayGoals int) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: tournamentID,
		HomeClubID:   homeID,
		AwayClubID:   awayID,
		HomeGoals:    &homeGoals,
		AwayGoals:    &awayGoals,
		MatchDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, id),
		Status:       models.MatchStatusFinished,
	}
}

func withNames(m *models.Match, home, away string) *models.Match {
	m.HomeClub = &models.Club{ID: m.HomeClubID, Name: home}
	m.AwayClub = &models.Club{ID: m.AwayClubID, Name: away}
	return m
}

func TestComputeStandings_PointsRule(t *testing.T) {
	tests := []struct {
		name      string
		homeGoals int
		awayGoals int
		wantHome  models.ClubStanding
		wantAway  models.ClubStanding
	}{
		{
			name:      "home win grants three points",
			homeGoals: 3, awayGoals: 1,
			wantHome: models.ClubStanding{Points: 3, Played: 1, Wins: 1, GoalsFor: 3, GoalsAgainst: 1},
			wantAway: models.ClubStanding{Points: 0, Played: 1, Losses: 1, GoalsFor: 1, GoalsAgainst: 3},
		},
		{
			name:      "away win grants three points",
			homeGoals: 0, awayGoals: 2,
			wantHome: models.ClubStanding{Points: 0, Played: 1, Losses: 1, GoalsFor: 0, GoalsAgainst: 2},
			wantAway: models.ClubStanding{Points: 3, Played: 1, Wins: 1, GoalsFor: 2, GoalsAgainst: 0},
		},
		{
			name:      "draw grants one point each",
			homeGoals: 2, awayGoals: 2,
			wantHome: models.ClubStanding{Points: 1, Played: 1, Draws: 1, GoalsFor: 2, GoalsAgainst: 2},
			wantAway: models.ClubStanding{Points: 1, Played: 1, Draws: 1, GoalsFor: 2, GoalsAgainst: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byClub, err := ComputeStandings(7, []*models.Match{
				finishedMatch(1, 7, 10, 20, tt.homeGoals, tt.awayGoals),
			})
			require.NoError(t, err)
			require.Len(t, byClub, 2)

			home, away := byClub[10], byClub[20]
			assert.Equal(t, tt.wantHome.Points, home.Points)
			assert.Equal(t, tt.wantHome.Wins, home.Wins)
			assert.Equal(t, tt.wantHome.Draws, home.Draws)
			assert.Equal(t, tt.wantHome.Losses, home.Losses)
			assert.Equal(t, tt.wantHome.GoalsFor, home.GoalsFor)
			assert.Equal(t, tt.wantHome.GoalsAgainst, home.GoalsAgainst)
			assert.Equal(t, tt.wantAway.Points, away.Points)
			assert.Equal(t, tt.wantAway.Wins, away.Wins)
			assert.Equal(t, tt.wantAway.Draws, away.Draws)
			assert.Equal(t, tt.wantAway.Losses, away.Losses)
			assert.Equal(t, tt.wantAway.GoalsFor, away.GoalsFor)
			assert.Equal(t, tt.wantAway.GoalsAgainst, away.GoalsAgainst)
		})
	}
}

func TestComputeStandings_GoalAccounting(t *testing.T) {
	// A 2-1 B, then B 0-3 A: A folds home and away perspectives correctly.
	matches := []*models.Match{
		finishedMatch(1, 7, 1, 2, 2, 1),
		finishedMatch(2, 7, 2, 1, 0, 3),
	}

	byClub, err := ComputeStandings(7, matches)
	require.NoError(t, err)

	a := byClub[1]
	require.NotNil(t, a)
	assert.Equal(t, 5, a.GoalsFor)
	assert.Equal(t, 1, a.GoalsAgainst)
	assert.Equal(t, 2, a.Played)
	assert.Equal(t, 6, a.Points)
	assert.Equal(t, 2, a.Wins)

	b := byClub[2]
	require.NotNil(t, b)
	assert.Equal(t, 1, b.GoalsFor)
	assert.Equal(t, 5, b.GoalsAgainst)
	assert.Equal(t, 2, b.Losses)
	assert.Equal(t, 0, b.Points)
}

func TestComputeStandings_EmptyTournament(t *testing.T) {
	byClub, err := ComputeStandings(7, nil)
	require.NoError(t, err)
	assert.Empty(t, byClub)
}

func TestComputeStandings_OrderIndependence(t *testing.T) {
	matches := []*models.Match{
		finishedMatch(1, 7, 1, 2, 2, 1),
		finishedMatch(2, 7, 2, 3, 0, 0),
		finishedMatch(3, 7, 3, 1, 1, 4),
		finishedMatch(4, 7, 1, 3, 2, 2),
		finishedMatch(5, 7, 2, 1, 1, 1),
	}

	want, err := ComputeStandings(7, matches)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]*models.Match, len(matches))
		copy(shuffled, matches)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := ComputeStandings(7, shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got, "shuffle %d changed the result", i)
	}
}

func TestComputeStandings_Idempotence(t *testing.T) {
	matches := []*models.Match{
		finishedMatch(1, 7, 1, 2, 2, 1),
		finishedMatch(2, 7, 2, 1, 3, 3),
	}

	first, err := ComputeStandings(7, matches)
	require.NoError(t, err)
	second, err := ComputeStandings(7, matches)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeStandings_InvalidFacts(t *testing.T) {
	now := time.Now()
	two := 2

	tests := []struct {
		name  string
		match *models.Match
	}{
		{
			name: "identical home and away club",
			match: &models.Match{ID: 1, TournamentID: 7, HomeClubID: 5, AwayClubID: 5,
				HomeGoals: &two, AwayGoals: &two, Status: models.MatchStatusFinished},
		},
		{
			name: "negative score",
			match: func() *models.Match {
				m := finishedMatch(1, 7, 1, 2, 2, 1)
				neg := -1
				m.AwayGoals = &neg
				return m
			}(),
		},
		{
			name: "missing score on finished match",
			match: &models.Match{ID: 1, TournamentID: 7, HomeClubID: 1, AwayClubID: 2,
				Status: models.MatchStatusFinished},
		},
		{
			name:  "not finished",
			match: &models.Match{ID: 1, TournamentID: 7, HomeClubID: 1, AwayClubID: 2, Status: models.MatchStatusScheduled},
		},
		{
			name: "soft-deleted leaked through the reader",
			match: func() *models.Match {
				m := finishedMatch(1, 7, 1, 2, 2, 1)
				m.DeletedAt = &now
				return m
			}(),
		},
		{
			name:  "wrong tournament",
			match: finishedMatch(1, 8, 1, 2, 2, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeStandings(7, []*models.Match{tt.match})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFact)
		})
	}
}

func TestRankStandings_TieBreaks(t *testing.T) {
	// Real Norte and Atlético finish on equal points; goal difference, then
	// goals-for, then name decide the order.
	matches := []*models.Match{
		withNames(finishedMatch(1, 7, 1, 2, 3, 0), "Real Norte", "Atlético Sur"), // 1 beats 2
		withNames(finishedMatch(2, 7, 2, 3, 3, 0), "Atlético Sur", "Deportivo Este"),
		withNames(finishedMatch(3, 7, 3, 1, 0, 0), "Deportivo Este", "Real Norte"),
	}

	byClub, err := ComputeStandings(7, matches)
	require.NoError(t, err)

	table := RankStandings(byClub)
	require.Len(t, table, 3)

	// Club 1: 4 pts, GD +3. Club 2: 3 pts, GD 0. Club 3: 1 pt, GD -3.
	assert.Equal(t, []int{1, 2, 3}, []int{table[0].ClubID, table[1].ClubID, table[2].ClubID})
	assert.Equal(t, 1, table[0].Rank)
	assert.Equal(t, 2, table[1].Rank)
	assert.Equal(t, 3, table[2].Rank)
}

func TestRankStandings_EqualPointsOrderedByGoalDifferenceThenName(t *testing.T) {
	byClub := map[int]*models.ClubStanding{
		1: {TournamentID: 7, ClubID: 1, ClubName: "Zulia", Points: 6, GoalsFor: 8, GoalsAgainst: 2},
		2: {TournamentID: 7, ClubID: 2, ClubName: "Andes", Points: 6, GoalsFor: 5, GoalsAgainst: 5},
		3: {TournamentID: 7, ClubID: 3, ClubName: "Bolívar", Points: 6, GoalsFor: 5, GoalsAgainst: 5},
		4: {TournamentID: 7, ClubID: 4, ClubName: "Caracas", Points: 6, GoalsFor: 4, GoalsAgainst: 4},
	}

	for i := 0; i < 20; i++ {
		table := RankStandings(byClub)
		ids := []int{table[0].ClubID, table[1].ClubID, table[2].ClubID, table[3].ClubID}
		// GD +6 first; then the three GD 0 clubs: GF 5 beats GF 4, and among
		// equal GF the name ascending rule puts Andes before Bolívar.
		assert.Equal(t, []int{1, 2, 3, 4}, ids, "run %d not deterministic", i)
	}
}
