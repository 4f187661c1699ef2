package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/stats"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeFactReader struct {
	matches    map[int][]*models.Match
	entries    map[int][]*models.MatchStatistic
	matchErr   error
	entriesErr error
}

func (f *fakeFactReader) MatchesForTournament(_ context.Context, tournamentID int) ([]*models.Match, error) {
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return f.matches[tournamentID], nil
}

func (f *fakeFactReader) StatisticsForPlayer(_ context.Context, playerID int, tournamentID *int) ([]*models.MatchStatistic, error) {
	if f.entriesErr != nil {
		return nil, f.entriesErr
	}
	all := f.entries[playerID]
	if tournamentID == nil {
		return all, nil
	}
	scoped := make([]*models.MatchStatistic, 0)
	for _, e := range all {
		if e.TournamentID == *tournamentID {
			scoped = append(scoped, e)
		}
	}
	return scoped, nil
}

// fakeStandingRepo используется и в тесте reconciler, где области
// обрабатываются параллельно, поэтому доступ к rows под мьютексом.
type fakeStandingRepo struct {
	mu         sync.Mutex
	rows       map[int][]*models.ClubStanding
	replaceErr error
	listErr    error
	replaces   int
}

func (f *fakeStandingRepo) ReplaceByTournament(_ context.Context, tournamentID int, standings []*models.ClubStanding) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = make(map[int][]*models.ClubStanding)
	}
	copied := make([]*models.ClubStanding, len(standings))
	for i, s := range standings {
		c := *s
		copied[i] = &c
	}
	f.rows[tournamentID] = copied
	f.replaces++
	return nil
}

func (f *fakeStandingRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.ClubStanding, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[tournamentID], nil
}

func (f *fakeStandingRepo) UpdateField(_ context.Context, tournamentID, clubID int, field string, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows[tournamentID] {
		if s.ClubID != clubID {
			continue
		}
		switch field {
		case "points":
			s.Points = value
		case "goals_for":
			s.GoalsFor = value
		case "wins":
			s.Wins = value
		}
		return nil
	}
	return errors.New("standing row not found")
}

type fakePlayerStatsRepo struct {
	rows       map[string]*models.PlayerStatistics
	replaceErr error
	replaces   int
}

func scopeKey(playerID int, tournamentID *int) string {
	if tournamentID == nil {
		return fmt.Sprintf("%d:career", playerID)
	}
	return fmt.Sprintf("%d:%d", playerID, *tournamentID)
}

func (f *fakePlayerStatsRepo) Replace(_ context.Context, agg *models.PlayerStatistics) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	if f.rows == nil {
		f.rows = make(map[string]*models.PlayerStatistics)
	}
	c := *agg
	f.rows[scopeKey(agg.PlayerID, agg.TournamentID)] = &c
	f.replaces++
	return nil
}

func (f *fakePlayerStatsRepo) GetByScope(_ context.Context, playerID int, tournamentID *int) (*models.PlayerStatistics, error) {
	agg, ok := f.rows[scopeKey(playerID, tournamentID)]
	if !ok {
		return nil, errors.New("not found")
	}
	return agg, nil
}

type fakeBroadcaster struct {
	rooms    []string
	messages [][]byte
}

func (f *fakeBroadcaster) BroadcastToRoom(room string, message []byte) {
	f.rooms = append(f.rooms, room)
	f.messages = append(f.messages, message)
}

func testMatch(id, tournamentID, home, away, gh, ga int) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: tournamentID,
		HomeClubID:   home,
		AwayClubID:   away,
		HomeGoals:    &gh,
		AwayGoals:    &ga,
		MatchDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, id),
		Status:       models.MatchStatusFinished,
	}
}

func TestRecomputeTournamentStandings_ReplacesWholesale(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {
			testMatch(1, 7, 1, 2, 2, 1),
			testMatch(2, 7, 2, 1, 0, 3),
		},
	}}
	standings := &fakeStandingRepo{}
	svc := NewRecomputeService(facts, standings, &fakePlayerStatsRepo{}, nil, discardLogger(), 120)

	require.NoError(t, svc.RecomputeTournamentStandings(context.Background(), 7))

	rows := standings.rows[7]
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ClubID)
	assert.Equal(t, 6, rows[0].Points)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].ClubID)
	assert.Equal(t, 0, rows[1].Points)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestRecomputeTournamentStandings_Idempotent(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 2, 2)},
	}}
	standings := &fakeStandingRepo{}
	svc := NewRecomputeService(facts, standings, &fakePlayerStatsRepo{}, nil, discardLogger(), 120)

	require.NoError(t, svc.RecomputeTournamentStandings(context.Background(), 7))
	first := standings.rows[7]

	require.NoError(t, svc.RecomputeTournamentStandings(context.Background(), 7))
	second := standings.rows[7]

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}
	assert.Equal(t, 2, standings.replaces)
}

func TestRecomputeTournamentStandings_ReadFailureLeavesAggregatesUntouched(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 2, 1)},
	}}
	standings := &fakeStandingRepo{}
	svc := NewRecomputeService(facts, standings, &fakePlayerStatsRepo{}, nil, discardLogger(), 120)

	require.NoError(t, svc.RecomputeTournamentStandings(context.Background(), 7))
	before := standings.rows[7]

	facts.matchErr = ErrFactReadFailed
	err := svc.RecomputeTournamentStandings(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFactReadFailed)
	assert.Equal(t, before, standings.rows[7])
	assert.Equal(t, 1, standings.replaces)
}

func TestRecomputeTournamentStandings_InvalidFactAbortsWholeScope(t *testing.T) {
	bad := testMatch(2, 7, 3, 3, 1, 1) // identical clubs
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 2, 1), bad},
	}}
	standings := &fakeStandingRepo{}
	svc := NewRecomputeService(facts, standings, &fakePlayerStatsRepo{}, nil, discardLogger(), 120)

	err := svc.RecomputeTournamentStandings(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrInvalidFact)
	assert.Zero(t, standings.replaces, "no partial aggregate may be written")
}

func TestRecomputeTournamentStandings_WriteFailure(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 2, 1)},
	}}
	standings := &fakeStandingRepo{replaceErr: errors.New("connection reset")}
	svc := NewRecomputeService(facts, standings, &fakePlayerStatsRepo{}, nil, discardLogger(), 120)

	err := svc.RecomputeTournamentStandings(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAggregateWriteFailed)
}

func TestRecomputeTournamentStandings_BroadcastsToTournamentRoom(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 1, 0)},
	}}
	broadcaster := &fakeBroadcaster{}
	svc := NewRecomputeService(facts, &fakeStandingRepo{}, &fakePlayerStatsRepo{}, broadcaster, discardLogger(), 120)

	require.NoError(t, svc.RecomputeTournamentStandings(context.Background(), 7))

	require.Len(t, broadcaster.rooms, 1)
	assert.Equal(t, "tournament_7", broadcaster.rooms[0])
	assert.Contains(t, string(broadcaster.messages[0]), "STANDINGS_UPDATED")
}

func TestRecomputePlayerStatistics_ScopedAndCareer(t *testing.T) {
	facts := &fakeFactReader{entries: map[int][]*models.MatchStatistic{
		9: {
			{ID: 1, MatchID: 1, PlayerID: 9, TournamentID: 7, Goals: 2, MinutesPlayed: 60, Participation: models.ParticipationStarted},
			{ID: 2, MatchID: 2, PlayerID: 9, TournamentID: 8, Goals: 1, MinutesPlayed: 30, Participation: models.ParticipationSubstitute},
		},
	}}
	playerStats := &fakePlayerStatsRepo{}
	svc := NewRecomputeService(facts, &fakeStandingRepo{}, playerStats, nil, discardLogger(), 120)

	scope := 7
	require.NoError(t, svc.RecomputePlayerStatistics(context.Background(), 9, &scope))
	require.NoError(t, svc.RecomputePlayerStatistics(context.Background(), 9, nil))

	scoped, err := playerStats.GetByScope(context.Background(), 9, &scope)
	require.NoError(t, err)
	assert.Equal(t, 2, scoped.Goals)
	assert.Equal(t, 1, scoped.MatchesPlayed)

	career, err := playerStats.GetByScope(context.Background(), 9, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, career.Goals)
	assert.Equal(t, 90, career.MinutesPlayed)
	assert.Equal(t, 2, career.MatchesPlayed)
}

func TestRecomputePlayerStatistics_InvalidMinutesAborts(t *testing.T) {
	facts := &fakeFactReader{entries: map[int][]*models.MatchStatistic{
		9: {
			{ID: 1, MatchID: 1, PlayerID: 9, TournamentID: 7, MinutesPlayed: 500, Participation: models.ParticipationStarted},
		},
	}}
	playerStats := &fakePlayerStatsRepo{}
	svc := NewRecomputeService(facts, &fakeStandingRepo{}, playerStats, nil, discardLogger(), 120)

	scope := 7
	err := svc.RecomputePlayerStatistics(context.Background(), 9, &scope)
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrInvalidFact)
	assert.Zero(t, playerStats.replaces)
}
