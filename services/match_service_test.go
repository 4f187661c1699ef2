package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/repositories"
)

type fakeMatchRepo struct {
	matches map[int]*models.Match
}

func (f *fakeMatchRepo) Create(_ context.Context, m *models.Match) error {
	m.ID = len(f.matches) + 1
	f.matches[m.ID] = m
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	c := *m
	return &c, nil
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, includeDeleted bool) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && (includeDeleted || m.DeletedAt == nil) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) ListFinishedByTournament(_ context.Context, tournamentID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && m.Status == models.MatchStatusFinished && m.DeletedAt == nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateScoreStatus(_ context.Context, id int, homeGoals, awayGoals *int, status models.MatchStatus) error {
	m, ok := f.matches[id]
	if !ok || m.DeletedAt != nil {
		return repositories.ErrMatchNotFound
	}
	m.HomeGoals = homeGoals
	m.AwayGoals = awayGoals
	m.Status = status
	return nil
}

func (f *fakeMatchRepo) SoftDelete(_ context.Context, id int) error {
	m, ok := f.matches[id]
	if !ok || m.DeletedAt != nil {
		return repositories.ErrMatchNotFound
	}
	now := time.Now()
	m.DeletedAt = &now
	return nil
}

func (f *fakeMatchRepo) Restore(_ context.Context, id int) error {
	m, ok := f.matches[id]
	if !ok || m.DeletedAt == nil {
		return repositories.ErrMatchNotDeleted
	}
	m.DeletedAt = nil
	return nil
}

type fakeStatisticRepoPlayers struct {
	repositories.StatisticRepository
	playersByMatch map[int][]int
}

func (f *fakeStatisticRepoPlayers) ListPlayerIDsByMatch(_ context.Context, matchID int) ([]int, error) {
	return f.playersByMatch[matchID], nil
}

type recordedRecompute struct {
	standings []int
	players   []int
	careers   []int
	failWith  error
}

func (r *recordedRecompute) RecomputeTournamentStandings(_ context.Context, tournamentID int) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.standings = append(r.standings, tournamentID)
	return nil
}

func (r *recordedRecompute) RecomputePlayerStatistics(_ context.Context, playerID int, tournamentID *int) error {
	if r.failWith != nil {
		return r.failWith
	}
	if tournamentID == nil {
		r.careers = append(r.careers, playerID)
	} else {
		r.players = append(r.players, playerID)
	}
	return nil
}

func newMatchServiceFixture(recompute RecomputeService) (*fakeMatchRepo, MatchService) {
	three, one := 3, 1
	matchRepo := &fakeMatchRepo{matches: map[int]*models.Match{
		1: {ID: 1, TournamentID: 7, HomeClubID: 1, AwayClubID: 2,
			HomeGoals: &three, AwayGoals: &one, Status: models.MatchStatusFinished},
	}}
	statRepo := &fakeStatisticRepoPlayers{playersByMatch: map[int][]int{1: {9, 10}}}
	return matchRepo, NewMatchService(matchRepo, statRepo, recompute, discardLogger(), true)
}

func TestEnterResult_TriggersStandingsAndPlayerRecomputes(t *testing.T) {
	recompute := &recordedRecompute{}
	_, svc := newMatchServiceFixture(recompute)

	outcome, err := svc.EnterResult(context.Background(), 1, 2, 2)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.False(t, outcome.AggregatesStale)
	assert.Equal(t, models.MatchStatusFinished, outcome.Match.Status)
	assert.Equal(t, []int{7}, recompute.standings)
	assert.ElementsMatch(t, []int{9, 10}, recompute.players)
	assert.ElementsMatch(t, []int{9, 10}, recompute.careers)
}

func TestEnterResult_NegativeScoreRejectedBeforeWrite(t *testing.T) {
	recompute := &recordedRecompute{}
	matchRepo, svc := newMatchServiceFixture(recompute)

	_, err := svc.EnterResult(context.Background(), 1, -1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeScore)
	assert.Empty(t, recompute.standings)
	assert.Equal(t, 3, *matchRepo.matches[1].HomeGoals, "fact must stay unchanged")
}

func TestEnterResult_RecomputeFailureReportsStaleNotError(t *testing.T) {
	recompute := &recordedRecompute{failWith: errors.New("db down")}
	matchRepo, svc := newMatchServiceFixture(recompute)

	outcome, err := svc.EnterResult(context.Background(), 1, 2, 0)
	require.NoError(t, err, "the fact write succeeded, so the save itself is not a failure")
	assert.True(t, outcome.AggregatesStale)
	assert.Equal(t, 2, *matchRepo.matches[1].HomeGoals)
}

func TestSoftDeleteAndRestore_BothRecompute(t *testing.T) {
	recompute := &recordedRecompute{}
	matchRepo, svc := newMatchServiceFixture(recompute)

	outcome, err := svc.SoftDeleteMatch(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, outcome.Match.DeletedAt)
	assert.NotNil(t, matchRepo.matches[1].DeletedAt)

	outcome, err = svc.RestoreMatch(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, outcome.Match.DeletedAt)
	assert.Nil(t, matchRepo.matches[1].DeletedAt)

	assert.Equal(t, []int{7, 7}, recompute.standings)
}

func TestVoidResult_ClearsScore(t *testing.T) {
	recompute := &recordedRecompute{}
	matchRepo, svc := newMatchServiceFixture(recompute)

	outcome, err := svc.VoidResult(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, outcome.Match.HomeGoals)
	assert.Equal(t, models.MatchStatusCancelled, matchRepo.matches[1].Status)
	assert.Equal(t, []int{7}, recompute.standings)
}

func TestCreateMatch_SameClubsRejected(t *testing.T) {
	_, svc := newMatchServiceFixture(&recordedRecompute{})

	_, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		TournamentID: 7, HomeClubID: 5, AwayClubID: 5, MatchDate: time.Now(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSameClubsInMatch)
}
