package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/repositories"
)

type fakeTournamentRepo struct {
	activeIDs []int
	listErr   error
}

func (f *fakeTournamentRepo) Create(context.Context, *models.Tournament) error { return nil }
func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	return &models.Tournament{ID: id, Status: models.TournamentStatusActive}, nil
}
func (f *fakeTournamentRepo) List(context.Context, repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	return nil, nil
}
func (f *fakeTournamentRepo) Update(context.Context, *models.Tournament) error { return nil }
func (f *fakeTournamentRepo) UpdateStatus(context.Context, int, models.TournamentStatus) error {
	return nil
}
func (f *fakeTournamentRepo) Delete(context.Context, int) error { return nil }
func (f *fakeTournamentRepo) ListActiveIDs(context.Context) ([]int, error) {
	return f.activeIDs, f.listErr
}

func TestReconcileAll_RepairsOnlyDriftedTournaments(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 2, 1)},
		8: {testMatch(2, 8, 3, 4, 0, 0)},
	}}
	standings := &fakeStandingRepo{}
	recompute := NewRecomputeService(facts, standings, &fakePlayerStatsRepo{}, nil, discardLogger(), 120)
	checker := NewConsistencyService(facts, standings, discardLogger())

	// Обе таблицы материализованы, затем одну портим.
	require.NoError(t, recompute.RecomputeTournamentStandings(context.Background(), 7))
	require.NoError(t, recompute.RecomputeTournamentStandings(context.Background(), 8))
	require.NoError(t, standings.UpdateField(context.Background(), 7, 1, "wins", 42))

	replacesBefore := standings.replaces
	reconciler := NewReconciler(&fakeTournamentRepo{activeIDs: []int{7, 8}}, checker, recompute, discardLogger())
	require.NoError(t, reconciler.ReconcileAll(context.Background()))

	// Только турнир 7 пересчитан заново.
	assert.Equal(t, replacesBefore+1, standings.replaces)

	diff, err := checker.VerifyTournament(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestReconcileAll_NoActiveTournaments(t *testing.T) {
	reconciler := NewReconciler(&fakeTournamentRepo{}, nil, nil, discardLogger())
	assert.NoError(t, reconciler.ReconcileAll(context.Background()))
}

func TestReconcileAll_ListFailureSurfaced(t *testing.T) {
	reconciler := NewReconciler(&fakeTournamentRepo{listErr: ErrFactReadFailed}, nil, nil, discardLogger())
	err := reconciler.ReconcileAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFactReadFailed)
}
