package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/stats"
)

func TestVerifyTournament_ConsistentAfterRecompute(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {
			testMatch(1, 7, 1, 2, 2, 1),
			testMatch(2, 7, 2, 1, 0, 3),
		},
	}}
	standings := &fakeStandingRepo{}
	recompute := NewRecomputeService(facts, standings, &fakePlayerStatsRepo{}, nil, discardLogger(), 120)
	checker := NewConsistencyService(facts, standings, discardLogger())

	require.NoError(t, recompute.RecomputeTournamentStandings(context.Background(), 7))

	diff, err := checker.VerifyTournament(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestVerifyTournament_DetectsSingleCorruptedField(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 2, 1)},
	}}
	standings := &fakeStandingRepo{}
	recompute := NewRecomputeService(facts, standings, &fakePlayerStatsRepo{}, nil, discardLogger(), 120)
	checker := NewConsistencyService(facts, standings, discardLogger())

	require.NoError(t, recompute.RecomputeTournamentStandings(context.Background(), 7))

	// Портим одно поле напрямую, как это сделал бы забытый путь записи.
	require.NoError(t, standings.UpdateField(context.Background(), 7, 1, "points", 99))

	diff, err := checker.VerifyTournament(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, diff, 1)
	assert.Equal(t, stats.Discrepancy{ClubID: 1, Field: "points", Expected: 3, Actual: 99}, diff[0])

	// Пересчёт чинит расхождение.
	require.NoError(t, recompute.RecomputeTournamentStandings(context.Background(), 7))
	diff, err = checker.VerifyTournament(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestVerifyTournament_DetectsMissingRow(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 2, 1)},
	}}
	standings := &fakeStandingRepo{}
	checker := NewConsistencyService(facts, standings, discardLogger())

	// Агрегаты никогда не материализовались: обе строки отсутствуют.
	diff, err := checker.VerifyTournament(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, diff, 2)
	assert.Equal(t, "row", diff[0].Field)
	assert.Equal(t, "row", diff[1].Field)
}

func TestVerifyTournament_ReadFailureSurfaced(t *testing.T) {
	facts := &fakeFactReader{matchErr: ErrFactReadFailed}
	checker := NewConsistencyService(facts, &fakeStandingRepo{}, discardLogger())

	_, err := checker.VerifyTournament(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFactReadFailed)
}

func TestVerifyTournament_AggregateReadFailureDistinctFromFactRead(t *testing.T) {
	facts := &fakeFactReader{matches: map[int][]*models.Match{
		7: {testMatch(1, 7, 1, 2, 2, 1)},
	}}
	standings := &fakeStandingRepo{listErr: errors.New("connection reset")}
	checker := NewConsistencyService(facts, standings, discardLogger())

	_, err := checker.VerifyTournament(context.Background(), 7)
	require.Error(t, err)
	// Сохранённые агрегатные строки не являются авторитетными фактами,
	// ошибка их чтения носит собственный вид.
	assert.ErrorIs(t, err, ErrAggregateReadFailed)
	assert.NotErrorIs(t, err, ErrFactReadFailed)
}
