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

type fakeStatisticRepo struct {
	entries map[int]*models.MatchStatistic
}

func (f *fakeStatisticRepo) Create(_ context.Context, e *models.MatchStatistic) error {
	for _, ex := range f.entries {
		if ex.MatchID == e.MatchID && ex.PlayerID == e.PlayerID {
			return repositories.ErrStatisticDuplicate
		}
	}
	e.ID = len(f.entries) + 1
	c := *e
	f.entries[e.ID] = &c
	return nil
}

func (f *fakeStatisticRepo) GetByID(_ context.Context, id int) (*models.MatchStatistic, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, repositories.ErrStatisticNotFound
	}
	c := *e
	return &c, nil
}

func (f *fakeStatisticRepo) Update(_ context.Context, e *models.MatchStatistic) error {
	if _, ok := f.entries[e.ID]; !ok {
		return repositories.ErrStatisticNotFound
	}
	c := *e
	f.entries[e.ID] = &c
	return nil
}

func (f *fakeStatisticRepo) SoftDelete(_ context.Context, id int) error {
	e, ok := f.entries[id]
	if !ok || e.DeletedAt != nil {
		return repositories.ErrStatisticNotFound
	}
	now := time.Now()
	e.DeletedAt = &now
	return nil
}

func (f *fakeStatisticRepo) Restore(_ context.Context, id int) error {
	e, ok := f.entries[id]
	if !ok {
		return repositories.ErrStatisticNotFound
	}
	if e.DeletedAt == nil {
		return repositories.ErrStatisticNotDeleted
	}
	e.DeletedAt = nil
	return nil
}

func (f *fakeStatisticRepo) ListFinalizedByPlayer(_ context.Context, _ int, _ *int) ([]*models.MatchStatistic, error) {
	return nil, nil
}

func (f *fakeStatisticRepo) ListPlayerIDsByMatch(_ context.Context, _ int) ([]int, error) {
	return nil, nil
}

func newStatisticServiceFixture(recompute RecomputeService, careerStats bool) (*fakeStatisticRepo, StatisticService) {
	three, one := 3, 1
	matchRepo := &fakeMatchRepo{matches: map[int]*models.Match{
		1: {ID: 1, TournamentID: 7, HomeClubID: 1, AwayClubID: 2,
			HomeGoals: &three, AwayGoals: &one, Status: models.MatchStatusFinished},
	}}
	statRepo := &fakeStatisticRepo{entries: map[int]*models.MatchStatistic{}}
	return statRepo, NewStatisticService(statRepo, matchRepo, recompute, discardLogger(), 120, careerStats)
}

func validStatisticInput() StatisticInput {
	return StatisticInput{Goals: 1, MinutesPlayed: 90, Participation: models.ParticipationStarted}
}

func TestCreateEntry_TriggersScopedAndCareerRecomputes(t *testing.T) {
	recompute := &recordedRecompute{}
	statRepo, svc := newStatisticServiceFixture(recompute, true)

	outcome, err := svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.False(t, outcome.AggregatesStale)
	assert.Equal(t, 7, outcome.Entry.TournamentID, "tournament is derived from the parent match")
	assert.Len(t, statRepo.entries, 1)
	assert.Equal(t, []int{9}, recompute.players)
	assert.Equal(t, []int{9}, recompute.careers)
}

func TestCreateEntry_CareerRecomputeSkippedWhenDisabled(t *testing.T) {
	recompute := &recordedRecompute{}
	_, svc := newStatisticServiceFixture(recompute, false)

	_, err := svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.NoError(t, err)

	assert.Equal(t, []int{9}, recompute.players)
	assert.Empty(t, recompute.careers)
}

func TestCreateEntry_InvalidInputRejectedBeforeWrite(t *testing.T) {
	tests := []struct {
		name    string
		input   StatisticInput
		wantErr error
	}{
		{
			name: "minutes above maximum",
			input: StatisticInput{MinutesPlayed: 121,
				Participation: models.ParticipationStarted},
			wantErr: ErrMinutesOutOfRange,
		},
		{
			name: "negative counter",
			input: StatisticInput{Assists: -1, MinutesPlayed: 45,
				Participation: models.ParticipationStarted},
			wantErr: ErrNegativeStatisticValue,
		},
		{
			name:    "unknown participation",
			input:   StatisticInput{MinutesPlayed: 45, Participation: models.Participation("benched")},
			wantErr: ErrInvalidParticipation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recompute := &recordedRecompute{}
			statRepo, svc := newStatisticServiceFixture(recompute, true)

			_, err := svc.CreateEntry(context.Background(), 1, 9, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, statRepo.entries, "fact must not be written")
			assert.Empty(t, recompute.players, "no recompute without a fact change")
		})
	}
}

func TestCreateEntry_UnknownMatch(t *testing.T) {
	_, svc := newStatisticServiceFixture(&recordedRecompute{}, true)

	_, err := svc.CreateEntry(context.Background(), 42, 9, validStatisticInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestCreateEntry_DuplicatePlayerOnMatch(t *testing.T) {
	_, svc := newStatisticServiceFixture(&recordedRecompute{}, true)

	_, err := svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.NoError(t, err)

	_, err = svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatisticDuplicate)
}

func TestUpdateEntry_PersistsAndRecomputes(t *testing.T) {
	recompute := &recordedRecompute{}
	statRepo, svc := newStatisticServiceFixture(recompute, true)

	created, err := svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.NoError(t, err)

	input := validStatisticInput()
	input.Goals = 2
	outcome, err := svc.UpdateEntry(context.Background(), created.Entry.ID, input)
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Entry.Goals)
	assert.Equal(t, 2, statRepo.entries[created.Entry.ID].Goals)
	assert.Equal(t, []int{9, 9}, recompute.players)
	assert.Equal(t, []int{9, 9}, recompute.careers)
}

func TestUpdateEntry_InvalidInputRejectedBeforeWrite(t *testing.T) {
	recompute := &recordedRecompute{}
	statRepo, svc := newStatisticServiceFixture(recompute, true)

	created, err := svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.NoError(t, err)
	playersAfterCreate := len(recompute.players)

	input := validStatisticInput()
	input.MinutesPlayed = 500
	_, err = svc.UpdateEntry(context.Background(), created.Entry.ID, input)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMinutesOutOfRange)
	assert.Equal(t, 90, statRepo.entries[created.Entry.ID].MinutesPlayed, "fact must stay unchanged")
	assert.Len(t, recompute.players, playersAfterCreate)
}

func TestRemoveAndRestoreEntry_BothRecompute(t *testing.T) {
	recompute := &recordedRecompute{}
	statRepo, svc := newStatisticServiceFixture(recompute, true)

	created, err := svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.NoError(t, err)
	entryID := created.Entry.ID

	_, err = svc.RemoveEntry(context.Background(), entryID)
	require.NoError(t, err)
	assert.NotNil(t, statRepo.entries[entryID].DeletedAt)

	_, err = svc.RestoreEntry(context.Background(), entryID)
	require.NoError(t, err)
	assert.Nil(t, statRepo.entries[entryID].DeletedAt)

	// Создание, удаление и восстановление: три пересчёта в каждой области.
	assert.Equal(t, []int{9, 9, 9}, recompute.players)
	assert.Equal(t, []int{9, 9, 9}, recompute.careers)
}

func TestRestoreEntry_NotDeletedRejected(t *testing.T) {
	_, svc := newStatisticServiceFixture(&recordedRecompute{}, true)

	created, err := svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.NoError(t, err)

	_, err = svc.RestoreEntry(context.Background(), created.Entry.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestEntryChange_RecomputeFailureReportsStaleNotError(t *testing.T) {
	recompute := &recordedRecompute{failWith: errors.New("db down")}
	statRepo, svc := newStatisticServiceFixture(recompute, true)

	outcome, err := svc.CreateEntry(context.Background(), 1, 9, validStatisticInput())
	require.NoError(t, err, "the fact write succeeded, so the save itself is not a failure")
	assert.True(t, outcome.AggregatesStale)
	assert.Len(t, statRepo.entries, 1, "the entry stays persisted")
}
