package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/repositories"
)

type StatisticInput struct {
	Goals         int                  `json:"goals"`
	Assists       int                  `json:"assists"`
	YellowCards   int                  `json:"yellow_cards"`
	RedCards      int                  `json:"red_cards"`
	MinutesPlayed int                  `json:"minutes_played"`
	Participation models.Participation `json:"participation"`
}

// StatisticOutcome аналогичен ResultOutcome: факт записан, а AggregatesStale
// сигнализирует, что пересчёт статистики игрока не прошёл.
type StatisticOutcome struct {
	Entry           *models.MatchStatistic `json:"entry"`
	AggregatesStale bool                   `json:"aggregates_stale"`
}

type StatisticService interface {
	CreateEntry(ctx context.Context, matchID, playerID int, input StatisticInput) (*StatisticOutcome, error)
	UpdateEntry(ctx context.Context, entryID int, input StatisticInput) (*StatisticOutcome, error)
	RemoveEntry(ctx context.Context, entryID int) (*StatisticOutcome, error)
	RestoreEntry(ctx context.Context, entryID int) (*StatisticOutcome, error)
}

type statisticService struct {
	statisticRepo   repositories.StatisticRepository
	matchRepo       repositories.MatchRepository
	recompute       RecomputeService
	logger          *slog.Logger
	maxMatchMinutes int
	careerStats     bool
}

func NewStatisticService(
	statisticRepo repositories.StatisticRepository,
	matchRepo repositories.MatchRepository,
	recompute RecomputeService,
	logger *slog.Logger,
	maxMatchMinutes int,
	careerStats bool,
) StatisticService {
	if logger == nil {
		logger = slog.Default()
	}
	return &statisticService{
		statisticRepo:   statisticRepo,
		matchRepo:       matchRepo,
		recompute:       recompute,
		logger:          logger,
		maxMatchMinutes: maxMatchMinutes,
		careerStats:     careerStats,
	}
}

func (s *statisticService) CreateEntry(ctx context.Context, matchID, playerID int, input StatisticInput) (*StatisticOutcome, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	entry := &models.MatchStatistic{
		MatchID:       matchID,
		PlayerID:      playerID,
		TournamentID:  match.TournamentID,
		Goals:         input.Goals,
		Assists:       input.Assists,
		YellowCards:   input.YellowCards,
		RedCards:      input.RedCards,
		MinutesPlayed: input.MinutesPlayed,
		Participation: input.Participation,
	}

	if err := s.statisticRepo.Create(ctx, entry); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStatisticDuplicate):
			return nil, ErrStatisticDuplicate
		case errors.Is(err, repositories.ErrStatisticPlayerInvalid):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrStatisticMatchInvalid):
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to create statistic entry: %w", err)
	}

	return s.outcomeAfterEntryChange(ctx, entry), nil
}

func (s *statisticService) UpdateEntry(ctx context.Context, entryID int, input StatisticInput) (*StatisticOutcome, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	entry.Goals = input.Goals
	entry.Assists = input.Assists
	entry.YellowCards = input.YellowCards
	entry.RedCards = input.RedCards
	entry.MinutesPlayed = input.MinutesPlayed
	entry.Participation = input.Participation

	if err := s.statisticRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrStatisticNotFound) {
			return nil, ErrStatisticNotFound
		}
		return nil, fmt.Errorf("failed to update statistic entry %d: %w", entryID, err)
	}

	return s.outcomeAfterEntryChange(ctx, entry), nil
}

func (s *statisticService) RemoveEntry(ctx context.Context, entryID int) (*StatisticOutcome, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.statisticRepo.SoftDelete(ctx, entryID); err != nil {
		if errors.Is(err, repositories.ErrStatisticNotFound) {
			return nil, ErrStatisticNotFound
		}
		return nil, fmt.Errorf("failed to remove statistic entry %d: %w", entryID, err)
	}

	return s.outcomeAfterEntryChange(ctx, entry), nil
}

func (s *statisticService) RestoreEntry(ctx context.Context, entryID int) (*StatisticOutcome, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.statisticRepo.Restore(ctx, entryID); err != nil {
		if errors.Is(err, repositories.ErrStatisticNotDeleted) {
			return nil, fmt.Errorf("%w: entry %d is not deleted", ErrValidationFailed, entryID)
		}
		return nil, fmt.Errorf("failed to restore statistic entry %d: %w", entryID, err)
	}
	entry.DeletedAt = nil

	return s.outcomeAfterEntryChange(ctx, entry), nil
}

func (s *statisticService) getEntry(ctx context.Context, entryID int) (*models.MatchStatistic, error) {
	entry, err := s.statisticRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrStatisticNotFound) {
			return nil, ErrStatisticNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *statisticService) validateInput(input StatisticInput) error {
	if input.Goals < 0 || input.Assists < 0 || input.YellowCards < 0 || input.RedCards < 0 || input.MinutesPlayed < 0 {
		return ErrNegativeStatisticValue
	}
	if input.MinutesPlayed > s.maxMatchMinutes {
		return ErrMinutesOutOfRange
	}
	switch input.Participation {
	case models.ParticipationDidNotPlay, models.ParticipationStarted, models.ParticipationSubstitute:
		return nil
	default:
		return ErrInvalidParticipation
	}
}

func (s *statisticService) outcomeAfterEntryChange(ctx context.Context, entry *models.MatchStatistic) *StatisticOutcome {
	outcome := &StatisticOutcome{Entry: entry}
	tournamentID := entry.TournamentID

	if err := s.recompute.RecomputePlayerStatistics(ctx, entry.PlayerID, &tournamentID); err != nil {
		s.logger.Warn("player statistics recompute failed after entry change",
			slog.Int("entry_id", entry.ID), slog.Int("player_id", entry.PlayerID), slog.Any("error", err))
		outcome.AggregatesStale = true
	}
	if s.careerStats {
		if err := s.recompute.RecomputePlayerStatistics(ctx, entry.PlayerID, nil); err != nil {
			s.logger.Warn("career statistics recompute failed after entry change",
				slog.Int("entry_id", entry.ID), slog.Int("player_id", entry.PlayerID), slog.Any("error", err))
			outcome.AggregatesStale = true
		}
	}
	return outcome
}
