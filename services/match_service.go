package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/repositories"
)

type CreateMatchInput struct {
	TournamentID int        `json:"tournament_id"`
	HomeClubID   int        `json:"home_club_id"`
	AwayClubID   int        `json:"away_club_id"`
	MatchDate    time.Time  `json:"match_date"`
	KickoffAt    *time.Time `json:"kickoff_at,omitempty"`
}

// ResultOutcome описывает итог операции пути сохранения результата. Операция считается
// успешной, если записан авторитетный факт; AggregatesStale взводится, когда
// последующий пересчёт упал и агрегаты временно отстают (их починит сверка).
type ResultOutcome struct {
	Match           *models.Match `json:"match"`
	AggregatesStale bool          `json:"aggregates_stale"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	EnterResult(ctx context.Context, matchID, homeGoals, awayGoals int) (*ResultOutcome, error)
	VoidResult(ctx context.Context, matchID int) (*ResultOutcome, error)
	SoftDeleteMatch(ctx context.Context, matchID int) (*ResultOutcome, error)
	RestoreMatch(ctx context.Context, matchID int) (*ResultOutcome, error)
}

type matchService struct {
	matchRepo     repositories.MatchRepository
	statisticRepo repositories.StatisticRepository
	recompute     RecomputeService
	logger        *slog.Logger
	careerStats   bool
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	statisticRepo repositories.StatisticRepository,
	recompute RecomputeService,
	logger *slog.Logger,
	careerStats bool,
) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		matchRepo:     matchRepo,
		statisticRepo: statisticRepo,
		recompute:     recompute,
		logger:        logger,
		careerStats:   careerStats,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.HomeClubID == input.AwayClubID {
		return nil, ErrSameClubsInMatch
	}

	match := &models.Match{
		TournamentID: input.TournamentID,
		HomeClubID:   input.HomeClubID,
		AwayClubID:   input.AwayClubID,
		MatchDate:    input.MatchDate,
		KickoffAt:    input.KickoffAt,
		Status:       models.MatchStatusScheduled,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchTournamentInvalid):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrMatchClubInvalid):
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

// EnterResult записывает счёт завершённого матча (ввод или исправление) и
// запускает пересчёт турнирной таблицы и статистики затронутых игроков.
func (s *matchService) EnterResult(ctx context.Context, matchID, homeGoals, awayGoals int) (*ResultOutcome, error) {
	if homeGoals < 0 || awayGoals < 0 {
		return nil, ErrNegativeScore
	}

	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateScoreStatus(ctx, matchID, &homeGoals, &awayGoals, models.MatchStatusFinished); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to save result for match %d: %w", matchID, err)
	}
	match.HomeGoals = &homeGoals
	match.AwayGoals = &awayGoals
	match.Status = models.MatchStatusFinished

	return s.outcomeAfterFactChange(ctx, match), nil
}

// VoidResult аннулирует ранее введённый результат: матч перестаёт быть
// завершённым фактом и выпадает из агрегатов при пересчёте.
func (s *matchService) VoidResult(ctx context.Context, matchID int) (*ResultOutcome, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateScoreStatus(ctx, matchID, nil, nil, models.MatchStatusCancelled); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to void result for match %d: %w", matchID, err)
	}
	match.HomeGoals = nil
	match.AwayGoals = nil
	match.Status = models.MatchStatusCancelled

	return s.outcomeAfterFactChange(ctx, match), nil
}

func (s *matchService) SoftDeleteMatch(ctx context.Context, matchID int) (*ResultOutcome, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.SoftDelete(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to soft-delete match %d: %w", matchID, err)
	}
	now := time.Now()
	match.DeletedAt = &now

	return s.outcomeAfterFactChange(ctx, match), nil
}

func (s *matchService) RestoreMatch(ctx context.Context, matchID int) (*ResultOutcome, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.Restore(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotDeleted) {
			return nil, fmt.Errorf("%w: match %d is not deleted", ErrValidationFailed, matchID)
		}
		return nil, fmt.Errorf("failed to restore match %d: %w", matchID, err)
	}
	match.DeletedAt = nil

	return s.outcomeAfterFactChange(ctx, match), nil
}

// outcomeAfterFactChange выполняет обязательный явный шаг после любой мутации факта:
// пересчёт таблицы турнира и статистики каждого игрока, у которого есть
// запись на этом матче. Ошибка пересчёта не отменяет уже записанный факт.
func (s *matchService) outcomeAfterFactChange(ctx context.Context, match *models.Match) *ResultOutcome {
	outcome := &ResultOutcome{Match: match}

	if err := s.recompute.RecomputeTournamentStandings(ctx, match.TournamentID); err != nil {
		s.logger.Warn("standings recompute failed after match change",
			slog.Int("match_id", match.ID), slog.Any("error", err))
		outcome.AggregatesStale = true
	}

	playerIDs, err := s.statisticRepo.ListPlayerIDsByMatch(ctx, match.ID)
	if err != nil {
		s.logger.Warn("failed to list affected players after match change",
			slog.Int("match_id", match.ID), slog.Any("error", err))
		outcome.AggregatesStale = true
		return outcome
	}

	tournamentID := match.TournamentID
	for _, playerID := range playerIDs {
		if err := s.recompute.RecomputePlayerStatistics(ctx, playerID, &tournamentID); err != nil {
			s.logger.Warn("player statistics recompute failed after match change",
				slog.Int("match_id", match.ID), slog.Int("player_id", playerID), slog.Any("error", err))
			outcome.AggregatesStale = true
		}
		if s.careerStats {
			if err := s.recompute.RecomputePlayerStatistics(ctx, playerID, nil); err != nil {
				s.logger.Warn("career statistics recompute failed after match change",
					slog.Int("match_id", match.ID), slog.Int("player_id", playerID), slog.Any("error", err))
				outcome.AggregatesStale = true
			}
		}
	}

	return outcome
}
