package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/repositories"
	"github.com/JordyAP28/sistema-deportivo/stats"
)

// Broadcaster рассылает live-обновления подписчикам комнаты турнира.
type Broadcaster interface {
	BroadcastToRoom(room string, message []byte)
}

// RecomputeService координирует пересчёт агрегатов. Каждый вызов идемпотентен:
// повторный пересчёт без изменения фактов записывает идентичные строки.
// Пересчёт всегда целиком заменяет агрегатные строки области; при любой
// ошибке чтения или валидации старые строки остаются нетронутыми.
type RecomputeService interface {
	RecomputeTournamentStandings(ctx context.Context, tournamentID int) error
	RecomputePlayerStatistics(ctx context.Context, playerID int, tournamentID *int) error
}

type recomputeService struct {
	facts           stats.FactReader
	standingRepo    repositories.StandingRepository
	playerStatsRepo repositories.PlayerStatsRepository
	broadcaster     Broadcaster
	logger          *slog.Logger
	maxMatchMinutes int
}

func NewRecomputeService(
	facts stats.FactReader,
	standingRepo repositories.StandingRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	broadcaster Broadcaster,
	logger *slog.Logger,
	maxMatchMinutes int,
) RecomputeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &recomputeService{
		facts:           facts,
		standingRepo:    standingRepo,
		playerStatsRepo: playerStatsRepo,
		broadcaster:     broadcaster,
		logger:          logger,
		maxMatchMinutes: maxMatchMinutes,
	}
}

func (s *recomputeService) RecomputeTournamentStandings(ctx context.Context, tournamentID int) error {
	log := s.logger.With(slog.Int("tournament_id", tournamentID))
	log.Debug("standings recompute requested")

	matches, err := s.facts.MatchesForTournament(ctx, tournamentID)
	if err != nil {
		log.Error("standings recompute failed loading facts", slog.Any("error", err))
		return err
	}
	log.Debug("standings facts loaded", slog.Int("matches", len(matches)))

	byClub, err := stats.ComputeStandings(tournamentID, matches)
	if err != nil {
		log.Error("standings recompute failed aggregating", slog.Any("error", err))
		return err
	}
	table := stats.RankStandings(byClub)

	if err := s.standingRepo.ReplaceByTournament(ctx, tournamentID, table); err != nil {
		log.Error("standings recompute failed persisting", slog.Any("error", err))
		return fmt.Errorf("%w: standings for tournament %d: %w", ErrAggregateWriteFailed, tournamentID, err)
	}
	log.Info("standings recomputed", slog.Int("clubs", len(table)))

	s.broadcastStandings(tournamentID, table)
	return nil
}

func (s *recomputeService) RecomputePlayerStatistics(ctx context.Context, playerID int, tournamentID *int) error {
	log := s.logger.With(slog.Int("player_id", playerID))
	if tournamentID != nil {
		log = log.With(slog.Int("tournament_id", *tournamentID))
	}
	log.Debug("player statistics recompute requested")

	entries, err := s.facts.StatisticsForPlayer(ctx, playerID, tournamentID)
	if err != nil {
		log.Error("player statistics recompute failed loading facts", slog.Any("error", err))
		return err
	}

	agg, err := stats.ComputePlayerStatistics(playerID, tournamentID, entries, s.maxMatchMinutes)
	if err != nil {
		log.Error("player statistics recompute failed aggregating", slog.Any("error", err))
		return err
	}

	if err := s.playerStatsRepo.Replace(ctx, agg); err != nil {
		log.Error("player statistics recompute failed persisting", slog.Any("error", err))
		return fmt.Errorf("%w: statistics for player %d: %w", ErrAggregateWriteFailed, playerID, err)
	}
	log.Info("player statistics recomputed", slog.Int("entries", len(entries)))
	return nil
}

func (s *recomputeService) broadcastStandings(tournamentID int, table []*models.ClubStanding) {
	if s.broadcaster == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":    "STANDINGS_UPDATED",
		"payload": table,
		"room_id": fmt.Sprintf("tournament_%d", tournamentID),
	})
	if err != nil {
		s.logger.Error("failed to marshal standings broadcast", slog.Any("error", err))
		return
	}
	s.broadcaster.BroadcastToRoom(fmt.Sprintf("tournament_%d", tournamentID), payload)
}
