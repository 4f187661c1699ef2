package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/repositories"
	"github.com/JordyAP28/sistema-deportivo/stats"
)

// factStore реализует stats.FactReader поверх репозиториев фактов. Движок
// получает только завершённые, не удалённые факты; существование области
// (турнир, игрок) проверяется явно, чтобы отличать NotFound от пустого набора.
type factStore struct {
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	statisticRepo  repositories.StatisticRepository
}

func NewFactStore(
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	statisticRepo repositories.StatisticRepository,
) stats.FactReader {
	return &factStore{
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		statisticRepo:  statisticRepo,
	}
}

func (f *factStore) MatchesForTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := f.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w: tournament %d: %w", ErrFactReadFailed, tournamentID, err)
	}

	matches, err := f.matchRepo.ListFinishedByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: matches for tournament %d: %w", ErrFactReadFailed, tournamentID, err)
	}
	return matches, nil
}

func (f *factStore) StatisticsForPlayer(ctx context.Context, playerID int, tournamentID *int) ([]*models.MatchStatistic, error) {
	if _, err := f.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("%w: player %d: %w", ErrFactReadFailed, playerID, err)
	}

	entries, err := f.statisticRepo.ListFinalizedByPlayer(ctx, playerID, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: statistics for player %d: %w", ErrFactReadFailed, playerID, err)
	}
	return entries, nil
}
