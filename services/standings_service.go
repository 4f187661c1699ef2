package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/repositories"
)

// StandingsService образует внешнюю читающую поверхность движка. Читает только
// сохранённые агрегатные строки и никогда не пересчитывает на пути чтения:
// за пересчёт отвечают путь записи и джоба сверки.
type StandingsService interface {
	GetStandings(ctx context.Context, tournamentID int) ([]*models.ClubStanding, error)
	GetPlayerStatistics(ctx context.Context, playerID int, tournamentID *int) (*models.PlayerStatistics, error)
}

type standingsService struct {
	tournamentRepo  repositories.TournamentRepository
	playerRepo      repositories.PlayerRepository
	standingRepo    repositories.StandingRepository
	playerStatsRepo repositories.PlayerStatsRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	standingRepo repositories.StandingRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo:  tournamentRepo,
		playerRepo:      playerRepo,
		standingRepo:    standingRepo,
		playerStatsRepo: playerStatsRepo,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) ([]*models.ClubStanding, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	standings, err := s.standingRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read standings for tournament %d: %w", tournamentID, err)
	}
	return standings, nil
}

func (s *standingsService) GetPlayerStatistics(ctx context.Context, playerID int, tournamentID *int) (*models.PlayerStatistics, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	agg, err := s.playerStatsRepo.GetByScope(ctx, playerID, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
			// Игрок существует, но агрегат ещё не материализован: пустая строка.
			return &models.PlayerStatistics{PlayerID: playerID, TournamentID: tournamentID}, nil
		}
		return nil, fmt.Errorf("failed to read statistics for player %d: %w", playerID, err)
	}
	return agg, nil
}
