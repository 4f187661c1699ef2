package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JordyAP28/sistema-deportivo/repositories"
	"github.com/JordyAP28/sistema-deportivo/stats"
)

// ConsistencyService выполняет read-only проверку того, что сохранённые
// агрегатные строки совпадают со свежим пересчётом. Ничего не чинит сама:
// починкой занимается координатор, которого дёргает джоба сверки.
type ConsistencyService interface {
	VerifyTournament(ctx context.Context, tournamentID int) ([]stats.Discrepancy, error)
}

type consistencyService struct {
	facts        stats.FactReader
	standingRepo repositories.StandingRepository
	logger       *slog.Logger
}

func NewConsistencyService(
	facts stats.FactReader,
	standingRepo repositories.StandingRepository,
	logger *slog.Logger,
) ConsistencyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &consistencyService{
		facts:        facts,
		standingRepo: standingRepo,
		logger:       logger,
	}
}

func (s *consistencyService) VerifyTournament(ctx context.Context, tournamentID int) ([]stats.Discrepancy, error) {
	matches, err := s.facts.MatchesForTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	byClub, err := stats.ComputeStandings(tournamentID, matches)
	if err != nil {
		return nil, err
	}
	expected := stats.RankStandings(byClub)

	persisted, err := s.standingRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: persisted standings for tournament %d: %w", ErrAggregateReadFailed, tournamentID, err)
	}

	diff := stats.DiffStandings(expected, persisted)
	if len(diff) > 0 {
		s.logger.Warn("standings drifted from authoritative facts",
			slog.Int("tournament_id", tournamentID),
			slog.Int("discrepancies", len(diff)),
		)
	}
	return diff, nil
}
