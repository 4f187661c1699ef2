package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JordyAP28/sistema-deportivo/repositories"
)

const reconcileConcurrency = 4

// Reconciler служит периодической страховочной сеткой: заново проверяет все активные
// турниры и пересчитывает те, чьи агрегаты разошлись с фактами (например,
// потому что факт поменяли в обход координатора). Области независимы,
// поэтому проверяются параллельно.
type Reconciler interface {
	ReconcileAll(ctx context.Context) error
}

type reconciler struct {
	tournamentRepo repositories.TournamentRepository
	consistency    ConsistencyService
	recompute      RecomputeService
	logger         *slog.Logger
}

func NewReconciler(
	tournamentRepo repositories.TournamentRepository,
	consistency ConsistencyService,
	recompute RecomputeService,
	logger *slog.Logger,
) Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &reconciler{
		tournamentRepo: tournamentRepo,
		consistency:    consistency,
		recompute:      recompute,
		logger:         logger,
	}
}

func (r *reconciler) ReconcileAll(ctx context.Context) error {
	ids, err := r.tournamentRepo.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("%w: active tournaments: %w", ErrFactReadFailed, err)
	}
	if len(ids) == 0 {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)

	for _, tournamentID := range ids {
		tournamentID := tournamentID
		g.Go(func() error {
			diff, err := r.consistency.VerifyTournament(gCtx, tournamentID)
			if err != nil {
				r.logger.Error("reconciliation check failed",
					slog.Int("tournament_id", tournamentID), slog.Any("error", err))
				return err
			}
			if len(diff) == 0 {
				return nil
			}

			r.logger.Warn("repairing drifted standings",
				slog.Int("tournament_id", tournamentID),
				slog.Int("discrepancies", len(diff)),
			)
			if err := r.recompute.RecomputeTournamentStandings(gCtx, tournamentID); err != nil {
				r.logger.Error("reconciliation repair failed",
					slog.Int("tournament_id", tournamentID), slog.Any("error", err))
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
