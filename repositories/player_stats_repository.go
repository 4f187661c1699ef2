package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JordyAP28/sistema-deportivo/models"
)

var (
	ErrPlayerStatsNotFound      = errors.New("player statistics not found")
	ErrPlayerStatsReplaceFailed = errors.New("failed to replace player statistics")
)

// PlayerStatsRepository владеет таблицей player_statistics эксклюзивно от
// имени движка. Строка области (игрок, турнир|NULL) заменяется целиком.
type PlayerStatsRepository interface {
	Replace(ctx context.Context, aggregate *models.PlayerStatistics) error
	GetByScope(ctx context.Context, playerID int, tournamentID *int) (*models.PlayerStatistics, error)
}

type postgresPlayerStatsRepository struct {
	db *sql.DB
}

func NewPostgresPlayerStatsRepository(db *sql.DB) PlayerStatsRepository {
	return &postgresPlayerStatsRepository{db: db}
}

func (r *postgresPlayerStatsRepository) Replace(ctx context.Context, agg *models.PlayerStatistics) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrPlayerStatsReplaceFailed, err)
	}
	defer tx.Rollback()

	// Уникальный индекс по (player_id, tournament_id) не ловит NULL-область,
	// поэтому удаляем по предикату, а не полагаемся на ON CONFLICT.
	if agg.TournamentID != nil {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM player_statistics WHERE player_id = $1 AND tournament_id = $2`,
			agg.PlayerID, *agg.TournamentID)
	} else {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM player_statistics WHERE player_id = $1 AND tournament_id IS NULL`,
			agg.PlayerID)
	}
	if err != nil {
		return fmt.Errorf("%w: delete old row for player %d: %w", ErrPlayerStatsReplaceFailed, agg.PlayerID, err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO player_statistics
			(player_id, tournament_id, goals, assists, yellow_cards, red_cards,
			 minutes_played, matches_played, matches_started, matches_as_substitute, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		agg.PlayerID, agg.TournamentID, agg.Goals, agg.Assists, agg.YellowCards, agg.RedCards,
		agg.MinutesPlayed, agg.MatchesPlayed, agg.MatchesStarted, agg.MatchesAsSubstitute, time.Now(),
	).Scan(&agg.ID)
	if err != nil {
		return fmt.Errorf("%w: insert row for player %d: %w", ErrPlayerStatsReplaceFailed, agg.PlayerID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPlayerStatsReplaceFailed, err)
	}
	return nil
}

func (r *postgresPlayerStatsRepository) GetByScope(ctx context.Context, playerID int, tournamentID *int) (*models.PlayerStatistics, error) {
	query := `
		SELECT id, player_id, tournament_id, goals, assists, yellow_cards, red_cards,
		       minutes_played, matches_played, matches_started, matches_as_substitute, updated_at
		FROM player_statistics
		WHERE player_id = $1 AND ($2::int IS NULL AND tournament_id IS NULL OR tournament_id = $2)`

	var agg models.PlayerStatistics
	err := r.db.QueryRowContext(ctx, query, playerID, tournamentID).Scan(
		&agg.ID, &agg.PlayerID, &agg.TournamentID, &agg.Goals, &agg.Assists,
		&agg.YellowCards, &agg.RedCards, &agg.MinutesPlayed,
		&agg.MatchesPlayed, &agg.MatchesStarted, &agg.MatchesAsSubstitute, &agg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatsNotFound
		}
		return nil, fmt.Errorf("failed to scan player statistics for player %d: %w", playerID, err)
	}
	return &agg, nil
}
