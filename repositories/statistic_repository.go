package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/lib/pq"
)

var (
	ErrStatisticNotFound      = errors.New("match statistic not found")
	ErrStatisticMatchInvalid  = errors.New("statistic match conflict or invalid")
	ErrStatisticPlayerInvalid = errors.New("statistic player conflict or invalid")
	ErrStatisticDuplicate     = errors.New("statistic already exists for this player and match")
	ErrStatisticNotDeleted    = errors.New("statistic is not soft-deleted")
)

type StatisticRepository interface {
	Create(ctx context.Context, entry *models.MatchStatistic) error
	GetByID(ctx context.Context, id int) (*models.MatchStatistic, error)
	Update(ctx context.Context, entry *models.MatchStatistic) error
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	// ListFinalizedByPlayer чтение фактов для движка: только записи, чей
	// родительский матч завершён и не удалён, и сама запись не удалена.
	// nil tournamentID означает все турниры (карьерная область).
	ListFinalizedByPlayer(ctx context.Context, playerID int, tournamentID *int) ([]*models.MatchStatistic, error)
	// ListPlayerIDsByMatch возвращает игроков, у которых есть запись на матче,
	// включая мягко удалённые записи: после удаления матча их агрегаты тоже
	// нужно пересчитать.
	ListPlayerIDsByMatch(ctx context.Context, matchID int) ([]int, error)
}

type postgresStatisticRepository struct {
	db SQLExecutor
}

func NewPostgresStatisticRepository(db *sql.DB) StatisticRepository {
	return &postgresStatisticRepository{db: db}
}

func (r *postgresStatisticRepository) Create(ctx context.Context, entry *models.MatchStatistic) error {
	query := `
		INSERT INTO match_statistics
			(match_id, player_id, tournament_id, goals, assists, yellow_cards, red_cards,
			 minutes_played, participation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.MatchID,
		entry.PlayerID,
		entry.TournamentID,
		entry.Goals,
		entry.Assists,
		entry.YellowCards,
		entry.RedCards,
		entry.MinutesPlayed,
		entry.Participation,
	).Scan(&entry.ID, &entry.CreatedAt)

	return r.handleStatisticError(err)
}

func (r *postgresStatisticRepository) GetByID(ctx context.Context, id int) (*models.MatchStatistic, error) {
	query := `
		SELECT id, match_id, player_id, tournament_id, goals, assists, yellow_cards, red_cards,
		       minutes_played, participation, deleted_at, created_at
		FROM match_statistics
		WHERE id = $1`

	entry := &models.MatchStatistic{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.MatchID, &entry.PlayerID, &entry.TournamentID,
		&entry.Goals, &entry.Assists, &entry.YellowCards, &entry.RedCards,
		&entry.MinutesPlayed, &entry.Participation, &entry.DeletedAt, &entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatisticNotFound
		}
		return nil, fmt.Errorf("failed to scan statistic by id %d: %w", id, err)
	}
	return entry, nil
}

func (r *postgresStatisticRepository) Update(ctx context.Context, entry *models.MatchStatistic) error {
	query := `
		UPDATE match_statistics
		SET goals = $1, assists = $2, yellow_cards = $3, red_cards = $4,
		    minutes_played = $5, participation = $6
		WHERE id = $7 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		entry.Goals, entry.Assists, entry.YellowCards, entry.RedCards,
		entry.MinutesPlayed, entry.Participation, entry.ID,
	)
	if err != nil {
		return r.handleStatisticError(err)
	}
	return checkAffectedRows(result, ErrStatisticNotFound)
}

func (r *postgresStatisticRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE match_statistics SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStatisticNotFound)
}

func (r *postgresStatisticRepository) Restore(ctx context.Context, id int) error {
	query := `UPDATE match_statistics SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStatisticNotDeleted)
}

func (r *postgresStatisticRepository) ListFinalizedByPlayer(ctx context.Context, playerID int, tournamentID *int) ([]*models.MatchStatistic, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT s.id, s.match_id, s.player_id, s.tournament_id, s.goals, s.assists,
		       s.yellow_cards, s.red_cards, s.minutes_played, s.participation,
		       s.deleted_at, s.created_at
		FROM match_statistics s
		JOIN matches m ON s.match_id = m.id
		WHERE s.player_id = $1
		  AND s.deleted_at IS NULL
		  AND m.status = $2
		  AND m.deleted_at IS NULL`)

	args := []interface{}{playerID, models.MatchStatusFinished}
	if tournamentID != nil {
		queryBuilder.WriteString(" AND s.tournament_id = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *tournamentID)
	}
	queryBuilder.WriteString(" ORDER BY m.match_date ASC, m.kickoff_at ASC NULLS LAST, s.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statistics for player %d: %w", playerID, err)
	}
	defer rows.Close()

	entries := make([]*models.MatchStatistic, 0)
	for rows.Next() {
		var e models.MatchStatistic
		if err := rows.Scan(
			&e.ID, &e.MatchID, &e.PlayerID, &e.TournamentID, &e.Goals, &e.Assists,
			&e.YellowCards, &e.RedCards, &e.MinutesPlayed, &e.Participation,
			&e.DeletedAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan statistic row: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *postgresStatisticRepository) ListPlayerIDsByMatch(ctx context.Context, matchID int) ([]int, error) {
	query := `
		SELECT DISTINCT player_id
		FROM match_statistics
		WHERE match_id = $1
		ORDER BY player_id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player ids for match %d: %w", matchID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresStatisticRepository) handleStatisticError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "match_statistics_match_player_key" {
				return ErrStatisticDuplicate
			}
		case "23503":
			switch pqErr.Constraint {
			case "match_statistics_match_id_fkey":
				return ErrStatisticMatchInvalid
			case "match_statistics_player_id_fkey":
				return ErrStatisticPlayerInvalid
			}
		}
	}
	return err
}
