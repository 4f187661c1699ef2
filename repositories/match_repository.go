package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchClubInvalid       = errors.New("match club conflict or invalid")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchNotDeleted        = errors.New("match is not soft-deleted")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, includeDeleted bool) ([]*models.Match, error)
	// ListFinishedByTournament чтение фактов для движка: только завершённые и
	// не удалённые матчи, с названиями клубов, в детерминированном порядке.
	ListFinishedByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	UpdateScoreStatus(ctx context.Context, id int, homeGoals, awayGoals *int, status models.MatchStatus) error
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db SQLExecutor
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (tournament_id, home_club_id, away_club_id, home_goals, away_goals,
		                     match_date, kickoff_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.TournamentID,
		match.HomeClubID,
		match.AwayClubID,
		match.HomeGoals,
		match.AwayGoals,
		match.MatchDate,
		match.KickoffAt,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, home_club_id, away_club_id, home_goals, away_goals,
		       match_date, kickoff_at, status, deleted_at, created_at
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.TournamentID,
		&match.HomeClubID,
		&match.AwayClubID,
		&match.HomeGoals,
		&match.AwayGoals,
		&match.MatchDate,
		&match.KickoffAt,
		&match.Status,
		&match.DeletedAt,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, includeDeleted bool) ([]*models.Match, error) {
	query := `
		SELECT id, tournament_id, home_club_id, away_club_id, home_goals, away_goals,
		       match_date, kickoff_at, status, deleted_at, created_at
		FROM matches
		WHERE tournament_id = $1
		  AND ($2 OR deleted_at IS NULL)
		ORDER BY match_date ASC, kickoff_at ASC NULLS LAST, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.HomeClubID, &m.AwayClubID, &m.HomeGoals, &m.AwayGoals,
			&m.MatchDate, &m.KickoffAt, &m.Status, &m.DeletedAt, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) ListFinishedByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	// Фильтр "finished and not soft-deleted" живёт здесь, а не в агрегаторе:
	// мягкое удаление относится к предикату читателя фактов.
	query := `
		SELECT m.id, m.tournament_id, m.home_club_id, m.away_club_id, m.home_goals, m.away_goals,
		       m.match_date, m.kickoff_at, m.status, m.deleted_at, m.created_at,
		       hc.name, ac.name
		FROM matches m
		JOIN clubs hc ON m.home_club_id = hc.id
		JOIN clubs ac ON m.away_club_id = ac.id
		WHERE m.tournament_id = $1
		  AND m.status = $2
		  AND m.deleted_at IS NULL
		ORDER BY m.match_date ASC, m.kickoff_at ASC NULLS LAST, m.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, models.MatchStatusFinished)
	if err != nil {
		return nil, fmt.Errorf("failed to query finished matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		var homeName, awayName string
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.HomeClubID, &m.AwayClubID, &m.HomeGoals, &m.AwayGoals,
			&m.MatchDate, &m.KickoffAt, &m.Status, &m.DeletedAt, &m.CreatedAt,
			&homeName, &awayName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan finished match row: %w", err)
		}
		m.HomeClub = &models.Club{ID: m.HomeClubID, Name: homeName}
		m.AwayClub = &models.Club{ID: m.AwayClubID, Name: awayName}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateScoreStatus(ctx context.Context, id int, homeGoals, awayGoals *int, status models.MatchStatus) error {
	query := `
		UPDATE matches
		SET home_goals = $1, away_goals = $2, status = $3
		WHERE id = $4 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, homeGoals, awayGoals, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE matches SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Restore(ctx context.Context, id int) error {
	query := `UPDATE matches SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotDeleted)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_home_club_id_fkey", "matches_away_club_id_fkey":
			return ErrMatchClubInvalid
		}
	}
	return err
}
