package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JordyAP28/sistema-deportivo/models"
)

var ErrStandingReplaceFailed = errors.New("failed to replace tournament standings")

// StandingRepository владеет таблицей club_standings эксклюзивно от имени
// движка пересчёта. Инкрементальных апдейтов нет намеренно: строки области
// либо заменяются целиком в одной транзакции, либо остаются нетронутыми.
type StandingRepository interface {
	ReplaceByTournament(ctx context.Context, tournamentID int, standings []*models.ClubStanding) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.ClubStanding, error)
	// UpdateField используется только тестами сверки для намеренной порчи строки.
	UpdateField(ctx context.Context, tournamentID, clubID int, field string, value int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) ReplaceByTournament(ctx context.Context, tournamentID int, standings []*models.ClubStanding) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrStandingReplaceFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM club_standings WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("%w: delete old rows for tournament %d: %w", ErrStandingReplaceFailed, tournamentID, err)
	}

	if len(standings) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO club_standings
				(tournament_id, club_id, points, played, wins, draws, losses,
				 goals_for, goals_against, rank, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
		if err != nil {
			return fmt.Errorf("%w: prepare insert: %w", ErrStandingReplaceFailed, err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, s := range standings {
			if _, err := stmt.ExecContext(ctx,
				tournamentID, s.ClubID, s.Points, s.Played, s.Wins, s.Draws, s.Losses,
				s.GoalsFor, s.GoalsAgainst, s.Rank, now,
			); err != nil {
				return fmt.Errorf("%w: insert row for club %d: %w", ErrStandingReplaceFailed, s.ClubID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrStandingReplaceFailed, err)
	}
	return nil
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.ClubStanding, error) {
	query := `
		SELECT s.id, s.tournament_id, s.club_id, s.points, s.played, s.wins, s.draws, s.losses,
		       s.goals_for, s.goals_against, s.rank, s.updated_at, c.name
		FROM club_standings s
		JOIN clubs c ON s.club_id = c.id
		WHERE s.tournament_id = $1
		ORDER BY s.rank ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]*models.ClubStanding, 0)
	for rows.Next() {
		var s models.ClubStanding
		if err := rows.Scan(
			&s.ID, &s.TournamentID, &s.ClubID, &s.Points, &s.Played, &s.Wins, &s.Draws, &s.Losses,
			&s.GoalsFor, &s.GoalsAgainst, &s.Rank, &s.UpdatedAt, &s.ClubName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, &s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) UpdateField(ctx context.Context, tournamentID, clubID int, field string, value int) error {
	allowed := map[string]bool{
		"points": true, "played": true, "wins": true, "draws": true, "losses": true,
		"goals_for": true, "goals_against": true, "rank": true,
	}
	if !allowed[field] {
		return fmt.Errorf("field %q is not an updatable standing column", field)
	}

	query := fmt.Sprintf(`UPDATE club_standings SET %s = $1 WHERE tournament_id = $2 AND club_id = $3`, field)
	result, err := r.db.ExecContext(ctx, query, value, tournamentID, clubID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, errors.New("standing row not found"))
}
