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
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerClubInvalid = errors.New("player club conflict or invalid")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (club_id, first_name, last_name, birth_date, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.ClubID, player.FirstName, player.LastName, player.BirthDate, player.Position,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "players_club_id_fkey" {
				return ErrPlayerClubInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT p.id, p.club_id, p.first_name, p.last_name, p.birth_date, p.position, p.created_at,
		       c.id, c.name
		FROM players p
		LEFT JOIN clubs c ON p.club_id = c.id
		WHERE p.id = $1`

	var player models.Player
	var clubID sql.NullInt64
	var clubName sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID, &player.ClubID, &player.FirstName, &player.LastName,
		&player.BirthDate, &player.Position, &player.CreatedAt,
		&clubID, &clubName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %d: %w", id, err)
	}

	if clubID.Valid {
		player.Club = &models.Club{ID: int(clubID.Int64), Name: clubName.String}
	}
	return &player, nil
}

func (r *postgresPlayerRepository) ListByClub(ctx context.Context, clubID int) ([]*models.Player, error) {
	query := `
		SELECT id, club_id, first_name, last_name, birth_date, position, created_at
		FROM players
		WHERE club_id = $1
		ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for club %d: %w", clubID, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.ClubID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Position, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET club_id = $1, first_name = $2, last_name = $3, birth_date = $4, position = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		player.ClubID, player.FirstName, player.LastName, player.BirthDate, player.Position, player.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "players_club_id_fkey" {
				return ErrPlayerClubInvalid
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM players WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
