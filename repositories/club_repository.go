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
	ErrClubNotFound     = errors.New("club not found")
	ErrClubNameConflict = errors.New("club name conflict")
)

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int) (*models.Club, error)
	List(ctx context.Context, limit, offset int) ([]*models.Club, error)
	Update(ctx context.Context, club *models.Club) error
	UpdateCrestKey(ctx context.Context, clubID int, crestKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresClubRepository struct {
	db *sql.DB
}

func NewPostgresClubRepository(db *sql.DB) ClubRepository {
	return &postgresClubRepository{db: db}
}

func (r *postgresClubRepository) Create(ctx context.Context, club *models.Club) error {
	query := `
		INSERT INTO clubs (name, city, founded_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, club.Name, club.City, club.FoundedAt).
		Scan(&club.ID, &club.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "clubs_name_key" {
				return ErrClubNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id int) (*models.Club, error) {
	query := `
		SELECT id, name, city, founded_at, crest_key, created_at
		FROM clubs
		WHERE id = $1`

	var club models.Club
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&club.ID, &club.Name, &club.City, &club.FoundedAt, &club.CrestKey, &club.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to scan club %d: %w", id, err)
	}
	return &club, nil
}

func (r *postgresClubRepository) List(ctx context.Context, limit, offset int) ([]*models.Club, error) {
	query := `
		SELECT id, name, city, founded_at, crest_key, created_at
		FROM clubs
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]*models.Club, 0)
	for rows.Next() {
		var club models.Club
		if err := rows.Scan(&club.ID, &club.Name, &club.City, &club.FoundedAt, &club.CrestKey, &club.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan club row: %w", err)
		}
		clubs = append(clubs, &club)
	}
	return clubs, rows.Err()
}

func (r *postgresClubRepository) Update(ctx context.Context, club *models.Club) error {
	query := `
		UPDATE clubs SET name = $1, city = $2, founded_at = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, club.Name, club.City, club.FoundedAt, club.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "clubs_name_key" {
				return ErrClubNameConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *postgresClubRepository) UpdateCrestKey(ctx context.Context, clubID int, crestKey *string) error {
	query := `UPDATE clubs SET crest_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, crestKey, clubID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *postgresClubRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM clubs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrClubNotFound)
}
