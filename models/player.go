package models

import "time"

// Player представляет спортсмена, привязанного к клубу.
type Player struct {
	ID        int        `json:"id" db:"id"`
	ClubID    *int       `json:"club_id,omitempty" db:"club_id"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Position  *string    `json:"position,omitempty" db:"position"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Club *Club `json:"club,omitempty" db:"-"`
}
