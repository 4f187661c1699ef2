package models

import "time"

// Club представляет спортивный клуб.
type Club struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	City      *string   `json:"city,omitempty" db:"city"`
	FoundedAt *int      `json:"founded_at,omitempty" db:"founded_at"`
	CrestKey  *string   `json:"-" db:"crest_key"`
	CrestURL  *string   `json:"crest_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
