package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
	MatchStatusSuspended  MatchStatus = "suspended"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// Match хранит авторитетный факт: результат матча между двумя клубами.
// HomeGoals/AwayGoals имеют смысл только при Status == finished.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	HomeClubID   int         `json:"home_club_id" db:"home_club_id"`
	AwayClubID   int         `json:"away_club_id" db:"away_club_id"`
	HomeGoals    *int        `json:"home_goals,omitempty" db:"home_goals"`
	AwayGoals    *int        `json:"away_goals,omitempty" db:"away_goals"`
	MatchDate    time.Time   `json:"match_date" db:"match_date"`
	KickoffAt    *time.Time  `json:"kickoff_at,omitempty" db:"kickoff_at"`
	Status       MatchStatus `json:"status" db:"status"`
	DeletedAt    *time.Time  `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	HomeClub *Club `json:"home_club,omitempty" db:"-"`
	AwayClub *Club `json:"away_club,omitempty" db:"-"`
}
