package models

import "time"

// ClubStanding хранит производный агрегат: одну строку на пару (клуб, турнир).
// Строки полностью принадлежат движку пересчёта: создаются лениво, всегда
// перезаписываются целиком и никогда не патчатся инкрементально.
type ClubStanding struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	ClubID       int       `json:"club_id" db:"club_id"`
	Points       int       `json:"points" db:"points"`
	Played       int       `json:"played" db:"played"`
	Wins         int       `json:"wins" db:"wins"`
	Draws        int       `json:"draws" db:"draws"`
	Losses       int       `json:"losses" db:"losses"`
	GoalsFor     int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst int       `json:"goals_against" db:"goals_against"`
	Rank         int       `json:"rank" db:"rank"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// ClubName заполняется JOIN-ом при чтении фактов; используется для
	// детерминированного тай-брейка и отображения, в таблице не хранится.
	ClubName string `json:"club_name,omitempty" db:"-"`
}

// GoalDifference вычисляется, а не хранится, чтобы не заводить вторую
// избыточность поверх goals_for/goals_against.
func (s *ClubStanding) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}
