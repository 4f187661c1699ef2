package models

import "time"

// PlayerStatistics хранит производный агрегат: одна строка на пару (игрок, турнир).
// TournamentID == nil означает карьерную строку, свёрнутую по всем турнирам.
type PlayerStatistics struct {
	ID                  int       `json:"id" db:"id"`
	PlayerID            int       `json:"player_id" db:"player_id"`
	TournamentID        *int      `json:"tournament_id,omitempty" db:"tournament_id"`
	Goals               int       `json:"goals" db:"goals"`
	Assists             int       `json:"assists" db:"assists"`
	YellowCards         int       `json:"yellow_cards" db:"yellow_cards"`
	RedCards            int       `json:"red_cards" db:"red_cards"`
	MinutesPlayed       int       `json:"minutes_played" db:"minutes_played"`
	MatchesPlayed       int       `json:"matches_played" db:"matches_played"`
	MatchesStarted      int       `json:"matches_started" db:"matches_started"`
	MatchesAsSubstitute int       `json:"matches_as_substitute" db:"matches_as_substitute"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
