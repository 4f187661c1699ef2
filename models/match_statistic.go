package models

import "time"

// Participation задает взаимоисключающие флаги участия игрока в матче.
type Participation string

const (
	ParticipationDidNotPlay Participation = "did_not_play"
	ParticipationStarted    Participation = "started"
	ParticipationSubstitute Participation = "substitute"
)

// MatchStatistic хранит авторитетный факт: статистическую строку игрока в одном матче.
type MatchStatistic struct {
	ID            int           `json:"id" db:"id"`
	MatchID       int           `json:"match_id" db:"match_id"`
	PlayerID      int           `json:"player_id" db:"player_id"`
	TournamentID  int           `json:"tournament_id" db:"tournament_id"` // redundant copy of the match's tournament, for query convenience
	Goals         int           `json:"goals" db:"goals"`
	Assists       int           `json:"assists" db:"assists"`
	YellowCards   int           `json:"yellow_cards" db:"yellow_cards"`
	RedCards      int           `json:"red_cards" db:"red_cards"`
	MinutesPlayed int           `json:"minutes_played" db:"minutes_played"`
	Participation Participation `json:"participation" db:"participation"`
	DeletedAt     *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}
