package stats

import (
	"context"

	"github.com/JordyAP28/sistema-deportivo/models"
)

// FactReader дает read-only доступ к авторитетным фактам. Движок никогда не
// мутирует факты: он читает их через этот интерфейс и владеет только
// производными агрегатными строками.
type FactReader interface {
	// MatchesForTournament returns only finished, non-soft-deleted matches of
	// the tournament, ordered by match date, kickoff time, then id.
	MatchesForTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)

	// StatisticsForPlayer returns only entries whose parent match is finished
	// and not soft-deleted. A nil tournamentID means all tournaments (career).
	StatisticsForPlayer(ctx context.Context, playerID int, tournamentID *int) ([]*models.MatchStatistic, error)
}
