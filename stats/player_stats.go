package stats

import (
	"fmt"

	"github.com/JordyAP28/sistema-deportivo/models"
)

// ComputePlayerStatistics folds a player's match-statistic entries into one
// cumulative row. The sum per counter is commutative, so the result does not
// depend on the order entries are iterated. maxMinutes is the configured
// maximum match duration used to reject impossible minute counts.
func ComputePlayerStatistics(playerID int, tournamentID *int, entries []*models.MatchStatistic, maxMinutes int) (*models.PlayerStatistics, error) {
	agg := &models.PlayerStatistics{
		PlayerID:     playerID,
		TournamentID: tournamentID,
	}

	for _, e := range entries {
		if err := validateStatisticEntry(playerID, tournamentID, e, maxMinutes); err != nil {
			return nil, err
		}

		agg.Goals += e.Goals
		agg.Assists += e.Assists
		agg.YellowCards += e.YellowCards
		agg.RedCards += e.RedCards
		agg.MinutesPlayed += e.MinutesPlayed

		switch e.Participation {
		case models.ParticipationStarted:
			agg.MatchesPlayed++
			agg.MatchesStarted++
		case models.ParticipationSubstitute:
			agg.MatchesPlayed++
			agg.MatchesAsSubstitute++
		case models.ParticipationDidNotPlay:
			// counts toward nothing
		}
	}

	return agg, nil
}

func validateStatisticEntry(playerID int, tournamentID *int, e *models.MatchStatistic, maxMinutes int) error {
	if e == nil {
		return fmt.Errorf("%w: nil statistic entry", ErrInvalidFact)
	}
	if e.PlayerID != playerID {
		return fmt.Errorf("%w: entry %d belongs to player %d, not %d", ErrInvalidFact, e.ID, e.PlayerID, playerID)
	}
	if tournamentID != nil && e.TournamentID != *tournamentID {
		return fmt.Errorf("%w: entry %d belongs to tournament %d, not %d", ErrInvalidFact, e.ID, e.TournamentID, *tournamentID)
	}
	if e.DeletedAt != nil {
		return fmt.Errorf("%w: entry %d is soft-deleted", ErrInvalidFact, e.ID)
	}
	if e.Goals < 0 || e.Assists < 0 || e.YellowCards < 0 || e.RedCards < 0 || e.MinutesPlayed < 0 {
		return fmt.Errorf("%w: entry %d has a negative counter", ErrInvalidFact, e.ID)
	}
	if maxMinutes > 0 && e.MinutesPlayed > maxMinutes {
		return fmt.Errorf("%w: entry %d has %d minutes played, maximum is %d", ErrInvalidFact, e.ID, e.MinutesPlayed, maxMinutes)
	}
	switch e.Participation {
	case models.ParticipationDidNotPlay, models.ParticipationStarted, models.ParticipationSubstitute:
		return nil
	default:
		return fmt.Errorf("%w: entry %d has unknown participation %q", ErrInvalidFact, e.ID, e.Participation)
	}
}
