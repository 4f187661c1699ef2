package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JordyAP28/sistema-deportivo/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

// GetStandings отдаёт сохранённую турнирную таблицу. Чтение никогда не
// инициирует пересчёт.
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.GetStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPlayerStatistics отдаёт агрегат игрока. Без ?tournament_id= возвращает
// карьерный агрегат по всем турнирам.
func (h *StandingsHandler) GetPlayerStatistics(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var tournamentID *int
	if raw := r.URL.Query().Get("tournament_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, fmt.Errorf("invalid tournament_id parameter: %q", raw))
			return
		}
		tournamentID = &id
	}

	statistics, err := h.standingsService.GetPlayerStatistics(r.Context(), playerID, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"statistics": statistics}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
