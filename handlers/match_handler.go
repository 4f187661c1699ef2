package handlers

import (
	"net/http"

	"github.com/JordyAP28/sistema-deportivo/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EnterResult записывает или исправляет счёт матча. Ответ всегда несёт
// aggregates_stale: true означает, что факт сохранён, но таблицы могли
// не успеть пересчитаться.
func (h *MatchHandler) EnterResult(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		HomeGoals int `json:"home_goals"`
		AwayGoals int `json:"away_goals"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.EnterResult(r.Context(), id, input.HomeGoals, input.AwayGoals)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOutcome(w, r, outcome)
}

func (h *MatchHandler) VoidResult(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.VoidResult(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOutcome(w, r, outcome)
}

func (h *MatchHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.SoftDeleteMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOutcome(w, r, outcome)
}

func (h *MatchHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.RestoreMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOutcome(w, r, outcome)
}

func (h *MatchHandler) writeOutcome(w http.ResponseWriter, r *http.Request, outcome *services.ResultOutcome) {
	response := jsonResponse{
		"match":            outcome.Match,
		"aggregates_stale": outcome.AggregatesStale,
	}
	if outcome.AggregatesStale {
		response["warning"] = services.ErrAggregatesStale.Error()
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
