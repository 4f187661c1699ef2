package handlers

import (
	"net/http"

	"github.com/JordyAP28/sistema-deportivo/services"
)

type StatisticHandler struct {
	statisticService services.StatisticService
}

func NewStatisticHandler(statisticService services.StatisticService) *StatisticHandler {
	return &StatisticHandler{statisticService: statisticService}
}

func (h *StatisticHandler) Create(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StatisticInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.statisticService.CreateEntry(r.Context(), matchID, playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOutcome(w, r, http.StatusCreated, outcome)
}

func (h *StatisticHandler) Update(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StatisticInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.statisticService.UpdateEntry(r.Context(), entryID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOutcome(w, r, http.StatusOK, outcome)
}

func (h *StatisticHandler) Remove(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.statisticService.RemoveEntry(r.Context(), entryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOutcome(w, r, http.StatusOK, outcome)
}

func (h *StatisticHandler) Restore(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.statisticService.RestoreEntry(r.Context(), entryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOutcome(w, r, http.StatusOK, outcome)
}

func (h *StatisticHandler) writeOutcome(w http.ResponseWriter, r *http.Request, status int, outcome *services.StatisticOutcome) {
	response := jsonResponse{
		"entry":            outcome.Entry,
		"aggregates_stale": outcome.AggregatesStale,
	}
	if outcome.AggregatesStale {
		response["warning"] = services.ErrAggregatesStale.Error()
	}
	if err := writeJSON(w, status, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
