package handlers

import (
	"net/http"

	"github.com/JordyAP28/sistema-deportivo/services"
)

// AdminHandler обслуживает служебные операции движка: ручной пересчёт, проверка
// консистентности и запуск полной сверки вне расписания.
type AdminHandler struct {
	recompute   services.RecomputeService
	consistency services.ConsistencyService
	reconciler  services.Reconciler
}

func NewAdminHandler(
	recompute services.RecomputeService,
	consistency services.ConsistencyService,
	reconciler services.Reconciler,
) *AdminHandler {
	return &AdminHandler{
		recompute:   recompute,
		consistency: consistency,
		reconciler:  reconciler,
	}
}

func (h *AdminHandler) RecomputeStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.recompute.RecomputeTournamentStandings(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"recomputed": tournamentID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// VerifyStandings сравнивает сохранённую таблицу с пересчётом из фактов и
// возвращает список расхождений, ничего не изменяя.
func (h *AdminHandler) VerifyStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	discrepancies, err := h.consistency.VerifyTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"consistent":    len(discrepancies) == 0,
		"discrepancies": discrepancies,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	if err := h.reconciler.ReconcileAll(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"reconciled": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
