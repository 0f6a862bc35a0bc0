package batch

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

type Handler struct{}

func (h *Handler) Impact(w http.ResponseWriter, r *http.Request) {
	var input ImpactBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := CalculateImpact(input)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("batch rejected")
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
