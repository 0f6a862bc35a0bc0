package report

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ImpactLab/internal/calc/impact"
	"ImpactLab/internal/layout"

	"github.com/rs/zerolog"
)

const maxRequestSize = 16 << 20 // screenshots arrive inline

type Input struct {
	Inputs     impact.Input   `json:"inputs"`
	Results    *impact.Result `json:"results"`
	Screenshot string         `json:"screenshot"`
}

type Handler struct {
	Generator *Generator
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var res impact.Result
	if input.Results != nil {
		res = *input.Results
	} else {
		var err error
		res, err = impact.Calculate(input.Inputs)
		if err != nil {
			logger.Warn().Err(err).Msg("impact calculation rejected")
			http.Error(w, "Calculation error", http.StatusBadRequest)
			return
		}
	}

	shot, err := DecodeImage(input.Screenshot)
	if err != nil {
		http.Error(w, "Invalid screenshot", http.StatusBadRequest)
		return
	}

	doc, err := h.Generator.Generate(r.Context(), input.Inputs, res, shot)
	if err != nil {
		logger.Error().Err(err).Msg("report generation failed")
		status := http.StatusInternalServerError
		if errors.Is(err, layout.ErrImage) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, "Report generation error", status)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if _, err := w.Write(doc.Data); err != nil {
		logger.Warn().Err(err).Msg("report download interrupted")
	}
}

// DecodeImage accepts a data URL (data:image/png;base64,...) or bare base64.
// An empty string means no image.
func DecodeImage(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 || !strings.HasSuffix(s[:i], ";base64") {
			return nil, fmt.Errorf("%w: unsupported data URL", layout.ErrImage)
		}
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", layout.ErrImage, err)
	}
	return data, nil
}
