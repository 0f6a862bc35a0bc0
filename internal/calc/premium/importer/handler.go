package importer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ImpactLab/internal/calc/impact"
	"ImpactLab/internal/calc/premium/batch"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const MaxUploadSize = 10 << 20 // 10MB

// Columns is the expected header row of an import sheet.
var Columns = []string{
	"element_type", "section_type", "width_mm", "height_mm", "diameter_mm",
	"outer_diameter_mm", "inner_diameter_mm", "length_mm", "material",
	"young_modulus_gpa", "yield_mpa", "ultimate_mpa",
	"impact_type", "energy_j", "mass_kg", "velocity_ms",
}

type Handler struct{}

func (h *Handler) Impact(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	var items []impact.Input
	for i := 1; i < len(rows); i++ {
		input, err := parseImpactRow(rows[i])
		if err != nil {
			logger.Debug().Err(err).Int("row", i+1).Msg("skipping import row")
			continue
		}
		items = append(items, input)
	}

	res, err := batch.CalculateImpact(batch.ImpactBatchInput{Items: items})
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	logger.Info().Str("sheet", sheet).Int("rows", len(rows)-1).Int("count", res.Count).Msg("impact sheet imported")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func parseImpactRow(row []string) (impact.Input, error) {
	// expected: see Columns; numeric cells may be empty
	if len(row) < 13 {
		return impact.Input{}, fmt.Errorf("bad row: %d cells", len(row))
	}
	nums := make([]float64, len(Columns))
	for i, c := range row {
		if i >= len(Columns) || isText(i) {
			continue
		}
		v, err := toFloat(c)
		if err != nil {
			return impact.Input{}, fmt.Errorf("column %s: %w", Columns[i], err)
		}
		nums[i] = v
	}
	return impact.Input{
		ElementType:      strings.TrimSpace(row[0]),
		SectionType:      strings.TrimSpace(row[1]),
		Width:            nums[2],
		Height:           nums[3],
		Diameter:         nums[4],
		OuterDiameter:    nums[5],
		InnerDiameter:    nums[6],
		Length:           nums[7],
		Material:         strings.TrimSpace(row[8]),
		YoungModulus:     nums[9],
		YieldStrength:    nums[10],
		UltimateStrength: nums[11],
		ImpactType:       strings.TrimSpace(row[12]),
		ImpactEnergy:     nums[13],
		Mass:             nums[14],
		Velocity:         nums[15],
	}, nil
}

func isText(col int) bool {
	return col == 0 || col == 1 || col == 8 || col == 12
}

func toFloat(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
