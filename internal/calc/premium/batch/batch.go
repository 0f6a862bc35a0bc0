package batch

import (
	"fmt"

	"ImpactLab/internal/calc/impact"
)

const MaxItems = 500

type ImpactBatchInput struct {
	Items []impact.Input `json:"items"`
}

// ItemResult holds the outcome for one item; Error is set instead of
// Result when the item was rejected.
type ItemResult struct {
	Index  int            `json:"index"`
	Result *impact.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type ImpactBatchResult struct {
	Count   int          `json:"count"`
	Failed  int          `json:"failed"`
	Results []ItemResult `json:"results"`
}

// CalculateImpact runs every item. A rejected item does not stop the batch.
func CalculateImpact(in ImpactBatchInput) (ImpactBatchResult, error) {
	if len(in.Items) == 0 {
		return ImpactBatchResult{}, fmt.Errorf("no items")
	}
	if len(in.Items) > MaxItems {
		return ImpactBatchResult{}, fmt.Errorf("too many items: %d > %d", len(in.Items), MaxItems)
	}
	out := ImpactBatchResult{Results: make([]ItemResult, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := impact.Calculate(item)
		if err != nil {
			out.Failed++
			out.Results = append(out.Results, ItemResult{Index: i, Error: err.Error()})
			continue
		}
		out.Results = append(out.Results, ItemResult{Index: i, Result: &res})
	}
	out.Count = len(out.Results) - out.Failed
	return out, nil
}
