package driver

import (
	"encoding/json"
	"fmt"

	"treelower/internal/diag"
	"treelower/internal/observ"
	"treelower/internal/source"
)

// timingPayload is the JSON note attached to the ObsTimings diagnostic.
type timingPayload struct {
	Files   int                  `json:"files"`
	TotalMS float64              `json:"total_ms"`
	Slowest string               `json:"slowest,omitempty"`
	Phases  []observ.PhaseReport `json:"phases"`
}

func newTimingPayload(files int, report observ.Report) timingPayload {
	p := timingPayload{Files: files, TotalMS: report.TotalMS, Phases: report.Phases}
	var best float64
	for _, ph := range report.Phases {
		for _, it := range ph.Items {
			if it.DurationMS > best {
				best, p.Slowest = it.DurationMS, it.Name
			}
		}
	}
	return p
}

// appendTimingDiagnostic adds an info diagnostic without a location whose
// note carries payload as JSON.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	msg := fmt.Sprintf("lowered %d file(s) in %.2f ms", payload.Files, payload.TotalMS)
	if payload.Slowest != "" {
		msg += ", slowest " + payload.Slowest
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Notes:    []diag.Note{{Span: source.Span{}, Msg: string(data)}},
	})
}
