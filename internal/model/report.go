package model

import (
	"fmt"
	"sort"
)

// SensorRef identifies a camera by its metadata make/model pair.
type SensorRef struct {
	Make  string `json:"make"`
	Model string `json:"model"`
}

// AnomalyLedger accumulates the recoverable anomalies of a run: sensors that
// are missing from the database (keyed by make/model, with one representative
// image) and images carrying no camera metadata at all. Append-only; the
// pipeline merge step is the single writer.
type AnomalyLedger struct {
	UnknownSensors map[SensorRef]string `json:"unknownSensors,omitempty"`
	NoMetadata     []string             `json:"noMetadata,omitempty"`
}

// NewAnomalyLedger returns an empty ledger.
func NewAnomalyLedger() *AnomalyLedger {
	return &AnomalyLedger{UnknownSensors: make(map[SensorRef]string)}
}

// RecordUnknownSensor keeps the first image path seen for a make/model pair.
func (l *AnomalyLedger) RecordUnknownSensor(ref SensorRef, imagePath string) {
	if _, seen := l.UnknownSensors[ref]; !seen {
		l.UnknownSensors[ref] = imagePath
	}
}

// RecordNoMetadata appends an image path lacking camera metadata.
func (l *AnomalyLedger) RecordNoMetadata(imagePath string) {
	l.NoMetadata = append(l.NoMetadata, imagePath)
}

// Empty reports whether no anomalies were recorded.
func (l *AnomalyLedger) Empty() bool {
	return len(l.UnknownSensors) == 0 && len(l.NoMetadata) == 0
}

// SortedUnknownSensors returns the unknown sensor refs in a stable order for
// diagnostics output.
func (l *AnomalyLedger) SortedUnknownSensors() []SensorRef {
	refs := make([]SensorRef, 0, len(l.UnknownSensors))
	for ref := range l.UnknownSensors {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Make != refs[j].Make {
			return refs[i].Make < refs[j].Make
		}
		return refs[i].Model < refs[j].Model
	})
	return refs
}

// InitReport is the outcome of a full intrinsic-initialization pass.
type InitReport struct {
	TotalViews      int            `json:"totalViews"`
	CompleteViews   int            `json:"completeViews"`
	IntrinsicGroups int            `json:"intrinsicGroups"`
	Ledger          *AnomalyLedger `json:"ledger"`
}

// NewInitReport returns a report with an empty ledger.
func NewInitReport() *InitReport {
	return &InitReport{Ledger: NewAnomalyLedger()}
}

// ErrUnknownSensors is returned by Validate when metadata named cameras that
// the sensor database does not know and incomplete output is not tolerated.
var ErrUnknownSensors = fmt.Errorf("sensor width missing from the database for one or more cameras")

// Validate decides whether the run is acceptable. Unknown sensors and an
// insufficient number of complete views are fatal unless incomplete output is
// tolerated. Missing metadata alone never fails a run.
func (r *InitReport) Validate(allowIncomplete, allowSingleView bool) error {
	if allowIncomplete {
		return nil
	}
	if len(r.Ledger.UnknownSensors) > 0 {
		return ErrUnknownSensors
	}
	required := 2
	noun := "two images"
	if allowSingleView {
		required = 1
		noun = "one image"
	}
	if r.CompleteViews < required {
		return fmt.Errorf("at least %s should have an initialized intrinsic: check your input images metadata (brand, model, focal length)", noun)
	}
	return nil
}
