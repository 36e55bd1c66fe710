// Package pipeline orchestrates the intrinsic-initialization pass: a
// bounded parallel decision per view producing local outcomes, followed by a
// strictly sequential merge that publishes group assignments, intrinsics and
// anomalies. No lock is needed during the compute phase.
package pipeline

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/camtools/camerainit/internal/camera"
	"github.com/camtools/camerainit/internal/grouping"
	"github.com/camtools/camerainit/internal/model"
	"github.com/camtools/camerainit/internal/sensordb"
	"github.com/camtools/camerainit/internal/sfmdata"
	"github.com/camtools/camerainit/internal/worker"
)

// Options configure one initialization pass.
type Options struct {
	Build           camera.BuildOptions
	Mode            grouping.Mode
	AllowIncomplete bool
	AllowSingleView bool
	Workers         int
}

// Pipeline runs the per-view decision tree over a dataset.
type Pipeline struct {
	lookup *sensordb.Lookup
	opts   Options
	log    *zap.SugaredLogger
}

// New creates a pipeline over a fully loaded sensor database.
func New(lookup *sensordb.Lookup, opts Options, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{lookup: lookup, opts: opts, log: log}
}

// viewJob wraps one view for the worker pool. The dataset is only read
// during the pass; all writes happen in the sequential merge.
type viewJob struct {
	p    *Pipeline
	ds   *sfmdata.Dataset
	view *model.View
}

func (j *viewJob) Execute(ctx context.Context) worker.Result {
	return j.p.processView(j.view, j.ds)
}

// viewOutcome is the per-view local result merged after the pass.
type viewOutcome struct {
	view *model.View

	complete       bool
	unknownSensor  *model.SensorRef
	noMetadata     bool
	markUnassigned bool

	publish   bool
	groupID   model.GroupID
	intrinsic camera.Intrinsic
}

// Err implements worker.Result. Per-view anomalies are data, never errors.
func (o *viewOutcome) Err() error { return nil }

// Run executes the full pass and returns the completeness report. Results
// are independent of worker scheduling order: outcomes are computed per view
// without shared state and merged in view-id order.
func (p *Pipeline) Run(ctx context.Context, ds *sfmdata.Dataset) (*model.InitReport, error) {
	views := ds.ViewList()
	if len(views) == 0 {
		return nil, errors.New("can't find views in input")
	}

	jobs := make([]worker.Job, len(views))
	for i, v := range views {
		jobs[i] = &viewJob{p: p, ds: ds, view: v}
	}

	p.log.Debugw("processing views", "views", len(views), "workers", p.opts.Workers)
	results := worker.Run(ctx, p.opts.Workers, jobs)

	report := model.NewInitReport()
	report.TotalViews = len(views)
	for _, r := range results {
		p.mergeOutcome(ds, r.(*viewOutcome), report)
	}
	sort.Strings(report.Ledger.NoMetadata)
	report.IntrinsicGroups = len(ds.Intrinsics)
	return report, nil
}

// processView walks the per-view decision tree: reuse an existing group,
// build a new candidate intrinsic, or defer. Pure computation: the outcome
// records what the merge step must publish.
func (p *Pipeline) processView(v *model.View, ds *sfmdata.Dataset) *viewOutcome {
	out := &viewOutcome{view: v}
	hasMeta := v.HasCameraMetadata()

	if v.Assigned() {
		if in, ok := ds.Intrinsic(v.IntrinsicID); ok {
			if in.Initialized() {
				out.complete = true
			} else if hasMeta {
				// the group's focal length is still unknown; surface a
				// database gap but leave the view as-is, only the first
				// builder of the group may fix it
				brand, mdl := v.MakeModel()
				if _, err := p.lookup.SensorWidth(brand, mdl); err != nil {
					out.unknownSensor = &model.SensorRef{Make: brand, Model: mdl}
				}
			}
			return out
		}
		// dangling group id: rebuild below under the forced id
	}

	opts := p.opts.Build
	opts.SensorWidthMM = -1

	if hasMeta {
		brand, mdl := v.MakeModel()
		width, err := p.lookup.SensorWidth(brand, mdl)
		if err != nil {
			out.unknownSensor = &model.SensorRef{Make: brand, Model: mdl}
			if !p.opts.AllowIncomplete {
				return out
			}
		} else {
			opts.SensorWidthMM = width
		}
	} else {
		out.noMetadata = true
		if p.opts.AllowIncomplete {
			out.markUnassigned = true
			return out
		}
		// still attempt to build, degrading to the default focal/FoV settings
	}

	in := camera.FromView(v, opts)
	if in.Initialized() {
		out.complete = true
	}

	if !hasMeta {
		if serial := grouping.SerialOverride(v, p.opts.Mode); serial != "" {
			in.SetSerialNumber(serial)
		}
	}

	out.groupID = grouping.AssignGroupID(v, in, v.IntrinsicID, p.opts.Mode)
	out.intrinsic = in
	out.publish = true
	return out
}

// mergeOutcome is the only writer of the dataset's group mapping, the
// counters and the ledger.
func (p *Pipeline) mergeOutcome(ds *sfmdata.Dataset, out *viewOutcome, report *model.InitReport) {
	if out.complete {
		report.CompleteViews++
	}
	if out.unknownSensor != nil {
		report.Ledger.RecordUnknownSensor(*out.unknownSensor, out.view.Path)
	}
	if out.noMetadata {
		report.Ledger.RecordNoMetadata(out.view.Path)
	}
	if out.markUnassigned {
		out.view.IntrinsicID = model.UndefinedGroup
	}
	if out.publish {
		out.view.IntrinsicID = out.groupID
		ds.MergeIntrinsic(out.groupID, out.intrinsic)
	}
}

// LogDiagnostics emits the grouped end-of-run anomaly listing: all
// metadata-less images, then all unknown sensors keyed by make/model with a
// sample image each.
func (p *Pipeline) LogDiagnostics(report *model.InitReport) {
	if len(report.Ledger.NoMetadata) > 0 {
		p.log.Warn("no metadata in image(s):")
		for _, path := range report.Ledger.NoMetadata {
			p.log.Warnf("\t- %q", path)
		}
	}
	if len(report.Ledger.UnknownSensors) > 0 {
		p.log.Error("sensor width doesn't exist in the database for image(s):")
		for _, ref := range report.Ledger.SortedUnknownSensors() {
			p.log.Errorf("image: %q\n\t- camera brand: %s\n\t- camera model: %s", report.Ledger.UnknownSensors[ref], ref.Make, ref.Model)
		}
		p.log.Error("please add camera model(s) and sensor width(s) in the database")
	}
}
