package sfmdata

import (
	"context"

	"github.com/camtools/camerainit/internal/model"
	"github.com/camtools/camerainit/internal/worker"
)

// ingestJob creates one view from an image path.
type ingestJob struct {
	path string
}

type ingestResult struct {
	view *model.View
	err  error
}

func (r *ingestResult) Err() error { return r.err }

func (j *ingestJob) Execute(ctx context.Context) worker.Result {
	v, err := NewViewFromImage(j.path)
	return &ingestResult{view: v, err: err}
}

// IngestFolder builds a dataset from a raw image folder (or a single image
// file): images are listed recursively and their views populated in
// parallel. Metadata extraction is per-file local work, so a failing image
// fails the whole ingestion rather than silently producing an empty view.
func IngestFolder(ctx context.Context, folderOrFile string, workers int) (*Dataset, error) {
	paths, err := ListImages(folderOrFile, DefaultExtensions)
	if err != nil {
		return nil, err
	}

	jobs := make([]worker.Job, len(paths))
	for i, path := range paths {
		jobs[i] = &ingestJob{path: path}
	}

	ds := NewDataset()
	for _, r := range worker.Run(ctx, workers, jobs) {
		res := r.(*ingestResult)
		if res.err != nil {
			return nil, res.err
		}
		ds.AddView(res.view)
	}
	return ds, nil
}
