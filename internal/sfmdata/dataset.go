// Package sfmdata owns the persisted dataset: the set of views and the arena
// mapping intrinsic group ids to shared camera models, plus its JSON
// load/save boundary and raw image folder ingestion.
package sfmdata

import (
	"encoding/json"
	"sort"

	"github.com/camtools/camerainit/internal/camera"
	"github.com/camtools/camerainit/internal/model"
)

// Dataset owns the views (keyed by view id) and the intrinsic group arena.
// Views hold only a group id; the dataset exclusively owns the id-to-model
// mapping. Invariant: every assigned view id exists as a key in Intrinsics.
type Dataset struct {
	Views      map[uint32]*model.View
	Intrinsics map[model.GroupID]camera.Intrinsic

	// Poses are extrinsic data passed through untouched by this tool.
	Poses map[string]json.RawMessage
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		Views:      make(map[uint32]*model.View),
		Intrinsics: make(map[model.GroupID]camera.Intrinsic),
		Poses:      make(map[string]json.RawMessage),
	}
}

// AddView inserts a view keyed by its id.
func (d *Dataset) AddView(v *model.View) {
	d.Views[v.ID] = v
}

// Intrinsic returns the shared intrinsic for a group id.
func (d *Dataset) Intrinsic(id model.GroupID) (camera.Intrinsic, bool) {
	in, ok := d.Intrinsics[id]
	return in, ok
}

// MergeIntrinsic publishes an intrinsic under a group id, keeping any model
// already present: the first builder of a group wins.
func (d *Dataset) MergeIntrinsic(id model.GroupID, in camera.Intrinsic) {
	if _, exists := d.Intrinsics[id]; !exists {
		d.Intrinsics[id] = in
	}
}

// ViewList returns the views ordered by id for deterministic iteration.
func (d *Dataset) ViewList() []*model.View {
	views := make([]*model.View, 0, len(d.Views))
	for _, v := range d.Views {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}
