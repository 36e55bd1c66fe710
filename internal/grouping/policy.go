// Package grouping decides the identifier under which an intrinsic is shared
// across views. Grouping cameras that share identical physical properties
// leads to a faster and more stable bundle adjustment downstream.
package grouping

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/camtools/camerainit/internal/camera"
	"github.com/camtools/camerainit/internal/model"
)

// Mode selects the grouping policy. The numeric values match the
// --group-camera-model flag of the CLI.
type Mode int

const (
	// PerView gives every view its own intrinsic group, even when
	// parameters are identical.
	PerView Mode = iota

	// ByMetadata shares groups between views whose metadata produced
	// identical parameters; metadata-less views stay ungrouped.
	ByMetadata

	// ByMetadataElseFolder additionally groups metadata-less views by their
	// source folder, assuming frames extracted from one video share fixed
	// optics. This is the default.
	ByMetadataElseFolder
)

// ParseMode validates a --group-camera-model flag value.
func ParseMode(v int) (Mode, error) {
	switch Mode(v) {
	case PerView, ByMetadata, ByMetadataElseFolder:
		return Mode(v), nil
	}
	return ByMetadataElseFolder, fmt.Errorf("invalid camera grouping mode %d (expected 0, 1 or 2)", v)
}

// SerialOverride returns the serial number to stamp on a metadata-less
// view's intrinsic before hashing, so the parameter hash lands in the right
// group. Rig membership wins over the folder heuristic: different physical
// cameras of a rig must never share intrinsics, even when co-located in one
// folder.
func SerialOverride(v *model.View, mode Mode) string {
	if v.HasCameraMetadata() {
		return ""
	}
	serial := ""
	if mode == ByMetadataElseFolder {
		serial = filepath.Dir(v.Path)
	}
	if v.InRig() {
		serial = fmt.Sprintf("no_metadata_rig_%d_%d", v.RigID, v.SubPoseID)
	}
	return serial
}

// AssignGroupID computes the intrinsic group id for a view. A pre-existing
// id carried by the view is honored; otherwise the intrinsic's parameter
// hash is the key, so views producing identical parameters share a group.
// Accidental hash collisions between genuinely different cameras are an
// accepted limitation, not actively detected. The result is never the
// unassigned sentinel.
func AssignGroupID(v *model.View, in camera.Intrinsic, existing model.GroupID, mode Mode) model.GroupID {
	if mode == PerView {
		return UniqueID()
	}
	if existing != model.UndefinedGroup {
		return existing
	}
	if !v.HasCameraMetadata() && !v.InRig() && mode == ByMetadata {
		return UniqueID()
	}
	return camera.Hash(in)
}

// UniqueID generates a collision-resistant group id for ungrouped views.
// Uniqueness matters, reproducibility does not: the id is drawn from a
// random UUID rather than any process-wide seeded generator.
func UniqueID() model.GroupID {
	for {
		u := uuid.New()
		id := model.GroupID(binary.BigEndian.Uint64(u[:8]))
		if id != model.UndefinedGroup {
			return id
		}
	}
}
