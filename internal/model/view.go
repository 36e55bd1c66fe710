package model

// GroupID identifies a shared intrinsic parameter group. Views holding the
// same GroupID share a single intrinsic instance in the dataset arena.
type GroupID uint64

// UndefinedGroup is the reserved "unassigned" sentinel. No real group may
// ever be published under this id.
const UndefinedGroup GroupID = 0

// UndefinedRig marks a view that is not part of a multi-camera rig.
const UndefinedRig int64 = -1

// Well-known metadata keys populated when a view is created from an image.
const (
	MetaMake         = "Make"
	MetaModel        = "Model"
	MetaFocalLength  = "FocalLength"
	MetaSerialNumber = "SerialNumber"
)

// View is one input image: its path, embedded camera metadata and the
// intrinsic group it has been assigned to. Views are created once per image
// (or loaded from a persisted dataset) and mutated in place only to set
// IntrinsicID.
type View struct {
	ID          uint32            `json:"viewId"`
	Path        string            `json:"path"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	IntrinsicID GroupID           `json:"intrinsicId"`
	RigID       int64             `json:"rigId"`
	SubPoseID   int64             `json:"subPoseId"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewView creates an unassigned view for the given image path.
func NewView(id uint32, path string) *View {
	return &View{
		ID:        id,
		Path:      path,
		RigID:     UndefinedRig,
		SubPoseID: UndefinedRig,
		Metadata:  make(map[string]string),
	}
}

// Meta returns the metadata value for key, reporting whether it is present
// and non-empty.
func (v *View) Meta(key string) (string, bool) {
	s, ok := v.Metadata[key]
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// HasCameraMetadata reports whether both Make and Model are known, which is
// the precondition for a sensor database lookup.
func (v *View) HasCameraMetadata() bool {
	_, okMake := v.Meta(MetaMake)
	_, okModel := v.Meta(MetaModel)
	return okMake && okModel
}

// MakeModel returns the camera make and model strings.
func (v *View) MakeModel() (string, string) {
	return v.Metadata[MetaMake], v.Metadata[MetaModel]
}

// InRig reports whether the view belongs to a multi-camera rig.
func (v *View) InRig() bool {
	return v.RigID != UndefinedRig
}

// Assigned reports whether the view already references an intrinsic group.
func (v *View) Assigned() bool {
	return v.IntrinsicID != UndefinedGroup
}
