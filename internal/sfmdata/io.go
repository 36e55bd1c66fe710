package sfmdata

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/camtools/camerainit/internal/camera"
	"github.com/camtools/camerainit/internal/model"
)

// Fields is a bitmask selecting which dataset sections to load or save.
type Fields uint8

const (
	FieldViews Fields = 1 << iota
	FieldIntrinsics
	FieldExtrinsics
)

// AllFields selects views, intrinsics and extrinsic poses.
const AllFields = FieldViews | FieldIntrinsics | FieldExtrinsics

// fileDoc is the on-disk JSON layout.
type fileDoc struct {
	Version    string                     `json:"version"`
	Views      []*model.View              `json:"views,omitempty"`
	Intrinsics []intrinsicRecord          `json:"intrinsics,omitempty"`
	Poses      map[string]json.RawMessage `json:"poses,omitempty"`
}

// intrinsicRecord flattens one camera model instance for persistence.
type intrinsicRecord struct {
	ID               model.GroupID `json:"intrinsicId"`
	Type             string        `json:"type"`
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	PxFocalLength    float64       `json:"pxFocalLength"`
	PrincipalPointX  float64       `json:"principalPointX"`
	PrincipalPointY  float64       `json:"principalPointY"`
	DistortionParams []float64     `json:"distortionParams,omitempty"`
	SerialNumber     string        `json:"serialNumber,omitempty"`
}

const formatVersion = "1.0"

// Load reads a persisted dataset, populating only the requested sections.
func Load(path string, fields Fields) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	ds := NewDataset()
	if fields&FieldViews != 0 {
		for _, v := range doc.Views {
			if v.Metadata == nil {
				v.Metadata = make(map[string]string)
			}
			ds.AddView(v)
		}
	}
	if fields&FieldIntrinsics != 0 {
		for _, rec := range doc.Intrinsics {
			in, err := decodeIntrinsic(rec)
			if err != nil {
				return nil, fmt.Errorf("dataset %s: %w", path, err)
			}
			ds.Intrinsics[rec.ID] = in
		}
	}
	if fields&FieldExtrinsics != 0 {
		for id, pose := range doc.Poses {
			ds.Poses[id] = pose
		}
	}
	return ds, nil
}

// Save writes the requested dataset sections to path.
func Save(ds *Dataset, path string, fields Fields) error {
	doc := fileDoc{Version: formatVersion}
	if fields&FieldViews != 0 {
		doc.Views = ds.ViewList()
	}
	if fields&FieldIntrinsics != 0 {
		for id, in := range ds.Intrinsics {
			doc.Intrinsics = append(doc.Intrinsics, encodeIntrinsic(id, in))
		}
		// stable record order keeps the output file diffable
		sort.Slice(doc.Intrinsics, func(i, j int) bool { return doc.Intrinsics[i].ID < doc.Intrinsics[j].ID })
	}
	if fields&FieldExtrinsics != 0 && len(ds.Poses) > 0 {
		doc.Poses = ds.Poses
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

func encodeIntrinsic(id model.GroupID, in camera.Intrinsic) intrinsicRecord {
	ppx, ppy := in.PrincipalPoint()
	return intrinsicRecord{
		ID:               id,
		Type:             in.Family().String(),
		Width:            in.Width(),
		Height:           in.Height(),
		PxFocalLength:    in.FocalLengthPx(),
		PrincipalPointX:  ppx,
		PrincipalPointY:  ppy,
		DistortionParams: in.DistortionParams(),
		SerialNumber:     in.SerialNumber(),
	}
}

func decodeIntrinsic(rec intrinsicRecord) (camera.Intrinsic, error) {
	family, err := camera.ParseFamily(rec.Type)
	if err != nil {
		return nil, fmt.Errorf("intrinsic %d: %w", rec.ID, err)
	}
	in, err := camera.New(family, rec.Width, rec.Height, rec.PxFocalLength, rec.PrincipalPointX, rec.PrincipalPointY, rec.DistortionParams)
	if err != nil {
		return nil, fmt.Errorf("intrinsic %d: %w", rec.ID, err)
	}
	in.SetSerialNumber(rec.SerialNumber)
	return in, nil
}
