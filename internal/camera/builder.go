package camera

import (
	"math"
	"strconv"

	"github.com/camtools/camerainit/internal/model"
)

// BuildOptions are the fallback settings used when a view's metadata cannot
// fully determine an intrinsic. Negative values mean unset. The caller is
// responsible for rejecting mutually exclusive combinations (explicit K
// matrix vs. focal length vs. field of view) before building.
type BuildOptions struct {
	// SensorWidthMM is the physical sensor width resolved from the database,
	// or -1 when unknown.
	SensorWidthMM float64

	// FocalLengthPx forces the pixel focal length directly.
	FocalLengthPx float64

	// FieldOfView in degrees derives the focal length from the image width.
	FieldOfView float64

	// Family selects the optical model; the zero value is pinhole.
	Family Family

	// PPx, PPy override the principal point; image center when unset.
	PPx, PPy float64
}

// DefaultBuildOptions returns options with every fallback unset.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		SensorWidthMM: -1,
		FocalLengthPx: -1,
		FieldOfView:   -1,
		Family:        FamilyPinhole,
		PPx:           -1,
		PPy:           -1,
	}
}

// FromView constructs the candidate intrinsic for one view. It is a pure
// construction with no side effects: an undetermined focal length is
// represented by the <= 0 sentinel, never by an error.
//
// Focal length precedence:
//  1. an explicit focal length in pixels is used directly;
//  2. with a known sensor width, an embedded metadata focal length in mm is
//     converted via f_px = f_mm * widthPx / sensorWidthMM, else a field of
//     view default derives f_px = 0.5 * widthPx / tan(0.5 * fov);
//  3. otherwise the focal length stays unknown and the intrinsic is
//     incomplete until a downstream stage refines or rejects it.
func FromView(v *model.View, opts BuildOptions) Intrinsic {
	width := float64(v.Width)

	focalPx := -1.0
	switch {
	case opts.FocalLengthPx > 0:
		focalPx = opts.FocalLengthPx
	case opts.SensorWidthMM > 0:
		if focalMM, ok := metadataFocalMM(v); ok {
			focalPx = focalMM * width / opts.SensorWidthMM
		} else if opts.FieldOfView > 0 {
			focalPx = 0.5 * width / math.Tan(0.5*opts.FieldOfView*math.Pi/180)
		}
	}

	ppx := width / 2
	ppy := float64(v.Height) / 2
	if opts.PPx >= 0 {
		ppx = opts.PPx
	}
	if opts.PPy >= 0 {
		ppy = opts.PPy
	}

	in := newIntrinsic(opts.Family, v.Width, v.Height, focalPx, ppx, ppy, nil)
	if serial, ok := v.Meta(model.MetaSerialNumber); ok {
		in.SetSerialNumber(serial)
	}
	return in
}

// metadataFocalMM reads the embedded focal length in millimeters.
func metadataFocalMM(v *model.View) (float64, bool) {
	s, ok := v.Meta(model.MetaFocalLength)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}
