package camera

import (
	"fmt"
	"hash/fnv"

	"gonum.org/v1/gonum/mat"

	"github.com/camtools/camerainit/internal/model"
)

// Intrinsic is one camera model instance. A single instance is shared by all
// views assigned the same group id; the dataset owns the id-to-intrinsic
// mapping and views reference it by id only.
type Intrinsic interface {
	Family() Family
	Width() int
	Height() int

	// FocalLengthPx is the initial focal length in pixels; a value <= 0 is
	// the "unknown" sentinel of an incomplete intrinsic.
	FocalLengthPx() float64

	PrincipalPoint() (ppx, ppy float64)
	DistortionParams() []float64

	// SerialNumber disambiguates groups that would otherwise collide, e.g.
	// metadata-less views grouped by folder or rig position.
	SerialNumber() string
	SetSerialNumber(serial string)

	// Initialized reports whether the focal length in pixels is known.
	Initialized() bool

	// K returns the 3x3 calibration matrix [f 0 ppx; 0 f ppy; 0 0 1].
	K() *mat.Dense
}

// base carries the parameters common to every model family.
type base struct {
	width, height int
	focalPx       float64
	ppx, ppy      float64
	serial        string
}

func (b *base) Width() int                         { return b.width }
func (b *base) Height() int                        { return b.height }
func (b *base) FocalLengthPx() float64             { return b.focalPx }
func (b *base) PrincipalPoint() (float64, float64) { return b.ppx, b.ppy }
func (b *base) SerialNumber() string               { return b.serial }
func (b *base) SetSerialNumber(serial string)      { b.serial = serial }
func (b *base) Initialized() bool                  { return b.focalPx > 0 }

func (b *base) K() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		b.focalPx, 0, b.ppx,
		0, b.focalPx, b.ppy,
		0, 0, 1,
	})
}

// New constructs the concrete intrinsic for a family. dist holds the
// family's distortion parameters in order; missing values default to zero,
// surplus values are rejected.
func New(f Family, width, height int, focalPx, ppx, ppy float64, dist []float64) (Intrinsic, error) {
	arity, ok := distortionArity[f]
	if !ok {
		return nil, fmt.Errorf("unknown camera model family %d", int(f))
	}
	if len(dist) > arity {
		return nil, fmt.Errorf("%s model takes at most %d distortion parameters, got %d", f, arity, len(dist))
	}
	return newIntrinsic(f, width, height, focalPx, ppx, ppy, dist), nil
}

// newIntrinsic pads missing distortion parameters with zero.
func newIntrinsic(f Family, width, height int, focalPx, ppx, ppy float64, dist []float64) Intrinsic {
	b := base{width: width, height: height, focalPx: focalPx, ppx: ppx, ppy: ppy}
	params := make([]float64, distortionArity[f])
	copy(params, dist)

	switch f {
	case FamilyRadial1:
		return &Radial1{base: b, K1: params[0]}
	case FamilyRadial3:
		return &Radial3{base: b, K1: params[0], K2: params[1], K3: params[2]}
	case FamilyBrown:
		return &Brown{base: b, K1: params[0], K2: params[1], K3: params[2], T1: params[3], T2: params[4]}
	case FamilyFisheye4:
		return &Fisheye4{base: b, K1: params[0], K2: params[1], K3: params[2], K4: params[3]}
	case FamilyFisheye1:
		return &Fisheye1{base: b, K1: params[0]}
	default:
		return &Pinhole{base: b}
	}
}

// Hash is the deterministic parameter hash of an intrinsic: a pure function
// of family, dimensions, focal length, principal point, distortion
// parameters and serial number. Identical parameters hash to identical group
// ids; accidental collisions between genuinely different cameras are an
// accepted limitation of the hash space.
func Hash(in Intrinsic) model.GroupID {
	h := fnv.New64a()
	ppx, ppy := in.PrincipalPoint()
	fmt.Fprintf(h, "%s|%d|%d|%.8f|%.8f|%.8f|%s", in.Family(), in.Width(), in.Height(), in.FocalLengthPx(), ppx, ppy, in.SerialNumber())
	for _, p := range in.DistortionParams() {
		fmt.Fprintf(h, "|%.8f", p)
	}
	id := model.GroupID(h.Sum64())
	if id == model.UndefinedGroup {
		id = 1
	}
	return id
}
