package camera

import "fmt"

// Family tags one camera optical model variant. The set is closed: one
// concrete intrinsic type exists per family.
type Family int

const (
	FamilyPinhole Family = iota
	FamilyRadial1
	FamilyRadial3
	FamilyBrown
	FamilyFisheye4
	FamilyFisheye1
)

var familyNames = map[Family]string{
	FamilyPinhole:  "pinhole",
	FamilyRadial1:  "radial1",
	FamilyRadial3:  "radial3",
	FamilyBrown:    "brown",
	FamilyFisheye4: "fisheye4",
	FamilyFisheye1: "fisheye1",
}

// distortionArity is the number of distortion parameters per family.
var distortionArity = map[Family]int{
	FamilyPinhole:  0,
	FamilyRadial1:  1,
	FamilyRadial3:  3,
	FamilyBrown:    5,
	FamilyFisheye4: 4,
	FamilyFisheye1: 1,
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// ParseFamily maps a camera model name to its Family tag.
func ParseFamily(name string) (Family, error) {
	for f, n := range familyNames {
		if n == name {
			return f, nil
		}
	}
	return FamilyPinhole, fmt.Errorf("unknown camera model %q (expected pinhole, radial1, radial3, brown, fisheye4 or fisheye1)", name)
}
