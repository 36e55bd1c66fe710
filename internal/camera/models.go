package camera

// Pinhole is the baseline distortion-free projection model.
type Pinhole struct {
	base
}

func (p *Pinhole) Family() Family              { return FamilyPinhole }
func (p *Pinhole) DistortionParams() []float64 { return nil }

// Radial1 applies one radial distortion coefficient.
type Radial1 struct {
	base
	K1 float64
}

func (r *Radial1) Family() Family              { return FamilyRadial1 }
func (r *Radial1) DistortionParams() []float64 { return []float64{r.K1} }

// Radial3 applies three radial distortion coefficients.
type Radial3 struct {
	base
	K1, K2, K3 float64
}

func (r *Radial3) Family() Family              { return FamilyRadial3 }
func (r *Radial3) DistortionParams() []float64 { return []float64{r.K1, r.K2, r.K3} }

// Brown combines three radial and two tangential distortion coefficients.
type Brown struct {
	base
	K1, K2, K3 float64
	T1, T2     float64
}

func (b *Brown) Family() Family              { return FamilyBrown }
func (b *Brown) DistortionParams() []float64 { return []float64{b.K1, b.K2, b.K3, b.T1, b.T2} }

// Fisheye4 is a wide-angle model with four distortion coefficients.
type Fisheye4 struct {
	base
	K1, K2, K3, K4 float64
}

func (f *Fisheye4) Family() Family              { return FamilyFisheye4 }
func (f *Fisheye4) DistortionParams() []float64 { return []float64{f.K1, f.K2, f.K3, f.K4} }

// Fisheye1 is a single-coefficient fisheye model.
type Fisheye1 struct {
	base
	K1 float64
}

func (f *Fisheye1) Family() Family              { return FamilyFisheye1 }
func (f *Fisheye1) DistortionParams() []float64 { return []float64{f.K1} }
