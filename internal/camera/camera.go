// Package camera derives the single shared intrinsic camera model for a
// reconstruction run from capture telemetry.
package camera

import (
	"strings"

	"github.com/aerialworks/dronesplat/internal/telemetry"
)

// ModelSimpleRadial is the only supported projection model: focal length,
// principal point and one radial distortion coefficient.
const ModelSimpleRadial = "SIMPLE_RADIAL"

// Defaults for the known drone sensor (4056x3040, mechanically calibrated)
// used when telemetry carries no calibration at all.
const (
	DefaultWidth  = 4056
	DefaultHeight = 3040

	// Vendors emit FocalLength as a "num/den" fraction; the default keeps
	// that form so it goes through the same normalization path.
	defaultFocalLength = "3700/1000"

	defaultK1             = 0.123224
	defaultOpticalCenterX = 2022.872267
	defaultOpticalCenterY = 1512.190903
	defaultFocalLengthPx  = 3700.0
)

// Model is the shared intrinsic camera model. One reconstruction run assumes
// a single camera: the model is resolved once, from the first telemetry
// record discovered, and every image shares it.
type Model struct {
	Kind        string
	Width       int
	Height      int
	FocalLength float64
	Cx          float64
	Cy          float64
	K1          float64
}

// Default returns the hard-coded fallback model used when no telemetry
// exists. An empty telemetry set is not an error.
func Default() Model {
	return Model{
		Kind:        ModelSimpleRadial,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		FocalLength: defaultFocalLengthPx,
		Cx:          defaultOpticalCenterX,
		Cy:          defaultOpticalCenterY,
		K1:          defaultK1,
	}
}

// Resolve derives the camera model from the first available sidecar, filling
// missing fields with documented defaults. A nil sidecar yields Default().
func Resolve(sc *telemetry.Sidecar) Model {
	if sc == nil {
		return Default()
	}

	width := int(sc.PixelXDimension.Float(DefaultWidth))
	height := int(sc.PixelYDimension.Float(DefaultHeight))

	focal, _ := telemetry.ParseNumber(defaultFocalLength)
	if sc.FocalLength != nil {
		focal = float64(*sc.FocalLength)
	}

	cx, cy := float64(width)/2, float64(height)/2
	if oc := sc.CalibratedOpticalCenter; oc != nil {
		cx = oc.X.Float(cx)
		cy = oc.Y.Float(cy)
	}

	dewarp := sc.DewarpData
	if dewarp == "" {
		dewarp = "0.123224,0,0"
	}

	return Model{
		Kind:        ModelSimpleRadial,
		Width:       width,
		Height:      height,
		FocalLength: focal,
		Cx:          cx,
		Cy:          cy,
		K1:          firstDewarpCoefficient(dewarp),
	}
}

// firstDewarpCoefficient extracts the leading radial coefficient from a
// comma-separated dewarp string. An unparseable value falls back to the
// documented default rather than failing the run.
func firstDewarpCoefficient(dewarp string) float64 {
	first, _, _ := strings.Cut(dewarp, ",")
	k1, err := telemetry.ParseNumber(first)
	if err != nil {
		return defaultK1
	}
	return k1
}
