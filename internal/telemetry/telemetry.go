// Package telemetry loads per-image capture telemetry from JSON sidecar
// documents written alongside drone imagery.
package telemetry

import (
	"fmt"
)

// Orientation is the camera orientation at capture time, in degrees,
// North-East-Down convention.
type Orientation struct {
	Yaw   Number `json:"Yaw"`
	Pitch Number `json:"Pitch"`
	Roll  Number `json:"Roll"`
}

// XY is a nested two-component calibration value, such as a calibrated
// optical center or per-axis focal length.
type XY struct {
	X *Number `json:"X"`
	Y *Number `json:"Y"`
}

// Sidecar is one decoded per-image JSON sidecar document. Numeric fields may
// appear in the source either as JSON numbers or as strings, including the
// "num/den" fraction form; Number handles all of them.
type Sidecar struct {
	PixelXDimension         *Number     `json:"PixelXDimension"`
	PixelYDimension         *Number     `json:"PixelYDimension"`
	Latitude                Number      `json:"Latitude"`
	Longitude               Number      `json:"Longitude"`
	AbsoluteAltitude        Number      `json:"AbsoluteAltitude"`
	CameraOrientationNED    Orientation `json:"CameraOrientationNED"`
	FocalLength             *Number     `json:"FocalLength"`
	CalibratedFocalLength   *XY         `json:"CalibratedFocalLength"`
	CalibratedOpticalCenter *XY         `json:"CalibratedOpticalCenter"`
	DewarpData              string      `json:"DewarpData"`
}

// Record is the telemetry for a single image. Orientation angles are parsed
// and retained even while the emitted pose ignores them, so a later
// orientation conversion step does not have to re-read sidecars.
type Record struct {
	ImageName   string
	Latitude    float64
	Longitude   float64
	Altitude    float64
	Yaw         float64
	Pitch       float64
	Roll        float64
	FocalLength float64

	// Sidecar is the full decoded document backing this record.
	Sidecar *Sidecar
}

// ParseError reports a sidecar document that exists but cannot be decoded.
// It is fatal: a malformed sidecar fails the whole run.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing sidecar '%s': %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
