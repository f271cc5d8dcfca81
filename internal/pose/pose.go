// Package pose converts per-image GPS and orientation telemetry into
// approximate rigid camera poses used to seed sparse reconstruction.
package pose

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/aerialworks/dronesplat/internal/telemetry"
)

// MetersPerDegree is the uniform degrees-to-meters scale of the local
// tangent-plane approximation. It treats small latitude/longitude offsets as
// flat Cartesian meters, ignoring Earth curvature and the latitude-dependent
// longitude scale, so east-west distances degrade away from the equator.
// This is a deliberate coarse prior for the reconstruction engine to refine,
// not a geodetic projection, and must stay that way.
const MetersPerDegree = 111000.0

// SharedCameraID is the camera every pose references: a run assumes one
// shared intrinsic model.
const SharedCameraID = 1

// Estimate is the approximate rigid pose for a single image.
type Estimate struct {
	// Index is 1-based, in image discovery order, not sorted by name.
	Index       int
	Rotation    quat.Number
	Translation r3.Vector
	CameraID    int
	ImageName   string
}

// Translation maps GPS coordinates into the local tangent-plane frame:
// longitude and latitude scaled by MetersPerDegree, altitude passed through
// unscaled.
func Translation(latitude, longitude, altitude float64) r3.Vector {
	return r3.Vector{
		X: longitude * MetersPerDegree,
		Y: latitude * MetersPerDegree,
		Z: altitude,
	}
}

// Approximate produces one Estimate per record, preserving record order. The
// converter supplies the rotation; pass Identity until a real Euler
// conversion is wired in.
func Approximate(records []telemetry.Record, conv OrientationConverter) []Estimate {
	if conv == nil {
		conv = Identity{}
	}

	estimates := make([]Estimate, len(records))
	for i, rec := range records {
		estimates[i] = Estimate{
			Index:       i + 1,
			Rotation:    conv.Convert(rec.Yaw, rec.Pitch, rec.Roll),
			Translation: Translation(rec.Latitude, rec.Longitude, rec.Altitude),
			CameraID:    SharedCameraID,
			ImageName:   rec.ImageName,
		}
	}

	return estimates
}
