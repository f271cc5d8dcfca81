package pose

import (
	"gonum.org/v1/gonum/num/quat"
)

// OrientationConverter turns captured NED Euler angles (degrees) into a
// rotation quaternion. The conversion is a swappable seam: telemetry records
// retain yaw/pitch/roll, so a real Euler conversion can be dropped in
// without touching the prior writer.
type OrientationConverter interface {
	Convert(yaw, pitch, roll float64) quat.Number
}

// Identity discards the captured angles and reports no rotation. It is the
// default: the reconstruction engine recovers orientations itself, and a
// wrong prior rotation hurts more than none.
type Identity struct{}

func (Identity) Convert(yaw, pitch, roll float64) quat.Number {
	return quat.Number{Real: 1}
}
