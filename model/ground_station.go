package model

// GroundStation is a receiving site on the mean Earth sphere.
type GroundStation struct {
	Name string

	LatitudeDeg  float64
	LongitudeDeg float64
	// AltitudeM is the height above the mean sphere in metres.
	AltitudeM float64
}
