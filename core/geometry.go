package core

import "math"

// EarthRadiusKm is the mean Earth radius used by the slant-range
// geometry (kilometres).
const EarthRadiusKm = 6371.0

// SlantRange returns the line-of-sight distance between a ground station
// and a satellite on a spherical planet, all lengths in metres.
//
// A satellite exactly at zenith (90 deg) takes the vertical shortcut
// satAlt - groundAlt. Every other elevation uses the law of sines on the
// triangle {planet centre, ground station, satellite}.
func SlantRange(groundAltM, satAltM, elevationDeg, planetRadiusM float64) (float64, error) {
	var d float64
	if elevationDeg == 90 {
		d = satAltM - groundAltM
	} else {
		beta := elevationDeg*math.Pi/180 + math.Pi/2
		ratio := (groundAltM + planetRadiusM) / (satAltM + planetRadiusM) * math.Sin(beta)
		if ratio > 1 || ratio < -1 || math.IsNaN(ratio) {
			return 0, &GeometryError{Reason: "satellite is not above the ground station's horizon sphere"}
		}
		alpha := math.Asin(ratio)
		theta := math.Pi - alpha - beta
		d = math.Sin(theta) * (satAltM + planetRadiusM) / math.Sin(beta)
	}
	if !(d > 0) || math.IsInf(d, 0) {
		return 0, &GeometryError{Reason: "slant range is not positive"}
	}
	return d, nil
}

// Vec3 is an ECEF-style vector in kilometres.
type Vec3 struct {
	X, Y, Z float64
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// SphericalToVec3 places a point at the given latitude / longitude
// (degrees) and radius (kilometres).
func SphericalToVec3(latDeg, lonDeg, radiusKm float64) Vec3 {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	return Vec3{
		X: radiusKm * math.Cos(lat) * math.Cos(lon),
		Y: radiusKm * math.Cos(lat) * math.Sin(lon),
		Z: radiusKm * math.Sin(lat),
	}
}

// ElevationDegrees returns the elevation angle of the target as seen from
// the observer, in degrees. 0° = geometric horizon, 90° = overhead.
func ElevationDegrees(observer, target Vec3) float64 {
	v := target.Sub(observer)
	vNorm := v.Norm()
	if vNorm == 0 {
		return 90
	}

	// Local zenith at observer is its normalised position vector.
	r := observer.Norm()
	if r == 0 {
		return 90
	}
	zenith := Vec3{
		X: observer.X / r,
		Y: observer.Y / r,
		Z: observer.Z / r,
	}

	cosGamma := v.Dot(zenith) / vNorm
	if cosGamma > 1 {
		cosGamma = 1
	} else if cosGamma < -1 {
		cosGamma = -1
	}
	gammaDeg := math.Acos(cosGamma) * 180.0 / math.Pi

	// Elevation is measured from local horizon (90° − zenith angle).
	return 90.0 - gammaDeg
}
