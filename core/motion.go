package core

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/linkbudget/model"
	"github.com/signalsfoundry/linkbudget/units"
)

const tleLineLength = 69

// Orbit propagates a satellite from a two-line element set with SGP4.
type Orbit struct {
	sat satellite.Satellite
}

// NewOrbitFromTLE constructs an orbit from TLE lines. Only the line
// framing is checked here; go-satellite parses the element fields.
func NewOrbitFromTLE(line1, line2 string) (*Orbit, error) {
	line1 = strings.TrimRight(line1, " \r\n")
	line2 = strings.TrimRight(line2, " \r\n")
	if len(line1) != tleLineLength || !strings.HasPrefix(line1, "1 ") {
		return nil, &GeometryError{Reason: fmt.Sprintf("TLE line 1 is malformed (%d chars)", len(line1))}
	}
	if len(line2) != tleLineLength || !strings.HasPrefix(line2, "2 ") {
		return nil, &GeometryError{Reason: fmt.Sprintf("TLE line 2 is malformed (%d chars)", len(line2))}
	}
	if line1[2:7] != line2[2:7] {
		return nil, &GeometryError{Reason: "TLE lines describe different catalogue numbers"}
	}
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &Orbit{sat: sat}, nil
}

// PassGeometry is the satellite as seen from a ground station at one
// instant.
type PassGeometry struct {
	ElevationDeg        float64
	SatelliteAltitudeKm float64
	RangeKm             float64
}

// PositionAt returns the satellite's Earth-fixed position at t, in
// kilometres. go-satellite works in kilometres throughout.
func (o *Orbit) PositionAt(t time.Time) (Vec3, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(o.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	p := Vec3{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z}
	n := p.Norm()
	if math.IsNaN(n) || n <= EarthRadiusKm {
		return Vec3{}, &GeometryError{Reason: fmt.Sprintf("propagation at %s did not yield an orbit", t.Format(time.RFC3339))}
	}
	return p, nil
}

// LookFrom computes the elevation, altitude and range of the satellite
// from gs at t, on the same mean sphere the slant-range stage uses.
func (o *Orbit) LookFrom(gs model.GroundStation, t time.Time) (PassGeometry, error) {
	sat, err := o.PositionAt(t)
	if err != nil {
		return PassGeometry{}, err
	}
	station := SphericalToVec3(gs.LatitudeDeg, gs.LongitudeDeg, EarthRadiusKm+gs.AltitudeM/1000)
	return PassGeometry{
		ElevationDeg:        ElevationDegrees(station, sat),
		SatelliteAltitudeKm: sat.Norm() - EarthRadiusKm,
		RangeKm:             station.DistanceTo(sat),
	}, nil
}

// Visible reports whether the satellite is above the station's horizon.
func (g PassGeometry) Visible() bool { return g.ElevationDeg > 0 }

// Apply writes the pass geometry onto the engine's satellite altitude and
// elevation inputs. The ground station altitude is left to the caller.
func (g PassGeometry) Apply(e *Engine) error {
	if err := e.SetSatelliteAltitude(units.Q(g.SatelliteAltitudeKm, units.Kilometer)); err != nil {
		return err
	}
	return e.SetOrbitElevationAngle(units.Q(g.ElevationDeg, units.Degree))
}
