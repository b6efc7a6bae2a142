package core

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/linkbudget/units"
)

var (
	// ErrUnitMismatch marks a dimensioned value assigned to a field of a
	// different unit family.
	ErrUnitMismatch = errors.New("unit mismatch")
	// ErrValidation marks a physical-sanity rule violation found by Run.
	ErrValidation = errors.New("invalid link budget input")
	// ErrInvalidGeometry marks a ground station / satellite arrangement
	// for which no slant range exists.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrNonFinite marks a pipeline result that overflowed or became NaN.
	ErrNonFinite = errors.New("non-finite result")
)

// Validation rules. Each failing rule is reported as a *ValidationError
// wrapping exactly one of these.
var (
	ErrInvalidFrequency             = errors.New("downlink frequency must be positive")
	ErrInvalidSatelliteAltitude     = errors.New("satellite altitude must be positive")
	ErrInvalidElevationAngle        = errors.New("orbit elevation angle must be positive")
	ErrNegativeNoiseFigure          = errors.New("system noise figure is negative")
	ErrPositiveAtmosphericLoss      = errors.New("atmospheric loss is positive")
	ErrPositiveImplementationLoss   = errors.New("implementation loss is positive")
	ErrPositivePolarizationLoss     = errors.New("polarization loss is positive")
	ErrPositiveReceivePointingLoss  = errors.New("receive pointing loss is positive")
	ErrPositiveTransmitLoss         = errors.New("transmit loss is positive")
	ErrPositiveTransmitPointingLoss = errors.New("transmit pointing loss is positive")
	ErrInvalidNoiseBandwidth        = errors.New("noise bandwidth must be positive")
	ErrInvalidTransmitPower         = errors.New("transmit power must be positive")
)

// UnitMismatchError reports a quantity whose family does not match the
// field it was assigned to.
type UnitMismatchError struct {
	Field string
	Want  units.Family
	Got   units.Quantity
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("%s expected %s, received %s", e.Field, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrUnitMismatch) hold.
func (e *UnitMismatchError) Is(target error) bool { return target == ErrUnitMismatch }

// ValidationError reports the first physical-sanity rule an input broke.
type ValidationError struct {
	Field string
	Value float64
	Rule  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (%s = %g)", ErrValidation, e.Rule, e.Field, e.Value)
}

// Unwrap exposes the rule sentinel.
func (e *ValidationError) Unwrap() error { return e.Rule }

// Is makes errors.Is(err, ErrValidation) hold alongside the rule sentinel.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// GeometryError reports a slant-range derivation with no physical solution.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidGeometry, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidGeometry) hold.
func (e *GeometryError) Is(target error) bool { return target == ErrInvalidGeometry }
