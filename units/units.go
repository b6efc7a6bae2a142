// Package units provides the small physical-quantity layer used by the
// link budget engine: a magnitude tagged with a unit, where every unit
// belongs to one dimensional family and converts to the other units of
// that family.
package units

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownUnit is returned when a unit symbol is not registered.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrIncompatibleUnits is returned when converting across families.
	ErrIncompatibleUnits = errors.New("incompatible units")
	// ErrMalformedQuantity is returned for quantity strings that cannot be parsed.
	ErrMalformedQuantity = errors.New("malformed quantity")
)

// Family is the physical dimension a unit measures.
type Family int

const (
	FamilyUnknown Family = iota
	Length
	Frequency
	Power
	Angle
)

func (f Family) String() string {
	switch f {
	case Length:
		return "length"
	case Frequency:
		return "frequency"
	case Power:
		return "power"
	case Angle:
		return "angle"
	default:
		return "unknown"
	}
}

// Unit is a named unit with its scale relative to the family's base unit
// (meter, hertz, watt, degree).
type Unit struct {
	Symbol string
	Family Family
	scale  float64
}

func (u Unit) String() string { return u.Symbol }

var (
	Meter     = Unit{Symbol: "m", Family: Length, scale: 1}
	Kilometer = Unit{Symbol: "km", Family: Length, scale: 1e3}

	Hertz     = Unit{Symbol: "Hz", Family: Frequency, scale: 1}
	Kilohertz = Unit{Symbol: "kHz", Family: Frequency, scale: 1e3}
	Megahertz = Unit{Symbol: "MHz", Family: Frequency, scale: 1e6}
	Gigahertz = Unit{Symbol: "GHz", Family: Frequency, scale: 1e9}

	Milliwatt = Unit{Symbol: "mW", Family: Power, scale: 1e-3}
	Watt      = Unit{Symbol: "W", Family: Power, scale: 1}
	Kilowatt  = Unit{Symbol: "kW", Family: Power, scale: 1e3}

	Degree = Unit{Symbol: "deg", Family: Angle, scale: 1}
	Radian = Unit{Symbol: "rad", Family: Angle, scale: 180 / math.Pi}
)

// symbols are case sensitive so that "mW" and "MW" or "mHz" and "MHz"
// never collide; spelled-out names are matched case-insensitively.
var symbols = map[string]Unit{
	"m":   Meter,
	"km":  Kilometer,
	"Hz":  Hertz,
	"kHz": Kilohertz,
	"MHz": Megahertz,
	"GHz": Gigahertz,
	"mW":  Milliwatt,
	"W":   Watt,
	"kW":  Kilowatt,
	"deg": Degree,
	"°":   Degree,
	"rad": Radian,
}

var names = map[string]Unit{
	"meter":      Meter,
	"meters":     Meter,
	"kilometer":  Kilometer,
	"kilometers": Kilometer,
	"hertz":      Hertz,
	"kilohertz":  Kilohertz,
	"megahertz":  Megahertz,
	"gigahertz":  Gigahertz,
	"milliwatt":  Milliwatt,
	"milliwatts": Milliwatt,
	"watt":       Watt,
	"watts":      Watt,
	"kilowatt":   Kilowatt,
	"kilowatts":  Kilowatt,
	"degree":     Degree,
	"degrees":    Degree,
	"radian":     Radian,
	"radians":    Radian,
}

// Lookup resolves a unit symbol ("MHz") or name ("megahertz").
func Lookup(symbol string) (Unit, error) {
	s := strings.TrimSpace(symbol)
	if u, ok := symbols[s]; ok {
		return u, nil
	}
	if u, ok := names[strings.ToLower(s)]; ok {
		return u, nil
	}
	return Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
}

// Quantity is a magnitude expressed in a unit.
type Quantity struct {
	Magnitude float64
	Unit      Unit
}

// Q builds a quantity.
func Q(magnitude float64, unit Unit) Quantity {
	return Quantity{Magnitude: magnitude, Unit: unit}
}

// Family reports the dimensional family of the quantity.
func (q Quantity) Family() Family { return q.Unit.Family }

// Check reports whether q belongs to family f.
func (q Quantity) Check(f Family) bool {
	return f != FamilyUnknown && q.Unit.Family == f
}

// To converts q into unit u. Converting into the unit q already uses
// returns q unchanged, so exact magnitudes such as 90 deg survive.
func (q Quantity) To(u Unit) (Quantity, error) {
	if q.Unit.Family == FamilyUnknown || q.Unit.Family != u.Family {
		return Quantity{}, fmt.Errorf("%w: cannot convert %s (%s) to %s (%s)",
			ErrIncompatibleUnits, q.Unit.Symbol, q.Unit.Family, u.Symbol, u.Family)
	}
	if q.Unit == u {
		return q, nil
	}
	return Quantity{Magnitude: q.Magnitude * q.Unit.scale / u.scale, Unit: u}, nil
}

// In returns the bare magnitude of q expressed in unit u.
func (q Quantity) In(u Unit) (float64, error) {
	c, err := q.To(u)
	if err != nil {
		return 0, err
	}
	return c.Magnitude, nil
}

// Base converts q to the base unit of its family.
func (q Quantity) Base() (Quantity, error) {
	switch q.Unit.Family {
	case Length:
		return q.To(Meter)
	case Frequency:
		return q.To(Hertz)
	case Power:
		return q.To(Watt)
	case Angle:
		return q.To(Degree)
	default:
		return Quantity{}, fmt.Errorf("%w: quantity has no unit", ErrIncompatibleUnits)
	}
}

func (q Quantity) String() string {
	if q.Unit.Symbol == "" {
		return strconv.FormatFloat(q.Magnitude, 'g', -1, 64)
	}
	return strconv.FormatFloat(q.Magnitude, 'g', -1, 64) + " " + q.Unit.Symbol
}

// Parse reads "137.5 MHz", "860km" or "25 deg".
func Parse(s string) (Quantity, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return Quantity{}, fmt.Errorf("%w: empty string", ErrMalformedQuantity)
	}

	split := len(in)
	for i, r := range in {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E' {
			continue
		}
		split = i
		break
	}
	// "e" may be the start of a unit rather than an exponent; back off
	// until the numeric prefix parses.
	for split > 0 {
		if _, err := strconv.ParseFloat(in[:split], 64); err == nil {
			break
		}
		split--
	}
	if split == 0 {
		return Quantity{}, fmt.Errorf("%w: %q has no numeric magnitude", ErrMalformedQuantity, s)
	}

	mag, _ := strconv.ParseFloat(in[:split], 64)
	rest := strings.TrimSpace(in[split:])
	if rest == "" {
		return Quantity{}, fmt.Errorf("%w: %q has no unit", ErrMalformedQuantity, s)
	}
	u, err := Lookup(rest)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Magnitude: mag, Unit: u}, nil
}

// MustParse is Parse for package-level literals; it panics on error.
func MustParse(s string) Quantity {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

// MarshalJSON writes the quantity as its string form.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

// UnmarshalJSON accepts the string form produced by MarshalJSON.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: expected a string such as \"860 km\", got %s", ErrMalformedQuantity, string(data))
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
