package core

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/signalsfoundry/linkbudget/units"
)

func TestPowerToDBm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"1 mW", 0},
		{"1 W", 30},
		{"5 W", 36.9897},
		{"25.6 W", 44.0824},
		{"1 kW", 60},
	}
	for _, tc := range tests {
		got, err := PowerToDBm(units.MustParse(tc.in))
		if err != nil {
			t.Fatalf("PowerToDBm(%s): %v", tc.in, err)
		}
		if !scalar.EqualWithinAbs(got, tc.want, 1e-4) {
			t.Errorf("PowerToDBm(%s) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := PowerToDBm(units.MustParse("5 km")); !errors.Is(err, ErrUnitMismatch) {
		t.Fatalf("PowerToDBm(km) err = %v, want ErrUnitMismatch", err)
	}
}

func TestFormatDBm(t *testing.T) {
	t.Parallel()

	if got := FormatDBm(36.98970004); got != "36.99 dBm" {
		t.Fatalf("FormatDBm = %q", got)
	}
	if got := FormatDBm(-100.9748); got != "-100.97 dBm" {
		t.Fatalf("FormatDBm = %q", got)
	}
}

func TestWavelength(t *testing.T) {
	t.Parallel()

	got, err := Wavelength(units.MustParse("137.5 MHz"))
	if err != nil {
		t.Fatalf("Wavelength: %v", err)
	}
	if !scalar.EqualWithinAbs(got, 2.180291, 1e-6) {
		t.Fatalf("Wavelength = %v", got)
	}
	if _, err := Wavelength(units.MustParse("1 W")); !errors.Is(err, ErrUnitMismatch) {
		t.Fatalf("Wavelength(W) err = %v", err)
	}
}

func TestFreeSpacePathLoss(t *testing.T) {
	t.Parallel()

	// One wavelength away the loss is -20*log10(4*pi).
	if got := FreeSpacePathLoss(1, 1); !scalar.EqualWithinAbs(got, -21.9842, 1e-4) {
		t.Errorf("FSPL(1,1) = %v", got)
	}
	// Doubling the distance costs 6 dB.
	a := FreeSpacePathLoss(1000e3, 2)
	b := FreeSpacePathLoss(2000e3, 2)
	if !scalar.EqualWithinAbs(a-b, 6.0206, 1e-4) {
		t.Errorf("FSPL doubling delta = %v", a-b)
	}
}

func TestNoiseFloorDBm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bw   string
		nf   float64
		want float64
	}{
		{"34 kHz", 5, -123.6852},
		{"10 kHz", 2.9, -131.1},
		{"1 Hz", 0, -174},
	}
	for _, tc := range tests {
		got, err := NoiseFloorDBm(units.MustParse(tc.bw), tc.nf)
		if err != nil {
			t.Fatalf("NoiseFloorDBm(%s): %v", tc.bw, err)
		}
		if !scalar.EqualWithinAbs(got, tc.want, 1e-4) {
			t.Errorf("NoiseFloorDBm(%s, %v) = %v, want %v", tc.bw, tc.nf, got, tc.want)
		}
	}
}

func TestResults_Quality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r    Results
		want LinkQuality
	}{
		{Results{Valid: false, LinkMargin: 20}, LinkQualityDown},
		{Results{Valid: true, LinkMargin: -0.1}, LinkQualityDown},
		{Results{Valid: true, LinkMargin: 0}, LinkQualityMarginal},
		{Results{Valid: true, LinkMargin: 3}, LinkQualityFair},
		{Results{Valid: true, LinkMargin: 6}, LinkQualityGood},
		{Results{Valid: true, LinkMargin: 26.9}, LinkQualityExcellent},
	}
	for _, tc := range tests {
		if got := tc.r.Quality(); got != tc.want {
			t.Errorf("Quality(%+v) = %v, want %v", tc.r, got, tc.want)
		}
	}
	if (Results{Valid: true, LinkMargin: 0}).Closes() != true {
		t.Errorf("zero margin should close")
	}
	if LinkQualityExcellent.String() != "excellent" || LinkQuality(42).String() != "down" {
		t.Errorf("LinkQuality strings")
	}
}

func TestEngine_StringReport(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := e.String()
	for _, want := range []string{
		"Downlink Frequency:",
		"137.5 MHz",
		"Link Distance:",
		"1659.7 km",
		"Transmit EIRP:",
		"36.99 dBm",
		"Link Margin:",
		"1.71 dB",
		"Valid Calculation:",
		"true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
