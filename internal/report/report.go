// Package report encodes link budget evaluations for the command line in
// plain, json or csv form.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/signalsfoundry/linkbudget/core"
)

// Recorder produces the list of fields making up a CSV record.
type Recorder interface {
	Record() []string
}

// Encoder writes one value per call. encoding/json satisfies it too.
type Encoder interface {
	Encode(v interface{}) error
}

// Row is one evaluated scenario.
type Row struct {
	Scenario string       `json:"scenario"`
	Results  core.Results `json:"results"`
	Closes   bool         `json:"closes"`
	Quality  string       `json:"quality"`
	Error    string       `json:"error,omitempty"`

	text string
}

// NewRow snapshots e after a Run that returned runErr.
func NewRow(scenario string, e *core.Engine, runErr error) Row {
	res := e.Results()
	r := Row{
		Scenario: scenario,
		Results:  res,
		Closes:   res.Closes(),
		Quality:  res.Quality().String(),
		text:     e.String(),
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	return r
}

// String is the human-readable engine report.
func (r Row) String() string {
	var b strings.Builder
	if r.Scenario != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", r.Scenario)
	}
	b.WriteString(r.text)
	if r.Error != "" {
		fmt.Fprintf(&b, "%-28s %s\n", "Error:", r.Error)
	}
	return b.String()
}

// Header names the columns produced by Record.
func Header() []string {
	return []string{
		"scenario", "valid",
		"downlink_wavelength_m", "link_distance_m",
		"transmit_power_dbm", "transmit_eirp_dbm", "downlink_path_loss_db",
		"required_ebno_db", "received_power_dbm", "minimum_detectable_signal_dbm",
		"energy_noise_ratio_db", "link_margin_db",
		"closes", "quality", "error",
	}
}

func (r Row) Record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	res := r.Results
	return []string{
		r.Scenario,
		strconv.FormatBool(res.Valid),
		strconv.FormatFloat(res.DownlinkWavelength.Magnitude, 'f', 6, 64),
		strconv.FormatFloat(res.LinkDistance.Magnitude, 'f', 1, 64),
		f(res.TransmitPowerDBm),
		f(res.TransmitEIRP),
		f(res.DownlinkPathLoss),
		f(res.RequiredEbNo),
		f(res.ReceivedPower),
		f(res.MinimumDetectableSignal),
		f(res.EnergyNoiseRatio),
		f(res.LinkMargin),
		strconv.FormatBool(r.Closes),
		r.Quality,
		r.Error,
	}
}

// PlainEncoder writes the String form of each value.
type PlainEncoder struct {
	w io.Writer
}

func (enc PlainEncoder) Encode(v interface{}) error {
	s, ok := v.(fmt.Stringer)
	if !ok {
		return xerrors.Errorf("plain encoder: %T has no text form", v)
	}
	_, err := io.WriteString(enc.w, s.String())
	return err
}

// CSVEncoder writes a header before the first record. Values must
// implement Recorder.
type CSVEncoder struct {
	w      *csv.Writer
	header []string
	wrote  bool
}

// NewCSVEncoder returns an encoder writing to w; header may be nil.
func NewCSVEncoder(w io.Writer, header []string) *CSVEncoder {
	return &CSVEncoder{w: csv.NewWriter(w), header: header}
}

// Encode writes the record for v followed by a newline.
func (enc *CSVEncoder) Encode(v interface{}) (err error) {
	defer func() {
		if r, ok := recover().(error); ok && r != nil {
			err = xerrors.Errorf("recovered: %w", r)
		}
	}()

	if !enc.wrote && enc.header != nil {
		if err := enc.w.Write(enc.header); err != nil {
			return err
		}
	}
	enc.wrote = true

	if err := enc.w.Write(v.(Recorder).Record()); err != nil {
		return err
	}
	enc.w.Flush()
	return enc.w.Error()
}

// NewEncoder selects an encoder by format name: plain, json or csv.
func NewEncoder(format string, w io.Writer) (Encoder, error) {
	switch strings.ToLower(format) {
	case "plain", "":
		return PlainEncoder{w: w}, nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc, nil
	case "csv":
		return NewCSVEncoder(w, Header()), nil
	default:
		return nil, xerrors.Errorf("unknown output format %q: want plain, json or csv", format)
	}
}
