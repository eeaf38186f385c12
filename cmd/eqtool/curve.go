package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/spf13/cobra"
)

type curveRow struct {
	Freq       float64  `json:"freq"`
	Magnitude  float64  `json:"db"`
	MeasuredDB *float64 `json:"measured_db,omitempty"`
}

func (a *app) curveCommand() *cobra.Command {
	var (
		measured bool
		method   string
		fftSize  int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the magnitude response of the configured parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sr := a.settings.Audio.SampleRate
			coeffs, err := eq.MakeChain(a.params(sr), sr)
			if err != nil {
				return err
			}

			curve := eq.ComputeCurve(coeffs, sr, a.settings.Curve.Width)
			rows := make([]curveRow, len(curve))
			freqs := make([]float64, len(curve))
			for i, p := range curve {
				rows[i] = curveRow{Freq: p.Freq, Magnitude: p.MagnitudeDB}
				freqs[i] = p.Freq
			}

			if measured {
				var m []float64
				switch method {
				case "fft":
					m, err = eq.MeasureCurve(coeffs, sr, fftSize, freqs)
				case "sine":
					m, err = eq.MeasureTones(coeffs, sr, freqs)
				default:
					err = fmt.Errorf("unknown measurement method %q (fft or sine)", method)
				}
				if err != nil {
					return err
				}
				for i := range rows {
					rows[i].MeasuredDB = &m[i]
				}
			}

			switch format {
			case "table":
				return writeCurveTable(cmd.OutOrStdout(), rows, measured)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			default:
				return fmt.Errorf("unknown format %q (table or json)", format)
			}
		},
	}

	cmd.Flags().Int("width", 0, "number of log-spaced points between 20 Hz and 20 kHz")
	cmd.Flags().BoolVar(&measured, "measured", false, "add a simulated measurement next to the closed-form curve")
	cmd.Flags().StringVar(&method, "method", "fft", "measurement method: fft (impulse response) or sine (stepped sine)")
	cmd.Flags().IntVar(&fftSize, "fft-size", 1<<16, "FFT length for --method fft")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json")
	_ = a.v.BindPFlag("curve.width", cmd.Flags().Lookup("width"))

	return cmd
}

func writeCurveTable(w io.Writer, rows []curveRow, measured bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "Freq [Hz]\tMagnitude [dB]"
	rule := "---------\t--------------"
	if measured {
		header += "\tMeasured [dB]"
		rule += "\t-------------"
	}
	if _, err := fmt.Fprintf(tw, "%s\n%s\n", header, rule); err != nil {
		return err
	}

	for _, r := range rows {
		var err error
		if r.MeasuredDB != nil {
			_, err = fmt.Fprintf(tw, "%.2f\t%+.3f\t%+.3f\n", r.Freq, r.Magnitude, *r.MeasuredDB)
		} else {
			_, err = fmt.Fprintf(tw, "%.2f\t%+.3f\n", r.Freq, r.Magnitude)
		}
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}
