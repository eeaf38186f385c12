package main

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/config"
	"github.com/cwbudde/algo-eq/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings *config.Settings
	log      *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "eqtool",
		Short:         "Three-band parametric equalizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "YAML settings file")
	flags.Float64("sample-rate", 0, "stream sample rate in Hz")
	flags.Int("block-size", 0, "maximum block size in frames")
	flags.String("log-level", "", "trace, debug, info, warn or error")
	flags.String("log-format", "", "text or json")

	flags.Float64("peak-freq", 0, "peak band centre frequency in Hz")
	flags.Float64("peak-gain", 0, "peak band gain in dB")
	flags.Float64("peak-q", 0, "peak band quality")
	flags.Float64("low-cut", 0, "low cut corner frequency in Hz")
	flags.Float64("high-cut", 0, "high cut corner frequency in Hz")
	flags.String("low-slope", "", "low cut slope: 12, 24, 36 or 48 dB/oct")
	flags.String("high-slope", "", "high cut slope: 12, 24, 36 or 48 dB/oct")

	a.bind(flags, map[string]string{
		"audio.sample_rate": "sample-rate",
		"audio.block_size":  "block-size",
		"log.level":         "log-level",
		"log.format":        "log-format",
		"eq.peak_freq":      "peak-freq",
		"eq.peak_gain_db":   "peak-gain",
		"eq.peak_q":         "peak-q",
		"eq.low_cut_freq":   "low-cut",
		"eq.high_cut_freq":  "high-cut",
		"eq.low_cut_slope":  "low-slope",
		"eq.high_cut_slope": "high-slope",
	})

	root.AddCommand(
		a.curveCommand(),
		a.renderCommand(),
		a.playCommand(),
		a.serveCommand(),
		a.configCommand(),
	)

	return root
}

// bind registers flags with viper. Unchanged flags never shadow config
// file or environment values because their zero defaults are not used.
func (a *app) bind(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			panic("eqtool: unknown flag " + name)
		}
		_ = a.v.BindPFlag(key, f)
	}
}

func (a *app) load(cmd *cobra.Command) error {
	s, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.settings = s

	if err := logging.Init(logging.Options{
		Level:  s.Log.Level,
		Format: logging.Format(s.Log.Format),
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}
	a.log = logging.ForService("eqtool")

	return nil
}

// params returns the configured parameters with every frequency fitted
// below the Nyquist frequency of sampleRate.
func (a *app) params(sampleRate float64) eq.ParameterSnapshot {
	p := a.settings.EQ.LimitFrequencies(sampleRate)
	if p != a.settings.EQ {
		a.log.Info("parameters limited to stream Nyquist",
			"sample_rate", sampleRate,
			"configured", a.settings.EQ.String(),
			"applied", p.String())
	}

	return p
}

// newEngine prepares an engine at sampleRate with the configured
// parameters applied.
func (a *app) newEngine(sampleRate float64) (*eq.Engine, error) {
	e := eq.NewEngine(
		core.WithSampleRate(sampleRate),
		core.WithMaxBlockSize(a.settings.Audio.BlockSize),
	)
	if err := e.Update(a.params(sampleRate)); err != nil {
		return nil, fmt.Errorf("parameters at %g Hz: %w", sampleRate, err)
	}
	if err := e.Prepare(sampleRate, a.settings.Audio.BlockSize); err != nil {
		return nil, err
	}

	a.log.Debug("engine ready", "sample_rate", sampleRate, "params", a.settings.EQ.String())
	return e, nil
}
