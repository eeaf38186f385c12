// Package config loads the equalizer tool settings from defaults, an
// optional YAML file, ALGOEQ_* environment variables and bound flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. ALGOEQ_AUDIO_SAMPLE_RATE.
const EnvPrefix = "ALGOEQ"

// ErrInvalidSettings wraps every validation failure.
var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings is the complete tool configuration.
type Settings struct {
	Audio  AudioSettings        `mapstructure:"audio" yaml:"audio"`
	EQ     eq.ParameterSnapshot `mapstructure:"eq" yaml:"eq"`
	Server ServerSettings       `mapstructure:"server" yaml:"server"`
	Curve  CurveSettings        `mapstructure:"curve" yaml:"curve"`
	Log    LogSettings          `mapstructure:"log" yaml:"log"`
}

// AudioSettings are the stream parameters handed to the engine.
type AudioSettings struct {
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	BlockSize  int     `mapstructure:"block_size" yaml:"block_size"`
	BufferMS   int     `mapstructure:"buffer_ms" yaml:"buffer_ms"`
}

// ServerSettings configure the HTTP control surface.
type ServerSettings struct {
	Listen       string  `mapstructure:"listen" yaml:"listen"`
	UpdateRate   float64 `mapstructure:"update_rate" yaml:"update_rate"`
	NoiseLevelDB float64 `mapstructure:"noise_level_db" yaml:"noise_level_db"`
}

// CurveSettings configure response curve rendering.
type CurveSettings struct {
	Width    int           `mapstructure:"width" yaml:"width"`
	MaxWidth int           `mapstructure:"max_width" yaml:"max_width"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// LogSettings configure internal/logging.
type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// New returns a viper instance with defaults and environment overrides
// registered. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	def := eq.DefaultSnapshot()

	v.SetDefault("audio.sample_rate", 48000.0)
	v.SetDefault("audio.block_size", 512)
	v.SetDefault("audio.buffer_ms", 50)

	v.SetDefault("eq.peak_freq", def.PeakFreq)
	v.SetDefault("eq.peak_gain_db", def.PeakGainDB)
	v.SetDefault("eq.peak_q", def.PeakQ)
	v.SetDefault("eq.low_cut_freq", def.LowCutFreq)
	v.SetDefault("eq.high_cut_freq", def.HighCutFreq)
	v.SetDefault("eq.low_cut_slope", def.LowCutSlope.DBPerOctave())
	v.SetDefault("eq.high_cut_slope", def.HighCutSlope.DBPerOctave())

	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.update_rate", 60.0)
	v.SetDefault("server.noise_level_db", -30.0)

	v.SetDefault("curve.width", 512)
	v.SetDefault("curve.max_width", 8192)
	v.SetDefault("curve.cache_ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads path (if non-empty) into v, decodes the result and validates
// it.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	s := &Settings{}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		slopeHook,
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(s, hook); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

var slopeType = reflect.TypeFor[eq.Slope]()

// slopeHook lets slopes be written as "24", 24, "24 dB/oct" or an ordinal.
func slopeHook(from, to reflect.Type, data any) (any, error) {
	if to != slopeType {
		return data, nil
	}

	switch from.Kind() {
	case reflect.String, reflect.Int, reflect.Int64, reflect.Float64, reflect.Uint, reflect.Uint64:
		return eq.ParseSlope(fmt.Sprint(data))
	default:
		return data, nil
	}
}

// Validate checks every setting that the engine or server would otherwise
// reject later.
func (s *Settings) Validate() error {
	var errs []error

	if s.Audio.SampleRate < 8000 || s.Audio.SampleRate > 384000 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %v outside [8000, 384000]", s.Audio.SampleRate))
	}

	if s.Audio.BlockSize < 16 || s.Audio.BlockSize > 16384 {
		errs = append(errs, fmt.Errorf("audio.block_size %d outside [16, 16384]", s.Audio.BlockSize))
	}

	if s.Audio.BufferMS <= 0 {
		errs = append(errs, fmt.Errorf("audio.buffer_ms %d must be positive", s.Audio.BufferMS))
	}

	if clamped := s.EQ.Clamp(); clamped != s.EQ {
		errs = append(errs, fmt.Errorf("eq parameters out of range: %v", s.EQ))
	}

	// Hosts fit frequencies to each stream's Nyquist, so only the rest of
	// the design is checked here.
	if sr := s.Audio.SampleRate; sr > 0 {
		if _, err := eq.MakeChain(s.EQ.LimitFrequencies(sr), sr); err != nil {
			errs = append(errs, err)
		}
	}

	if s.Server.UpdateRate <= 0 {
		errs = append(errs, fmt.Errorf("server.update_rate %v must be positive", s.Server.UpdateRate))
	}

	if s.Curve.Width <= 0 || s.Curve.Width > s.Curve.MaxWidth {
		errs = append(errs, fmt.Errorf("curve.width %d outside [1, %d]", s.Curve.Width, s.Curve.MaxWidth))
	}

	if s.Curve.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("curve.cache_ttl %v must be positive", s.Curve.CacheTTL))
	}

	switch s.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", s.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}

	return nil
}

// YAML renders the effective settings in the file format Load reads.
func (s *Settings) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("config: encode yaml: %w", err)
	}

	return out, nil
}
