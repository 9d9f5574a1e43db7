// Package codec wires components C1 through C8 into the top-level
// encode/decode pipeline spec §2 describes, plus the ambient stack
// (configuration, errors, tracing) that surrounds it.
//
// Config mirrors the teacher's cmd/project3/config/config.go: a
// yaml-tagged nested struct loaded with gopkg.in/yaml.v3, the
// library every example in the pack that reads config uses.
package codec

import (
	"os"

	"gopkg.in/yaml.v3"

	"soniclink/pkg/ofdm"
)

// Config is the on-disk, yaml-tagged configuration spec §6 names.
type Config struct {
	Audio struct {
		SampleRate int `yaml:"sample_rate"`
	} `yaml:"audio"`

	Band struct {
		Low  float64 `yaml:"band_low"`
		High float64 `yaml:"band_high"`
	} `yaml:"band"`

	OFDM struct {
		FFTSize      int     `yaml:"fft_size"`
		CPRatio      float64 `yaml:"cp_ratio"`
		PilotSpacing int     `yaml:"pilot_spacing"`
	} `yaml:"ofdm"`

	QAMOrder int    `yaml:"qam_order"`
	FEC      string `yaml:"fec"`

	Compress bool `yaml:"compress"`
	Encrypt  bool `yaml:"encrypt"`

	Timing struct {
		IdleTimeoutMS             int `yaml:"idle_timeout_ms"`
		CancelCheckIntervalChunks int `yaml:"cancel_check_interval_chunks"`
	} `yaml:"timing"`

	StartTone struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"start_tone"`
}

// DefaultConfig returns a Config populated with spec §6's defaults.
func DefaultConfig() Config {
	var c Config
	c.Audio.SampleRate = 48000
	c.Band.Low = 18000
	c.Band.High = 22000
	c.OFDM.FFTSize = ofdm.N
	c.OFDM.CPRatio = ofdm.CPRatio
	c.OFDM.PilotSpacing = ofdm.DefaultPilotSpacing
	c.QAMOrder = 64
	c.FEC = "rs(255,223)"
	c.Timing.IdleTimeoutMS = 5000
	c.Timing.CancelCheckIntervalChunks = 1
	c.StartTone.Enabled = false
	return c
}

// LoadConfig reads and parses a yaml config file over DefaultConfig:
// fields the file omits keep their defaults, and fields it sets
// (including to zero) take the file's value.
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ResolvedConfig holds a Config's derived, ready-to-use components.
type ResolvedConfig struct {
	Config
	Layout         ofdm.Layout
	BytesPerSymbol int
}

// Resolve validates c and derives its OFDM subcarrier layout, failing
// with ErrInvalidConfig when the bin layout violates band constraints
// or uses an unsupported FFT size, QAM order, or FEC scheme.
func (c Config) Resolve() (ResolvedConfig, error) {
	if c.OFDM.FFTSize != ofdm.N {
		return ResolvedConfig{}, ErrInvalidConfig
	}
	if c.QAMOrder != 64 {
		return ResolvedConfig{}, ErrInvalidConfig
	}
	if c.FEC != "rs(255,223)" {
		return ResolvedConfig{}, ErrInvalidConfig
	}
	if c.Band.Low <= 0 || c.Band.High <= c.Band.Low {
		return ResolvedConfig{}, ErrInvalidConfig
	}
	if c.Band.Low < ofdm.MinCarrierHz || c.Band.High > ofdm.MaxCarrierHz {
		return ResolvedConfig{}, ErrInvalidConfig
	}

	layout, err := ofdm.NewLayout(c.Audio.SampleRate, c.Band.Low, c.Band.High, c.OFDM.PilotSpacing)
	if err != nil {
		return ResolvedConfig{}, ErrInvalidConfig
	}

	bytesPerSymbol := layout.BytesPerSymbol()
	if bytesPerSymbol == 0 {
		return ResolvedConfig{}, ErrInvalidConfig
	}

	return ResolvedConfig{Config: c, Layout: layout, BytesPerSymbol: bytesPerSymbol}, nil
}
