package processor

import (
	"fmt"
)

// Config holds the settings shared by all songs.
type Config struct {
	// TicksPerQuarter is the MIDI time resolution.
	TicksPerQuarter int `yaml:"ticks_per_quarter,omitempty"`

	// Tempo in quarter notes per minute, used when the score has none.
	Tempo float64 `yaml:"tempo,omitempty"`

	// Channel is the MIDI channel of the first regular voice; further voices
	// use the following channels, skipping the percussion channel.
	Channel uint8 `yaml:"channel,omitempty"`

	// HarmonyChannel plays the chord symbols.
	HarmonyChannel uint8 `yaml:"harmony_channel,omitempty"`

	// HarmonyOctave is the octave of chord symbol roots; 3 is below middle C.
	HarmonyOctave int `yaml:"harmony_octave,omitempty"`

	// Velocity is used for notes without a velocity of their own.
	Velocity uint8 `yaml:"velocity,omitempty"`

	HarmonyVelocity uint8 `yaml:"harmony_velocity,omitempty"`

	// UnpitchedKey is the percussion key unpitched notes are played on.
	UnpitchedKey uint8 `yaml:"unpitched_key,omitempty"`

	// TextEncoding is the WHATWG name of the encoding of meta texts, like
	// "utf-8" or "windows-1252".
	TextEncoding string `yaml:"text_encoding,omitempty"`

	// Language of diagnostics; empty means detect.
	Language string `yaml:"language,omitempty"`

	// Strict turns repeated finalizations into errors.
	Strict bool `yaml:"strict,omitempty"`

	// Trace lists trace flags, like "measures" or "all".
	Trace []string `yaml:"trace,omitempty"`

	// PerPart also writes one file per part.
	PerPart bool `yaml:"per_part,omitempty"`

	// Panic also writes a file turning off every note the song plays.
	Panic bool `yaml:"panic,omitempty"`
}

// DefaultConfig returns the settings used for everything the config file
// leaves unset.
func DefaultConfig() Config {
	return Config{
		TicksPerQuarter: 480,
		Tempo:           120,
		Channel:         0,
		HarmonyChannel:  15,
		HarmonyOctave:   3,
		Velocity:        80,
		HarmonyVelocity: 56,
		UnpitchedKey:    38,
		TextEncoding:    "utf-8",
	}
}

// Options holds the settings of one song.
type Options struct {
	// InputFile is the score description, relative to the options file.
	InputFile string `yaml:"input_file"`

	// InputFileBLAKE3 pins the content of the input file.
	InputFileBLAKE3 string `yaml:"input_file_blake3,omitempty"`

	// Title overrides the title of the score.
	Title string `yaml:"title,omitempty"`

	// AgeIdentityFile decrypts .age inputs encrypted to an X25519 recipient.
	AgeIdentityFile string `yaml:"age_identity_file,omitempty"`

	// AgePassphraseEnv names the environment variable holding the passphrase
	// of .age inputs encrypted with scrypt.
	AgePassphraseEnv string `yaml:"age_passphrase_env,omitempty"`

	// TempoFactor scales all tempos; 0 means 1.
	TempoFactor float64 `yaml:"tempo_factor,omitempty"`

	// Config overrides the global config for this song.
	Config *Config `yaml:"config,omitempty"`
}

// Effective returns the config to use for a song: the defaults, overridden
// by config, overridden by the song's own settings.
func Effective(config *Config, options *Options) Config {
	c := DefaultConfig()
	if config != nil {
		c = Merge(c, *config)
	}
	if options != nil && options.Config != nil {
		c = Merge(c, *options.Config)
	}
	return c
}

// Validate checks the parts of a config MIDI can not represent.
func (c *Config) Validate() error {
	if c.TicksPerQuarter <= 0 || c.TicksPerQuarter > 0x7FFF {
		return fmt.Errorf("ticks_per_quarter must be in 1..32767, got %d", c.TicksPerQuarter)
	}
	if c.Tempo <= 0 {
		return fmt.Errorf("tempo must be positive, got %v", c.Tempo)
	}
	if c.Channel > 15 || c.HarmonyChannel > 15 {
		return fmt.Errorf("MIDI channels must be in 0..15, got %d and %d", c.Channel, c.HarmonyChannel)
	}
	if c.Velocity > 127 || c.HarmonyVelocity > 127 || c.UnpitchedKey > 127 {
		return fmt.Errorf("velocities and keys must be in 0..127")
	}
	return nil
}

// Special names the outputs that are not per part.
type Special int

const (
	All Special = iota
	Panic
	PartOnly
)

// OutputKey identifies one output file of a song.
type OutputKey struct {
	Special Special

	// Part is the part name, for PartOnly.
	Part string
}

func (k OutputKey) String() string {
	switch k.Special {
	case All:
		return "all"
	case Panic:
		return "panic"
	default:
		return "part." + k.Part
	}
}
