package utils

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/setanarut/recolor"
)

// Config is the YAML form of a recolor run.
//
//	input: photo.jpg
//	output: out.jpg
//	quality: 90
//	palette_size: 8
//	replacement_ranks: [1, 2, 3]
//	rgb_factors: [0.2, 0.3, 0.5]
//	iterations: 30
//	seed: 7
//
// Omitted replacement_ranks selects every rank but the largest; an explicit
// empty list selects none. Omitted or all-zero rgb_factors mean gray.
type Config struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Quality int    `yaml:"quality"`
	Swatch  string `yaml:"swatch"`
	// Hex color or palette method name; overrides rgb_factors when set.
	Tint    string `yaml:"tint"`
	Workers int    `yaml:"workers"`

	recolor.ReplacementSpec `yaml:",inline"`
}

// DefaultConfig mirrors recolor.DefaultSpec.
func DefaultConfig() Config {
	return Config{
		Quality:         DefaultSaveOptions().Quality,
		Workers:         1,
		ReplacementSpec: recolor.DefaultSpec(),
	}
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig parses YAML from r and fills unset fields with defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Quality == 0 {
		c.Quality = def.Quality
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	if c.PaletteSize == 0 {
		c.PaletteSize = def.PaletteSize
	}
	if c.Ranks == nil {
		c.Ranks = recolor.DefaultRanks(c.PaletteSize)
	}
	if c.RGBFactors == [3]float64{} {
		c.RGBFactors = recolor.GrayFactors
	}
	if c.Iterations == 0 {
		c.Iterations = def.Iterations
	}
	if c.Seed == 0 {
		c.Seed = def.Seed
	}
}
