package colflow

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config configures one Dataflow: how many worker slots to shard the
// dataset across, an optional row-count ceiling, and a static scale
// factor applied on top of the dataset's own normalization (§5
// supplemented features: normalize()/scale()).
type Config struct {
	// Concurrency is the requested slot count. Values <= 0 default to 1.
	Concurrency int `yaml:"concurrency"`
	// RowLimit truncates the dataset's partition to at most this many
	// rows before it is merged down to Concurrency slots. Negative means
	// no limit.
	RowLimit int64 `yaml:"row_limit"`
	// Scale is a static multiplier combined with the dataset's
	// Normalize() into each slot's process.Processor.Weight. Selection
	// weights start at 1.0 at the root and do not include that product.
	Scale float64 `yaml:"scale"`
}

// defaulted returns a copy of cfg with zero-value fields set to their
// defaults.
func (cfg Config) defaulted() Config {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Scale == 0 {
		cfg.Scale = 1.0
	}
	if cfg.RowLimit == 0 {
		cfg.RowLimit = -1
	}
	return cfg
}

// LoadConfig reads a Config from a YAML file, the way the teacher's
// integrators externally configure an Engine.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %q", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %q", path)
	}
	cfg = cfg.defaulted()
	return &cfg, nil
}
