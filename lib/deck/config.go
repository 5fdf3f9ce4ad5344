package deck

import (
	"fmt"

	"gfx.cafe/util/go/gun"

	"gfx.cafe/gfx/deck/lib/util/ring"
)

type Format string

const (
	// FormatText prints values verbatim and failures as "error: <command>: <reason>".
	FormatText Format = "text"
	// FormatJSON prints one object per line.
	FormatJSON Format = "json"
	// FormatLegacy prints failures as the bare word "error", which a stored "error" value
	// cannot be told apart from.
	FormatLegacy Format = "legacy"
)

func (T Format) Valid() bool {
	switch T {
	case FormatText, FormatJSON, FormatLegacy:
		return true
	default:
		return false
	}
}

type Config struct {
	Format   string `env:"DECK_FORMAT"`
	FailFast bool   `env:"DECK_FAIL_FAST"`
	LogLevel string `env:"DECK_LOG_LEVEL"`
	LogDev   bool   `env:"DECK_LOG_DEV"`
	Metrics  bool   `env:"DECK_METRICS"`
	// MaxCapacity bounds the capacity a script may ask for. Zero leaves only the ring's own
	// limit.
	MaxCapacity int `env:"DECK_MAX_CAPACITY"`
}

func defaultConfig() Config {
	return Config{
		Format:      string(FormatText),
		LogLevel:    "warn",
		MaxCapacity: 1 << 20,
	}
}

func (T Config) capacityLimit() int {
	if T.MaxCapacity == 0 {
		return ring.MaxCapacity
	}
	return T.MaxCapacity
}

func Load() (Config, error) {
	conf := defaultConfig()
	gun.Load(&conf)
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (T Config) Validate() error {
	if !Format(T.Format).Valid() {
		return fmt.Errorf("unknown output format %q", T.Format)
	}
	if T.MaxCapacity < 0 || T.MaxCapacity > ring.MaxCapacity {
		return fmt.Errorf("max capacity %d not in [0, %d]", T.MaxCapacity, ring.MaxCapacity)
	}
	return nil
}
