// Package config loads settings for the surrounding test harness and CLI
// tooling that sit above the compression tree store. The core (package
// dtree) never reads a config file itself; callers build a dtree.Config
// from a Settings value once at startup.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/bergfi/dtree/hashset"
)

// Settings mirrors the harness's documented flag surface (-s scale, -t
// threads, -i inserts, -T testname, -d dupratio, -c collratio) so that a
// run can be captured to a TOML file and replayed unchanged.
type Settings struct {
	Scale      uint    `toml:"scale"`
	Threads    int     `toml:"threads"`
	Inserts    int     `toml:"inserts"`
	TestName   string  `toml:"test"`
	DupRatio   float64 `toml:"dup_ratio"`
	CollRatio  float64 `toml:"coll_ratio"`
	Variant    string  `toml:"variant"`    // "separate_root" or "single_level"
	Discipline string  `toml:"discipline"` // "quad_linear", "pure_linear", "linear_blocks"
}

// Default returns the harness's baseline settings.
func Default() Settings {
	return Settings{
		Scale:      20,
		Threads:    1,
		Inserts:    1000,
		TestName:   "dtree.sr",
		DupRatio:   0,
		CollRatio:  0,
		Variant:    "separate_root",
		Discipline: "quad_linear",
	}
}

// Load reads settings from a TOML file, starting from Default() so that
// an incomplete file only overrides the fields it mentions.
func Load(path string) (Settings, error) {
	s := Default()
	_, err := toml.DecodeFile(path, &s)
	return s, err
}

// Save writes settings to path in TOML form.
func Save(path string, s Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}

// DisciplineValue resolves the configured probing discipline name to a
// hashset.Discipline, defaulting to QuadLinear on an unrecognized value.
func (s Settings) DisciplineValue() hashset.Discipline {
	switch s.Discipline {
	case "pure_linear":
		return hashset.PureLinear
	case "linear_blocks":
		return hashset.LinearBlocks
	default:
		return hashset.QuadLinear
	}
}
