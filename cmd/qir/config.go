package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"qir/internal/layout"
)

const configFileName = "qir.toml"

type config struct {
	Target targetConfig `toml:"target"`
	Emit   emitConfig   `toml:"emit"`
	Trace  traceConfig  `toml:"trace"`
}

type targetConfig struct {
	Triple      string `toml:"triple"`
	PointerSize int    `toml:"pointer_size"`
}

type emitConfig struct {
	Scenarios        []string `toml:"scenarios"`
	InlineAggregates bool     `toml:"inline_aggregates"`
	Parallel         int      `toml:"parallel"`
}

type traceConfig struct {
	Level    string `toml:"level"`
	Output   string `toml:"output"`
	Format   string `toml:"format"`
	Mode     string `toml:"mode"`
	RingSize int    `toml:"ring_size"`
}

func defaultConfig() config {
	t := layout.X86_64LinuxGNU()
	return config{
		Target: targetConfig{Triple: t.Triple, PointerSize: t.PtrSize},
		Emit:   emitConfig{Parallel: 4},
		Trace:  traceConfig{Level: "off", Output: "-", Format: "text", Mode: "stream", RingSize: 4096},
	}
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig decodes path over the defaults. Unknown keys are rejected.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Target.PointerSize != 4 && cfg.Target.PointerSize != 8 {
		return config{}, fmt.Errorf("%s: [target].pointer_size must be 4 or 8, got %d", path, cfg.Target.PointerSize)
	}
	if strings.TrimSpace(cfg.Target.Triple) == "" {
		return config{}, fmt.Errorf("%s: [target].triple must not be empty", path)
	}
	if cfg.Emit.Parallel < 0 {
		return config{}, fmt.Errorf("%s: [emit].parallel must not be negative", path)
	}
	return cfg, nil
}

// resolveConfig loads the explicit file when given, otherwise the nearest
// qir.toml above the working directory, otherwise the defaults.
func resolveConfig(explicit string) (config, string, error) {
	if explicit != "" {
		cfg, err := loadConfig(explicit)
		return cfg, explicit, err
	}
	path, ok, err := findConfig(".")
	if err != nil {
		return config{}, "", err
	}
	if !ok {
		return defaultConfig(), "", nil
	}
	cfg, err := loadConfig(path)
	return cfg, path, err
}

func (t targetConfig) layoutTarget() layout.Target {
	return layout.Target{Triple: t.Triple, PtrSize: t.PointerSize, PtrAlign: t.PointerSize}
}
