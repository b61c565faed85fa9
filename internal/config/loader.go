package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidConfig indicates the config file is not valid JSON.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix is the prefix of environment variables that override file
// values, e.g. KEYBURST_BASE_PROBABILITY=0.5.
const EnvPrefix = "KEYBURST_"

// Load reads a JSON config file, fills missing fields from Default, and
// applies KEYBURST_* environment overrides on top. A missing file is not an
// error; defaults plus environment are returned.
func Load(path string) (Intensity, error) {
	cur := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env
		case err != nil:
			return cur, fmt.Errorf("read config: %w", err)
		default:
			cur, err = parse(data, cur)
			if err != nil {
				return cur, err
			}
		}
	}

	return applyEnv(cur, os.Getenv), nil
}

// parse overlays JSON values onto base.
func parse(data []byte, base Intensity) (Intensity, error) {
	if !gjson.ValidBytes(data) {
		return base, fmt.Errorf("%w: not valid JSON", ErrInvalidConfig)
	}

	out := base
	root := gjson.ParseBytes(data)

	if v := root.Get("base_probability"); v.Exists() {
		out.BaseProbability = v.Float()
	}
	if v := root.Get("combo.threshold"); v.Exists() {
		out.ComboThreshold = int(v.Int())
	}
	if v := root.Get("combo.timeout_seconds"); v.Exists() {
		out.ComboTimeout = time.Duration(v.Float() * float64(time.Second))
	}
	if v := root.Get("selection.refire_chars"); v.Exists() {
		out.SelectionRefire = int(v.Int())
	}
	if v := root.Get("selection.sparkle_cap"); v.Exists() {
		out.SparkleCap = int(v.Int())
	}
	if v := root.Get("demo"); v.Exists() {
		out.Demo = v.Bool()
	}

	flags := map[string]*bool{
		"effects.trail":      &out.EnableTrail,
		"effects.afterimage": &out.EnableAfterimage,
		"effects.particles":  &out.EnableParticles,
		"effects.shake":      &out.EnableShake,
		"effects.glyphs":     &out.EnableGlyphs,
		"effects.rings":      &out.EnableRings,
		"effects.glow":       &out.EnableGlow,
		"effects.sound":      &out.EnableSound,
	}
	for path, dst := range flags {
		if v := root.Get(path); v.Exists() {
			*dst = v.Bool()
		}
	}

	return out.normalize(), nil
}

// applyEnv overlays environment variables onto base. getenv is injected for
// testability.
func applyEnv(base Intensity, getenv func(string) string) Intensity {
	out := base

	if v := getenv(EnvPrefix + "BASE_PROBABILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out.BaseProbability = f
		}
	}
	if v := getenv(EnvPrefix + "COMBO_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.ComboThreshold = n
		}
	}
	if v := getenv(EnvPrefix + "COMBO_TIMEOUT_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out.ComboTimeout = time.Duration(f * float64(time.Second))
		}
	}
	if v := getenv(EnvPrefix + "DEMO"); v != "" {
		out.Demo = parseBool(v, out.Demo)
	}
	if v := getenv(EnvPrefix + "SOUND"); v != "" {
		out.EnableSound = parseBool(v, out.EnableSound)
	}

	return out.normalize()
}

func parseBool(v string, fallback bool) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// Save writes the intensity as a JSON config file readable by Load.
func Save(path string, i Intensity) error {
	data := []byte("{}")
	var err error

	set := func(key string, value any) {
		if err != nil {
			return
		}
		data, err = sjson.SetBytes(data, key, value)
	}

	set("base_probability", i.BaseProbability)
	set("combo.threshold", i.ComboThreshold)
	set("combo.timeout_seconds", i.ComboTimeout.Seconds())
	set("selection.refire_chars", i.SelectionRefire)
	set("selection.sparkle_cap", i.SparkleCap)
	set("demo", i.Demo)
	set("effects.trail", i.EnableTrail)
	set("effects.afterimage", i.EnableAfterimage)
	set("effects.particles", i.EnableParticles)
	set("effects.shake", i.EnableShake)
	set("effects.glyphs", i.EnableGlyphs)
	set("effects.rings", i.EnableRings)
	set("effects.glow", i.EnableGlow)
	set("effects.sound", i.EnableSound)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
