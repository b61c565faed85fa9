package config

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ApplyScript runs a Lua tuning script against the intensity and returns the
// adjusted copy. The script sees a global `intensity` table seeded with the
// current values and may reassign any of its fields:
//
//	intensity.base_probability = 0.6
//	intensity.combo_threshold = 15
//	intensity.shake = false
//
// Unknown fields are ignored.
func ApplyScript(i Intensity, src string) (Intensity, error) {
	L := lua.NewState()
	defer L.Close()

	tbl := L.NewTable()
	L.SetField(tbl, "base_probability", lua.LNumber(i.BaseProbability))
	L.SetField(tbl, "combo_threshold", lua.LNumber(i.ComboThreshold))
	L.SetField(tbl, "combo_timeout_seconds", lua.LNumber(i.ComboTimeout.Seconds()))
	L.SetField(tbl, "selection_refire", lua.LNumber(i.SelectionRefire))
	L.SetField(tbl, "sparkle_cap", lua.LNumber(i.SparkleCap))
	L.SetField(tbl, "demo", lua.LBool(i.Demo))
	L.SetField(tbl, "trail", lua.LBool(i.EnableTrail))
	L.SetField(tbl, "afterimage", lua.LBool(i.EnableAfterimage))
	L.SetField(tbl, "particles", lua.LBool(i.EnableParticles))
	L.SetField(tbl, "shake", lua.LBool(i.EnableShake))
	L.SetField(tbl, "glyphs", lua.LBool(i.EnableGlyphs))
	L.SetField(tbl, "rings", lua.LBool(i.EnableRings))
	L.SetField(tbl, "glow", lua.LBool(i.EnableGlow))
	L.SetField(tbl, "sound", lua.LBool(i.EnableSound))
	L.SetGlobal("intensity", tbl)

	if err := L.DoString(src); err != nil {
		return i, fmt.Errorf("intensity script: %w", err)
	}

	out := i
	readNumber(L, tbl, "base_probability", func(f float64) { out.BaseProbability = f })
	readNumber(L, tbl, "combo_threshold", func(f float64) { out.ComboThreshold = int(f) })
	readNumber(L, tbl, "combo_timeout_seconds", func(f float64) {
		out.ComboTimeout = time.Duration(f * float64(time.Second))
	})
	readNumber(L, tbl, "selection_refire", func(f float64) { out.SelectionRefire = int(f) })
	readNumber(L, tbl, "sparkle_cap", func(f float64) { out.SparkleCap = int(f) })
	readBool(L, tbl, "demo", &out.Demo)
	readBool(L, tbl, "trail", &out.EnableTrail)
	readBool(L, tbl, "afterimage", &out.EnableAfterimage)
	readBool(L, tbl, "particles", &out.EnableParticles)
	readBool(L, tbl, "shake", &out.EnableShake)
	readBool(L, tbl, "glyphs", &out.EnableGlyphs)
	readBool(L, tbl, "rings", &out.EnableRings)
	readBool(L, tbl, "glow", &out.EnableGlow)
	readBool(L, tbl, "sound", &out.EnableSound)

	return out.normalize(), nil
}

func readNumber(L *lua.LState, tbl *lua.LTable, field string, set func(float64)) {
	if v, ok := L.GetField(tbl, field).(lua.LNumber); ok {
		set(float64(v))
	}
}

func readBool(L *lua.LState, tbl *lua.LTable, field string, dst *bool) {
	if v, ok := L.GetField(tbl, field).(lua.LBool); ok {
		*dst = bool(v)
	}
}
