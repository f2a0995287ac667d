package recorder

import (
	"fmt"
	"strings"
)

// modifierAliases folds left/right and alternate spellings onto one name
var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"lctrl":   "ctrl",
	"rctrl":   "ctrl",
	"ctrl_l":  "ctrl",
	"ctrl_r":  "ctrl",
	"alt":     "alt",
	"lalt":    "alt",
	"ralt":    "alt",
	"option":  "alt",
	"shift":   "shift",
	"lshift":  "shift",
	"rshift":  "shift",
	"cmd":     "cmd",
	"lcmd":    "cmd",
	"rcmd":    "cmd",
	"command": "cmd",
	"super":   "cmd",
}

func canonicalKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if m, ok := modifierAliases[name]; ok {
		return m
	}
	return name
}

// Hotkey is a modifier chord ending in a trigger key, e.g. "ctrl+f1"
type Hotkey struct {
	Modifiers []string
	Trigger   string
	original  string
}

// ParseHotkey parses "mod+mod+key" (case-insensitive)
func ParseHotkey(raw string) (Hotkey, error) {
	parts := strings.Split(raw, "+")
	if strings.TrimSpace(raw) == "" || len(parts) < 2 {
		return Hotkey{}, fmt.Errorf("hotkey %q must be a modifier chord like ctrl+f1", raw)
	}

	hk := Hotkey{original: raw}
	for i, p := range parts {
		key := canonicalKey(p)
		if key == "" {
			return Hotkey{}, fmt.Errorf("hotkey %q has an empty component", raw)
		}
		if i == len(parts)-1 {
			if _, isMod := modifierAliases[key]; isMod {
				return Hotkey{}, fmt.Errorf("hotkey %q must end in a non-modifier key", raw)
			}
			hk.Trigger = key
			continue
		}
		if _, isMod := modifierAliases[key]; !isMod {
			return Hotkey{}, fmt.Errorf("hotkey %q: %q is not a modifier", raw, p)
		}
		hk.Modifiers = append(hk.Modifiers, key)
	}
	return hk, nil
}

func (h Hotkey) String() string {
	return h.original
}

// chord tracks held keys and reports when the hotkey is struck. Auto-repeat
// of a held trigger does not fire again.
type chord struct {
	hk   Hotkey
	held map[string]bool
}

func newChord(hk Hotkey) *chord {
	return &chord{hk: hk, held: make(map[string]bool)}
}

// update records a key transition and returns true when the chord fires
func (c *chord) update(key string, down bool) bool {
	key = canonicalKey(key)
	if !down {
		delete(c.held, key)
		return false
	}

	repeat := c.held[key]
	c.held[key] = true
	if repeat || key != c.hk.Trigger {
		return false
	}
	for _, m := range c.hk.Modifiers {
		if !c.held[m] {
			return false
		}
	}
	return true
}
