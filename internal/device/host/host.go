// Package host picks the native device backends by name.
package host

import (
	"fmt"

	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/device/robot"
	"github.com/jeeftor/automaton/internal/device/shot"
)

// Open returns the host devices. backend selects screen capture: "robotgo"
// or "screenshot"; pointer and events always go through robotgo and gohook.
func Open(backend string) (device.Devices, error) {
	d := device.Devices{
		Pointer: robot.NewPointer(),
		Events:  robot.NewEvents(),
	}
	switch backend {
	case "", "robotgo":
		d.Screen = robot.NewScreen()
	case "screenshot":
		d.Screen = shot.NewScreen()
	default:
		return device.Devices{}, fmt.Errorf("unknown screen backend %q", backend)
	}
	return d, nil
}
