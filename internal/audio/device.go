package audio

import (
	"fmt"
	"strings"
)

// DeviceID is the opaque handle the platform assigns to a device. It is only
// meaningful for the current hardware session.
type DeviceID uint32

// Device represents an audio device
type Device struct {
	ID     DeviceID
	Name   string
	Input  bool // at least one buffer in the input scope
	Output bool // at least one buffer in the output scope
}

// Kind describes the device the way listings show it.
func (d Device) Kind() string {
	switch {
	case d.Input && d.Output:
		return "Input/Output"
	case d.Input:
		return "Input"
	case d.Output:
		return "Output"
	default:
		return "None"
	}
}

// Role is one of the default-device slots the system keeps.
type Role int

const (
	RoleInput Role = iota
	RoleOutput
	RoleSystemOutput
)

// Roles lists every role in display order.
var Roles = []Role{RoleInput, RoleOutput, RoleSystemOutput}

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	case RoleSystemOutput:
		return "system"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole maps the textual role names used on the command line to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input":
		return RoleInput, nil
	case "output":
		return RoleOutput, nil
	case "system":
		return RoleSystemOutput, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Capable reports whether the device has streams in the scope the role plays
// into. The system role plays into the output scope.
func (d Device) Capable(role Role) bool {
	if role == RoleInput {
		return d.Input
	}
	return d.Output
}
