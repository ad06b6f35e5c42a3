// Package audiotest provides a scriptable in-memory audio.Platform.
package audiotest

import (
	"fmt"

	"audiyo/internal/audio"
)

// Device describes one device the fake platform enumerates.
type Device struct {
	ID      audio.DeviceID
	Name    string
	Inputs  int // stream buffers in the input scope
	Outputs int // stream buffers in the output scope

	NameErr       error // returned by DeviceName when set
	StreamConfErr error // returned by StreamBufferCount when set
}

// Assignment records one SetDefaultDevice call.
type Assignment struct {
	Role audio.Role
	ID   audio.DeviceID
}

// Platform implements audio.Platform over fixed data. Zero value is an
// empty host with no defaults.
type Platform struct {
	Devices  []Device
	Defaults map[audio.Role]audio.DeviceID

	EnumerateErr error                    // returned by DeviceIDs when set
	DefaultErr   map[audio.Role]error     // returned by DefaultDevice per role
	SetErr       error                    // returned by SetDefaultDevice when set
	Reject       map[audio.DeviceID]error // SetDefaultDevice error per device

	Assignments []Assignment // successful SetDefaultDevice calls, in order
	Closed      bool
}

var _ audio.Platform = (*Platform)(nil)

func (p *Platform) find(id audio.DeviceID) (Device, error) {
	for _, d := range p.Devices {
		if d.ID == id {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("%w: device %d", audio.ErrPropertyUnsupported, id)
}

func (p *Platform) DeviceIDs() ([]audio.DeviceID, error) {
	if p.EnumerateErr != nil {
		return nil, p.EnumerateErr
	}

	ids := make([]audio.DeviceID, len(p.Devices))
	for i, d := range p.Devices {
		ids[i] = d.ID
	}
	return ids, nil
}

func (p *Platform) DeviceName(id audio.DeviceID) (string, error) {
	d, err := p.find(id)
	if err != nil {
		return "", err
	}
	if d.NameErr != nil {
		return "", d.NameErr
	}
	return d.Name, nil
}

func (p *Platform) StreamBufferCount(id audio.DeviceID, scope audio.Scope) (int, error) {
	d, err := p.find(id)
	if err != nil {
		return 0, err
	}
	if d.StreamConfErr != nil {
		return 0, d.StreamConfErr
	}

	switch scope {
	case audio.ScopeInput:
		return d.Inputs, nil
	case audio.ScopeOutput:
		return d.Outputs, nil
	default:
		return d.Inputs + d.Outputs, nil
	}
}

func (p *Platform) DefaultDevice(role audio.Role) (audio.DeviceID, error) {
	if err := p.DefaultErr[role]; err != nil {
		return 0, err
	}
	id, ok := p.Defaults[role]
	if !ok {
		return 0, fmt.Errorf("%w: no default %s device", audio.ErrPropertyUnsupported, role)
	}
	return id, nil
}

func (p *Platform) SetDefaultDevice(role audio.Role, id audio.DeviceID) error {
	if p.SetErr != nil {
		return p.SetErr
	}
	if err := p.Reject[id]; err != nil {
		return err
	}
	if _, err := p.find(id); err != nil {
		return fmt.Errorf("bad object %d", id)
	}

	if p.Defaults == nil {
		p.Defaults = map[audio.Role]audio.DeviceID{}
	}
	p.Defaults[role] = id
	p.Assignments = append(p.Assignments, Assignment{Role: role, ID: id})
	return nil
}

func (p *Platform) Close() error {
	p.Closed = true
	return nil
}

// Scenario returns the three-device host used throughout the tests: a
// built-in microphone (1), built-in speakers (2, default output) and a USB
// headset (3) that does both.
func Scenario() *Platform {
	return &Platform{
		Devices: []Device{
			{ID: 1, Name: "Built-in Mic", Inputs: 1},
			{ID: 2, Name: "Built-in Speakers", Outputs: 1},
			{ID: 3, Name: "USB Headset", Inputs: 1, Outputs: 2},
		},
		Defaults: map[audio.Role]audio.DeviceID{
			audio.RoleOutput: 2,
		},
	}
}
