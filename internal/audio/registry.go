// SPDX-License-Identifier: MIT
//
// Package audio models the host's audio devices and the system-wide default
// device for each role, on top of a backend-specific Platform.
package audio

import (
	"fmt"

	"go.uber.org/zap"
)

// Registry is a snapshot of the host's audio devices and of the devices
// bound to each role. It is built once from a live platform query and never
// refreshed; only AssignRole changes it, and only the binding it targets.
//
// A Registry is meant to be driven by a single command invocation and does
// no locking.
type Registry struct {
	platform Platform
	logger   *zap.SugaredLogger

	devices  []Device
	defaults map[Role]Device // a missing key means the role is unset
}

// NewRegistry queries the platform and builds the snapshot.
//
// Devices whose name or stream configuration cannot be read are left out.
// Roles whose default cannot be read, or whose default is not one of the
// enumerated devices, are left unset. Only a failure to list devices at all
// is returned, as an error matching ErrEnumeration; callers are expected to
// fall back to EmptyRegistry.
func NewRegistry(p Platform, logger *zap.SugaredLogger) (*Registry, error) {
	r := EmptyRegistry(p, logger)

	ids, err := p.DeviceIDs()
	if err != nil {
		r.logger.Warnw("Failed to enumerate audio devices", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrEnumeration, err)
	}

	for _, id := range ids {
		device, err := r.queryDevice(id)
		if err != nil {
			r.logger.Debugw("Skipping device", "id", id, "error", err)
			continue
		}
		r.devices = append(r.devices, device)
	}

	for _, role := range Roles {
		id, err := p.DefaultDevice(role)
		if err != nil {
			r.logger.Debugw("No default device for role", "role", role, "error", err)
			continue
		}
		device, ok := r.FindByID(id)
		if !ok {
			r.logger.Debugw("Default device is not enumerated, leaving role unset", "role", role, "id", id)
			continue
		}
		r.defaults[role] = device
	}

	r.logger.Debugw("Built device registry", "devices", len(r.devices), "roles", len(r.defaults))

	return r, nil
}

// EmptyRegistry returns a registry with no devices and no role bindings. It
// is what a command works with when the platform could not be enumerated.
func EmptyRegistry(p Platform, logger *zap.SugaredLogger) *Registry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Registry{
		platform: p,
		logger:   logger.Named("registry"),
		defaults: make(map[Role]Device, len(Roles)),
	}
}

func (r *Registry) queryDevice(id DeviceID) (Device, error) {
	name, err := r.platform.DeviceName(id)
	if err != nil {
		return Device{}, fmt.Errorf("get device name: %w", err)
	}

	inputs, err := r.platform.StreamBufferCount(id, ScopeInput)
	if err != nil {
		return Device{}, fmt.Errorf("get input stream configuration: %w", err)
	}

	outputs, err := r.platform.StreamBufferCount(id, ScopeOutput)
	if err != nil {
		return Device{}, fmt.Errorf("get output stream configuration: %w", err)
	}

	return Device{
		ID:     id,
		Name:   name,
		Input:  inputs > 0,
		Output: outputs > 0,
	}, nil
}

// AllDevices returns every device in enumeration order.
func (r *Registry) AllDevices() []Device {
	return append([]Device(nil), r.devices...)
}

// InputDevices returns the input-capable devices in enumeration order.
func (r *Registry) InputDevices() []Device {
	return r.filter(func(d Device) bool { return d.Input })
}

// OutputDevices returns the output-capable devices in enumeration order.
func (r *Registry) OutputDevices() []Device {
	return r.filter(func(d Device) bool { return d.Output })
}

func (r *Registry) filter(keep func(Device) bool) []Device {
	var devices []Device
	for _, d := range r.devices {
		if keep(d) {
			devices = append(devices, d)
		}
	}
	return devices
}

// CurrentDevice returns the device bound to role, if any.
func (r *Registry) CurrentDevice(role Role) (Device, bool) {
	device, ok := r.defaults[role]
	return device, ok
}

// FindByID returns the device with exactly this id.
func (r *Registry) FindByID(id DeviceID) (Device, bool) {
	for _, d := range r.devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// FindByName returns the first device, in enumeration order, whose name is
// exactly name. Devices sharing a name with an earlier one can only be
// reached by id.
func (r *Registry) FindByName(name string) (Device, bool) {
	for _, d := range r.devices {
		if d.Name == name {
			return d, true
		}
	}
	return Device{}, false
}

// RolesOf lists the roles currently bound to the device with this id.
func (r *Registry) RolesOf(id DeviceID) []Role {
	var roles []Role
	for _, role := range Roles {
		if bound, ok := r.defaults[role]; ok && bound.ID == id {
			roles = append(roles, role)
		}
	}
	return roles
}

// AssignRole asks the platform to make device the default for role. The
// snapshot is only updated once the platform has accepted the change; on
// failure the returned error matches ErrRoleAssignment and nothing changes.
//
// The device's capabilities are not checked against the role, the platform
// decides what it accepts. Nor is the device checked against the snapshot:
// bindings only point at enumerated devices right after construction, and a
// device the platform accepts here is bound even if NewRegistry skipped it.
func (r *Registry) AssignRole(role Role, device Device) error {
	if r.platform == nil {
		return fmt.Errorf("%w: no audio backend", ErrRoleAssignment)
	}

	if err := r.platform.SetDefaultDevice(role, device.ID); err != nil {
		r.logger.Warnw("Failed to assign device to role",
			"role", role,
			"id", device.ID,
			"name", device.Name,
			"error", err)

		return fmt.Errorf("%w: set %s device to %d: %w", ErrRoleAssignment, role, device.ID, err)
	}

	r.defaults[role] = device
	r.logger.Debugw("Assigned device to role", "role", role, "id", device.ID, "name", device.Name)

	return nil
}
