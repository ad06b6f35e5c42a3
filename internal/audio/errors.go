package audio

import "errors"

// Errors reported by the registry and the platform backends. Check them with
// errors.Is:
//
//	if errors.Is(err, audio.ErrSelectorNotFound) {
//	    // nothing matched the id or name
//	}
var (
	// ErrEnumeration is returned when the platform cannot list its devices at all.
	ErrEnumeration = errors.New("audio: cannot enumerate devices")

	// ErrPropertyUnsupported is returned by backends when a device or the
	// system object lacks a queried property.
	ErrPropertyUnsupported = errors.New("audio: property unsupported")

	// ErrRoleAssignment is returned when the platform rejects a default-device write.
	ErrRoleAssignment = errors.New("audio: role assignment failed")

	// ErrSelectorNotFound is returned when an id or name matches no device.
	ErrSelectorNotFound = errors.New("audio: no such device")

	// ErrUnknownRole is returned when a role name is not input, output or system.
	ErrUnknownRole = errors.New("audio: unknown role")

	// ErrUnknownBackend is returned when a backend name is not recognised.
	ErrUnknownBackend = errors.New("audio: unknown backend")

	// ErrRoleUnsupported is returned when a backend has no notion of a role.
	ErrRoleUnsupported = errors.New("audio: role unsupported by backend")

	// ErrReadOnly is returned by backends that cannot change defaults.
	ErrReadOnly = errors.New("audio: backend is read-only")
)
