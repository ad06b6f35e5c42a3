package audio

// Scope selects which side of a device a property is read from.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeInput
	ScopeOutput
)

func (s Scope) String() string {
	switch s {
	case ScopeInput:
		return "input"
	case ScopeOutput:
		return "output"
	default:
		return "global"
	}
}

// Platform is the query surface of a host audio subsystem. Every call blocks
// until the OS answers; implementations are not expected to be safe for
// concurrent use.
//
// Missing properties are reported with an error matching
// ErrPropertyUnsupported so callers can tell them apart from transport
// failures when they care to.
type Platform interface {
	// DeviceIDs lists the handles of every present device in enumeration order.
	DeviceIDs() ([]DeviceID, error)

	// DeviceName returns the human-readable name of a device.
	DeviceName(id DeviceID) (string, error)

	// StreamBufferCount returns how many stream buffers the device exposes in
	// the given scope. Zero means the device cannot serve that scope.
	StreamBufferCount(id DeviceID, scope Scope) (int, error)

	// DefaultDevice returns the device currently bound to a role.
	DefaultDevice(role Role) (DeviceID, error)

	// SetDefaultDevice binds a role to a device.
	SetDefaultDevice(role Role, id DeviceID) error

	// Close releases whatever the backend holds open.
	Close() error
}
