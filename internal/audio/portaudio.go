package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// PortAudio entry points, swapped out in tests.
var (
	paLibInitialize              = portaudio.Initialize
	paLibTerminate               = portaudio.Terminate
	paLibDevicesFunc             = portaudio.Devices
	paLibDefaultInputDeviceFunc  = portaudio.DefaultInputDevice
	paLibDefaultOutputDeviceFunc = portaudio.DefaultOutputDevice
)

// portaudioPlatform is a read-only Platform for hosts without a native
// backend. Ids are PortAudio device indexes and the channel counts stand in
// for stream buffer counts. PortAudio cannot change the system defaults.
type portaudioPlatform struct {
	logger  *zap.SugaredLogger
	devices []*portaudio.DeviceInfo
}

func newPortAudioPlatform(logger *zap.SugaredLogger) (*portaudioPlatform, error) {
	logger = logger.Named("portaudio")

	if err := Initialize(); err != nil {
		logger.Warnw("Failed to initialize PortAudio", "error", err)
		return nil, err
	}

	p := &portaudioPlatform{logger: logger}
	logger.Debug("Created PortAudio platform instance")

	return p, nil
}

// Initialize sets up the PortAudio subsystem.
// This must be called before any audio operations and paired with a Terminate() call.
func Initialize() error {
	if err := paLibInitialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate cleanly shuts down the PortAudio subsystem.
func Terminate() error {
	if err := paLibTerminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// paDevices returns all available PortAudio devices, never a nil slice on success.
func paDevices() ([]*portaudio.DeviceInfo, error) {
	devices, err := paLibDevicesFunc()
	if err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []*portaudio.DeviceInfo{}
	}
	return devices, nil
}

func (p *portaudioPlatform) DeviceIDs() ([]DeviceID, error) {
	devices, err := paDevices()
	if err != nil {
		return nil, fmt.Errorf("list PortAudio devices: %w", err)
	}
	p.devices = devices

	ids := make([]DeviceID, 0, len(devices))
	for i, info := range devices {
		if info == nil {
			continue
		}
		ids = append(ids, DeviceID(i))
	}
	return ids, nil
}

func (p *portaudioPlatform) info(id DeviceID) (*portaudio.DeviceInfo, error) {
	if int(id) >= len(p.devices) || p.devices[id] == nil {
		return nil, fmt.Errorf("%w: no PortAudio device %d", ErrPropertyUnsupported, id)
	}
	return p.devices[id], nil
}

func (p *portaudioPlatform) DeviceName(id DeviceID) (string, error) {
	info, err := p.info(id)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (p *portaudioPlatform) StreamBufferCount(id DeviceID, scope Scope) (int, error) {
	info, err := p.info(id)
	if err != nil {
		return 0, err
	}

	switch scope {
	case ScopeInput:
		return info.MaxInputChannels, nil
	case ScopeOutput:
		return info.MaxOutputChannels, nil
	default:
		return info.MaxInputChannels + info.MaxOutputChannels, nil
	}
}

func (p *portaudioPlatform) DefaultDevice(role Role) (DeviceID, error) {
	var (
		info *portaudio.DeviceInfo
		err  error
	)

	switch role {
	case RoleInput:
		info, err = paLibDefaultInputDeviceFunc()
	case RoleOutput:
		info, err = paLibDefaultOutputDeviceFunc()
	default:
		return 0, fmt.Errorf("%w: PortAudio has no %s default", ErrPropertyUnsupported, role)
	}
	if err != nil {
		return 0, fmt.Errorf("get default %s device: %w", role, err)
	}
	if info == nil {
		return 0, fmt.Errorf("%w: no default %s device", ErrPropertyUnsupported, role)
	}

	if info.Index < 0 || info.Index >= len(p.devices) || p.devices[info.Index] == nil {
		return 0, fmt.Errorf("%w: default %s device %q (index %d) is not enumerated", ErrPropertyUnsupported, role, info.Name, info.Index)
	}
	return DeviceID(info.Index), nil
}

func (p *portaudioPlatform) SetDefaultDevice(role Role, id DeviceID) error {
	return fmt.Errorf("%w: PortAudio cannot change the default %s device", ErrReadOnly, role)
}

func (p *portaudioPlatform) Close() error {
	if err := Terminate(); err != nil {
		p.logger.Warnw("Failed to terminate PortAudio", "error", err)
		return err
	}

	p.logger.Debug("Released PortAudio platform instance")
	return nil
}
