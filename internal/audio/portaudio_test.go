package audio

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// stubPortAudio replaces the PortAudio entry points for the duration of a test.
func stubPortAudio(t *testing.T, devices []*portaudio.DeviceInfo, in, out *portaudio.DeviceInfo) {
	t.Helper()

	origInit, origTerm := paLibInitialize, paLibTerminate
	origDevices := paLibDevicesFunc
	origIn, origOut := paLibDefaultInputDeviceFunc, paLibDefaultOutputDeviceFunc
	t.Cleanup(func() {
		paLibInitialize, paLibTerminate = origInit, origTerm
		paLibDevicesFunc = origDevices
		paLibDefaultInputDeviceFunc, paLibDefaultOutputDeviceFunc = origIn, origOut
	})

	paLibInitialize = func() error { return nil }
	paLibTerminate = func() error { return nil }
	paLibDevicesFunc = func() ([]*portaudio.DeviceInfo, error) { return devices, nil }
	paLibDefaultInputDeviceFunc = func() (*portaudio.DeviceInfo, error) {
		if in == nil {
			return nil, errors.New("Device unavailable")
		}
		return in, nil
	}
	paLibDefaultOutputDeviceFunc = func() (*portaudio.DeviceInfo, error) { return out, nil }
}

func newTestPortAudio(t *testing.T) *portaudioPlatform {
	t.Helper()
	p, err := newPortAudioPlatform(zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("newPortAudioPlatform error: %v", err)
	}
	return p
}

func TestPortAudioPlatform(t *testing.T) {
	mic := &portaudio.DeviceInfo{Index: 0, Name: "Built-in Microphone", MaxInputChannels: 2}
	speakers := &portaudio.DeviceInfo{Index: 1, Name: "Built-in Output", MaxOutputChannels: 2}
	stubPortAudio(t, []*portaudio.DeviceInfo{mic, speakers}, mic, speakers)

	p := newTestPortAudio(t)
	ids, err := p.DeviceIDs()
	if err != nil {
		t.Fatalf("DeviceIDs error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Fatalf("DeviceIDs = %v, want [0 1]", ids)
	}

	tests := []struct {
		id      DeviceID
		name    string
		inputs  int
		outputs int
	}{
		{0, "Built-in Microphone", 2, 0},
		{1, "Built-in Output", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := p.DeviceName(tt.id)
			if err != nil || name != tt.name {
				t.Errorf("DeviceName(%d) = %q, %v; want %q", tt.id, name, err, tt.name)
			}
			if n, _ := p.StreamBufferCount(tt.id, ScopeInput); n != tt.inputs {
				t.Errorf("input buffers = %d, want %d", n, tt.inputs)
			}
			if n, _ := p.StreamBufferCount(tt.id, ScopeOutput); n != tt.outputs {
				t.Errorf("output buffers = %d, want %d", n, tt.outputs)
			}
		})
	}

	if id, err := p.DefaultDevice(RoleInput); err != nil || id != 0 {
		t.Errorf("DefaultDevice(input) = %d, %v; want 0", id, err)
	}
	if id, err := p.DefaultDevice(RoleOutput); err != nil || id != 1 {
		t.Errorf("DefaultDevice(output) = %d, %v; want 1", id, err)
	}
	if _, err := p.DefaultDevice(RoleSystemOutput); !errors.Is(err, ErrPropertyUnsupported) {
		t.Errorf("DefaultDevice(system) error = %v, want ErrPropertyUnsupported", err)
	}
	if err := p.SetDefaultDevice(RoleOutput, 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetDefaultDevice error = %v, want ErrReadOnly", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
}

func TestPortAudioDefaultByIndex(t *testing.T) {
	speakers := &portaudio.DeviceInfo{Index: 1, Name: "Speakers", MaxOutputChannels: 2}
	copyOfSpeakers := *speakers
	stubPortAudio(t, []*portaudio.DeviceInfo{{Index: 0, Name: "Mic", MaxInputChannels: 1}, speakers}, nil, &copyOfSpeakers)

	p := newTestPortAudio(t)
	if _, err := p.DeviceIDs(); err != nil {
		t.Fatalf("DeviceIDs error: %v", err)
	}

	if id, err := p.DefaultDevice(RoleOutput); err != nil || id != 1 {
		t.Errorf("DefaultDevice(output) = %d, %v; want 1", id, err)
	}
	if _, err := p.DefaultDevice(RoleInput); err == nil || !strings.Contains(err.Error(), "Device unavailable") {
		t.Errorf("expected default input error, got %v", err)
	}
}

func TestPortAudioDefaultAmongIdenticalDevices(t *testing.T) {
	devices := []*portaudio.DeviceInfo{
		{Index: 0, Name: "USB Audio", MaxInputChannels: 1},
		{Index: 1, Name: "USB Audio", MaxInputChannels: 1},
	}
	stubPortAudio(t, devices, &portaudio.DeviceInfo{Index: 1, Name: "USB Audio", MaxInputChannels: 1}, nil)

	p := newTestPortAudio(t)
	if _, err := p.DeviceIDs(); err != nil {
		t.Fatalf("DeviceIDs error: %v", err)
	}

	if id, err := p.DefaultDevice(RoleInput); err != nil || id != 1 {
		t.Errorf("DefaultDevice(input) = %d, %v; want 1", id, err)
	}
}

func TestPortAudioDefaultIndexOutOfRange(t *testing.T) {
	devices := []*portaudio.DeviceInfo{{Index: 0, Name: "Speakers", MaxOutputChannels: 2}}

	for _, index := range []int{-1, 1, 7} {
		stubPortAudio(t, devices, nil, &portaudio.DeviceInfo{Index: index, Name: "Gone", MaxOutputChannels: 2})

		p := newTestPortAudio(t)
		if _, err := p.DeviceIDs(); err != nil {
			t.Fatalf("DeviceIDs error: %v", err)
		}
		if _, err := p.DefaultDevice(RoleOutput); !errors.Is(err, ErrPropertyUnsupported) {
			t.Errorf("DefaultDevice(output) with index %d error = %v, want ErrPropertyUnsupported", index, err)
		}
	}
}

func TestPortAudioUnknownDevice(t *testing.T) {
	stubPortAudio(t, nil, nil, nil)

	p := newTestPortAudio(t)
	ids, err := p.DeviceIDs()
	if err != nil || len(ids) != 0 {
		t.Fatalf("DeviceIDs = %v, %v; want empty", ids, err)
	}
	if _, err := p.DeviceName(5); !errors.Is(err, ErrPropertyUnsupported) {
		t.Errorf("DeviceName error = %v, want ErrPropertyUnsupported", err)
	}
	if _, err := p.DefaultDevice(RoleOutput); !errors.Is(err, ErrPropertyUnsupported) {
		t.Errorf("DefaultDevice error = %v, want ErrPropertyUnsupported", err)
	}
}

func TestPortAudioDevicesError(t *testing.T) {
	stubPortAudio(t, nil, nil, nil)
	paLibDevicesFunc = func() ([]*portaudio.DeviceInfo, error) {
		return nil, fmt.Errorf("PortAudio not initialized")
	}

	p := newTestPortAudio(t)
	if _, err := p.DeviceIDs(); err == nil || !strings.Contains(err.Error(), "PortAudio not initialized") {
		t.Errorf("expected 'PortAudio not initialized' error, got %v", err)
	}
}

func TestErrorInitialize(t *testing.T) {
	orig := paLibInitialize
	defer func() { paLibInitialize = orig }()

	paLibInitialize = func() error { return nil }
	if err := Initialize(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	paLibInitialize = func() error { return fmt.Errorf("mock init error") }
	if err := Initialize(); err == nil || !strings.Contains(err.Error(), "mock init error") {
		t.Errorf("expected mock init error, got %v", err)
	}
	if _, err := newPortAudioPlatform(zap.NewNop().Sugar()); err == nil {
		t.Error("expected newPortAudioPlatform to fail when PortAudio cannot initialize")
	}
}

func TestErrorTerminate(t *testing.T) {
	orig := paLibTerminate
	defer func() { paLibTerminate = orig }()

	paLibTerminate = func() error { return nil }
	if err := Terminate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	paLibTerminate = func() error { return fmt.Errorf("mock term error") }
	if err := Terminate(); err == nil || !strings.Contains(err.Error(), "mock term error") {
		t.Errorf("expected mock term error, got %v", err)
	}
}

func TestNilDevices(t *testing.T) {
	orig := paLibDevicesFunc
	defer func() { paLibDevicesFunc = orig }()
	paLibDevicesFunc = func() ([]*portaudio.DeviceInfo, error) {
		return nil, nil
	}

	devices, err := paDevices()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if devices == nil {
		t.Errorf("expected empty slice, got nil")
	}
}
