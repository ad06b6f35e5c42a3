// SPDX-License-Identifier: MIT

//go:build darwin

package audio

/*
#cgo LDFLAGS: -framework CoreAudio -framework CoreFoundation
#include <stdlib.h>
#include <CoreAudio/CoreAudio.h>
#include <CoreFoundation/CoreFoundation.h>

// kAudioObjectPropertyElementMain only exists from macOS 12 on.
#define AUDIYO_ELEMENT_MAIN 0

static AudioObjectPropertyAddress audiyo_address(AudioObjectPropertySelector selector, AudioObjectPropertyScope scope) {
	AudioObjectPropertyAddress addr = { selector, scope, AUDIYO_ELEMENT_MAIN };
	return addr;
}

static UInt32 audiyo_buffer_count(void *data) {
	return ((AudioBufferList *)data)->mNumberBuffers;
}

static char *audiyo_cfstring(CFStringRef str) {
	if (str == NULL) {
		return NULL;
	}
	CFIndex size = CFStringGetMaximumSizeForEncoding(CFStringGetLength(str), kCFStringEncodingUTF8) + 1;
	char *buf = malloc(size);
	if (buf == NULL) {
		return NULL;
	}
	if (!CFStringGetCString(str, buf, size, kCFStringEncodingUTF8)) {
		free(buf);
		return NULL;
	}
	return buf;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

const coreAudioSystemObject = C.AudioObjectID(C.kAudioObjectSystemObject)

var coreAudioRoleSelectors = map[Role]C.AudioObjectPropertySelector{
	RoleInput:        C.kAudioHardwarePropertyDefaultInputDevice,
	RoleOutput:       C.kAudioHardwarePropertyDefaultOutputDevice,
	RoleSystemOutput: C.kAudioHardwarePropertyDefaultSystemOutputDevice,
}

var coreAudioScopes = map[Scope]C.AudioObjectPropertyScope{
	ScopeGlobal: C.kAudioObjectPropertyScopeGlobal,
	ScopeInput:  C.kAudioDevicePropertyScopeInput,
	ScopeOutput: C.kAudioDevicePropertyScopeOutput,
}

// coreAudioPlatform reads and writes the CoreAudio HAL's property store.
// Every read follows the same steps: check the object has the property,
// probe its size, then fetch it into a buffer of that size.
type coreAudioPlatform struct {
	logger *zap.SugaredLogger
}

func newCoreAudioPlatform(logger *zap.SugaredLogger) (*coreAudioPlatform, error) {
	p := &coreAudioPlatform{logger: logger.Named("coreaudio")}
	p.logger.Debug("Created CoreAudio platform instance")

	return p, nil
}

func openCoreAudio(logger *zap.SugaredLogger) (Platform, error) {
	return newCoreAudioPlatform(logger)
}

// property fetches a property into C memory the caller must free.
func (p *coreAudioPlatform) property(object C.AudioObjectID, addr C.AudioObjectPropertyAddress) (unsafe.Pointer, C.UInt32, error) {
	if C.AudioObjectHasProperty(object, &addr) == 0 {
		return nil, 0, fmt.Errorf("%w: object %d has no property %s", ErrPropertyUnsupported, object, fourCC(int32(addr.mSelector)))
	}

	var size C.UInt32
	if status := C.AudioObjectGetPropertyDataSize(object, &addr, 0, nil, &size); status != 0 {
		return nil, 0, &OSStatusError{Op: "get property data size", Status: int32(status)}
	}
	if size == 0 {
		return nil, 0, nil
	}

	data := C.malloc(C.size_t(size))
	if data == nil {
		return nil, 0, fmt.Errorf("allocate %d bytes for property %s", size, fourCC(int32(addr.mSelector)))
	}

	if status := C.AudioObjectGetPropertyData(object, &addr, 0, nil, &size, data); status != 0 {
		C.free(data)
		return nil, 0, &OSStatusError{Op: "get property data", Status: int32(status)}
	}

	return data, size, nil
}

func (p *coreAudioPlatform) DeviceIDs() ([]DeviceID, error) {
	addr := C.audiyo_address(C.kAudioHardwarePropertyDevices, C.kAudioObjectPropertyScopeGlobal)

	data, size, err := p.property(coreAudioSystemObject, addr)
	if err != nil {
		return nil, fmt.Errorf("get device list: %w", err)
	}
	if data == nil {
		return []DeviceID{}, nil
	}
	defer C.free(data)

	count := int(size) / int(unsafe.Sizeof(C.AudioObjectID(0)))
	raw := unsafe.Slice((*C.AudioObjectID)(data), count)

	ids := make([]DeviceID, count)
	for i, id := range raw {
		ids[i] = DeviceID(id)
	}
	return ids, nil
}

func (p *coreAudioPlatform) DeviceName(id DeviceID) (string, error) {
	addr := C.audiyo_address(C.kAudioObjectPropertyName, C.kAudioObjectPropertyScopeGlobal)

	data, _, err := p.property(C.AudioObjectID(id), addr)
	if err != nil {
		return "", fmt.Errorf("get name of device %d: %w", id, err)
	}
	if data == nil {
		return "", fmt.Errorf("%w: device %d has an empty name property", ErrPropertyUnsupported, id)
	}
	defer C.free(data)

	str := *(*C.CFStringRef)(data)
	if str == 0 {
		return "", fmt.Errorf("%w: device %d has no name", ErrPropertyUnsupported, id)
	}
	defer C.CFRelease(C.CFTypeRef(str))

	cstr := C.audiyo_cfstring(str)
	if cstr == nil {
		return "", fmt.Errorf("convert name of device %d to UTF-8", id)
	}
	defer C.free(unsafe.Pointer(cstr))

	return C.GoString(cstr), nil
}

func (p *coreAudioPlatform) StreamBufferCount(id DeviceID, scope Scope) (int, error) {
	addr := C.audiyo_address(C.kAudioDevicePropertyStreamConfiguration, coreAudioScopes[scope])

	data, size, err := p.property(C.AudioObjectID(id), addr)
	if err != nil {
		return 0, fmt.Errorf("get %s stream configuration of device %d: %w", scope, id, err)
	}
	if data == nil || uintptr(size) < unsafe.Sizeof(C.UInt32(0)) {
		if data != nil {
			C.free(data)
		}
		return 0, nil
	}
	defer C.free(data)

	return int(C.audiyo_buffer_count(data)), nil
}

func (p *coreAudioPlatform) DefaultDevice(role Role) (DeviceID, error) {
	selector, ok := coreAudioRoleSelectors[role]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	addr := C.audiyo_address(selector, C.kAudioObjectPropertyScopeGlobal)

	data, size, err := p.property(coreAudioSystemObject, addr)
	if err != nil {
		return 0, fmt.Errorf("get default %s device: %w", role, err)
	}
	if data == nil {
		return 0, fmt.Errorf("%w: empty default %s device property", ErrPropertyUnsupported, role)
	}
	defer C.free(data)

	if uintptr(size) < unsafe.Sizeof(C.AudioDeviceID(0)) {
		return 0, fmt.Errorf("%w: short default %s device property", ErrPropertyUnsupported, role)
	}

	id := *(*C.AudioDeviceID)(data)
	if id == C.kAudioObjectUnknown {
		return 0, fmt.Errorf("%w: no default %s device", ErrPropertyUnsupported, role)
	}
	return DeviceID(id), nil
}

func (p *coreAudioPlatform) SetDefaultDevice(role Role, id DeviceID) error {
	selector, ok := coreAudioRoleSelectors[role]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	addr := C.audiyo_address(selector, C.kAudioObjectPropertyScopeGlobal)

	if C.AudioObjectHasProperty(coreAudioSystemObject, &addr) == 0 {
		return fmt.Errorf("%w: %s", ErrRoleUnsupported, role)
	}

	value := (*C.AudioDeviceID)(C.malloc(C.size_t(unsafe.Sizeof(C.AudioDeviceID(0)))))
	defer C.free(unsafe.Pointer(value))
	*value = C.AudioDeviceID(id)

	status := C.AudioObjectSetPropertyData(coreAudioSystemObject, &addr, 0, nil,
		C.UInt32(unsafe.Sizeof(*value)), unsafe.Pointer(value))
	if status != 0 {
		p.logger.Warnw("Failed to set default device", "role", role, "id", id, "status", fourCC(int32(status)))
		return &OSStatusError{Op: fmt.Sprintf("set default %s device", role), Status: int32(status)}
	}

	p.logger.Debugw("Set default device", "role", role, "id", id)
	return nil
}

func (p *coreAudioPlatform) Close() error {
	return nil
}
