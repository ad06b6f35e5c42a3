// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendAuto      = "auto"
	BackendCoreAudio = "coreaudio"
	BackendPulse     = "pulse"
	BackendPortAudio = "portaudio"
)

// Backends lists every name Open accepts.
var Backends = []string{BackendAuto, BackendCoreAudio, BackendPulse, BackendPortAudio}

// OpenOptions carries the backend-specific settings.
type OpenOptions struct {
	// PulseServer is the PulseAudio server address, empty for the library default.
	PulseServer string

	// ApplicationName is how the tool introduces itself to sound servers.
	ApplicationName string
}

// ResolveBackend turns a configured backend name into a concrete one.
func ResolveBackend(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "", BackendAuto:
		switch runtime.GOOS {
		case "darwin":
			return BackendCoreAudio, nil
		case "linux":
			return BackendPulse, nil
		default:
			return BackendPortAudio, nil
		}
	case BackendCoreAudio, BackendPulse, BackendPortAudio:
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Open connects to the named backend.
func Open(name string, opts OpenOptions, logger *zap.SugaredLogger) (Platform, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	backend, err := ResolveBackend(name)
	if err != nil {
		return nil, err
	}

	logger.Debugw("Opening audio backend", "backend", backend)

	switch backend {
	case BackendCoreAudio:
		return openCoreAudio(logger)
	case BackendPulse:
		if opts.ApplicationName == "" {
			opts.ApplicationName = "audiyo"
		}
		return newPulsePlatform(logger, opts.PulseServer, opts.ApplicationName)
	default:
		return newPortAudioPlatform(logger)
	}
}
