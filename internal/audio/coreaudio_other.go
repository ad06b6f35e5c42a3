//go:build !darwin

package audio

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

func openCoreAudio(logger *zap.SugaredLogger) (Platform, error) {
	return nil, fmt.Errorf("%w: coreaudio is not available on %s", ErrUnknownBackend, runtime.GOOS)
}
