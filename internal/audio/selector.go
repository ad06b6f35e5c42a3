package audio

import (
	"fmt"
	"strconv"
)

// Resolve finds the device a command-line selector refers to. A selector
// that parses as a number is looked up by id only; anything else is matched
// against device names. The returned error matches ErrSelectorNotFound.
func (r *Registry) Resolve(selector string) (Device, error) {
	if n, err := strconv.ParseUint(selector, 10, 32); err == nil {
		if d, ok := r.FindByID(DeviceID(n)); ok {
			return d, nil
		}
		return Device{}, fmt.Errorf("%w: id %d", ErrSelectorNotFound, n)
	}

	if d, ok := r.FindByName(selector); ok {
		return d, nil
	}
	return Device{}, fmt.Errorf("%w: name %q", ErrSelectorNotFound, selector)
}
