package audio

import "fmt"

// OSStatusError carries a non-zero status returned by a CoreAudio call.
type OSStatusError struct {
	Op     string
	Status int32
}

func (e *OSStatusError) Error() string {
	return fmt.Sprintf("%s: OSStatus %s", e.Op, fourCC(e.Status))
}

// fourCC renders statuses such as kAudioHardwareBadObjectError ('!obj') the
// way the CoreAudio headers spell them, and anything else as a number.
func fourCC(status int32) string {
	b := []byte{byte(uint32(status) >> 24), byte(uint32(status) >> 16), byte(uint32(status) >> 8), byte(status)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%d", status)
		}
	}
	return fmt.Sprintf("'%s'", b)
}
