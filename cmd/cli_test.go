package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"audiyo/internal/audio"
	"audiyo/internal/audio/audiotest"
)

func quietConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audiyo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0644))
	return path
}

func openerFor(p audio.Platform, err error) Opener {
	return func(string, audio.OpenOptions, *zap.SugaredLogger) (audio.Platform, error) {
		return p, err
	}
}

func noPicker(t *testing.T) Picker {
	return func(audio.Role, []audio.Device, audio.Device, bool) (audio.Device, bool, error) {
		t.Fatal("picker should not run")
		return audio.Device{}, false, nil
	}
}

func execute(t *testing.T, opener Opener, picker Picker, args ...string) (string, error) {
	t.Helper()
	if picker == nil {
		picker = noPicker(t)
	}

	var out bytes.Buffer
	args = append([]string{"--config=" + quietConfig(t)}, args...)
	err := run(opener, picker, args, &out)
	return out.String(), err
}

func TestList(t *testing.T) {
	p := audiotest.Scenario()

	out, err := execute(t, openerFor(p, nil), nil, "list")
	require.NoError(t, err)
	assert.Equal(t, "input\t1\tBuilt-in Mic\n"+
		"input\t3\tUSB Headset\n"+
		"output\t2\tBuilt-in Speakers\n"+
		"output\t3\tUSB Headset\n", out)
	assert.True(t, p.Closed)
}

func TestShow(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"root runs show", nil, "output\t2\tBuilt-in Speakers\nsystem\t3\tUSB Headset\n"},
		{"default types", []string{"show"}, "output\t2\tBuilt-in Speakers\nsystem\t3\tUSB Headset\n"},
		{"requested order", []string{"show", "-t", "system,output"}, "system\t3\tUSB Headset\noutput\t2\tBuilt-in Speakers\n"},
		{"unset role prints nothing", []string{"show", "--types", "input"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := audiotest.Scenario()
			p.Defaults[audio.RoleSystemOutput] = 3

			out, err := execute(t, openerFor(p, nil), nil, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestShowUnknownType(t *testing.T) {
	out, err := execute(t, openerFor(audiotest.Scenario(), nil), nil, "show", "-t", "output,headphones")
	assert.ErrorIs(t, err, audio.ErrUnknownRole)
	assert.Empty(t, out)
}

func TestSet(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		want       string
		assignment audiotest.Assignment
	}{
		{"by id", []string{"set", "3"}, "output\t3\tUSB Headset\n", audiotest.Assignment{Role: audio.RoleOutput, ID: 3}},
		{"by name", []string{"set", "-t", "input", "USB Headset"}, "input\t3\tUSB Headset\n", audiotest.Assignment{Role: audio.RoleInput, ID: 3}},
		{"system role", []string{"set", "--type", "system", "2"}, "system\t2\tBuilt-in Speakers\n", audiotest.Assignment{Role: audio.RoleSystemOutput, ID: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := audiotest.Scenario()

			out, err := execute(t, openerFor(p, nil), nil, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, []audiotest.Assignment{tt.assignment}, p.Assignments)
		})
	}
}

func TestSetUnknownDevice(t *testing.T) {
	for _, selector := range []string{"9", "Nope"} {
		p := audiotest.Scenario()

		out, err := execute(t, openerFor(p, nil), nil, "set", selector)
		assert.ErrorIs(t, err, audio.ErrSelectorNotFound)
		assert.Empty(t, out)
		assert.Empty(t, p.Assignments)
	}
}

func TestSetRejected(t *testing.T) {
	p := audiotest.Scenario()
	p.Reject = map[audio.DeviceID]error{1: errors.New("'!obj'")}

	out, err := execute(t, openerFor(p, nil), nil, "set", "1")
	assert.ErrorIs(t, err, audio.ErrRoleAssignment)
	assert.Empty(t, out)
	assert.True(t, p.Closed, "backend is closed even when the command fails")
}

func TestSetRequiresDevice(t *testing.T) {
	_, err := execute(t, openerFor(audiotest.Scenario(), nil), nil, "set")
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	p := audiotest.Scenario()
	p.Defaults[audio.RoleSystemOutput] = 2

	out, err := execute(t, openerFor(p, nil), nil, "info", "Built-in Speakers")
	require.NoError(t, err)
	assert.Equal(t, "id\t2\n"+
		"name\tBuilt-in Speakers\n"+
		"input\tfalse\n"+
		"output\ttrue\n"+
		"roles\toutput,system\n", out)

	_, err = execute(t, openerFor(p, nil), nil, "info", "42")
	assert.ErrorIs(t, err, audio.ErrSelectorNotFound)
}

func TestEnumerationFailureDegradesToEmptyRegistry(t *testing.T) {
	p := &audiotest.Platform{EnumerateErr: errors.New("hal unavailable")}

	out, err := execute(t, openerFor(p, nil), nil, "list")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, openerFor(p, nil), nil, "show")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = execute(t, openerFor(p, nil), nil, "set", "1")
	assert.ErrorIs(t, err, audio.ErrSelectorNotFound)
}

func TestBackendOpenFailureDegradesToEmptyRegistry(t *testing.T) {
	out, err := execute(t, openerFor(nil, errors.New("connection refused")), nil, "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnknownBackendFlag(t *testing.T) {
	_, err := execute(t, openerFor(audiotest.Scenario(), nil), nil, "--backend=wasapi", "list")
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	p := audiotest.Scenario()

	var offered []audio.Device
	picker := func(role audio.Role, devices []audio.Device, current audio.Device, hasCurrent bool) (audio.Device, bool, error) {
		assert.Equal(t, audio.RoleInput, role)
		assert.False(t, hasCurrent)
		offered = devices
		return devices[len(devices)-1], true, nil
	}

	out, err := execute(t, openerFor(p, nil), picker, "pick", "-t", "input")
	require.NoError(t, err)
	assert.Equal(t, "input\t3\tUSB Headset\n", out)
	require.Len(t, offered, 2)
	assert.Equal(t, []audio.DeviceID{1, 3}, []audio.DeviceID{offered[0].ID, offered[1].ID})
}

func TestPickCancelled(t *testing.T) {
	p := audiotest.Scenario()
	picker := func(role audio.Role, devices []audio.Device, current audio.Device, hasCurrent bool) (audio.Device, bool, error) {
		assert.True(t, hasCurrent)
		assert.Equal(t, audio.DeviceID(2), current.ID)
		return audio.Device{}, false, nil
	}

	out, err := execute(t, openerFor(p, nil), picker, "pick")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, p.Assignments)
}
