// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"net"

	"github.com/jfreymuth/pulse/proto"
	"go.uber.org/zap"
)

const (
	pulseDescriptionProperty = "device.description"

	// sinks and sources are indexed separately by the server; the low bit of
	// a DeviceID says which table the rest of the id indexes into
	pulseSourceBit DeviceID = 1

	// indexes from here on do not survive the shift into a DeviceID
	pulseIndexLimit = 1 << 31
)

type pulseKind int

const (
	pulseSink pulseKind = iota
	pulseSource
)

func pulseDeviceID(kind pulseKind, index uint32) DeviceID {
	id := DeviceID(index) << 1
	if kind == pulseSource {
		id |= pulseSourceBit
	}
	return id
}

func pulseIndex(id DeviceID) (pulseKind, uint32) {
	if id&pulseSourceBit != 0 {
		return pulseSource, uint32(id >> 1)
	}
	return pulseSink, uint32(id >> 1)
}

// pulseRequester is the part of *proto.Client the backend uses.
type pulseRequester interface {
	Request(req proto.RequestArgs, rpl proto.Reply) error
}

type pulseDevice struct {
	name     string // server-side sink/source name, used for defaults
	display  string
	channels int
}

// pulsePlatform talks to a PulseAudio (or pipewire-pulse) server over the
// native protocol. Sinks are output devices, non-monitor sources are input
// devices. PulseAudio has no separate system-sound sink.
type pulsePlatform struct {
	logger *zap.SugaredLogger
	client pulseRequester
	conn   net.Conn

	devices map[DeviceID]pulseDevice
}

func newPulsePlatform(logger *zap.SugaredLogger, server, applicationName string) (*pulsePlatform, error) {
	logger = logger.Named("pulse")

	client, conn, err := proto.Connect(server)
	if err != nil {
		logger.Warnw("Failed to establish PulseAudio connection", "server", server, "error", err)
		return nil, fmt.Errorf("establish PulseAudio connection: %w", err)
	}

	request := proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString(applicationName),
		},
	}
	reply := proto.SetClientNameReply{}

	if err := client.Request(&request, &reply); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set PulseAudio client name: %w", err)
	}

	p := &pulsePlatform{
		logger:  logger,
		client:  client,
		conn:    conn,
		devices: map[DeviceID]pulseDevice{},
	}

	logger.Debug("Created PulseAudio platform instance")

	return p, nil
}

func describe(props proto.PropList, fallback string) string {
	if props != nil {
		if desc, ok := props[pulseDescriptionProperty]; ok && desc.String() != "" {
			return desc.String()
		}
	}
	return fallback
}

func (p *pulsePlatform) DeviceIDs() ([]DeviceID, error) {
	p.devices = map[DeviceID]pulseDevice{}
	ids := []DeviceID{}

	sinks := proto.GetSinkInfoListReply{}
	sinkErr := p.client.Request(&proto.GetSinkInfoList{}, &sinks)
	if sinkErr != nil {
		p.logger.Warnw("Failed to get sink list", "error", sinkErr)
	}
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		if sink.SinkIndex >= pulseIndexLimit {
			p.logger.Debugw("Skipping sink with out of range index", "index", sink.SinkIndex, "name", sink.SinkName)
			continue
		}
		id := pulseDeviceID(pulseSink, sink.SinkIndex)
		p.devices[id] = pulseDevice{
			name:     sink.SinkName,
			display:  describe(sink.Properties, sink.SinkName),
			channels: int(sink.Channels),
		}
		ids = append(ids, id)
	}

	sources := proto.GetSourceInfoListReply{}
	sourceErr := p.client.Request(&proto.GetSourceInfoList{}, &sources)
	if sourceErr != nil {
		p.logger.Warnw("Failed to get source list", "error", sourceErr)
	}
	for _, source := range sources {
		if source == nil {
			continue
		}

		// monitors mirror a sink, they are not capture hardware
		if source.MonitorSourceIndex != proto.Undefined {
			continue
		}
		if source.SourceIndex >= pulseIndexLimit {
			p.logger.Debugw("Skipping source with out of range index", "index", source.SourceIndex, "name", source.SourceName)
			continue
		}

		id := pulseDeviceID(pulseSource, source.SourceIndex)
		p.devices[id] = pulseDevice{
			name:     source.SourceName,
			display:  describe(source.Properties, source.SourceName),
			channels: int(source.Channels),
		}
		ids = append(ids, id)
	}

	if sinkErr != nil && sourceErr != nil {
		return nil, fmt.Errorf("get sink and source lists: %w", sinkErr)
	}

	return ids, nil
}

func (p *pulsePlatform) device(id DeviceID) (pulseDevice, error) {
	d, ok := p.devices[id]
	if !ok {
		return pulseDevice{}, fmt.Errorf("%w: no PulseAudio device %d", ErrPropertyUnsupported, id)
	}
	return d, nil
}

func (p *pulsePlatform) DeviceName(id DeviceID) (string, error) {
	d, err := p.device(id)
	if err != nil {
		return "", err
	}
	return d.display, nil
}

func (p *pulsePlatform) StreamBufferCount(id DeviceID, scope Scope) (int, error) {
	d, err := p.device(id)
	if err != nil {
		return 0, err
	}

	kind, _ := pulseIndex(id)
	switch {
	case scope == ScopeGlobal,
		scope == ScopeOutput && kind == pulseSink,
		scope == ScopeInput && kind == pulseSource:
		return d.channels, nil
	default:
		return 0, nil
	}
}

func (p *pulsePlatform) DefaultDevice(role Role) (DeviceID, error) {
	if role == RoleSystemOutput {
		return 0, fmt.Errorf("%w: PulseAudio has no system output default", ErrPropertyUnsupported)
	}

	info := proto.GetServerInfoReply{}
	if err := p.client.Request(&proto.GetServerInfo{}, &info); err != nil {
		return 0, fmt.Errorf("get server info: %w", err)
	}

	name, kind := info.DefaultSinkName, pulseSink
	if role == RoleInput {
		name, kind = info.DefaultSourceName, pulseSource
	}
	if name == "" {
		return 0, fmt.Errorf("%w: no default %s device", ErrPropertyUnsupported, role)
	}

	for id, d := range p.devices {
		if k, _ := pulseIndex(id); k == kind && d.name == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: default %s device %q is not enumerated", ErrPropertyUnsupported, role, name)
}

func (p *pulsePlatform) SetDefaultDevice(role Role, id DeviceID) error {
	if role == RoleSystemOutput {
		return fmt.Errorf("%w: PulseAudio has no system output default", ErrRoleUnsupported)
	}

	d, err := p.device(id)
	if err != nil {
		return err
	}

	kind, _ := pulseIndex(id)

	var request proto.RequestArgs
	switch {
	case role == RoleOutput && kind == pulseSink:
		request = &proto.SetDefaultSink{SinkName: d.name}
	case role == RoleInput && kind == pulseSource:
		request = &proto.SetDefaultSource{SourceName: d.name}
	default:
		// the server would only accept a name from the other table by accident
		return fmt.Errorf("device %d cannot serve as the %s device", id, role)
	}

	if err := p.client.Request(request, nil); err != nil {
		p.logger.Warnw("Failed to set default device", "role", role, "name", d.name, "error", err)
		return fmt.Errorf("set default %s device: %w", role, err)
	}

	p.logger.Debugw("Set default device", "role", role, "name", d.name)
	return nil
}

func (p *pulsePlatform) Close() error {
	if p.conn == nil {
		return nil
	}

	if err := p.conn.Close(); err != nil {
		p.logger.Warnw("Failed to close PulseAudio connection", "error", err)
		return fmt.Errorf("close PulseAudio connection: %w", err)
	}

	p.logger.Debug("Released PulseAudio platform instance")

	return nil
}
