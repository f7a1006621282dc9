// Package udp defines the bridge's datagram wire format and the sender and
// receiver that carry it. Packets are compact JSON with abbreviated field
// names; the "t" field selects the packet type.
package udp

import (
	"fmt"
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/jsonutil"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

// Type tags carried in the "t" field. Sample packets use the stream kind
// itself ("ecg", "ppg", ...) as the tag.
const (
	TypeMarker  = "marker"
	TypeSession = "session"
)

// Lifecycle events carried by session packets.
const (
	EventStart = "start"
	EventStop  = "stop"
)

// Packet is one decodable datagram payload.
type Packet interface {
	// Tag returns the value of the packet's "t" field.
	Tag() string
}

// SamplePacket carries one batch of values from a single stream.
type SamplePacket struct {
	Type      string `json:"t"`             // stream kind tag
	DeviceID  string `json:"id"`            // originating device
	Subject   string `json:"sub,omitempty"` // subject id
	Seq       uint64 `json:"sq"`            // per-stream sequence number
	Timestamp int64  `json:"ts"`            // unix milliseconds
	Values    []int  `json:"v"`
}

func (p SamplePacket) Tag() string { return p.Type }

// Kind returns the stream kind the packet carries.
func (p SamplePacket) Kind() (signal.Kind, error) {
	return signal.ParseKind(p.Type)
}

// MarkerPacket carries a named timestamp event within a session.
type MarkerPacket struct {
	Type      string `json:"t"` // always "marker"
	Subject   string `json:"sub,omitempty"`
	Label     string `json:"lb"`
	OffsetMS  int64  `json:"off"` // offset from session start, milliseconds
	Timestamp int64  `json:"ts"`  // unix milliseconds
}

func (p MarkerPacket) Tag() string { return p.Type }

// LifecyclePacket announces session start and stop.
type LifecyclePacket struct {
	Type      string `json:"t"`  // always "session"
	Event     string `json:"ev"` // "start" or "stop"
	SessionID string `json:"sid"`
	Subject   string `json:"sub,omitempty"`
	Timestamp int64  `json:"ts"` // unix milliseconds
}

func (p LifecyclePacket) Tag() string { return p.Type }

// NewSamplePacket builds the wire form of one generated batch. The batch's
// per-stream sequence number is carried to the wire unchanged, so a gap at
// the receiver means generated batches never arrived.
func NewSamplePacket(b signal.Batch, subject string) SamplePacket {
	return SamplePacket{
		Type:      string(b.Kind),
		DeviceID:  b.DeviceID,
		Subject:   subject,
		Seq:       b.Seq,
		Timestamp: b.At.UnixMilli(),
		Values:    b.Values,
	}
}

// NewMarkerPacket builds the wire form of a marker event.
func NewMarkerPacket(subject, label string, offset time.Duration, at time.Time) MarkerPacket {
	return MarkerPacket{
		Type:      TypeMarker,
		Subject:   subject,
		Label:     label,
		OffsetMS:  offset.Milliseconds(),
		Timestamp: at.UnixMilli(),
	}
}

// NewLifecyclePacket builds the wire form of a session start/stop event.
func NewLifecyclePacket(event, sessionID, subject string, at time.Time) LifecyclePacket {
	return LifecyclePacket{
		Type:      TypeSession,
		Event:     event,
		SessionID: sessionID,
		Subject:   subject,
		Timestamp: at.UnixMilli(),
	}
}

// Encode marshals a packet for transmission.
func Encode(p Packet) ([]byte, error) {
	data, err := jsonutil.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s packet: %w", p.Tag(), err)
	}
	return data, nil
}

// Decode parses one datagram payload by its "t" tag.
func Decode(data []byte) (Packet, error) {
	var head struct {
		Type string `json:"t"`
	}
	if err := jsonutil.UnmarshalWithContext(data, &head, "decode packet"); err != nil {
		return nil, err
	}

	switch head.Type {
	case TypeMarker:
		var p MarkerPacket
		if err := jsonutil.UnmarshalWithContext(data, &p, "decode marker packet"); err != nil {
			return nil, err
		}
		return p, nil
	case TypeSession:
		var p LifecyclePacket
		if err := jsonutil.UnmarshalWithContext(data, &p, "decode session packet"); err != nil {
			return nil, err
		}
		return p, nil
	default:
		if _, err := signal.ParseKind(head.Type); err != nil {
			return nil, fmt.Errorf("decode packet: unknown type %q", head.Type)
		}
		var p SamplePacket
		if err := jsonutil.UnmarshalWithContext(data, &p, "decode sample packet"); err != nil {
			return nil, err
		}
		return p, nil
	}
}
