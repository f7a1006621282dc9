// Package mirror republishes outbound datagrams to an MQTT broker so lab
// tooling can subscribe to live signals without touching the UDP path.
//
// The mirror hangs off the UDP sender's tap, so it only ever sees traffic
// that actually left the socket. Topics follow
// <root>/<subject>/<packet tag>, e.g. physiobridge/sub001/ecg.
package mirror

import (
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/udp"
)

// StateFunc is notified when the broker connection comes up or goes down.
// err is nil on connect.
type StateFunc func(connected bool, err error)

// Mirror is an MQTT republisher implementing udp.Tap.
type Mirror struct {
	broker  string
	port    int
	root    string
	client  mqtt.Client
	onState StateFunc

	published atomic.Uint64
	dropped   atomic.Uint64
}

// New creates a mirror for the given broker. onState may be nil.
func New(broker string, port int, topicRoot string, onState StateFunc) *Mirror {
	return &Mirror{broker: broker, port: port, root: topicRoot, onState: onState}
}

// Connect establishes the broker connection. The paho client keeps
// reconnecting on its own afterwards.
func (m *Mirror) Connect() error {
	opts := mqtt.NewClientOptions()
	brokerURL := fmt.Sprintf("tcp://%s:%d", m.broker, m.port)
	opts.AddBroker(brokerURL)

	clientID := fmt.Sprintf("physiobridge-%d", time.Now().Unix())
	opts.SetClientID(clientID)

	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(1 * time.Minute)

	opts.SetOnConnectHandler(m.onConnect)
	opts.SetConnectionLostHandler(m.onConnectionLost)

	m.client = mqtt.NewClient(opts)

	token := m.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect mqtt mirror %s: %w", brokerURL, token.Error())
	}
	return nil
}

func (m *Mirror) onConnect(mqtt.Client) {
	if m.onState != nil {
		m.onState(true, nil)
	}
}

func (m *Mirror) onConnectionLost(_ mqtt.Client, err error) {
	if m.onState != nil {
		m.onState(false, err)
	}
}

// Sent republishes one datagram. Fire-and-forget at QoS 0: the send path
// must never stall on the broker.
func (m *Mirror) Sent(p udp.Packet, wire []byte) {
	if m.client == nil || !m.client.IsConnected() {
		m.dropped.Add(1)
		return
	}
	m.client.Publish(m.topicFor(p), 0, false, wire)
	m.published.Add(1)
}

// topicFor builds the publish topic for one packet.
func (m *Mirror) topicFor(p udp.Packet) string {
	subject := subjectOf(p)
	if subject == "" {
		subject = "anon"
	}
	return fmt.Sprintf("%s/%s/%s", m.root, subject, p.Tag())
}

func subjectOf(p udp.Packet) string {
	switch v := p.(type) {
	case udp.SamplePacket:
		return v.Subject
	case udp.MarkerPacket:
		return v.Subject
	case udp.LifecyclePacket:
		return v.Subject
	default:
		return ""
	}
}

// Counters returns how many datagrams were republished and how many were
// dropped while the broker was unreachable.
func (m *Mirror) Counters() (published, dropped uint64) {
	return m.published.Load(), m.dropped.Load()
}

// IsConnected reports the broker connection state.
func (m *Mirror) IsConnected() bool {
	return m.client != nil && m.client.IsConnected()
}

// Stop disconnects from the broker, waiting briefly for in-flight publishes.
func (m *Mirror) Stop() {
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(250)
	}
}
