package udp

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNotConnected is returned by Send before Dial or after Close.
var ErrNotConnected = errors.New("udp sender not connected")

// Tap observes datagrams after they were written to the socket. The MQTT
// mirror hangs off this so it only ever sees traffic that actually left.
type Tap interface {
	Sent(p Packet, wire []byte)
}

// Sender owns the outbound UDP socket. Callers decide what to send and when;
// the sender only dials, writes, and counts.
type Sender struct {
	mu   sync.Mutex
	conn net.Conn
	host string
	port int

	packets atomic.Uint64
	bytes   atomic.Uint64

	tapMu sync.RWMutex
	tap   Tap
}

// NewSender creates a sender for the given endpoint. Call Dial before Send.
func NewSender(host string, port int) *Sender {
	return &Sender{host: host, port: port}
}

// Dial opens the UDP socket to the configured endpoint.
func (s *Sender) Dial() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialLocked(s.host, s.port)
}

func (s *Sender) dialLocked(host string, port int) error {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.DialTimeout("udp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("dial udp %s: %w", addr, err)
	}
	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = conn
	s.host, s.port = host, port
	return nil
}

// SetEndpoint re-dials to a new destination. On dial failure the previous
// socket stays in place.
func (s *Sender) SetEndpoint(host string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialLocked(host, port)
}

// Endpoint returns the destination the sender is dialed to.
func (s *Sender) Endpoint() (host string, port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host, s.port
}

// SetTap installs the post-send observer. A nil tap removes it.
func (s *Sender) SetTap(t Tap) {
	s.tapMu.Lock()
	s.tap = t
	s.tapMu.Unlock()
}

// Send encodes and transmits one packet, updating the counters and notifying
// the tap on success.
func (s *Sender) Send(p Packet) error {
	wire, err := Encode(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	n, err := conn.Write(wire)
	if err != nil {
		return fmt.Errorf("send %s packet: %w", p.Tag(), err)
	}
	s.packets.Add(1)
	s.bytes.Add(uint64(n))

	s.tapMu.RLock()
	tap := s.tap
	s.tapMu.RUnlock()
	if tap != nil {
		tap.Sent(p, wire)
	}
	return nil
}

// Counters returns the totals of packets and bytes sent since creation.
func (s *Sender) Counters() (packets, bytes uint64) {
	return s.packets.Load(), s.bytes.Load()
}

// Close shuts the socket. Send returns ErrNotConnected afterwards.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
