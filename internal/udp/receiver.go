package udp

import (
	"fmt"
	"net"
)

// maxDatagram bounds the receive buffer. Sample batches stay far below this.
const maxDatagram = 64 * 1024

// Receiver listens for bridge datagrams. Used by pbreceive on the lab PC.
type Receiver struct {
	conn net.PacketConn
	buf  []byte
}

// Listen binds a UDP socket on the given address.
func Listen(host string, port int) (*Receiver, error) {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen udp %s: %w", addr, err)
	}
	return &Receiver{conn: conn, buf: make([]byte, maxDatagram)}, nil
}

// Addr returns the bound local address.
func (r *Receiver) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// Next blocks for one datagram and decodes it. A closed socket surfaces as
// an error wrapping net.ErrClosed; decode failures return the raw payload so
// the caller can log it.
func (r *Receiver) Next() (Packet, net.Addr, []byte, error) {
	n, from, err := r.conn.ReadFrom(r.buf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read datagram: %w", err)
	}
	raw := make([]byte, n)
	copy(raw, r.buf[:n])

	p, err := Decode(raw)
	if err != nil {
		return nil, from, raw, err
	}
	return p, from, raw, nil
}

// Close shuts the socket, unblocking any Next call.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
