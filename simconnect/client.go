// Package simconnect implements the client side of the simulator control
// protocol: the framed TCP session, the outbound command encoder, the
// inbound packet decoder, and the multi-subscriber dispatch registry.
//
// A typical deployment runs the blocking Run loop on one dedicated goroutine
// while application code issues commands from any goroutine; the send path
// is serialized internally and safe to call concurrently with the read loop.
package simconnect

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/simlink-project/simlink/protocol"
)

const (
	connectTimeout = 30 * time.Second

	// sendBufferSize is the initial capacity of the send scratch buffer,
	// large enough for the biggest fixed-layout command.
	sendBufferSize = 8192
)

// handshakeMarker follows the application name in the open frame: a zero
// byte and the three-character literal.
var handshakeMarker = [4]byte{0x00, 'X', 'S', 'F'}

// Stats holds the session's cumulative traffic counters.
type Stats struct {
	BytesSent       uint64 `json:"bytes_sent"`
	BytesReceived   uint64 `json:"bytes_received"`
	PacketsSent     uint64 `json:"packets_sent"`
	PacketsReceived uint64 `json:"packets_received"`
}

// Client is one active session with the simulator: a TCP connection, a
// negotiated protocol version, fixed send/receive scratch buffers, and the
// dispatch registry for inbound records.
type Client struct {
	logger  zerolog.Logger
	version protocol.Version

	// send path: socket writes, the send scratch buffer and the sequence
	// counter are guarded by sendMu so commands are never interleaved
	// mid-frame.
	sendMu  sync.Mutex
	conn    net.Conn
	out     *protocol.DataBuffer
	sendSeq uint32

	// receive path: one frame is fully read and dispatched before the next.
	recvMu sync.Mutex
	in     []byte

	closed atomic.Bool

	bytesSent       atomic.Uint64
	bytesReceived   atomic.Uint64
	packetsSent     atomic.Uint64
	packetsReceived atomic.Uint64

	dispatcher *dispatcher
}

// Open connects to the simulator at addr:port, negotiates the given protocol
// version, and sends the mandatory handshake frame. The appName identifies
// this client to the server.
func Open(appName, addr string, port int, version protocol.Version) (*Client, error) {
	if !version.Valid() {
		return nil, fmt.Errorf("open: %w: 0x%x", ErrBadProtocol, uint32(version))
	}

	target := fmt.Sprintf("%s:%d", addr, port)
	dialer := net.Dialer{Timeout: connectTimeout}
	conn, err := dialer.Dial("tcp", target)
	if err != nil {
		return nil, fmt.Errorf("open: connect to %s: %w", target, err)
	}

	c := newClient(conn, version)
	if err := c.sendOpen(appName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open: handshake: %w", err)
	}

	c.logger.Info().
		Str("addr", target).
		Str("protocol", version.String()).
		Str("app", appName).
		Msg("session opened")
	return c, nil
}

// newClient wraps an established connection. Split from Open so tests can
// drive a session over an in-memory pipe.
func newClient(conn net.Conn, version protocol.Version) *Client {
	return &Client{
		logger:     log.With().Str("component", "simconnect").Logger(),
		version:    version,
		conn:       conn,
		out:        protocol.NewDataBuffer(sendBufferSize),
		in:         make([]byte, protocol.MaxFrameSize),
		dispatcher: newDispatcher(),
	}
}

// Protocol returns the negotiated protocol version.
func (c *Client) Protocol() protocol.Version { return c.version }

// Stats returns a snapshot of the cumulative traffic counters.
func (c *Client) Stats() Stats {
	return Stats{
		BytesSent:       c.bytesSent.Load(),
		BytesReceived:   c.bytesReceived.Load(),
		PacketsSent:     c.packetsSent.Load(),
		PacketsReceived: c.packetsReceived.Load(),
	}
}

// LastSentPacketID returns the send-sequence id of the most recent outbound
// frame, for correlating a later exception record back to its command.
func (c *Client) LastSentPacketID() uint32 {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.sendSeq
}

// Close shuts the session down. It is idempotent; every operation after
// Close fails with ErrClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.conn.Close()
	c.logger.Info().Msg("session closed")
	return err
}

// sendOpen writes the handshake frame: the application name padded to 256
// bytes, a 4-byte zero, the marker bytes, then the four version/build
// integers fixed by the negotiated protocol version.
func (c *Client) sendOpen(appName string) error {
	major, minor, buildMajor, buildMinor := c.version.BuildNumbers()
	return c.send(protocol.OpOpen, func(b *protocol.DataBuffer) {
		b.WriteString(appName, 256)
		b.WriteUint32(0)
		b.WriteBytes(handshakeMarker[:])
		b.WriteUint32(major)
		b.WriteUint32(minor)
		b.WriteUint32(buildMajor)
		b.WriteUint32(buildMinor)
	})
}

// send lays out one command in the shared send scratch buffer and writes it
// to the socket: 16-byte header (total size, protocol version, opcode with
// the request flag, next sequence id) followed by the payload build emits.
func (c *Client) send(op protocol.Opcode, build func(b *protocol.DataBuffer)) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed.Load() {
		return ErrClosed
	}

	b := c.out
	b.Clear()
	b.Extend(protocol.HeaderSize)
	if build != nil {
		build(b)
	}
	if err := b.Err(); err != nil {
		return fmt.Errorf("encode opcode 0x%x: %w", uint32(op), err)
	}

	c.sendSeq++
	protocol.PutHeader(b.Bytes(), protocol.Header{
		Size:    uint32(b.Len()),
		Version: uint32(c.version),
		Opcode:  uint32(op) | protocol.RequestFlag,
		SendID:  c.sendSeq,
	})

	n, err := c.conn.Write(b.Bytes())
	c.bytesSent.Add(uint64(n))
	if err != nil {
		return fmt.Errorf("send opcode 0x%x: %w", uint32(op), err)
	}
	c.packetsSent.Add(1)

	c.logger.Trace().
		Uint32("opcode", uint32(op)).
		Uint32("send_id", c.sendSeq).
		Int("size", b.Len()).
		Msg("frame sent")
	return nil
}

// ReceiveFrame blocks until one full inbound frame has arrived and returns
// it with the cursor at byte 0. A read that returns fewer bytes than the
// declared length is continued until the frame is complete. The returned
// buffer aliases the session's receive scratch and is only valid until the
// next call.
func (c *Client) ReceiveFrame() (*protocol.DataBuffer, error) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	if c.closed.Load() {
		return nil, ErrClosed
	}

	if _, err := io.ReadFull(c.conn, c.in[:4]); err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	size := int(uint32(c.in[0]) | uint32(c.in[1])<<8 | uint32(c.in[2])<<16 | uint32(c.in[3])<<24)

	if size < protocol.HeaderSize {
		return nil, fmt.Errorf("%w: declared %d bytes", ErrFrameTooShort, size)
	}
	if size > len(c.in) {
		return nil, fmt.Errorf("%w: declared %d bytes, capacity %d", ErrFrameTooLarge, size, len(c.in))
	}

	if _, err := io.ReadFull(c.conn, c.in[4:size]); err != nil {
		return nil, fmt.Errorf("read frame body (%d bytes): %w", size-4, err)
	}

	c.bytesReceived.Add(uint64(size))
	c.packetsReceived.Add(1)
	return protocol.Wrap(c.in[:size]), nil
}

// DispatchNext reads one frame, decodes it, and fans the record out to the
// registered handlers. Unknown response kinds dispatch as RecvUnknown.
func (c *Client) DispatchNext() error {
	frame, err := c.ReceiveFrame()
	if err != nil {
		return err
	}
	rec, err := decode(frame)
	if err != nil {
		return err
	}
	c.dispatcher.dispatch(c, rec)
	return nil
}

// Run dispatches frames until the context is cancelled or the connection
// fails. Cancellation closes the client so a read blocked on the socket
// unblocks immediately. Intended to be the body of a dedicated read-loop
// goroutine.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	for {
		if err := c.DispatchNext(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// requireVersion fails fast, before anything touches the network, when the
// session negotiated a protocol older than min.
func (c *Client) requireVersion(min protocol.Version, command string) error {
	if c.version < min {
		return fmt.Errorf("%s: %w (have %s, need %s)", command, ErrProtocolTooOld, c.version, min)
	}
	return nil
}
