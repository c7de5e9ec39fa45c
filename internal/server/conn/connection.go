// Package conn drives a single client connection through the protocol
// state machine: Handshake → Status, or Handshake → Login → Configuration
// → Play, with AwaitingTeleportConfirm as a transient Play substate.
package conn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/clientbound"
	"github.com/mcpp/server/internal/server/config"
	"github.com/mcpp/server/internal/server/game"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
	"github.com/mcpp/server/internal/server/player"
)

// State is the connection's protocol phase.
type State int32

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StateConfiguration
	StatePlay
	StateAwaitingTeleportConfirm
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateStatus:
		return "status"
	case StateLogin:
		return "login"
	case StateConfiguration:
		return "configuration"
	case StatePlay:
		return "play"
	case StateAwaitingTeleportConfirm:
		return "awaiting_teleport_confirm"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// outboundQueueCap bounds the per-client outbound queue. A client that
// falls this many frames behind is disconnected rather than allowed to
// stall broadcasts.
const outboundQueueCap = 128

// ErrProtocolViolation marks wrong-phase packets, unknown teleport IDs,
// and oversized chat keys.
var ErrProtocolViolation = errors.New("protocol violation")

// Connection manages one client socket through the state machine. Reads
// happen on the Handle goroutine; writes are synchronous during the
// request/response phases and move to a queue-draining writer goroutine
// once the Configuration phase begins, so broadcasts never block on a
// slow client.
type Connection struct {
	conn   net.Conn
	rw     io.ReadWriter
	framer *mcnet.Framer
	cfg    *config.Config
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	dir    *game.Directory

	state atomic.Int32 // State; read lock-free, written under mu

	mu                sync.Mutex
	pendingTeleports  map[int32]struct{}
	lastKeepAliveID   int64
	lastKeepAliveSent time.Time
	keepAliveAcked    bool
	closed            bool
	writerRunning     bool

	out        chan mcnet.Frame
	writerOnce sync.Once

	self *player.Player

	// Login state.
	loginName        string
	loginUUID        uuid.UUID
	loginVerifyToken []byte
	loginProps       []clientbound.InfoProperty
	clientLocale     string
}

// NewConnection wraps an accepted socket.
func NewConnection(ctx context.Context, c net.Conn, cfg *config.Config, log *slog.Logger, dir *game.Directory) *Connection {
	ctx, cancel := context.WithCancel(ctx)
	return &Connection{
		conn:             c,
		rw:               c,
		framer:           mcnet.NewFramer(),
		cfg:              cfg,
		log:              log.With("addr", c.RemoteAddr().String()),
		ctx:              ctx,
		cancel:           cancel,
		dir:              dir,
		pendingTeleports: make(map[int32]struct{}),
		keepAliveAcked:   true,
		out:              make(chan mcnet.Frame, outboundQueueCap),
	}
}

// State returns the current phase.
func (c *Connection) State() State {
	return State(c.state.Load())
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	c.state.Store(int32(s))
	c.mu.Unlock()
}

// ClientUUID identifies this connection in the clients table.
func (c *Connection) ClientUUID() uuid.UUID {
	return c.loginUUID
}

// Handle runs the connection lifecycle until the socket closes.
func (c *Connection) Handle() {
	defer c.teardown()

	c.log.Info("connection accepted")

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		packetID, data, err := c.framer.ReadFrame(c.rw)
		if err != nil {
			if c.ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			// Truncated or malformed frames close without a disconnect
			// packet; the stream is not trustworthy anymore.
			c.log.Error("reading frame", "state", c.State(), "error", err)
			return
		}
		if c.dir.Metrics != nil {
			c.dir.Metrics.PacketsIn.Inc()
		}

		if err := c.dispatch(packetID, data); err != nil {
			if errors.Is(err, ErrProtocolViolation) {
				c.Disconnect(err.Error())
				return
			}
			if c.ctx.Err() != nil {
				return
			}
			c.log.Error("handling packet", "state", c.State(), "id", fmt.Sprintf("0x%02X", packetID), "error", err)
			return
		}
	}
}

func (c *Connection) dispatch(packetID int32, data []byte) error {
	switch c.State() {
	case StateHandshake:
		return c.handleHandshake(packetID, data)
	case StateStatus:
		return c.handleStatus(packetID, data)
	case StateLogin:
		return c.handleLogin(packetID, data)
	case StateConfiguration:
		return c.handleConfiguration(packetID, data)
	case StatePlay, StateAwaitingTeleportConfirm:
		return c.handlePlay(packetID, data)
	case StateClosed:
		return nil
	default:
		return fmt.Errorf("unknown state: %d", c.State())
	}
}

// Send pushes a pre-built frame to the client. Before the writer goroutine
// starts it writes synchronously; afterwards it enqueues without blocking
// and disconnects the client when the queue overflows. Returns false once
// the connection is closed.
func (c *Connection) Send(frame mcnet.Frame) bool {
	if c.State() == StateClosed {
		return false
	}

	if !c.writerStarted() {
		return c.writeFrame(frame)
	}

	select {
	case c.out <- frame:
		return true
	default:
		if c.dir.Metrics != nil {
			c.dir.Metrics.BroadcastDrops.Inc()
		}
		c.log.Warn("outbound queue overflow, dropping client")
		c.close()
		return false
	}
}

// writeFrame performs a synchronous framed write under the mutex.
func (c *Connection) writeFrame(frame mcnet.Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if err := c.framer.WriteFrame(c.rw, frame.ID, frame.Payload); err != nil {
		c.log.Error("writing frame", "id", fmt.Sprintf("0x%02X", frame.ID), "error", err)
		c.closeLocked()
		return false
	}
	if c.dir.Metrics != nil {
		c.dir.Metrics.PacketsOut.Inc()
	}
	return true
}

func (c *Connection) writerStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writerRunning
}

// startWriter switches the connection to queued writes. Called once when
// entering Configuration, before any fan-out can target this client.
func (c *Connection) startWriter() {
	c.writerOnce.Do(func() {
		c.mu.Lock()
		c.writerRunning = true
		c.mu.Unlock()
		go func() {
			for {
				select {
				case <-c.ctx.Done():
					return
				case frame := <-c.out:
					if !c.writeQueued(frame) {
						return
					}
				}
			}
		}()
	})
}

// writeQueued writes one queued frame; the writer goroutine is the only
// writer once started, so no mutex is needed on the stream itself.
func (c *Connection) writeQueued(frame mcnet.Frame) bool {
	if c.State() == StateClosed {
		return false
	}
	if err := c.framer.WriteFrame(c.rw, frame.ID, frame.Payload); err != nil {
		c.log.Error("writing frame", "id", fmt.Sprintf("0x%02X", frame.ID), "error", err)
		c.close()
		return false
	}
	if c.dir.Metrics != nil {
		c.dir.Metrics.PacketsOut.Inc()
	}
	return true
}

// Disconnect sends a phase-appropriate Disconnect packet and closes.
func (c *Connection) Disconnect(reason string) {
	c.log.Info("disconnecting", "reason", reason)

	reasonJSON, err := json.Marshal(map[string]string{"text": reason})
	if err == nil {
		switch c.State() {
		case StateLogin:
			c.Send(clientbound.Disconnect(packet.LoginDisconnectID, string(reasonJSON)))
		case StateConfiguration:
			c.Send(clientbound.Disconnect(packet.DisconnectConfigID, string(reasonJSON)))
		case StatePlay, StateAwaitingTeleportConfirm:
			c.Send(clientbound.Disconnect(packet.DisconnectPlayID, string(reasonJSON)))
		}
	}
	c.close()
}

// close marks the connection Closed and cancels its context. Removal from
// the shared tables happens in teardown on the Handle goroutine.
func (c *Connection) close() {
	c.mu.Lock()
	c.closeLocked()
	c.mu.Unlock()
}

func (c *Connection) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	c.state.Store(int32(StateClosed))
	c.cancel()
	c.conn.Close()
}

// teardown removes the connection from the shared tables and announces the
// departure. It runs exactly once, on the Handle goroutine.
func (c *Connection) teardown() {
	wasPlaying := c.self != nil

	c.close()

	if wasPlaying {
		c.self.SetConn(nil)
		c.dir.RemovePlayer(c.self.UUID)
	}
	if c.loginUUID != (uuid.UUID{}) {
		c.dir.RemoveClient(c.loginUUID)
	}

	if wasPlaying {
		c.dir.RemoveEntityForAll(c.self.EntityID)
		c.dir.BroadcastAll(playerInfoRemoveFrame(c.self.UUID))
		c.dir.SystemChat(c.self.Name+" left the game", "yellow", false, nil)
	}

	c.log.Info("connection closed")
}

func playerInfoRemoveFrame(id uuid.UUID) mcnet.Frame {
	return clientbound.PlayerInfoRemove([]uuid.UUID{id})
}

// enableEncryption wraps both stream directions with AES/CFB8. Only valid
// during Login, before the writer goroutine starts.
func (c *Connection) enableEncryption(sharedSecret []byte) error {
	enc, err := newEncryptedConn(c.conn, sharedSecret)
	if err != nil {
		return err
	}
	c.rw = enc
	return nil
}
