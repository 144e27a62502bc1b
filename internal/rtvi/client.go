package rtvi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rusenback/botmon/internal/logger"
	"github.com/rusenback/botmon/internal/model"
)

var (
	ErrAlreadyConnected = errors.New("rtvi: client already connected")
	ErrNotConnected     = errors.New("rtvi: client not connected")
)

const readLimit = 1 << 20

// Config contains the RTVI client configuration
type Config struct {
	URL         string
	Headers     map[string]string
	DialTimeout time.Duration
	EnableMic   bool
	EnableCam   bool
}

func DefaultConfig() Config {
	return Config{
		URL:         "ws://localhost:7860/ws",
		DialTimeout: 10 * time.Second,
		EnableMic:   true,
	}
}

// Client is an RTVI client speaking to a bot over a websocket. All events
// are emitted from a single read goroutine (plus Connect/Disconnect for
// transport states), serialized by the Emitter.
type Client struct {
	cfg    Config
	events *Emitter
	tracks *trackRegistry

	mu      sync.Mutex
	state   model.TransportState
	conn    *websocket.Conn
	cancel  context.CancelFunc
	done    chan struct{}
	closing bool // Disconnect in progress
}

// NewClient creates a client. It does not connect.
func NewClient(cfg Config) *Client {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultConfig().DialTimeout
	}
	return &Client{
		cfg:    cfg,
		events: NewEmitter(),
		tracks: newTrackRegistry(cfg.EnableMic, cfg.EnableCam),
		state:  model.TransportDisconnected,
	}
}

// Subscribe registers h for event.
func (c *Client) Subscribe(event Event, h Handler) func() {
	return c.events.Subscribe(event, h)
}

// Tracks returns the tracks currently available.
func (c *Client) Tracks() model.Tracks {
	return c.tracks.snapshot()
}

// State returns the current transport state.
func (c *Client) State() model.TransportState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed when the current connection has gone away. It is nil
// before the first Connect.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Client) setState(s model.TransportState) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	c.mu.Unlock()

	c.emitState(s)
}

func (c *Client) emitState(s model.TransportState) {
	logger.Info("transport state", "state", string(s))
	c.events.Emit(EventTransportStateChanged, s)
}

// Connect dials the server, announces client-ready and starts reading.
// Cancelling ctx later tears the connection down.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != model.TransportDisconnected && c.state != model.TransportError {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = model.TransportConnecting
	c.mu.Unlock()

	c.emitState(model.TransportConnecting)

	dialCtx, cancelDial := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancelDial()

	headers := http.Header{}
	for k, v := range c.cfg.Headers {
		headers.Set(k, v)
	}
	conn, _, err := websocket.Dial(dialCtx, c.cfg.URL, &websocket.DialOptions{HTTPHeader: headers})
	if err != nil {
		c.setState(model.TransportError)
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	conn.SetReadLimit(readLimit)

	msg, err := clientReadyMessage()
	if err == nil {
		err = conn.Write(dialCtx, websocket.MessageText, msg)
	}
	if err != nil {
		conn.Close(websocket.StatusInternalError, "client-ready failed")
		c.setState(model.TransportError)
		return fmt.Errorf("send client-ready: %w", err)
	}

	readCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.conn = conn
	c.cancel = cancel
	c.done = done
	c.closing = false
	c.mu.Unlock()

	c.tracks.setConnected(true)
	c.setState(model.TransportConnected)
	logger.Info("connected", "url", c.cfg.URL)

	go c.readLoop(readCtx, conn, done)
	return nil
}

// Disconnect closes the connection and waits for the read loop to stop.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn, cancel, done := c.conn, c.cancel, c.done
	if conn != nil {
		c.closing = true
	}
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	if err := conn.Close(websocket.StatusNormalClosure, ""); err != nil {
		logger.Debug("close", "err", err)
	}
	cancel()
	<-done
	return nil
}

// Close disconnects if connected.
func (c *Client) Close() error {
	if err := c.Disconnect(); err != nil && !errors.Is(err, ErrNotConnected) {
		return err
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			c.finish(ctx, err)
			return
		}
		c.handleFrame(data)
	}
}

// finish tears down after the read loop ends
func (c *Client) finish(ctx context.Context, err error) {
	c.mu.Lock()
	closing := c.closing
	cancel := c.cancel
	c.conn = nil
	c.cancel = nil
	c.mu.Unlock()

	status := websocket.CloseStatus(err)
	expected := closing || ctx.Err() != nil ||
		status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway
	if !expected {
		logger.Error("read failed", "err", err)
		c.setState(model.TransportError)
	}
	if cancel != nil {
		cancel()
	}

	c.tracks.setConnected(false)
	c.setState(model.TransportDisconnected)
	logger.Info("disconnected", "url", c.cfg.URL)
}

func (c *Client) handleFrame(raw []byte) {
	f, ok, err := parseFrame(raw)
	if err != nil {
		logger.Warn("dropping frame", "err", err)
		return
	}
	if !ok {
		return
	}

	if err := c.dispatch(f); err != nil {
		logger.Warn("bad message", "type", f.Type, "id", f.ID, "err", err)
	}
}

func (c *Client) dispatch(f frame) error {
	switch f.Type {
	case msgBotReady:
		var data model.BotReadyData
		if err := decodeInto(f.Data, &data); err != nil {
			return err
		}
		c.setState(model.TransportReady)
		c.events.Emit(EventBotReady, data)

	case msgUserTranscription:
		var data model.TranscriptData
		if err := decodeInto(f.Data, &data); err != nil {
			return err
		}
		c.events.Emit(EventUserTranscript, data)

	case msgBotTranscription:
		var data model.BotTranscriptData
		if err := decodeInto(f.Data, &data); err != nil {
			return err
		}
		c.events.Emit(EventBotTranscript, data)

	case msgBotConnected, msgBotDisconnected:
		p, err := decodeParticipant(f.Data)
		if err != nil {
			return err
		}
		event := EventBotConnected
		if f.Type == msgBotDisconnected {
			event = EventBotDisconnected
		}
		c.events.Emit(event, p)

	case msgTrackStarted:
		ev, err := decodeTrackEvent(f.Data)
		if err != nil {
			return err
		}
		c.tracks.started(ev)
		c.events.Emit(EventTrackStarted, ev)

	case msgTrackStopped:
		ev, err := decodeTrackEvent(f.Data)
		if err != nil {
			return err
		}
		c.tracks.stopped(ev)
		c.events.Emit(EventTrackStopped, ev)

	case msgError:
		logger.Warn("server error", "message", f.Data.Get("message").String(), "fatal", f.Data.Get("fatal").Bool())

	default:
		logger.Debug("unhandled message", "type", f.Type)
	}
	return nil
}
