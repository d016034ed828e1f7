package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultStreamURL is the public Hermes websocket endpoint.
const DefaultStreamURL = "wss://hermes.pyth.network/ws"

// ErrStreamClosed is returned by Send-like operations after Close.
var ErrStreamClosed = errors.New("oracle: stream closed")

// PriceUpdate is one streamed price tick.
type PriceUpdate struct {
	Pair       string
	Price      float64
	ReceivedAt time.Time
}

// StreamConfig configures a Stream.
type StreamConfig struct {
	URL        string
	BufferSize int
	// ReconnectBackoff is the initial delay before redialing after a
	// dropped connection. It doubles per attempt up to 30s.
	ReconnectBackoff time.Duration
}

// Stream maintains a websocket subscription to Hermes price feeds and
// redials with backoff when the connection drops.
type Stream struct {
	cfg    StreamConfig
	logger *slog.Logger

	// feed ID (normalized) to pair ID
	pairs   map[string]string
	feedIDs []string

	updates chan PriceUpdate
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

type subscribeMessage struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids"`
}

type streamMessage struct {
	Type      string      `json:"type"`
	PriceFeed priceUpdate `json:"price_feed"`
}

// NewStream creates a price stream for the given pairs. feeds maps pair IDs
// to Hermes feeds, as returned by Client.CryptoFeeds.
func NewStream(cfg StreamConfig, feeds map[string]Feed, logger *slog.Logger) *Stream {
	if cfg.URL == "" {
		cfg.URL = DefaultStreamURL
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256
	}
	if cfg.ReconnectBackoff == 0 {
		cfg.ReconnectBackoff = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := make(map[string]string, len(feeds))
	feedIDs := make([]string, 0, len(feeds))
	for pairID, feed := range feeds {
		pairs[normalizeFeedID(feed.ID)] = pairID
		feedIDs = append(feedIDs, feed.ID)
	}

	return &Stream{
		cfg:     cfg,
		logger:  logger,
		pairs:   pairs,
		feedIDs: feedIDs,
		updates: make(chan PriceUpdate, cfg.BufferSize),
		done:    make(chan struct{}),
	}
}

// Updates returns the channel of streamed price ticks.
func (s *Stream) Updates() <-chan PriceUpdate {
	return s.updates
}

// Run dials and reads until ctx is canceled or Close is called. Dropped
// connections are redialed with exponential backoff.
func (s *Stream) Run(ctx context.Context) error {
	backoff := s.cfg.ReconnectBackoff

	for {
		err := s.runOnce(ctx)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}

		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return nil
		}

		s.logger.Warn("price stream disconnected, reconnecting",
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}
}

func (s *Stream) runOnce(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := subscribeMessage{Type: "subscribe", IDs: s.feedIDs}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}

	s.logger.Debug("price stream connected", "url", s.cfg.URL, "feeds", len(s.feedIDs))

	// Unblock ReadMessage when the context ends.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
		case <-stop:
			return
		}
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		receivedAt := time.Now()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug("unparseable stream message", "error", err)
			continue
		}
		if msg.Type != "price_update" {
			continue
		}

		pairID, ok := s.pairs[normalizeFeedID(msg.PriceFeed.ID)]
		if !ok {
			continue
		}

		price, err := decodePrice(msg.PriceFeed.Price.Price, msg.PriceFeed.Price.Expo)
		if err != nil {
			s.logger.Debug("unparseable price", "feed", msg.PriceFeed.ID, "error", err)
			continue
		}

		update := PriceUpdate{
			Pair:       pairID,
			Price:      price,
			ReceivedAt: receivedAt,
		}

		select {
		case s.updates <- update:
		case <-s.done:
			return nil
		default:
			s.logger.Warn("price buffer full, dropping update", "pair", pairID)
		}
	}
}

// Close stops the stream. Run returns after the current read unblocks.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	s.closed = true
	close(s.done)
	return nil
}
