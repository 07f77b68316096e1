// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	applog "eqscope/internal/log"

	"github.com/gorilla/websocket"
)

// Default WebSocket settings.
const (
	WebSocketPath       = "/ws"
	broadcastQueueSize  = 256
	clientWriteDeadline = time.Second
)

// WebSocketTransport implements the Transport interface for WebSocket
// connections. Payloads are broadcast to every client as JSON.
//
// Thread Safety:
// - Uses mutex for client map access
// - Send never blocks; when the broadcast queue is full the payload is dropped
// - Rate limits sends using an atomic timestamp
type WebSocketTransport struct {
	addr            string
	upgrader        websocket.Upgrader
	clients         map[*websocket.Conn]bool
	clientsMu       sync.Mutex
	broadcast       chan any
	done            chan struct{}
	closeOnce       sync.Once
	closed          atomic.Bool
	server          *http.Server
	minSendInterval time.Duration // Minimum time between sends (prevents flooding)
	lastSend        atomic.Int64  // UnixNano of the last accepted send.
	dropped         atomic.Uint64
}

// NewWebSocketTransport creates a transport serving WebSocket clients on
// addr at WebSocketPath. With an empty addr no listener is started and the
// caller mounts Handler itself. A positive minSendInterval drops sends that
// arrive sooner than that after the previous one.
func NewWebSocketTransport(addr string, minSendInterval time.Duration) *WebSocketTransport {
	wst := &WebSocketTransport{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Frames are public; any page may draw them.
			},
		},
		clients:         make(map[*websocket.Conn]bool),
		broadcast:       make(chan any, broadcastQueueSize),
		done:            make(chan struct{}),
		minSendInterval: minSendInterval,
	}

	if addr != "" {
		wst.server = &http.Server{
			Addr:    addr,
			Handler: wst.Handler(),
		}
		go func() {
			applog.Infof("WebSocketTransport: Starting WebSocket server on %s%s", addr, WebSocketPath)
			if err := wst.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				applog.Errorf("WebSocketTransport: Server error: %v", err)
			}
		}()
	}

	go wst.handleBroadcasts()
	return wst
}

// Handler returns the HTTP handler upgrading requests at WebSocketPath.
func (wst *WebSocketTransport) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, wst.handleWebSocket)
	return mux
}

// handleWebSocket upgrades HTTP connections to WebSocket
func (wst *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wst.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Warnf("WebSocketTransport: Upgrade error: %v", err)
		return
	}

	// Register client
	wst.clientsMu.Lock()
	wst.clients[conn] = true
	total := len(wst.clients)
	wst.clientsMu.Unlock()
	applog.Infof("WebSocketTransport: Client connected, total: %d", total)

	// Handle disconnect
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wst.removeClient(conn)
				return
			}
		}
	}()
}

func (wst *WebSocketTransport) removeClient(conn *websocket.Conn) {
	wst.clientsMu.Lock()
	_, ok := wst.clients[conn]
	delete(wst.clients, conn)
	total := len(wst.clients)
	wst.clientsMu.Unlock()

	conn.Close()
	if ok {
		applog.Infof("WebSocketTransport: Client disconnected, total: %d", total)
	}
}

// handleBroadcasts sends messages to all connected clients
func (wst *WebSocketTransport) handleBroadcasts() {
	for {
		select {
		case <-wst.done:
			return
		case data := <-wst.broadcast:
			wst.clientsMu.Lock()
			for client := range wst.clients {
				client.SetWriteDeadline(time.Now().Add(clientWriteDeadline))
				if err := client.WriteJSON(data); err != nil {
					applog.Warnf("WebSocketTransport: Error sending to client: %v", err)
					client.Close()
					delete(wst.clients, client)
				}
			}
			wst.clientsMu.Unlock()
		}
	}
}

// Send queues data for broadcast. It never blocks: rate-limited or
// overflowing payloads are dropped and counted.
func (wst *WebSocketTransport) Send(data any) error {
	if wst.closed.Load() {
		return ErrClosed
	}

	if wst.minSendInterval > 0 {
		now := time.Now().UnixNano()
		last := wst.lastSend.Load()
		if last != 0 && time.Duration(now-last) < wst.minSendInterval {
			wst.dropped.Add(1)
			return nil
		}
		wst.lastSend.Store(now)
	}

	select {
	case wst.broadcast <- data:
		// Message queued for broadcast
	default:
		// Channel full, drop message
		wst.dropped.Add(1)
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (wst *WebSocketTransport) ClientCount() int {
	wst.clientsMu.Lock()
	defer wst.clientsMu.Unlock()
	return len(wst.clients)
}

// Dropped returns the number of payloads dropped by rate limiting or a full
// queue.
func (wst *WebSocketTransport) Dropped() uint64 {
	return wst.dropped.Load()
}

// Close disconnects every client and shuts down the server.
func (wst *WebSocketTransport) Close() error {
	var err error
	wst.closeOnce.Do(func() {
		applog.Infof("WebSocketTransport: Closing server")
		wst.closed.Store(true)
		close(wst.done)

		// Close all client connections
		wst.clientsMu.Lock()
		for client := range wst.clients {
			client.Close()
		}
		wst.clients = make(map[*websocket.Conn]bool)
		wst.clientsMu.Unlock()

		if wst.server != nil {
			err = wst.server.Close()
		}
	})
	return err
}

// Ensure WebSocketTransport satisfies the interface
var _ Transport = (*WebSocketTransport)(nil)
