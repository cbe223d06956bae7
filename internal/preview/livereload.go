package preview

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	// LiveReloadPath is the SSE endpoint browsers subscribe to.
	LiveReloadPath = "/_rde/livereload"
	// LiveReloadScriptPath serves the client script injected into pages.
	LiveReloadScriptPath = "/_rde/livereload.js"

	keepAliveInterval = 30 * time.Second
)

// LiveReloadScript connects to the hub and reloads the page whenever the
// advertised build id changes.
const LiveReloadScript = `(() => {
  if (window.__RDE_LR__) return;
  window.__RDE_LR__ = true;
  function connect() {
    const es = new EventSource('` + LiveReloadPath + `');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.build; return; }
        if (p.build && p.build !== current) { console.log('[rde] docs rebuilt, reloading'); location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();`

type lrClient struct {
	ch   chan string
	done chan struct{}
}

// Hub fans build notifications out to connected browsers.
type Hub struct {
	mu      sync.Mutex
	clients map[*lrClient]struct{}
	current string
	closed  bool
	logger  *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{clients: make(map[*lrClient]struct{}), logger: logger}
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Current returns the last broadcast build id.
func (h *Hub) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *Hub) addClient() (*lrClient, string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, "", false
	}
	c := &lrClient{ch: make(chan string, 4), done: make(chan struct{})}
	h.clients[c] = struct{}{}
	return c, h.current, true
}

func (h *Hub) removeClient(c *lrClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.done)
	}
}

// Broadcast records buildID as current and sends it to every client.
// Clients whose buffers are full are dropped; they reconnect on their own.
func (h *Hub) Broadcast(buildID string) {
	h.mu.Lock()
	h.current = buildID
	var dropped []*lrClient
	for c := range h.clients {
		select {
		case c.ch <- buildID:
		default:
			dropped = append(dropped, c)
		}
	}
	h.mu.Unlock()

	for _, c := range dropped {
		h.removeClient(c)
	}
	h.logger.Debug("Live reload broadcast", slog.String("build_id", buildID), slog.Int("dropped", len(dropped)))
}

// Shutdown disconnects every client and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.done)
	}
}

// ServeHTTP streams build ids as server-sent events.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	c, current, ok := h.addClient()
	if !ok {
		http.Error(w, "live reload closed", http.StatusServiceUnavailable)
		return
	}
	defer h.removeClient(c)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if err := writeEvent(w, current); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-c.done:
			return
		case id := <-c.ch:
			if err := writeEvent(w, id); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, buildID string) error {
	payload, err := json.Marshal(struct {
		Build string `json:"build"`
	}{Build: buildID})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

func serveScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(LiveReloadScript))
}
