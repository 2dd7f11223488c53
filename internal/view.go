package poulailler

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"poulailler/internal/stats"
)

var (
	ErrLoading            = errors.New("stats are still loading")
	ErrYearFilterDisabled = errors.New("year filter is not available for yearly granularity")
	ErrUnknownYear        = errors.New("year not present in the fetched stats")
)

// Fetcher loads the data points for one granularity.
type Fetcher interface {
	Fetch(ctx context.Context, g stats.Granularity) ([]stats.DataPoint, error)
}

type ChartType string

const (
	BarChart  ChartType = "bar"
	LineChart ChartType = "line"
)

type ViewState struct {
	Granularity stats.Granularity `json:"granularity"`
	// empty means all years
	Year       string `json:"year"`
	Cumulative bool   `json:"cumulative"`
	Line       bool   `json:"line"`
}

func (s ViewState) ChartType() ChartType {
	if s.Line {
		return LineChart
	}
	return BarChart
}

// Snapshot is what clients render. Chart is nil while loading.
type Snapshot struct {
	ViewState
	Loading      bool         `json:"loading"`
	Error        string       `json:"error,omitempty"`
	Years        []string     `json:"years"`
	YearControls bool         `json:"year_controls"`
	Chart        *stats.Chart `json:"chart,omitempty"`
}

// Hook is called after every view change.
type Hook func(*View)

type View struct {
	state   ViewState
	data    []stats.DataPoint
	lastErr error

	fetcher      Fetcher
	fetchTimeout time.Duration
	location     *time.Location
	generation   uint64
	cancel       context.CancelFunc
	inflight     sync.WaitGroup

	hooks   []Hook
	clients map[*websocket.Conn]*wsClient
	mu      sync.Mutex
	sendMu  sync.Mutex
}

// NewView builds a view starting at granularity g. Dates are displayed in loc,
// or in their own offset when loc is nil.
func NewView(fetcher Fetcher, g stats.Granularity, fetchTimeout time.Duration, loc *time.Location) *View {
	return &View{
		state:        ViewState{Granularity: g},
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
		location:     loc,
	}
}

func (v *View) AddHook(h Hook) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hooks = append(v.hooks, h)
}

// Start issues the initial fetch.
func (v *View) Start() {
	v.mu.Lock()
	v.refetchLocked()
	v.mu.Unlock()
	v.notify()
}

func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		ViewState: v.state,
		Loading:   v.data == nil,
		Years:     []string{},
	}
	if v.lastErr != nil {
		snap.Error = v.lastErr.Error()
	}
	if v.data == nil {
		return snap
	}

	snap.Years = stats.Years(v.data)
	snap.YearControls = v.state.Granularity != stats.Year && len(snap.Years) > 0
	chart := stats.Aggregate(v.data, v.state.Year, v.state.Granularity, v.state.Cumulative)
	snap.Chart = &chart
	return snap
}

// SelectGranularity switches the time bucket. Choosing years also drops the
// year filter. Only an actual change triggers a fetch.
func (v *View) SelectGranularity(g stats.Granularity) {
	v.mu.Lock()
	if g == stats.Year {
		v.state.Year = ""
	}
	if g != v.state.Granularity {
		v.state.Granularity = g
		v.refetchLocked()
	}
	v.mu.Unlock()
	v.notify()
}

// SelectYear restricts the chart to one year; an empty year shows them all.
func (v *View) SelectYear(year string) error {
	v.mu.Lock()
	if year != "" {
		if v.data == nil {
			v.mu.Unlock()
			return ErrLoading
		}
		if v.state.Granularity == stats.Year {
			v.mu.Unlock()
			return ErrYearFilterDisabled
		}
		if !slices.Contains(stats.Years(v.data), year) {
			v.mu.Unlock()
			return ErrUnknownYear
		}
	}
	v.state.Year = year
	v.mu.Unlock()
	v.notify()
	return nil
}

func (v *View) ToggleCumulative() {
	v.mu.Lock()
	v.state.Cumulative = !v.state.Cumulative
	v.mu.Unlock()
	v.notify()
}

func (v *View) ToggleChartType() {
	v.mu.Lock()
	v.state.Line = !v.state.Line
	v.mu.Unlock()
	v.notify()
}

// Refresh refetches the current granularity.
func (v *View) Refresh() {
	v.mu.Lock()
	v.refetchLocked()
	v.mu.Unlock()
	v.notify()
}

// refetchLocked clears the data and starts a fetch tagged with a new
// generation. Responses for older generations are dropped.
func (v *View) refetchLocked() {
	if v.cancel != nil {
		v.cancel()
	}
	v.generation++
	gen := v.generation
	g := v.state.Granularity
	v.data = nil
	v.lastErr = nil

	var ctx context.Context
	var cancel context.CancelFunc
	if v.fetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), v.fetchTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	v.cancel = cancel

	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		defer cancel()

		log.Info("Fetching stats", "granularity", g, "generation", gen)
		points, err := v.fetcher.Fetch(ctx, g)

		v.mu.Lock()
		if gen != v.generation {
			v.mu.Unlock()
			log.Debug("Dropping stale stats response", "granularity", g, "generation", gen)
			return
		}
		v.cancel = nil
		if err != nil {
			v.lastErr = err
			v.mu.Unlock()
			log.Error("Failed to fetch stats", "granularity", g, "error", err)
			v.notify()
			return
		}
		if points == nil {
			points = []stats.DataPoint{}
		}
		v.data = stats.Localize(points, v.location)
		v.mu.Unlock()

		log.Info("Stats loaded", "granularity", g, "points", len(points))
		v.notify()
	}()
}

// wait blocks until every fetch started so far has resolved.
func (v *View) wait() {
	v.inflight.Wait()
}

func (v *View) notify() {
	v.mu.Lock()
	hooks := slices.Clone(v.hooks)
	v.mu.Unlock()
	for _, h := range hooks {
		h(v)
	}
}

const (
	// queued messages per client before it is dropped as too slow
	clientQueueSize = 16
	writeWait       = 10 * time.Second
)

// wsClient owns the writes to one websocket connection.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// AddClient registers conn and starts its writer. Messages are queued per
// client so a peer that stops reading never blocks the view.
func (v *View) AddClient(conn *websocket.Conn) {
	c := &wsClient{conn: conn, send: make(chan []byte, clientQueueSize)}

	v.mu.Lock()
	if v.clients == nil {
		v.clients = make(map[*websocket.Conn]*wsClient)
	}
	v.clients[conn] = c
	v.mu.Unlock()

	go v.writeLoop(c)
}

func (v *View) writeLoop(c *wsClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Error("Error sending message to client", "err", err, "to", c.conn.RemoteAddr())
			c.conn.Close()
			v.RemoveClient(c.conn)
			return
		}
	}
}

func (v *View) RemoveClient(conn *websocket.Conn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removeClientLocked(conn)
}

func (v *View) removeClientLocked(conn *websocket.Conn) {
	c, ok := v.clients[conn]
	if !ok {
		return
	}
	delete(v.clients, conn)
	close(c.send)
}

func (v *View) numClients() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.clients)
}

// BroadcastFunc builds a message and queues it for every client. Building
// and queueing happen under one lock, so clients receive messages in the
// order they were built.
func (v *View) BroadcastFunc(build func() any) {
	v.sendMu.Lock()
	defer v.sendMu.Unlock()

	jsonMessage, err := json.Marshal(build())
	if err != nil {
		log.Error("Error marshaling message", "err", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for conn, c := range v.clients {
		select {
		case c.send <- jsonMessage:
		default:
			log.Warn("Dropping slow client", "to", conn.RemoteAddr())
			conn.Close()
			v.removeClientLocked(conn)
		}
	}
}

func (v *View) BroadcastToClients(message any) {
	v.BroadcastFunc(func() any { return message })
}
