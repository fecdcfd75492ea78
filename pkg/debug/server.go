// Package debug exposes the committed tree and engine counters over HTTP
// for inspection, plus a Prometheus collector for scraping.
package debug

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/engine"
	"github.com/nextcore/tessera/pkg/resolve"
)

// SafeFloat wraps a float64 to handle Inf/NaN in JSON encoding.
type SafeFloat float64

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(v, -1) {
		return []byte(`"-Infinity"`), nil
	}
	if math.IsNaN(v) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// TreeNode is one serialized node of the committed layout tree.
type TreeNode struct {
	Component string     `json:"component"`
	GlobalKey string     `json:"globalKey"`
	Width     SafeFloat  `json:"width"`
	Height    SafeFloat  `json:"height"`
	X         SafeFloat  `json:"x"`
	Y         SafeFloat  `json:"y"`
	Deferred  bool       `json:"deferred,omitempty"`
	Depth     int        `json:"depth"`
	Children  []TreeNode `json:"children,omitempty"`
}

// Server serves the inspection endpoints for one engine.
type Server struct {
	engine *engine.Engine

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer wraps an engine.
func NewServer(e *engine.Engine) *Server {
	return &Server{engine: e}
}

// Start binds addr and serves until Stop. It returns the bound address,
// useful with a ":0" ephemeral port.
func (s *Server) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return s.listener.Addr().String(), nil
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("debug server listen: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(NewStatsCollector(s.engine.Stats()))

	mux := http.NewServeMux()
	mux.HandleFunc("/tree", s.handleTree)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.listener = listener
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go s.server.Serve(listener)
	return listener.Addr().String(), nil
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	err := s.server.Close()
	s.server = nil
	s.listener = nil
	return err
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	committed := s.engine.Committed()
	w.Header().Set("Content-Type", "application/json")
	if committed == nil || committed.Result == nil {
		http.Error(w, `{"error":"no committed tree"}`, http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(serializeResult(committed.Result, 0))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.engine.Stats().Snapshot())
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func serializeResult(result *resolve.LayoutResult, depth int) TreeNode {
	node := result.Node()
	out := TreeNode{
		Component: component.Name(node.TailComponent()),
		GlobalKey: node.TailKey(),
		Width:     SafeFloat(result.Width()),
		Height:    SafeFloat(result.Height()),
		X:         SafeFloat(result.Offset().X),
		Y:         SafeFloat(result.Offset().Y),
		Deferred:  node.IsDeferred(),
		Depth:     depth,
	}
	if nested := result.NestedResult(); nested != nil {
		out.Children = append(out.Children, serializeResult(nested, depth+1))
	}
	for _, child := range result.Children() {
		out.Children = append(out.Children, serializeResult(child, depth+1))
	}
	return out
}
