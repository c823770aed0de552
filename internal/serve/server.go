package serve

import (
	"archivist/internal/domain/config"
	"archivist/internal/domain/issue"
	"archivist/internal/index"
	"archivist/internal/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Server is a read-only preview of the last ingestion: the index as JSON,
// the cached images under their public prefix, and a reload event stream.
type Server struct {
	cfg config.Config
	idx *index.Store
	log logger.Logger

	sseMu    sync.Mutex
	sseConns map[chan string]struct{}
}

func New(cfg config.Config, idx *index.Store, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		cfg:      cfg,
		idx:      idx,
		log:      log,
		sseConns: make(map[chan string]struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/issues", s.handleList)
	mux.HandleFunc("GET /api/issues/{slug}", s.handleIssue)
	mux.HandleFunc("GET /api/years", s.handleYears)

	// dev SSE
	mux.HandleFunc("GET /api/events", s.handleSSE)

	prefix := strings.TrimSuffix(s.cfg.Images.URLPrefix, "/") + "/"
	fileServer := http.FileServer(http.Dir(s.cfg.Path(s.cfg.Images.AssetDir)))
	mux.Handle("GET "+prefix, http.StripPrefix(prefix, fileServer))

	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("preview listening", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Reloaded tells connected clients that a new snapshot is available.
func (s *Server) Reloaded() {
	s.broadcastSSE("reload")
}

type listResponse struct {
	Page   int            `json:"page"`
	Size   int            `json:"size"`
	Issues []issue.Record `json:"issues"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opt := index.ListOptions{Year: q.Get("year")}
	var err error
	if opt.Page, err = intParam(q.Get("page")); err != nil {
		http.Error(w, "bad page", http.StatusBadRequest)
		return
	}
	if opt.Size, err = intParam(q.Get("size")); err != nil {
		http.Error(w, "bad size", http.StatusBadRequest)
		return
	}

	items, err := s.idx.List(opt)
	if err != nil {
		s.internalError(w, "list query error", err)
		return
	}
	if items == nil {
		items = []issue.Record{}
	}
	if opt.Page <= 0 {
		opt.Page = 1
	}
	writeJSON(w, http.StatusOK, listResponse{Page: opt.Page, Size: len(items), Issues: items})
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	rec, err := s.idx.Get(r.PathValue("slug"))
	if errors.Is(err, index.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.internalError(w, "issue query error", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type yearResponse struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.idx.Years()
	if err != nil {
		s.internalError(w, "years query error", err)
		return
	}
	out := make([]yearResponse, 0, len(years))
	for _, y := range years {
		out = append(out, yearResponse{Year: y.Year, Count: y.Count})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, logger.Error(err))
	http.Error(w, msg, http.StatusInternalServerError)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
