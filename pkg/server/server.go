package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/tagserve/internal/logger"
	"github.com/bastiangx/tagserve/pkg/caret"
	"github.com/bastiangx/tagserve/pkg/session"
	"github.com/bastiangx/tagserve/pkg/suggest"
)

// Option configures a Server.
type Option func(*Server)

// WithIO replaces stdin/stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = w
	}
}

// WithLogger replaces the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server handles the IPC for attached fields
type Server struct {
	cfg     session.Config
	catalog *sharedCatalog
	fields  map[string]*field
	reader  io.Reader
	writer  io.Writer
	enc     *msgpack.Encoder
	log     *log.Logger
}

// NewServer creates a server using stdin/stdout. cfg is the template for
// every field session; its provider is replaced by catalog.
func NewServer(cfg session.Config, catalog *suggest.Catalog, opts ...Option) *Server {
	s := &Server{
		catalog: &sharedCatalog{catalog: catalog},
		fields:  make(map[string]*field),
		reader:  os.Stdin,
		writer:  os.Stdout,
		log:     logger.New("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	cfg.Provider = s.catalog
	s.cfg = cfg
	s.enc = msgpack.NewEncoder(s.writer)
	return s
}

// SetCatalog swaps the candidates used by every field. Safe to call from
// another goroutine, e.g. a dictionary watcher.
func (s *Server) SetCatalog(c *suggest.Catalog) {
	s.catalog.set(c)
	s.log.Debug("candidate list replaced", "candidates", c.Len())
}

// Start reads requests until EOF or ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	s.log.Debug("Starting Server.")
	s.send(Response{Status: "ready", Count: s.catalog.Len()})

	dec := msgpack.NewDecoder(s.reader)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		var raw msgpack.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("input closed")
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return fmt.Errorf("read request: %w", err)
		}
		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	start := time.Now()
	var (
		resp Response
		err  error
	)
	switch req.Op {
	case OpAttach:
		resp, err = s.attach(req)
	case OpText:
		resp, err = s.text(req)
	case OpKey:
		resp, err = s.key(req)
	case OpResize:
		resp, err = s.resize(req)
	case OpDetach:
		resp, err = s.detach(req)
	case OpCandidates:
		resp, err = s.candidates(req)
	case OpAdd:
		resp, err = s.add(req)
	case OpHealth:
		resp = Response{Status: "ok", Count: s.catalog.Len(), Fields: len(s.fields)}
	default:
		err = &requestError{code: 400, msg: fmt.Sprintf("Unknown op: %s", req.Op)}
	}
	if err != nil {
		code := 500
		var re *requestError
		if errors.As(err, &re) {
			code = re.code
		}
		s.sendError(req.ID, err.Error(), code)
		return
	}
	resp.ID = req.ID
	resp.TimeTaken = time.Since(start).Microseconds()
	s.send(resp)
}

func (s *Server) attach(req Request) (Response, error) {
	id := uuid.NewString()
	f := newField(id, s.cfg.Style)
	if req.InputWidth != nil {
		f.host.Width = *req.InputWidth
	}
	ctrl, err := session.NewController(s.cfg, f.host, f, f,
		session.WithLogger(s.log.WithPrefix("session "+id[:8])),
		session.WithDeferredEcho())
	if err != nil {
		return Response{}, fmt.Errorf("create session: %w", err)
	}
	f.ctrl = ctrl
	ctrl.Reset()
	s.fields[id] = f
	s.log.Debug("attached field", "field", id, "fields", len(s.fields))
	return Response{Field: id, View: f.wireView()}, nil
}

func (s *Server) text(req Request) (Response, error) {
	f, err := s.field(req.Field)
	if err != nil {
		return Response{}, err
	}
	if req.Caret < 0 || req.Caret > len(req.Text) {
		// no match: an open panel must not outlive a bad caret
		f.host.Buffer, f.host.Offset = req.Text, min(max(req.Caret, 0), len(req.Text))
		f.ctrl.OnTextChange(req.Text, req.Caret)
		return Response{}, &requestError{code: 400, msg: fmt.Sprintf("caret %d outside text of %d bytes", req.Caret, len(req.Text))}
	}
	if req.InputWidth != nil {
		f.host.Width = *req.InputWidth
	}
	f.coords = nil
	if req.Coords != nil {
		f.coords = &caret.Point{Top: req.Coords.Top, Left: req.Coords.Left}
	}
	f.host.Buffer, f.host.Offset = req.Text, req.Caret
	f.ctrl.OnTextChange(req.Text, req.Caret)
	return f.response(false), nil
}

func (s *Server) key(req Request) (Response, error) {
	f, err := s.field(req.Field)
	if err != nil {
		return Response{}, err
	}
	handled := f.ctrl.OnKeyDown(session.Key(req.Key))
	return f.response(handled), nil
}

func (s *Server) resize(req Request) (Response, error) {
	f, err := s.field(req.Field)
	if err != nil {
		return Response{}, err
	}
	if req.InputWidth != nil {
		f.host.Width = *req.InputWidth
	}
	if req.PanelWidth != nil {
		f.panelWidth = *req.PanelWidth
		f.ctrl.OnPanelResize(*req.PanelWidth)
	}
	return f.response(false), nil
}

func (s *Server) detach(req Request) (Response, error) {
	f, err := s.field(req.Field)
	if err != nil {
		return Response{}, err
	}
	f.ctrl.Reset()
	delete(s.fields, f.id)
	s.log.Debug("detached field", "field", f.id, "fields", len(s.fields))
	return Response{Field: f.id, Status: "detached"}, nil
}

func (s *Server) candidates(req Request) (Response, error) {
	list := make([]suggest.Candidate, 0, len(req.Candidates))
	for _, e := range req.Candidates {
		list = append(list, e)
	}
	catalog := suggest.NewCatalog(list)
	if catalog.Len() == 0 {
		return Response{}, &requestError{code: 400, msg: "candidate list is empty"}
	}
	s.SetCatalog(catalog)
	return Response{Status: "ok", Count: catalog.Len()}, nil
}

// add extends the current candidate list in place. Entries whose display
// text is already present are skipped.
func (s *Server) add(req Request) (Response, error) {
	if len(req.Candidates) == 0 {
		return Response{}, &requestError{code: 400, msg: "no candidates to add"}
	}
	added, total := s.catalog.add(req.Candidates)
	s.log.Debug("candidates added", "added", added, "candidates", total)
	return Response{Status: "ok", Count: total, Added: added}, nil
}

func (s *Server) field(id string) (*field, error) {
	if id == "" {
		return nil, &requestError{code: 400, msg: "Missing 'f' parameter"}
	}
	f, ok := s.fields[id]
	if !ok {
		return nil, &requestError{code: 404, msg: fmt.Sprintf("Unknown field: %s", id)}
	}
	return f, nil
}

func (s *Server) send(v any) {
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string { return e.msg }

// sharedCatalog lets the candidate list be replaced while sessions hold it
// as their provider.
type sharedCatalog struct {
	mu      sync.RWMutex
	catalog *suggest.Catalog
}

func (p *sharedCatalog) get() *suggest.Catalog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.catalog
}

func (p *sharedCatalog) set(c *suggest.Catalog) {
	p.mu.Lock()
	p.catalog = c
	p.mu.Unlock()
}

// add inserts entries into the current catalog, creating one when none is
// set. It returns how many were new and the resulting size.
func (p *sharedCatalog) add(entries []suggest.Entry) (added, total int) {
	p.mu.Lock()
	if p.catalog == nil {
		p.catalog = suggest.NewCatalog(nil)
	}
	c := p.catalog
	p.mu.Unlock()
	for _, e := range entries {
		if c.Add(e) {
			added++
		}
	}
	return added, c.Len()
}

func (p *sharedCatalog) Suggest(query string, limit int) []suggest.Candidate {
	if c := p.get(); c != nil {
		return c.Suggest(query, limit)
	}
	return nil
}

func (p *sharedCatalog) Len() int {
	if c := p.get(); c != nil {
		return c.Len()
	}
	return 0
}

func (p *sharedCatalog) Stats() map[string]int {
	if c := p.get(); c != nil {
		return c.Stats()
	}
	return map[string]int{}
}
