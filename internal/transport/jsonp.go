package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding JSONPConfig fields are unset.
const (
	defaultMaxBodyBytes = 8 << 20
	defaultTimeout      = 30 * time.Second
	defaultUserAgent    = "storyfeed/1.0"
)

// JSONPConfig encapsulates the tunables of a JSONP transport.
type JSONPConfig struct {
	// Client is shared between transports; nil gets a client with a 30s timeout.
	Client       *http.Client
	MaxBodyBytes int64
	UserAgent    string
	Logger       zerolog.Logger
}

// JSONP fetches Script addresses over HTTP and executes the response by
// invoking the hook it names on the Dispatcher.
type JSONP struct {
	env     Dispatcher
	client  *http.Client
	maxBody int64
	ua      string
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	attached map[*Script]struct{}
}

// NewJSONP returns a transport delivering into env.
func NewJSONP(env Dispatcher, cfg JSONPConfig) *JSONP {
	t := &JSONP{
		env:      env,
		client:   cfg.Client,
		maxBody:  cfg.MaxBodyBytes,
		ua:       cfg.UserAgent,
		log:      cfg.Logger,
		attached: make(map[*Script]struct{}),
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: defaultTimeout}
	}
	if t.maxBody <= 0 {
		t.maxBody = defaultMaxBodyBytes
	}
	if t.ua == "" {
		t.ua = defaultUserAgent
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())
	return t
}

// Attach validates the address and starts the fetch in the background.
func (t *JSONP) Attach(s *Script) error {
	u, err := url.Parse(s.Src)
	if err != nil {
		return fmt.Errorf("parse src: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %s", u.Scheme, s.Src)
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.attached[s] = struct{}{}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		t.fetch(s)
	}()
	return nil
}

// Detach forgets s. It does not abort an in-flight fetch.
func (t *JSONP) Detach(s *Script) {
	t.mu.Lock()
	delete(t.attached, s)
	t.mu.Unlock()
}

// Attached returns the number of resources attached and not yet detached.
func (t *JSONP) Attached() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.attached)
}

// Close cancels every in-flight fetch and waits for them to report. Pending
// scripts fail with an error wrapping ErrClosed.
func (t *JSONP) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	t.cancel()
	t.wg.Wait()
	return nil
}

func (t *JSONP) fetch(s *Script) {
	req, err := http.NewRequestWithContext(t.ctx, http.MethodGet, s.Src, nil)
	if err != nil {
		s.Fail(err)
		return
	}
	req.Header.Set("User-Agent", t.ua)
	req.Header.Set("Accept", "application/javascript, */*;q=0.1")
	resp, err := t.client.Do(req)
	if err != nil {
		s.Fail(t.cut(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		s.Fail(&StatusError{Code: resp.StatusCode, Src: s.Src})
		return
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		s.Fail(t.cut(fmt.Errorf("read body: %w", err)))
		return
	}
	if int64(len(body)) > t.maxBody {
		s.Fail(fmt.Errorf("response exceeds %d bytes", t.maxBody))
		return
	}
	name, payload, err := ParseJSONP(body)
	if err != nil {
		s.Fail(err)
		return
	}
	if name != s.Hook {
		s.Fail(fmt.Errorf("response calls %q, expected %q", name, s.Hook))
		return
	}
	if !t.env.Invoke(name, payload) {
		t.log.Debug().Str("hook", name).Msg("no hook registered for delivery; dropped")
	}
}

// cut attributes err to Close when the transport was closed mid-fetch.
func (t *JSONP) cut(err error) error {
	if t.ctx.Err() == nil {
		return err
	}
	return fmt.Errorf("%w: %w", ErrClosed, err)
}

// ParseJSONP splits a hook call such as `/**/fnX({"a":1});` into the hook
// name and its single JSON argument.
func ParseJSONP(body []byte) (string, json.RawMessage, error) {
	b := bytes.TrimSpace(body)
	b = bytes.TrimPrefix(b, []byte("/**/"))
	b = bytes.TrimSpace(b)

	i := 0
	for i < len(b) && isIdentByte(b[i], i == 0) {
		i++
	}
	if i == 0 {
		return "", nil, errors.New("jsonp: missing callback name")
	}
	name := string(b[:i])
	rest := bytes.TrimSpace(b[i:])
	if len(rest) == 0 || rest[0] != '(' {
		return "", nil, fmt.Errorf("jsonp: expected ( after %s", name)
	}
	rest = bytes.TrimSpace(rest[1:])
	rest = bytes.TrimSuffix(rest, []byte(";"))
	rest = bytes.TrimSpace(rest)
	if len(rest) == 0 || rest[len(rest)-1] != ')' {
		return "", nil, fmt.Errorf("jsonp: unterminated call to %s", name)
	}
	arg := bytes.TrimSpace(rest[:len(rest)-1])
	if !json.Valid(arg) {
		return "", nil, fmt.Errorf("jsonp: argument of %s is not valid JSON", name)
	}
	return name, json.RawMessage(arg), nil
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_' || c == '$':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9', c == '.':
		return !first
	}
	return false
}
