package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"storyfeed/internal/feed"
	"storyfeed/internal/httpapi"
	"storyfeed/internal/loader"
	"storyfeed/pkg/types"
)

type result struct {
	status int
	body   []byte
}

// upstream is a fake listing server speaking JSONP. Collections named in
// gates block until their gate is released or the request is abandoned.
type upstream struct {
	*httptest.Server

	mu      sync.Mutex
	gates   map[string]chan struct{}
	arrived map[string]chan struct{}
}

func newUpstream(t *testing.T, gated ...string) *upstream {
	t.Helper()
	u := &upstream{gates: map[string]chan struct{}{}, arrived: map[string]chan struct{}{}}
	for _, c := range gated {
		u.gates[c] = make(chan struct{})
		u.arrived[c] = make(chan struct{}, 1)
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) serve(w http.ResponseWriter, r *http.Request) {
	cb := r.URL.Query().Get("jsonp")
	if r.URL.Path == "/subreddits.json" {
		fmt.Fprintf(w, `%s({"kind":"Listing","data":{"children":[`+
			`{"kind":"t5","data":{"display_name":"pics","subscribers":5,"url":"/r/pics/"}},`+
			`{"kind":"t5","data":{"display_name":"movies","subscribers":50,"url":"/r/movies/"}}]}})`, cb)
		return
	}
	collection := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/r/"), ".json")
	if collection == "missing" {
		http.NotFound(w, r)
		return
	}
	u.mu.Lock()
	gate, arrived := u.gates[collection], u.arrived[collection]
	u.mu.Unlock()
	if gate != nil {
		select {
		case arrived <- struct{}{}:
		default:
		}
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	fmt.Fprintf(w, `%s({"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"%s-1","title":"top of %s","author":"bob","score":7}}]}})`, cb, collection, collection)
}

// waitArrived blocks until a request for the gated collection reached the upstream.
func (u *upstream) waitArrived(t *testing.T, collection string) {
	t.Helper()
	select {
	case <-u.arrived[collection]:
	case <-time.After(5 * time.Second):
		t.Fatalf("request for %s never reached upstream", collection)
	}
}

func (u *upstream) release(collection string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if g := u.gates[collection]; g != nil {
		close(g)
		delete(u.gates, collection)
	}
}

// newServer wires a feed service using the real JSONP transport to up.
func newServer(t *testing.T, up *upstream) (*httptest.Server, *feed.Service) {
	t.Helper()
	svc := feed.New(feed.Config{
		Stories:        loader.Endpoint{Template: up.URL + "/r/{collection}.json"},
		Collections:    loader.Endpoint{Template: up.URL + "/subreddits.json"},
		RequestTimeout: 5 * time.Second,
	})
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close()
	})
	return srv, svc
}

// doGet performs a GET carrying session; safe to call off the test goroutine.
func doGet(session, url string) (result, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return result{}, err
	}
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return result{}, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return result{status: resp.StatusCode, body: b}, err
}

func getAs(t *testing.T, session, url string) (int, []byte) {
	t.Helper()
	r, err := doGet(session, url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	return r.status, r.body
}

func decodeStories(t *testing.T, body []byte) types.StoriesResponse {
	t.Helper()
	var sr types.StoriesResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		t.Fatalf("decode stories: %v body=%s", err, body)
	}
	return sr
}

// waitIdle polls svc until no resource or hook is left.
func waitIdle(t *testing.T, svc *feed.Service) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		st := svc.Status()
		if st.AttachedResources == 0 && st.RegisteredHooks == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("resources left behind: %+v", st)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
