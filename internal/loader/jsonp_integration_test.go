package loader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyfeed/internal/coordinator"
	"storyfeed/internal/transport"
)

// upstream serves /r/{name}.json as a JSONP listing whose single child has id
// {name}. Requests for "slow" block until release is closed.
func upstream(t *testing.T, release <-chan struct{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/r/"), ".json")
		if name == "missing" {
			http.NotFound(w, r)
			return
		}
		if name == "slow" {
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		fmt.Fprintf(w, `/**/%s({"kind":"Listing","data":{"children":[{"id":%q}]}});`, r.URL.Query().Get("jsonp"), name)
	}))
}

func newJSONPLoader(t *testing.T, base string) (*Loader[item], *coordinator.Coordinator, *transport.JSONP) {
	t.Helper()
	coord := coordinator.New()
	tr := transport.NewJSONP(coord, transport.JSONPConfig{Client: &http.Client{Timeout: 5 * time.Second}})
	t.Cleanup(func() { _ = tr.Close() })
	l := New[item](Options{
		Coordinator: coord,
		Transport:   tr,
		Endpoint:    Endpoint{Template: base + "/r/{collection}.json"},
	})
	return l, coord, tr
}

func TestJSONPLoader_FetchOverHTTP(t *testing.T) {
	srv := upstream(t, nil)
	defer srv.Close()
	l, coord, tr := newJSONPLoader(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	items, err := l.Fetch(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "movies"}}, items)
	assert.Empty(t, coord.Hooks())
	assert.Equal(t, 0, tr.Attached())
}

func TestJSONPLoader_NotFoundIsTransportError(t *testing.T) {
	srv := upstream(t, nil)
	defer srv.Close()
	l, coord, _ := newJSONPLoader(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := l.Fetch(ctx, "missing")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), `"missing"`)
	assert.Empty(t, coord.Hooks())
}

func TestJSONPLoader_SlowSupersededResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	srv := upstream(t, release)
	defer srv.Close()
	l, coord, tr := newJSONPLoader(t, srv.URL)

	slow := l.Load("slow")
	fast := l.Load("fast")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	items, err := fast.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "fast"}}, items)

	close(release)
	require.Eventually(t, func() bool { return tr.Attached() == 0 && len(coord.Hooks()) == 0 }, 5*time.Second, 5*time.Millisecond)
	select {
	case <-slow.Done():
		t.Fatal("superseded load settled")
	default:
	}
}
