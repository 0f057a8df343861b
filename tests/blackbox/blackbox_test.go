package blackbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil { t.Fatalf("listen: %v", err) }
	port := ln.Addr().(*net.TCPAddr).Port
	cleanup := func() { _ = ln.Close() }
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok { t.Fatal("runtime.Caller failed") }
	// this file: <root>/tests/blackbox/blackbox_test.go
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	binPath := filepath.Join(t.TempDir(), "storyfeed")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/storyfeed")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// fakeListings serves JSONP listings: any /r/{name}.json except "missing",
// and the collections listing at /subreddits.json.
func fakeListings(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cb := r.URL.Query().Get("jsonp")
		if r.URL.Path == "/subreddits.json" {
			fmt.Fprintf(w, `%s({"kind":"Listing","data":{"children":[{"kind":"t5","data":{"display_name":"movies","subscribers":9,"url":"/r/movies/"}}]}})`, cb)
			return
		}
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/r/"), ".json")
		if name == "missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `/**/%s({"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"x","title":"hello %s"}}]}});`, cb, name)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin string, upstream string, port int) *serverProc {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "storyfeed.toml")
	cfg := fmt.Sprintf("addr = \"127.0.0.1:%d\"\nstories_url = %q\ncollections_url = %q\nrequest_timeout_ms = 3000\n",
		port, upstream+"/r/{collection}.json", upstream+"/subreddits.json")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil { t.Fatalf("write config: %v", err) }

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin, "serve", "--config", cfgPath, "--log-level", "debug")
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { _ = cmd.Process.Kill(); _ = cmd.Wait() })
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK { break }
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	return &serverProc{cmd: cmd, base: base}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	req.Header.Set("X-Session-ID", "blackbox")
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do: %v", err) }
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	up := fakeListings(t)
	// Reserve a free port, then release listener before starting the server
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, up.URL, port)

	resp, body := get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/readyz %d %s", resp.StatusCode, string(body)) }

	resp, body = get(t, sp.base+"/r/movies")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/r/movies %d %s", resp.StatusCode, string(body)) }
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") { t.Fatalf("content-type=%s", ct) }
	var stories struct {
		Collection string `json:"collection"`
		Stories    []struct{ Data struct{ Title string `json:"title"` } `json:"data"` } `json:"stories"`
	}
	if err := json.Unmarshal(body, &stories); err != nil { t.Fatalf("json: %v body=%s", err, string(body)) }
	if stories.Collection != "movies" || len(stories.Stories) != 1 || stories.Stories[0].Data.Title != "hello movies" {
		t.Fatalf("unexpected stories: %+v", stories)
	}

	resp, body = get(t, sp.base+"/collections?active=/r/movies/")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/collections %d %s", resp.StatusCode, string(body)) }
	if !strings.Contains(string(body), `"selected":true`) { t.Fatalf("expected selected item: %s", string(body)) }

	resp, body = get(t, sp.base+"/status")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/status %d %s", resp.StatusCode, string(body)) }
	var st struct{ Sessions int `json:"sessions"` }
	if err := json.Unmarshal(body, &st); err != nil { t.Fatalf("/status json: %v", err) }
	if st.Sessions != 1 { t.Fatalf("expected 1 session, got %d", st.Sessions) }

	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "storyfeed_loader_loads_total") {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
}

func TestBlackbox_UpstreamFailure_502(t *testing.T) {
	bin := buildBinary(t)
	up := fakeListings(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, up.URL, port)

	resp, body := get(t, sp.base+"/r/missing")
	if resp.StatusCode != http.StatusBadGateway { t.Fatalf("expected 502, got %d, body=%s", resp.StatusCode, string(body)) }
	var e struct{ Error string `json:"error"`; Code int `json:"code"` }
	if err := json.Unmarshal(body, &e); err != nil { t.Fatalf("json: %v", err) }
	want := `Error loading stories for collection "missing". Refresh the page or select a different collection.`
	if e.Error != want || e.Code != http.StatusBadGateway {
		t.Fatalf("unexpected error body: %+v", e)
	}
}

func TestBlackbox_FetchCommand(t *testing.T) {
	bin := buildBinary(t)
	up := fakeListings(t)
	cmd := exec.Command(bin, "fetch", "golang", "--stories-url", up.URL+"/r/{collection}.json")
	cmd.Dir = t.TempDir()
	out, err := cmd.Output()
	if err != nil { t.Fatalf("fetch: %v", err) }
	if !strings.Contains(string(out), "hello golang") { t.Fatalf("unexpected output: %q", string(out)) }
}

func TestBlackbox_BlankCollection_400(t *testing.T) {
	bin := buildBinary(t)
	up := fakeListings(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, up.URL, port)

	for _, path := range []string{"/r/%20", "/r/", "/r"} {
		resp, body := get(t, sp.base+path)
		if resp.StatusCode != http.StatusBadRequest { t.Fatalf("%s: expected 400, got %d, body=%s", path, resp.StatusCode, string(body)) }
	}
}
