package httpapi

import "time"

// waitTimeout bounds how long a listing request waits for its load; zero
// waits until the load settles, is superseded or the client leaves.
var waitTimeout time.Duration

// SetRequestTimeout sets the per-request wait limit (<=0 disables).
func SetRequestTimeout(d time.Duration) {
	waitTimeout = max(d, 0)
}

// CORSOptions configures the optional CORS middleware. Credentials are
// allowed so the session cookie travels with cross-origin requests.
type CORSOptions struct {
	Enabled bool
	Origins []string
	Methods []string
	Headers []string
}

var corsOpts CORSOptions

// SetCORS installs the CORS configuration used by subsequent NewMux calls.
func SetCORS(o CORSOptions) {
	o.Origins = append([]string(nil), o.Origins...)
	o.Methods = append([]string(nil), o.Methods...)
	o.Headers = append([]string(nil), o.Headers...)
	corsOpts = o
}
