package loader

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	raw, err := Endpoint{}.URL("movies", "fnStoryList42")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.reddit.com", u.Host)
	assert.Equal(t, "/r/movies.json", u.Path)
	assert.Equal(t, "top", u.Query().Get("sort"))
	assert.Equal(t, "month", u.Query().Get("t"))
	assert.Equal(t, "fnStoryList42", u.Query().Get("jsonp"))
}

func TestEndpointURL_CustomParamAndNoPlaceholder(t *testing.T) {
	raw, err := Endpoint{Template: DefaultCollectionsTemplate, CallbackParam: "callback"}.URL("popular", "fnNav1")
	require.NoError(t, err)
	assert.Equal(t, "https://www.reddit.com/subreddits/popular.json?callback=fnNav1", raw)
}

func TestEndpointURL_BadTemplate(t *testing.T) {
	_, err := Endpoint{Template: "http://[::1"}.URL("x", "fn")
	assert.Error(t, err)
}
