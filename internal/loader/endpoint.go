package loader

import (
	"fmt"
	"net/url"
	"strings"
)

// Default endpoint templates and callback parameter.
const (
	DefaultStoriesTemplate     = "https://www.reddit.com/r/{collection}.json?sort=top&t=month"
	DefaultCollectionsTemplate = "https://www.reddit.com/subreddits/popular.json"
	DefaultCallbackParam       = "jsonp"

	collectionPlaceholder = "{collection}"
)

// Endpoint builds the address of a collection's listing. Template may contain
// {collection}, which is replaced with the path-escaped collection id; the
// hook name is passed in the CallbackParam query parameter.
type Endpoint struct {
	Template      string
	CallbackParam string
}

// URL returns the address that makes the endpoint call hook with the listing
// of collection.
func (e Endpoint) URL(collection, hook string) (string, error) {
	tmpl := e.Template
	if tmpl == "" {
		tmpl = DefaultStoriesTemplate
	}
	param := e.CallbackParam
	if param == "" {
		param = DefaultCallbackParam
	}
	raw := strings.ReplaceAll(tmpl, collectionPlaceholder, url.PathEscape(collection))
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("endpoint template: %w", err)
	}
	q := u.Query()
	q.Set(param, hook)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
