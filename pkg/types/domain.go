package types

// Listing is the envelope the remote endpoint delivers to a completion hook:
// {"kind":"Listing","data":{"children":[...]}}.
type Listing[T any] struct {
	Kind string         `json:"kind"`
	Data ListingData[T] `json:"data"`
}

// ListingData holds the ordered children of a Listing.
type ListingData[T any] struct {
	Children []T `json:"children"`
}

// ListingKind is the kind value carried by every listing envelope.
const ListingKind = "Listing"

// Story is one item of a collection's listing (kind "t3").
type Story struct {
	// example: t3
	Kind string    `json:"kind" example:"t3"`
	Data StoryData `json:"data"`
}

// StoryData carries the story fields consumed by renderers.
type StoryData struct {
	// example: 1abcde
	ID string `json:"id" example:"1abcde"`
	// example: A cat discovers a box
	Title string `json:"title" example:"A cat discovers a box"`
	// example: someone
	Author string `json:"author" example:"someone"`
	// Seconds since the unix epoch.
	// example: 1700000000
	CreatedUTC float64 `json:"created_utc" example:"1700000000"`
	// example: 4242
	Score int `json:"score" example:"4242"`
	// example: https://i.example.com/cat.jpg
	URL     string `json:"url" example:"https://i.example.com/cat.jpg"`
	IsSelf  bool   `json:"is_self"`
	IsVideo bool   `json:"is_video"`
	// Present for hosted videos only.
	SecureMedia *SecureMedia `json:"secure_media,omitempty"`
	// Awards are passed through untouched.
	AllAwardings []Awarding `json:"all_awardings,omitempty"`
}

// SecureMedia wraps hosted media of a story.
type SecureMedia struct {
	RedditVideo *RedditVideo `json:"reddit_video,omitempty"`
}

// RedditVideo describes a hosted video.
type RedditVideo struct {
	FallbackURL string `json:"fallback_url"`
	IsGIF       bool   `json:"is_gif"`
}

// Awarding is an award attached to a story.
type Awarding struct {
	Description  string         `json:"description"`
	IconURL      string         `json:"icon_url"`
	IsEnabled    bool           `json:"is_enabled"`
	Name         string         `json:"name"`
	ResizedIcons []ResizedImage `json:"resized_icons,omitempty"`
}

// ResizedImage is one rendition of an award icon.
type ResizedImage struct {
	Height int    `json:"height"`
	Width  int    `json:"width"`
	URL    string `json:"url"`
}

// Subreddit is one item of the collections listing (kind "t5").
type Subreddit struct {
	// example: t5
	Kind string        `json:"kind" example:"t5"`
	Data SubredditData `json:"data"`
}

// SubredditData carries the collection fields used by navigation.
type SubredditData struct {
	// example: movies
	DisplayName string `json:"display_name" example:"movies"`
	// example: 2qh3s
	ID string `json:"id" example:"2qh3s"`
	// example: 31000000
	Subscribers int64 `json:"subscribers" example:"31000000"`
	// example: Movie News and Discussion
	Title string `json:"title" example:"Movie News and Discussion"`
	// example: /r/movies/
	URL string `json:"url" example:"/r/movies/"`
}
