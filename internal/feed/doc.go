// Package feed serves story and collection listings to many clients. Each
// client session gets its own pair of loaders, each with its own coordinator
// and transport, so a new request supersedes only that session's earlier
// request of the same kind. It is structured into small files by concern:
//
//   - config.go: Config and package defaults; New applies defaults.
//   - feed.go: Service type, Stories/Collections entry points, Ready/Close.
//   - session.go: per-session loaders, lookup and LRU eviction.
//   - status.go: Status reporting for /status.
//   - logpub.go: LogPublisher, turning loader events into zerolog lines.
//
// External packages should use public methods only (New, Stories,
// Collections, Status, Ready, Close).
package feed
