package ari

import (
	"fmt"
	"net/url"
	"strings"
)

// Connection holds the immutable coordinates of a remote ARI server. It is
// constructed once by Connect/New and never mutated afterward.
type Connection struct {
	Protocol string // "http" or "https"
	Host     string // host[:port]
	Hostname string // Host with any :port stripped
	User     string
	Secret   string
}

// parseConnection splits a base URL like "http://localhost:8088" (or
// "http://localhost:8088/ari") into a Connection.
func parseConnection(rawURL, user, secret string) (Connection, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Connection{}, fmt.Errorf("ari: invalid connect URL %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Connection{}, fmt.Errorf("ari: connect URL %q must include a scheme and host", rawURL)
	}

	hostname := u.Hostname()

	return Connection{
		Protocol: u.Scheme,
		Host:     u.Host,
		Hostname: hostname,
		User:     user,
		Secret:   secret,
	}, nil
}

// restBaseURL returns the base REST URL, e.g. "http://localhost:8088/ari".
func (c Connection) restBaseURL() string {
	return fmt.Sprintf("%s://%s/ari", c.Protocol, c.Host)
}

// websocketScheme maps the REST protocol to the WebSocket scheme — "ws" for
// "http", "wss" for "https". This client upgrades to wss when the
// connection itself is TLS so a caller who connects with https:// doesn't
// silently downgrade their event stream to plaintext.
func (c Connection) websocketScheme() string {
	if strings.EqualFold(c.Protocol, "https") {
		return "wss"
	}
	return "ws"
}

// eventsURL builds the /ari/events WebSocket URL for the given
// comma-joined application list, e.g.
// "ws://localhost:8088/ari/events?app=my-app&api_key=user:secret".
func (c Connection) eventsURL(appsCSV string) string {
	return fmt.Sprintf("%s://%s/ari/events?app=%s&api_key=%s:%s",
		c.websocketScheme(), c.Host, url.QueryEscape(appsCSV), url.QueryEscape(c.User), url.QueryEscape(c.Secret))
}
