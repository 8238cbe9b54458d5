package deeplink

import (
	"net/url"
	"strings"
	"sync"

	"textbuddy/internal/domain"
)

// Link is a parsed deep link. A Link whose input failed to parse reports
// every component as unavailable; that never changes for the instance.
type Link struct {
	raw string
	u   *url.URL

	once  sync.Once
	query domain.Query
	hasQ  bool
}

// Parse parses raw as an absolute URL. It never fails; check Valid.
func Parse(raw string) *Link {
	l := &Link{raw: raw}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err == nil && u.Scheme != "" {
		l.u = u
	}
	return l
}

// Valid reports whether the input parsed as an absolute URL.
func (l *Link) Valid() bool { return l.u != nil }

// String returns the input as given.
func (l *Link) String() string { return l.raw }

func (l *Link) Scheme() (string, bool) {
	if l.u == nil {
		return "", false
	}
	return l.u.Scheme, true
}

func (l *Link) Host() (string, bool) {
	if l.u == nil {
		return "", false
	}
	return l.u.Hostname(), true
}

func (l *Link) Path() (string, bool) {
	if l.u == nil {
		return "", false
	}
	return l.u.Path, true
}

// Query returns the link's query parameters, decoding them on first use.
// The boolean is false when the link has no query component at all (or did
// not parse), which is distinct from an empty mapping.
func (l *Link) Query() (domain.Query, bool) {
	l.once.Do(func() {
		if l.u == nil || (l.u.RawQuery == "" && !l.u.ForceQuery) {
			return
		}
		l.query, l.hasQ = parseQuery(l.u.RawQuery)
	})
	if !l.hasQ {
		return nil, false
	}
	return l.query.Clone(), true
}

// parseQuery splits raw on '&' and each segment on its first '='. Segments
// without '=' or with an empty key are dropped, as are values with broken
// percent-encoding. A repeated key makes the whole query unusable.
func parseQuery(raw string) (domain.Query, bool) {
	q := domain.Query{}
	for _, seg := range strings.Split(raw, "&") {
		key, value, ok := strings.Cut(seg, "=")
		if !ok || key == "" {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		if _, dup := q[key]; dup {
			return nil, false
		}
		q[key] = decoded
	}
	return q, true
}
