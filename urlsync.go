package filterbuilder

import (
	"net/url"

	"github.com/fastnext-lab/filterbuilder-go/filter"
)

// URLMirror reflects the serialized filter into a shareable location,
// typically a query string. Implementations must not assume any
// particular token shape; the value is opaque.
type URLMirror interface {
	// Get returns the current value of the parameter, or "".
	Get(param string) string

	// Set stores the value under the parameter.
	Set(param, value string)

	// Clear removes the parameter entirely.
	Clear(param string)
}

// ValuesMirror adapts a url.Values as a URLMirror. The values map is
// mutated in place, so callers sharing it observe every change.
type ValuesMirror struct {
	Values url.Values
}

// NewValuesMirror wraps the given values. A nil map is replaced with
// an empty one.
func NewValuesMirror(values url.Values) *ValuesMirror {
	if values == nil {
		values = url.Values{}
	}
	return &ValuesMirror{Values: values}
}

func (m *ValuesMirror) Get(param string) string { return m.Values.Get(param) }
func (m *ValuesMirror) Set(param, value string) { m.Values.Set(param, value) }
func (m *ValuesMirror) Clear(param string)      { m.Values.Del(param) }

// urlMirror adapts a *url.URL, rewriting its RawQuery on every change.
type urlMirror struct {
	u *url.URL
}

// MirrorURL returns a URLMirror bound to the given URL. The URL's
// query string is rewritten in place on every change, mirroring how a
// host application keeps its location shareable.
func MirrorURL(u *url.URL) URLMirror {
	return &urlMirror{u: u}
}

func (m *urlMirror) Get(param string) string {
	return m.u.Query().Get(param)
}

func (m *urlMirror) Set(param, value string) {
	q := m.u.Query()
	q.Set(param, value)
	m.u.RawQuery = q.Encode()
}

func (m *urlMirror) Clear(param string) {
	q := m.u.Query()
	q.Del(param)
	m.u.RawQuery = q.Encode()
}

// syncURL pushes the current tree into the URL mirror. The parameter
// is removed when the root has no children or when serialization
// degrades to an empty token, so an empty filter never leaves a stale
// parameter behind.
func (b *Builder) syncURL() {
	if b.cfg.URL == nil {
		return
	}
	if len(b.state.Root.Children) == 0 {
		b.cfg.URL.Clear(b.urlParam)
		return
	}
	token := filter.Serialize(b.state)
	if token == "" {
		b.cfg.URL.Clear(b.urlParam)
		return
	}
	b.cfg.URL.Set(b.urlParam, token)
}
