package filterbuilder

import (
	"net/url"
	"testing"

	"github.com/fastnext-lab/filterbuilder-go/filter"
)

func TestURLSyncMirrorsEdits(t *testing.T) {
	values := url.Values{}
	b := newTestBuilder(t, func(c *Config) { c.URL = NewValuesMirror(values) })

	if values.Get(DefaultURLParam) != "" {
		t.Fatal("empty tree must not be mirrored")
	}

	buildNamedFilter(t, b)
	token := values.Get(DefaultURLParam)
	if token == "" {
		t.Fatal("edit did not reach the URL mirror")
	}

	decoded := filter.Deserialize(token)
	if decoded == nil {
		t.Fatal("mirrored token does not decode")
	}
	if !filter.Equal(decoded, b.State()) {
		t.Error("mirrored token decodes to a different tree")
	}
}

func TestURLSyncRemovesParamWhenCleared(t *testing.T) {
	values := url.Values{"other": {"kept"}}
	b := newTestBuilder(t, func(c *Config) { c.URL = NewValuesMirror(values) })
	buildNamedFilter(t, b)

	if values.Get(DefaultURLParam) == "" {
		t.Fatal("setup failed: token missing")
	}

	if err := b.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, present := values[DefaultURLParam]; present {
		t.Error("clearing the tree must remove the parameter, not encode an empty tree")
	}
	if values.Get("other") != "kept" {
		t.Error("unrelated parameters must survive")
	}
}

func TestURLSyncCustomParam(t *testing.T) {
	values := url.Values{}
	b := newTestBuilder(t, func(c *Config) {
		c.URL = NewValuesMirror(values)
		c.URLParam = "q"
	})
	buildNamedFilter(t, b)

	if values.Get("q") == "" {
		t.Error("custom parameter name ignored")
	}
	if values.Get(DefaultURLParam) != "" {
		t.Error("default parameter must stay untouched")
	}
}

func TestInitRestoresFromURL(t *testing.T) {
	source := filter.NewState()
	cond := filter.NewCondition("age")
	cond.Operator = filter.OpGreaterThan
	cond.Value = float64(21)
	source.Root.Children = append(source.Root.Children, cond)

	values := url.Values{DefaultURLParam: {filter.Serialize(source)}}
	b := newTestBuilder(t, func(c *Config) { c.URL = NewValuesMirror(values) })

	if !filter.Equal(source, b.State()) {
		t.Error("builder did not restore the tree from the URL")
	}
}

func TestInitURLTokenBeatsInitial(t *testing.T) {
	fromURL := filter.NewState()
	fromURL.Root.Children = append(fromURL.Root.Children, filter.NewCondition("name"))

	initial := filter.NewState()
	initial.Root.Children = append(initial.Root.Children, filter.NewCondition("age"))

	values := url.Values{DefaultURLParam: {filter.Serialize(fromURL)}}
	b := newTestBuilder(t, func(c *Config) {
		c.URL = NewValuesMirror(values)
		c.Initial = initial
	})

	if !filter.Equal(fromURL, b.State()) {
		t.Error("URL token must win over the configured initial tree")
	}
}

func TestInitMalformedTokenFallsBack(t *testing.T) {
	initial := filter.NewState()
	initial.Root.Children = append(initial.Root.Children, filter.NewCondition("age"))

	values := url.Values{DefaultURLParam: {"zzz-not-a-token"}}
	b := newTestBuilder(t, func(c *Config) {
		c.URL = NewValuesMirror(values)
		c.Initial = initial
	})

	if !filter.Equal(initial, b.State()) {
		t.Error("malformed token must fall back to the initial tree")
	}
}

func TestMirrorURL(t *testing.T) {
	u, err := url.Parse("https://admin.example.com/users?page=2")
	if err != nil {
		t.Fatal(err)
	}
	b := newTestBuilder(t, func(c *Config) { c.URL = MirrorURL(u) })
	buildNamedFilter(t, b)

	q := u.Query()
	if q.Get(DefaultURLParam) == "" {
		t.Error("token not written into the URL")
	}
	if q.Get("page") != "2" {
		t.Error("existing query parameters must survive")
	}

	if err := b.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, present := u.Query()[DefaultURLParam]; present {
		t.Error("parameter not removed from the URL")
	}
}
