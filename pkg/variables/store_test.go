package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Expand(t *testing.T) {
	s := New(map[string]string{"threshold": "5", "name": "x"})

	assert.Equal(t, "5", s.Expand("@{threshold}"))
	assert.Equal(t, "a-x-5", s.Expand("a-@{name}-@{threshold}"))
	assert.Equal(t, "@{missing}", s.Expand("@{missing}"))
	assert.Equal(t, "open @{", s.Expand("open @{"))
}

func TestStore_EnvPrefix(t *testing.T) {
	s := New(nil)
	s.lookupEnv = func(name string) (string, bool) {
		if name == "HOME" {
			return "/home/flow", true
		}
		return "", false
	}

	assert.Equal(t, "/home/flow/data", s.Expand("@{env.HOME}/data"))
	_, ok := s.Get("env.NOPE")
	assert.False(t, ok)
}

func TestStore_SetNotifiesOnlyOnChange(t *testing.T) {
	s := New(map[string]string{"a": "1"})
	var changed []string
	unsubscribe := s.Subscribe(func(name string) { changed = append(changed, name) })

	s.Set("a", "1")
	s.Set("a", "2")
	s.Set("b", "x")
	s.Remove("missing")
	s.Remove("b")
	assert.Equal(t, []string{"a", "b", "b"}, changed)

	unsubscribe()
	s.Set("a", "3")
	assert.Len(t, changed, 3)
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := New(nil)
	var seen string
	s.Subscribe(func(name string) {
		seen, _ = s.Get(name)
	})

	s.Set("k", "v")
	assert.Equal(t, "v", seen)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Detect("@{a} and @{b} and @{a}"))
	assert.Nil(t, Detect("plain"))
}

func TestExpandOptions(t *testing.T) {
	s := New(map[string]string{"n": "3", "sep": "#"})
	opts := map[string]any{
		"chunk_size": "@{n}",
		"nested":     map[string]any{"separator": "@{sep}"},
		"list":       []any{"@{n}", 4},
		"plain":      7,
	}

	got := ExpandOptions(s, opts)

	assert.Equal(t, "3", got["chunk_size"])
	assert.Equal(t, "#", got["nested"].(map[string]any)["separator"])
	assert.Equal(t, []any{"3", 4}, got["list"])
	assert.Equal(t, 7, got["plain"])
	assert.Equal(t, "@{n}", opts["chunk_size"], "source options must not be modified")

	assert.Equal(t, []string{"n", "sep"}, DetectOptions(opts))
}
