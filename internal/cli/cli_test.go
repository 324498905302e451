package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloFlow = `
name: hello
variables:
  mode: lower
actors:
  - name: words
    type: StringConstants
    options:
      strings: ["Hello", "World"]
  - name: convert
    type: Convert
    options:
      mode: "@{mode}"
  - name: show
    type: Display
`

const rememberFlow = `
name: remember
actors:
  - name: words
    type: StringConstants
    options:
      strings: ["a", "b"]
  - name: keep
    type: AppendStorageValue
    options:
      storage_name: names
`

const queryFlow = `
name: query
actors:
  - name: trigger
    type: StringConstants
    options:
      strings: ["go"]
  - name: one
    type: DBQuery
    options:
      sql: "SELECT 1 AS one"
`

const brokenFlow = `
actors:
  - name: convert
    type: Convert
`

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"hello.yaml":    helloFlow,
		"remember.yaml": rememberFlow,
		"query.yaml":    queryFlow,
		"broken.yaml":   brokenFlow,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func testOptions(t *testing.T, out *bytes.Buffer) Options {
	return Options{Dir: setupDir(t), Stdout: out}
}

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{"mode=upper", "sep= - ", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mode": "upper", "sep": " - ", "empty": ""}, vars)

	vars, err = ParseVars(nil)
	require.NoError(t, err)
	assert.Nil(t, vars)

	_, err = ParseVars([]string{"novalue"})
	assert.ErrorContains(t, err, `invalid variable "novalue"`)

	_, err = ParseVars([]string{"=x"})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)

	require.NoError(t, Run(context.Background(), opts, "hello"))
	assert.Contains(t, out.String(), "hello\nworld\n")
	assert.Contains(t, out.String(), "# Run hello")
	assert.Contains(t, out.String(), "**Activations:** 5")
}

func TestRun_VarsAndQuiet(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.Vars = []string{"mode=upper"}
	opts.Quiet = true

	require.NoError(t, Run(context.Background(), opts, "hello"))
	assert.Equal(t, "HELLO\nWORLD\n", out.String())
}

func TestRun_FilePath(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.Quiet = true

	require.NoError(t, Run(context.Background(), opts, filepath.Join(opts.Dir, "hello.yaml")))
	assert.Equal(t, "hello\nworld\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.Quiet = true

	err := Run(context.Background(), opts, "missing")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)

	err = Run(context.Background(), opts, "query")
	assert.ErrorIs(t, err, ErrRunFailed)
	assert.ErrorIs(t, err, domain.ErrNoDatabase)

	opts.Vars = []string{"bad"}
	assert.Error(t, Run(context.Background(), opts, "hello"))
}

func TestRun_Database(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.DBPath = filepath.Join(t.TempDir(), "bench.db")

	require.NoError(t, Run(context.Background(), opts, "query"))
	assert.Contains(t, out.String(), "one:1")
	assert.FileExists(t, opts.DBPath)
}

func TestRun_FileStorage(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.Quiet = true
	opts.StoragePath = filepath.Join(t.TempDir(), "storage")

	require.NoError(t, Run(context.Background(), opts, "remember"))
	require.NoError(t, Run(context.Background(), opts, "remember"))

	data, err := os.ReadFile(filepath.Join(opts.StoragePath, "names.json"))
	require.NoError(t, err)
	var got []string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []string{"a", "b", "a", "b"}, got)
}

func TestRun_EncryptedStorage(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.Quiet = true
	opts.StoragePath = filepath.Join(t.TempDir(), "storage")
	opts.StorageKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

	require.NoError(t, Run(context.Background(), opts, "remember"))
	require.NoError(t, Run(context.Background(), opts, "remember"))

	data, err := os.ReadFile(filepath.Join(opts.StoragePath, "names.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "__encrypted__")
	assert.NotContains(t, string(data), `"a"`)

	opts.StorageKey = "short"
	assert.Error(t, Run(context.Background(), opts, "remember"))
}

func TestRun_RedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.Quiet = true
	opts.RedisURL = "redis://" + mr.Addr()

	require.NoError(t, Run(context.Background(), opts, "remember"))

	value, err := mr.Get("flowbench:storage:v:names")
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, value)
}

func TestRun_RedisUnavailable(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)

	opts.RedisURL = "not-a-url"
	assert.ErrorContains(t, Run(context.Background(), opts, "hello"), "invalid redis url")

	mr := miniredis.RunT(t)
	opts.RedisURL = "redis://" + mr.Addr()
	mr.Close()
	assert.ErrorContains(t, Run(context.Background(), opts, "hello"), "redis unavailable")
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)

	require.NoError(t, Validate(context.Background(), opts, []string{"hello", "remember"}))
	assert.Equal(t, "✓ hello\n✓ remember\n", out.String())

	out.Reset()
	err := Validate(context.Background(), opts, nil)
	assert.EqualError(t, err, "1 of 4 flows are invalid")
	assert.Contains(t, out.String(), "✗ broken\n")
	assert.Contains(t, out.String(), "✓ query\n")
}

func TestValidate_EmptyDir(t *testing.T) {
	var out bytes.Buffer
	err := Validate(context.Background(), Options{Dir: t.TempDir(), Stdout: &out}, nil)
	assert.ErrorContains(t, err, "no flows found")
}

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	ctx := context.Background()

	require.NoError(t, Inspect(ctx, opts, "hello", FormatMermaid))
	assert.Contains(t, out.String(), "graph LR\n")
	assert.Contains(t, out.String(), "words --> convert")

	out.Reset()
	require.NoError(t, Inspect(ctx, opts, "hello", FormatJSON))
	var actors []actorJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &actors))
	require.Len(t, actors, 3)
	assert.Equal(t, "hello.convert", actors[1].FullName)
	assert.Equal(t, []string{"mode"}, actors[1].Variables)
	assert.Equal(t, "sink", actors[2].Kind)

	out.Reset()
	require.NoError(t, Inspect(ctx, opts, "hello", ""))
	assert.Contains(t, out.String(), "# hello")

	assert.ErrorContains(t, Inspect(ctx, opts, "hello", "svg"), `unknown format "svg"`)
}

func TestGraph_RunOverlay(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)

	require.NoError(t, Graph(context.Background(), opts, "hello", true))
	text := out.String()
	for _, name := range []string{"words", "convert", "show"} {
		assert.Contains(t, text, "class "+name+" activated;")
	}
	assert.NotContains(t, text, "hello\nworld")
}

func TestIsRelevant(t *testing.T) {
	assert.True(t, isRelevant(fsnotify.Event{Name: "flows/a.yaml", Op: fsnotify.Write}))
	assert.True(t, isRelevant(fsnotify.Event{Name: "a.JSON", Op: fsnotify.Create}))
	assert.True(t, isRelevant(fsnotify.Event{Name: "a.yml", Op: fsnotify.Rename}))
	assert.False(t, isRelevant(fsnotify.Event{Name: "a.yaml", Op: fsnotify.Chmod}))
	assert.False(t, isRelevant(fsnotify.Event{Name: "notes.md", Op: fsnotify.Write}))
}
