package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := New("Vivek", map[string]string{"Vivek": "vivek-id", "Achal": "achal-id", "Salman": ""})

	target, err := r.Resolve("Achal")
	require.NoError(t, err)
	assert.Equal(t, Target{Name: "Achal", CalendarID: "achal-id"}, target)

	target, err = r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "vivek-id", target.CalendarID)

	// unknown and unconfigured names fall back to the default
	for _, name := range []string{"Nobody", "Salman"} {
		target, err = r.Resolve(name)
		require.NoError(t, err)
		assert.Equal(t, Target{Name: "Vivek", CalendarID: "vivek-id"}, target)
	}
}

func TestResolveWithoutDefault(t *testing.T) {
	r := New("Vivek", map[string]string{"Achal": "achal-id"})

	_, err := r.Resolve("Nobody")
	assert.ErrorIs(t, err, ErrUnknownTarget)

	_, err = r.Resolve("")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestLookupIsStrict(t *testing.T) {
	r := New("Vivek", map[string]string{"Vivek": "vivek-id", "Achal": "achal-id"})

	target, err := r.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "Vivek", target.Name)

	_, err = r.Lookup("Nobody")
	require.ErrorIs(t, err, ErrUnknownTarget)
	assert.Contains(t, err.Error(), "Achal, Vivek")
}

func TestParseList(t *testing.T) {
	ids, err := ParseList(" Vivek=v@group.calendar.google.com, Achal = a-id ,")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Vivek": "v@group.calendar.google.com", "Achal": "a-id"}, ids)

	_, err = ParseList("Vivek")
	assert.ErrorIs(t, err, ErrMalformedList)

	_, err = ParseList("=id")
	assert.ErrorIs(t, err, ErrMalformedList)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.toml")
	contents := `default = "Neeraj"

[calendars]
Neeraj = "neeraj-id"
Jyoti = "jyoti-id"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	r, err := LoadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Neeraj", r.DefaultName())
	assert.Equal(t, []string{"Jyoti", "Neeraj"}, r.Names())
	assert.Equal(t, 2, r.Len())

	r, err = LoadFile(path, "Jyoti")
	require.NoError(t, err)
	assert.Equal(t, "Jyoti", r.DefaultName())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.Error(t, err)
}
