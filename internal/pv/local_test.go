package pv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	cases := []struct {
		in      string
		key     string
		initial any
	}{
		{"loc://speed(42)", "speed", 42.0},
		{`loc://mode("auto")`, "mode", "auto"},
		{"loc://flag", "flag", nil},
		{"sim://sine", "sim://sine", nil},
		{"  loc://x(1.5) ", "x", 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			key, initial, err := ParseName(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.initial, initial)
		})
	}
}

func TestParseName_Malformed(t *testing.T) {
	for _, in := range []string{"loc://x(1", "loc://(1)"} {
		_, _, err := ParseName(in)
		assert.ErrorIs(t, err, ErrBadName, in)
	}
}

func TestLocal_CreateKeepsExistingValue(t *testing.T) {
	l := NewLocal()
	require.NoError(t, l.CreatePV("loc://speed(42)"))
	v, ok := l.Get("loc://speed")
	require.True(t, ok)
	assert.Equal(t, 42.0, v)

	require.NoError(t, l.SetValue("speed", "7"))
	require.NoError(t, l.CreatePV("loc://speed(42)"))
	v, _ = l.Get("speed")
	assert.Equal(t, 7.0, v)
}

func TestLocal_SetUnknown(t *testing.T) {
	l := NewLocal()
	assert.ErrorIs(t, l.SetValue("nope", 1), ErrUnknownPV)
}

func TestLocal_GetWithoutValue(t *testing.T) {
	l := NewLocal()
	require.NoError(t, l.CreatePV("loc://empty"))
	_, ok := l.Get("empty")
	assert.False(t, ok)
	assert.Equal(t, []string{"empty"}, l.Names())
	assert.Empty(t, l.Values())
}

func TestLocal_OnChange(t *testing.T) {
	l := NewLocal()
	var got []string
	l.OnChange = func(key string, v any) { got = append(got, key) }
	require.NoError(t, l.CreatePV("a"))
	require.NoError(t, l.SetValue("a", "on"))
	assert.Equal(t, []string{"a"}, got)
	v, _ := l.Get("a")
	assert.Equal(t, "on", v)
}
