package trimarea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/trimarea/internal/testutil"
)

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	tests := map[string]Platform{
		"tama":    PlatformTama,
		"TAMA":    PlatformTama,
		" Nile ":  PlatformNile,
		"loire":   PlatformLoire,
		"sagami":  PlatformSagami,
		"yoshino": PlatformYoshino,
	}
	for name, want := range tests {
		got, err := ParsePlatform(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParsePlatform("akari")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestPlatformsRoundTrip(t *testing.T) {
	t.Parallel()

	all := Platforms()
	require.Len(t, all, 11)
	assert.Equal(t, PlatformLoire, all[0])
	assert.Equal(t, PlatformSagami, all[len(all)-1])
	for _, p := range all {
		got, err := ParsePlatform(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestTamaBootlogOffsets(t *testing.T) {
	t.Parallel()

	offsets, err := PlatformTama.BootlogOffsets()
	require.NoError(t, err)
	assert.Equal(t, testutil.TamaBootlogOffsets, offsets)

	// Callers get a copy of the table.
	offsets[0] = 0
	again, err := PlatformTama.BootlogOffsets()
	require.NoError(t, err)
	assert.Equal(t, int64(0x2A22E), again[0])
}

func TestUnmappedPlatformsNotImplemented(t *testing.T) {
	t.Parallel()

	for _, p := range Platforms() {
		if p == PlatformTama {
			continue
		}
		_, err := p.BootlogOffsets()
		require.ErrorIs(t, err, ErrNotImplemented, p.String())
		assert.Contains(t, err.Error(), p.String())
	}
}

func TestInvalidPlatformValue(t *testing.T) {
	t.Parallel()

	var p Platform
	assert.Equal(t, "platform(0)", p.String())
	_, err := p.BootlogOffsets()
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestPlatformBootlogFields(t *testing.T) {
	t.Parallel()

	fields, err := PlatformTama.Bootlogs()
	require.NoError(t, err)
	require.Len(t, fields, 10)
	for i, f := range fields {
		assert.Equal(t, testutil.TamaBootlogOffsets[i], f.Offset)
		assert.Equal(t, int64(BootlogSize), f.Length)
		assert.Equal(t, KindRaw, f.Kind)
	}
	assert.Equal(t, "bootlog1", fields[0].Name)
	assert.Equal(t, "bootlog10", fields[9].Name)
}

func TestImageBootlogs(t *testing.T) {
	t.Parallel()

	data := testutil.Image()
	img, err := New(data)
	require.NoError(t, err)

	logs, err := img.Bootlogs(PlatformTama)
	require.NoError(t, err)
	require.Len(t, logs, 10)
	for i, log := range logs {
		assert.Len(t, log, BootlogSize)
		assert.Equal(t, testutil.Region(data, testutil.TamaBootlogOffsets[i], testutil.BootlogSize), log)
	}

	_, err = img.Bootlogs(PlatformKumano)
	assert.ErrorIs(t, err, ErrNotImplemented)
}
