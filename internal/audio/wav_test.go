package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/resonance/pkg/field"
)

func TestSynthesize_SampleCount(t *testing.T) {
	f, err := field.Generate(field.Options{Count: 4})
	require.NoError(t, err)

	opts := Options{SampleRate: 8000, SegmentSec: 0.1}
	samples := Synthesize(f, opts)
	assert.Len(t, samples, 4*800)
}

func TestSynthesize_SegmentsStartAndEndQuiet(t *testing.T) {
	f, err := field.Generate(field.Options{Count: 1})
	require.NoError(t, err)

	samples := Synthesize(f, Options{SampleRate: 44100, SegmentSec: 0.1})
	require.NotEmpty(t, samples)
	// Fade ramps force silence at the segment edges
	assert.Equal(t, int16(0), samples[0])
	assert.Equal(t, int16(0), samples[len(samples)-1])
}

func TestSynthesize_Deterministic(t *testing.T) {
	f, err := field.Generate(field.Options{Count: 8})
	require.NoError(t, err)

	a := Synthesize(f, Options{})
	b := Synthesize(f, Options{})
	assert.Equal(t, a, b)
}

func TestEncodeWAV_Header(t *testing.T) {
	samples := make([]int16, 1000)
	wav := EncodeWAV(samples, 44100)

	require.GreaterOrEqual(t, len(wav), 44)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	assert.Equal(t, uint32(len(samples)*2), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, uint32(36+len(samples)*2), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "mono")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]), "bit depth")
	assert.Len(t, wav, 44+len(samples)*2)
}

func TestWriteWAV(t *testing.T) {
	f, err := field.Generate(field.Options{Limit: 30})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tones", "field.wav")
	require.NoError(t, WriteWAV(f, path, Options{SampleRate: 8000, SegmentSec: 0.05}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[0:4]))
	// 10 primes below 30, 400 samples each
	assert.Len(t, data, 44+10*400*2)
}

func TestWriteWAV_EmptyFieldStillValid(t *testing.T) {
	f, err := field.Generate(field.Options{Limit: 1})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "empty.wav")
	require.NoError(t, WriteWAV(f, path, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 44)
}
