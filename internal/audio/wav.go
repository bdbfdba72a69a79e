// Package audio sonifies the resonance field as a WAV file: one sine
// segment per tuple at its tone frequency, amplitude scaled by intensity.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ternarybob/resonance/pkg/field"
)

// Options controls synthesis. Zero values fall back to sane defaults.
type Options struct {
	SampleRate int     // samples per second, default 44100
	SegmentSec float64 // seconds per prime, default 0.15
	Amplitude  float64 // peak amplitude in [0,1], default 0.8
}

const fadeSec = 0.005 // edge ramp to avoid clicks between segments

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = 44100
	}
	if o.SegmentSec <= 0 {
		o.SegmentSec = 0.15
	}
	if o.Amplitude <= 0 || o.Amplitude > 1 {
		o.Amplitude = 0.8
	}
	return o
}

// Synthesize renders the field's tone sequence as 16-bit mono PCM samples.
func Synthesize(f *field.Field, opts Options) []int16 {
	opts = opts.withDefaults()

	perSegment := int(float64(opts.SampleRate) * opts.SegmentSec)
	fade := int(float64(opts.SampleRate) * fadeSec)
	if fade*2 > perSegment {
		fade = perSegment / 2
	}

	samples := make([]int16, 0, perSegment*len(f.Tuples))
	for _, t := range f.Tuples {
		step := 2 * math.Pi * t.ToneHz / float64(opts.SampleRate)
		peak := opts.Amplitude * t.Intensity
		for i := 0; i < perSegment; i++ {
			amp := peak
			if i < fade {
				amp *= float64(i) / float64(fade)
			} else if i >= perSegment-fade {
				amp *= float64(perSegment-1-i) / float64(fade)
			}
			v := amp * math.Sin(step*float64(i))
			samples = append(samples, int16(v*math.MaxInt16))
		}
	}
	return samples
}

// EncodeWAV wraps PCM samples in a RIFF/WAVE container (16-bit mono).
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataLen := len(samples) * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))           // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// WriteWAV synthesizes the field and writes the WAV file atomically.
func WriteWAV(f *field.Field, path string, opts Options) error {
	opts = opts.withDefaults()
	wav := EncodeWAV(Synthesize(f, opts), opts.SampleRate)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".resonance-*.wav")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(wav); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write wav: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close wav: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish wav: %w", err)
	}

	return nil
}
