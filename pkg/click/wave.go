// Package click synthesizes the typewriter key sound.
package click

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Waveform parameters.
const (
	Duration  = 30 * time.Millisecond
	Frequency = 600.0
	decay     = 150.0
	toneLevel = 0.4
	noiseAmp  = 0.15
	gain      = 0.1

	// FallbackRate is the sample rate for recorded soundtracks.
	FallbackRate = 22050

	bitDepth = 16
)

// Transient returns one click at rate: a 600 Hz sine with a little white noise, decaying
// as exp(-150t). Samples are in [-1, 1].
func Transient(rate int, rnd *rand.Rand) []float64 {
	n := samples(rate)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(rate)
		v := math.Sin(2*math.Pi*Frequency*t)*toneLevel + (rnd.Float64()-0.5)*noiseAmp
		out[i] = v * math.Exp(-decay*t) * gain
	}
	return out
}

func samples(rate int) int {
	return int(float64(rate) * Duration.Seconds())
}

// EncodeWAV writes samples as 16-bit mono PCM.
func EncodeWAV(w io.WriteSeeker, rate int, samples []float64) error {
	enc := wav.NewEncoder(w, rate, bitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range samples {
		buf.Data[i] = int(math.Round(math.Max(-1, math.Min(1, v)) * math.MaxInt16))
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// WriteWAV writes samples to path as a WAV file.
func WriteWAV(path string, rate int, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := EncodeWAV(f, rate, samples); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
