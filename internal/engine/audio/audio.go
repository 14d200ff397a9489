// Package audio plays the short cues the viewer sounds when the marker
// completes a lap.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Chime tuning.
const (
	ChimeBase     = 523.25 // C5
	ChimeDuration = 180 * time.Millisecond
)

// ErrNotInitialized is returned when a cue is played before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// chimeSteps walks a major arpeggio so consecutive laps sound different.
var chimeSteps = [...]int{0, 4, 7, 12}

// Manager owns the speaker and mixes cues into it.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	chimeVolume  float64

	// WAV played on lap changes instead of the chime when set.
	lapSound []byte
}

// New creates an audio manager. Nothing is played until Init succeeds.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		mixer:        &beep.Mixer{},
		masterVolume: 1.0,
		chimeVolume:  1.0,
	}
}

// Init opens the speaker and starts the mixer.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback and releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetChimeVolume sets the lap chime volume (0.0 to 1.0).
func (m *Manager) SetChimeVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chimeVolume = clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// ChimeVolume returns the lap chime volume.
func (m *Manager) ChimeVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chimeVolume
}

// ChimeFrequency returns the pitch sounded for a lap.
func ChimeFrequency(lap int) float64 {
	if lap < 0 {
		lap = -lap
	}
	step := chimeSteps[lap%len(chimeSteps)]
	return ChimeBase * math.Pow(2, float64(step)/12)
}

// Tone returns a sine tone of the given pitch and length at the manager's
// sample rate, attenuated by the chime and master volumes.
func (m *Manager) Tone(freq float64, d time.Duration) (beep.Streamer, error) {
	m.mu.RLock()
	sr := m.sampleRate
	vol := m.masterVolume * m.chimeVolume
	m.mu.RUnlock()

	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("sine tone %.1f Hz: %w", freq, err)
	}
	return &effects.Volume{
		Streamer: beep.Take(sr.N(d), sine),
		Base:     2,
		Volume:   volumeToDb(vol) / 6,
		Silent:   vol <= 0,
	}, nil
}

// PlayLapChime sounds the cue for a completed lap.
func (m *Manager) PlayLapChime(lap int) error {
	if !m.IsInitialized() {
		return ErrNotInitialized
	}
	tone, err := m.Tone(ChimeFrequency(lap), ChimeDuration)
	if err != nil {
		return err
	}
	speaker.Lock()
	m.mixer.Add(tone)
	speaker.Unlock()
	return nil
}

// LoadLapSound reads a WAV file to play on lap changes.
func (m *Manager) LoadLapSound(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read lap sound: %w", err)
	}
	if err := m.SetLapSound(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// SetLapSound checks that data decodes as WAV and keeps it for PlayLap.
// Nil data goes back to the chime.
func (m *Manager) SetLapSound(data []byte) error {
	if data != nil {
		streamer, _, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
		if err != nil {
			return fmt.Errorf("decode wav: %w", err)
		}
		streamer.Close()
	}
	m.mu.Lock()
	m.lapSound = data
	m.mu.Unlock()
	return nil
}

// HasLapSound reports whether a WAV replaces the lap chime.
func (m *Manager) HasLapSound() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lapSound != nil
}

// PlayLap sounds the lap cue: the loaded WAV if any, otherwise the chime.
func (m *Manager) PlayLap(lap int) error {
	m.mu.RLock()
	sound := m.lapSound
	m.mu.RUnlock()

	if sound != nil {
		return m.PlayWAV(sound)
	}
	return m.PlayLapChime(lap)
}

// PlayWAV mixes a WAV cue in, resampling when its rate differs.
func (m *Manager) PlayWAV(data []byte) error {
	if !m.IsInitialized() {
		return ErrNotInitialized
	}

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	m.mu.RLock()
	sr := m.sampleRate
	vol := m.masterVolume * m.chimeVolume
	m.mu.RUnlock()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sr {
		resampled = beep.Resample(4, format.SampleRate, sr, streamer)
	}

	speaker.Lock()
	m.mixer.Add(&effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   volumeToDb(vol) / 6,
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// volumeToDb converts a 0-1 volume to decibels: 1 is 0 dB, 0.5 about -6 dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
