//go:build !headless
// +build !headless

package graphics

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// audioSampleRate is the host-chosen sample rate spec §6's audio-sample sink
// is defined against; the APU mixer already resamples to this rate
// (internal/apu.APU.SetSampleRate).
const audioSampleRate = 44100

// sampleStream adapts the APU's pulled []float32 samples (spec §6: "one
// call per sample") to the io.Reader ebiten/v2/audio.Player pulls from.
// QueueAudioSamples pushes mixer output in; Read drains it as signed 16-bit
// stereo PCM, padding with silence when the emulator falls behind the
// player so playback never blocks the emulation loop.
type sampleStream struct {
	mu  sync.Mutex
	buf []byte
}

// maxBufferedBytes caps backlog at roughly a quarter second of stereo audio
// so a paused or stalled emulator doesn't build unbounded latency.
const maxBufferedBytes = audioSampleRate * 2 * 2 / 4

func (s *sampleStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0 // silence once the buffer runs dry
	}
	return len(p), nil
}

func (s *sampleStream) push(samples []float32) {
	if len(samples) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range samples {
		if f > 1 {
			f = 1
		} else if f < -1 {
			f = -1
		}
		v := int16(f * 32767)
		lo, hi := byte(v), byte(v>>8)
		// Mono mixer output duplicated to both channels.
		s.buf = append(s.buf, lo, hi, lo, hi)
	}
	if len(s.buf) > maxBufferedBytes {
		s.buf = s.buf[len(s.buf)-maxBufferedBytes:]
	}
}

// audioSink owns the ebiten audio context/player pair backing a window's
// QueueAudioSamples. Constructed lazily since ebiten panics if NewContext is
// called more than once per process.
type audioSink struct {
	stream *sampleStream
	player *audio.Player
}

var (
	sharedAudioContext     *audio.Context
	sharedAudioContextOnce sync.Once
)

func newAudioSink() *audioSink {
	sharedAudioContextOnce.Do(func() {
		sharedAudioContext = audio.NewContext(audioSampleRate)
	})

	stream := &sampleStream{}
	player, err := sharedAudioContext.NewPlayer(stream)
	if err != nil {
		// Without a player, samples are simply dropped; video and input
		// keep working, matching spec §7's "errors during emulation loop
		// stop cleanly, never the process" policy for a non-core sink.
		return &audioSink{stream: stream}
	}
	player.Play()
	return &audioSink{stream: stream, player: player}
}

func (a *audioSink) queue(samples []float32) {
	if a == nil || a.stream == nil {
		return
	}
	a.stream.push(samples)
}
