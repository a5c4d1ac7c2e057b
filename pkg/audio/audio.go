// Package audio provides output sinks for the APU's float32 sample stream:
// a low-latency live sink (portaudio) and a file sink (WAV) for capturing a
// session to disk.
package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"

	"github.com/nescore/gones/pkg/logger"
)

// Sink accepts a console's drained APU output every frame.
type Sink interface {
	Write(samples []float32) error
	Close() error
}

// PortAudioSink plays samples live through the host's default output device.
type PortAudioSink struct {
	stream     *portaudio.Stream
	params     portaudio.StreamParameters
	pending    []float32
	lowLatency bool
}

// NewPortAudioSink opens a mono output stream at sampleRate.
func NewPortAudioSink(sampleRate float64, lowLatency bool) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("default host api: %w", err)
	}

	s := &PortAudioSink{lowLatency: lowLatency}
	if lowLatency {
		s.params = portaudio.LowLatencyParameters(nil, host.DefaultOutputDevice)
	} else {
		s.params = portaudio.HighLatencyParameters(nil, host.DefaultOutputDevice)
	}
	s.params.Output.Channels = 1
	s.params.SampleRate = sampleRate
	s.params.FramesPerBuffer = 256

	stream, err := portaudio.OpenStream(s.params, s.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	s.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start stream: %w", err)
	}

	logger.LogInfo("portaudio sink started at %.0f Hz", sampleRate)
	return s, nil
}

func (s *PortAudioSink) callback(out []float32) {
	n := copy(out, s.pending)
	s.pending = s.pending[n:]
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

// Write enqueues samples for the callback to drain. Real-time playback
// drops samples the callback can't keep up with rather than growing
// pending without bound.
func (s *PortAudioSink) Write(samples []float32) error {
	const maxPending = 1024 * 8
	s.pending = append(s.pending, samples...)
	if len(s.pending) > maxPending {
		s.pending = s.pending[len(s.pending)-maxPending:]
	}
	return nil
}

// Close stops the stream and terminates portaudio.
func (s *PortAudioSink) Close() error {
	if s.stream == nil {
		return nil
	}
	stopErr := s.stream.Stop()
	closeErr := s.stream.Close()
	portaudio.Terminate()
	if stopErr != nil {
		return stopErr
	}
	return closeErr
}

// WAVSink records the audio stream to a 32-bit float mono WAV file.
type WAVSink struct {
	file *os.File
	enc  *wav.Encoder
}

// NewWAVSink creates path and opens a WAV encoder at sampleRate, 32-bit
// float, mono (audio format 3, matching the IEEE-float WAV convention).
func NewWAVSink(path string, sampleRate int) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	const ieeeFloatFormat = 3
	enc := wav.NewEncoder(f, sampleRate, 32, 1, ieeeFloatFormat)

	return &WAVSink{file: f, enc: enc}, nil
}

// Write appends samples to the WAV stream, one frame at a time.
func (s *WAVSink) Write(samples []float32) error {
	for _, sample := range samples {
		if err := s.enc.WriteFrame(sample); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	return nil
}

// Close finalizes the WAV header and closes the underlying file.
func (s *WAVSink) Close() error {
	if err := s.enc.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("close encoder: %w", err)
	}
	return s.file.Close()
}
