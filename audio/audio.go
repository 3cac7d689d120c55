// Package audio plays completion alerts. Sounds are decoded once into memory
// buffers so playing one from the dispatcher loop never touches the disk.
package audio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// SampleRate is the rate the speaker runs at. Sounds in other rates are
// resampled on load.
const SampleRate beep.SampleRate = 44100

var ErrUnsupported = errors.New("audio: unsupported sound format")

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func decodeWav(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return wav.Decode(rc)
}

func decoderFor(name string) decodeFunc {
	switch strings.ToLower(path.Ext(name)) {
	case ".ogg", ".oga":
		return vorbis.Decode
	case ".wav":
		return decodeWav
	}
	return nil
}

// Player holds decoded sounds and plays them on the shared speaker.
type Player struct {
	fsys   fs.FS
	logger *log.Logger

	mu      sync.Mutex
	buffers map[string]*beep.Buffer
	ready   bool
}

// NewPlayer reads sounds from fsys. The speaker is not touched until Init.
func NewPlayer(fsys fs.FS, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{fsys: fsys, logger: logger, buffers: make(map[string]*beep.Buffer)}
}

// Init opens the audio device. Without it Alert only logs.
func (p *Player) Init() error {
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	p.mu.Lock()
	p.ready = true
	p.mu.Unlock()
	return nil
}

// Preload decodes every named sound. Failures are logged and skipped; the
// number of sounds loaded is returned.
func (p *Player) Preload(names []string) int {
	n := 0
	for _, name := range names {
		if err := p.Load(name); err != nil {
			p.logger.Printf("Failed to load sound %s: %v", name, err)
			continue
		}
		n++
	}
	return n
}

// Load decodes one sound into memory. Loading a sound twice is a no-op.
func (p *Player) Load(name string) error {
	p.mu.Lock()
	_, ok := p.buffers[name]
	p.mu.Unlock()
	if ok {
		return nil
	}

	decode := decoderFor(name)
	if decode == nil {
		return fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	f, err := p.fsys.Open(name)
	if err != nil {
		return err
	}
	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("audio: decode %s: %w", name, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: format.NumChannels, Precision: format.Precision})
	var src beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		src = beep.Resample(4, format.SampleRate, SampleRate, streamer)
	}
	buffer.Append(src)

	p.mu.Lock()
	p.buffers[name] = buffer
	p.mu.Unlock()
	p.logger.Printf("Loaded sound %s", name)
	return nil
}

// Alert plays a preloaded sound without blocking.
func (p *Player) Alert(sound string) {
	p.mu.Lock()
	b, ok := p.buffers[sound]
	ready := p.ready
	p.mu.Unlock()
	if !ok {
		p.logger.Printf("Sound buffer not found for %s", sound)
		return
	}
	if !ready {
		p.logger.Printf("Audio disabled, not playing %s", sound)
		return
	}
	speaker.Play(b.Streamer(0, b.Len()))
}

// Loaded reports whether sound has been decoded.
func (p *Player) Loaded(sound string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.buffers[sound]
	return ok
}
