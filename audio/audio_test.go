package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/fs"
	"log"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcmWav builds a mono 16-bit PCM file of n silent frames.
func pcmWav(n int) []byte {
	var b bytes.Buffer
	dataSize := uint32(n * 2)
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, 36+dataSize)
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint32(44100))
	binary.Write(&b, binary.LittleEndian, uint32(44100*2))
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, dataSize)
	b.Write(make([]byte, dataSize))
	return b.Bytes()
}

func TestDecoderFor(t *testing.T) {
	assert.NotNil(t, decoderFor("gong.ogg"))
	assert.NotNil(t, decoderFor("sub/GONG.WAV"))
	assert.Nil(t, decoderFor("gong.mp3"))
	assert.Nil(t, decoderFor("gong"))
}

func TestPlayer(t *testing.T) {
	fsys := fstest.MapFS{
		"beep.wav":   {Data: pcmWav(100)},
		"broken.ogg": {Data: []byte("not vorbis")},
		"tune.mp3":   {Data: []byte("id3")},
	}
	quiet := log.New(io.Discard, "", 0)

	t.Run("loads wav", func(t *testing.T) {
		p := NewPlayer(fsys, quiet)
		require.NoError(t, p.Load("beep.wav"))
		assert.True(t, p.Loaded("beep.wav"))
		require.NoError(t, p.Load("beep.wav"))
	})

	t.Run("rejects unknown extension", func(t *testing.T) {
		p := NewPlayer(fsys, quiet)
		assert.ErrorIs(t, p.Load("tune.mp3"), ErrUnsupported)
	})

	t.Run("missing file", func(t *testing.T) {
		p := NewPlayer(fsys, quiet)
		assert.ErrorIs(t, p.Load("gone.wav"), fs.ErrNotExist)
	})

	t.Run("preload skips failures", func(t *testing.T) {
		p := NewPlayer(fsys, quiet)
		assert.Equal(t, 1, p.Preload([]string{"beep.wav", "broken.ogg", "tune.mp3"}))
		assert.False(t, p.Loaded("broken.ogg"))
	})

	t.Run("alert without device only logs", func(t *testing.T) {
		var logs bytes.Buffer
		p := NewPlayer(fsys, log.New(&logs, "", 0))
		require.NoError(t, p.Load("beep.wav"))
		p.Alert("beep.wav")
		p.Alert("nope.wav")
		assert.Contains(t, logs.String(), "Audio disabled")
		assert.Contains(t, logs.String(), "not found for nope.wav")
	})
}
