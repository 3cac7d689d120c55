package screen

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BossTimers/trigger"
)

// noise fills a w x h grayscale image with a deterministic pseudo-random
// pattern so every window is distinct.
func noise(w, h int, seed uint32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		img.Pix[i] = uint8(seed)
	}
	return img
}

func crop(src *image.Gray, r image.Rectangle) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.SetGray(x, y, src.GrayAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}

// gray wraps a single grayscale plane.
func gray(img *image.Gray) Planes { return Planes{img} }

// tinted places one grayscale pattern into a single RGB channel and leaves
// the other two at zero.
func tinted(src *image.Gray, channel int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := y*dst.Stride + x*4
			dst.Pix[i+channel] = src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

func TestBestMatch(t *testing.T) {
	ctx := context.Background()
	scene := noise(64, 48, 2463534242)

	t.Run("finds embedded template", func(t *testing.T) {
		tmpl := crop(scene, image.Rect(20, 10, 32, 22))
		score, at, err := BestMatch(ctx, gray(scene), gray(tmpl))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
		assert.Equal(t, image.Pt(20, 10), at)
	})

	t.Run("inverted template does not match", func(t *testing.T) {
		tmpl := crop(scene, image.Rect(5, 5, 15, 15))
		for i := range tmpl.Pix {
			tmpl.Pix[i] = 255 - tmpl.Pix[i]
		}
		score, _, err := BestMatch(ctx, gray(scene), gray(tmpl))
		require.NoError(t, err)
		assert.Less(t, score, 0.9)
	})

	t.Run("flat template scores zero", func(t *testing.T) {
		tmpl := image.NewGray(image.Rect(0, 0, 4, 4))
		score, _, err := BestMatch(ctx, gray(scene), gray(tmpl))
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})

	t.Run("template larger than scene", func(t *testing.T) {
		score, _, err := BestMatch(ctx, gray(noise(4, 4, 1)), gray(noise(8, 8, 2)))
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})

	t.Run("channel count must agree", func(t *testing.T) {
		_, _, err := BestMatch(ctx, ToPlanes(scene, 1), gray(scene))
		assert.Error(t, err)
		_, _, err = BestMatch(ctx, nil, nil)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := BestMatch(cctx, gray(scene), gray(crop(scene, image.Rect(0, 0, 8, 8))))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBestMatch_HueMatters(t *testing.T) {
	ctx := context.Background()
	pattern := noise(48, 36, 2463534242)
	redScene := tinted(pattern, 0)
	cut := crop(pattern, image.Rect(16, 8, 32, 24))

	t.Run("same color matches", func(t *testing.T) {
		score, at, err := BestMatch(ctx, ToPlanes(redScene, 1), ToPlanes(tinted(cut, 0), 1))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
		assert.Equal(t, image.Pt(16, 8), at)
	})

	t.Run("same shape in another hue does not", func(t *testing.T) {
		greenTmpl := tinted(cut, 1)

		// Luminance alone cannot tell them apart.
		lum := func(img image.Image) Planes {
			b := img.Bounds()
			g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
			for y := 0; y < b.Dy(); y++ {
				for x := 0; x < b.Dx(); x++ {
					g.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
				}
			}
			return gray(g)
		}
		grayScore, _, err := BestMatch(ctx, lum(redScene), lum(greenTmpl))
		require.NoError(t, err)
		assert.Greater(t, grayScore, 0.9)

		score, _, err := BestMatch(ctx, ToPlanes(redScene, 1), ToPlanes(greenTmpl, 1))
		require.NoError(t, err)
		assert.Less(t, score, 0.9)
	})
}

func TestToPlanes(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 50, 30))
	for y := 10; y < 30; y++ {
		for x := 10; x < 50; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	full := ToPlanes(src, 1)
	require.Len(t, full, 3)
	assert.Equal(t, image.Rect(0, 0, 40, 20), full[0].Bounds())
	assert.Equal(t, uint8(200), full[0].GrayAt(0, 0).Y)
	assert.Equal(t, uint8(100), full[1].GrayAt(39, 19).Y)
	assert.Equal(t, uint8(50), full[2].GrayAt(5, 5).Y)

	half := ToPlanes(src, 0.5)
	assert.Equal(t, image.Rect(0, 0, 20, 10), half[1].Bounds())

	tiny := ToPlanes(src, 0.001)
	assert.Equal(t, image.Rect(0, 0, 1, 1), tiny[2].Bounds())
}

type fakeCapturer struct {
	img   image.Image
	err   error
	calls int
}

func (f *fakeCapturer) Capture() (image.Image, error) {
	f.calls++
	return f.img, f.err
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestMatcher_MatchImage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	scene := noise(80, 60, 2463534242)
	writePNG(t, filepath.Join(dir, "boss_cast.png"), crop(scene, image.Rect(30, 20, 46, 36)))
	writePNG(t, filepath.Join(dir, "elsewhere.png"), noise(16, 16, 88172645))
	logger := log.New(io.Discard, "", 0)

	t.Run("visible template matches", func(t *testing.T) {
		capt := &fakeCapturer{img: scene}
		m := NewMatcher(Options{Dir: dir, Threshold: 0.9, Capturer: capt, Logger: logger})

		ok, err := m.MatchImage(ctx, "boss_cast.png")
		require.NoError(t, err)
		assert.True(t, ok)

		// Second call reuses the cached template but captures again.
		ok, err = m.MatchImage(ctx, "boss_cast.png")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, capt.calls)
	})

	t.Run("absent template does not match", func(t *testing.T) {
		m := NewMatcher(Options{Dir: dir, Threshold: 0.9, Capturer: &fakeCapturer{img: scene}, Logger: logger})
		ok, err := m.MatchImage(ctx, "elsewhere.png")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing template file", func(t *testing.T) {
		capt := &fakeCapturer{img: scene}
		m := NewMatcher(Options{Dir: dir, Capturer: capt, Logger: logger})
		ok, err := m.MatchImage(ctx, "nope.png")
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.False(t, ok)
		assert.Equal(t, 0, capt.calls)
	})

	t.Run("identifiers cannot escape the image dir", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(dir), "outside.png")
		writePNG(t, outside, noise(4, 4, 7))
		defer os.Remove(outside)

		m := NewMatcher(Options{Dir: dir, Capturer: &fakeCapturer{img: scene}, Logger: logger})
		_, err := m.MatchImage(ctx, "../outside.png")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("capture failure", func(t *testing.T) {
		m := NewMatcher(Options{Dir: dir, Capturer: &fakeCapturer{err: errors.New("window not found")}, Logger: logger})
		ok, err := m.MatchImage(ctx, "boss_cast.png")
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestRegionCapturer(t *testing.T) {
	screens := []image.Rectangle{image.Rect(0, 0, 1920, 1080), image.Rect(1920, 0, 3840, 1080)}

	var grabbed []image.Rectangle
	fake := func(r image.Rectangle) (*image.RGBA, error) {
		grabbed = append(grabbed, r)
		return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
	}
	newCapturer := func(region image.Rectangle, displays []image.Rectangle) *RegionCapturer {
		c := NewRegionCapturer(region)
		c.displays = func() []image.Rectangle { return displays }
		c.grab = fake
		return c
	}

	t.Run("region on a display", func(t *testing.T) {
		grabbed = nil
		img, err := newCapturer(image.Rect(100, 100, 900, 700), screens).Capture()
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 800, 600), img.Bounds())
		assert.Equal(t, []image.Rectangle{image.Rect(100, 100, 900, 700)}, grabbed)
	})

	t.Run("region spanning displays and the edge is clipped", func(t *testing.T) {
		grabbed = nil
		_, err := newCapturer(image.Rect(1800, 900, 2100, 1200), screens).Capture()
		require.NoError(t, err)
		assert.Equal(t, []image.Rectangle{image.Rect(1800, 900, 2100, 1080)}, grabbed)
	})

	t.Run("region off every display", func(t *testing.T) {
		grabbed = nil
		_, err := newCapturer(image.Rect(5000, 0, 5400, 300), screens).Capture()
		assert.ErrorIs(t, err, ErrTargetNotFound)
		assert.Empty(t, grabbed)
	})

	t.Run("no displays", func(t *testing.T) {
		_, err := newCapturer(image.Rect(0, 0, 10, 10), nil).Capture()
		assert.ErrorIs(t, err, ErrNoDisplay)
	})

	t.Run("grab failure is wrapped", func(t *testing.T) {
		c := newCapturer(image.Rect(0, 0, 10, 10), screens)
		c.grab = func(image.Rectangle) (*image.RGBA, error) { return nil, errors.New("denied") }
		_, err := c.Capture()
		assert.ErrorContains(t, err, "denied")
	})
}

func TestMatcher_TargetNotFoundIsNoMatch(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "boss_cast.png"), noise(8, 8, 3))
	logger := log.New(io.Discard, "", 0)

	capt := NewRegionCapturer(image.Rect(5000, 0, 5400, 300))
	capt.displays = func() []image.Rectangle { return []image.Rectangle{image.Rect(0, 0, 1920, 1080)} }
	m := NewMatcher(Options{Dir: dir, Capturer: capt, Logger: logger})

	ok, err := m.MatchImage(context.Background(), "boss_cast.png")
	assert.ErrorIs(t, err, ErrTargetNotFound)
	assert.False(t, ok)

	eval := trigger.NewEvaluator(m.MatchImage, logger)
	assert.False(t, eval.Evaluate(context.Background(), trigger.ConditionImage, "boss_cast.png"))
}
