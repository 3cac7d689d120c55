package screen

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/kbinani/screenshot"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Capturer grabs the current screen contents.
type Capturer interface {
	Capture() (image.Image, error)
}

// DisplayCapturer captures one whole display.
type DisplayCapturer struct {
	Display int
}

// Capture implements Capturer.
func (d DisplayCapturer) Capture() (image.Image, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoDisplay
	}
	if d.Display >= n {
		return nil, fmt.Errorf("screen: display %d not found, %d active", d.Display, n)
	}
	img, err := screenshot.CaptureDisplay(d.Display)
	if err != nil {
		return nil, fmt.Errorf("screen: capture display %d: %w", d.Display, err)
	}
	return img, nil
}

// ErrTargetNotFound means the capture region is not on any active display.
var ErrTargetNotFound = errors.New("screen: capture region not on any display")

// RegionCapturer captures one rectangle of the virtual screen, usually the
// area of the game window. Parts of the region outside every display are
// clipped away.
type RegionCapturer struct {
	Region image.Rectangle

	displays func() []image.Rectangle
	grab     func(image.Rectangle) (*image.RGBA, error)
}

func NewRegionCapturer(r image.Rectangle) *RegionCapturer {
	return &RegionCapturer{Region: r, displays: activeDisplays, grab: screenshot.CaptureRect}
}

func activeDisplays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}

// Capture implements Capturer.
func (c *RegionCapturer) Capture() (image.Image, error) {
	displays := c.displays()
	if len(displays) == 0 {
		return nil, ErrNoDisplay
	}
	var visible image.Rectangle
	for _, d := range displays {
		visible = visible.Union(c.Region.Intersect(d))
	}
	if visible.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrTargetNotFound, c.Region)
	}
	img, err := c.grab(visible)
	if err != nil {
		return nil, fmt.Errorf("screen: capture %v: %w", visible, err)
	}
	return img, nil
}

// Options configures a Matcher.
type Options struct {
	// Dir is where image identifiers are resolved.
	Dir string
	// Threshold is the minimum correlation counted as a match.
	Threshold float64
	// Scale downsizes both screen and template before matching.
	Scale    float64
	Capturer Capturer
	Logger   *log.Logger
}

// Matcher resolves image identifiers to template files and looks for them
// on screen. Templates are decoded once and cached.
type Matcher struct {
	dir       string
	threshold float64
	scale     float64
	capture   Capturer
	logger    *log.Logger

	mu        sync.Mutex
	templates map[string]Planes
}

// NewMatcher creates a Matcher. A nil Capturer captures display 0.
func NewMatcher(opts Options) *Matcher {
	if opts.Capturer == nil {
		opts.Capturer = DisplayCapturer{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 0.9
	}
	if opts.Scale <= 0 || opts.Scale > 1 {
		opts.Scale = 1
	}
	return &Matcher{
		dir:       opts.Dir,
		threshold: opts.Threshold,
		scale:     opts.Scale,
		capture:   opts.Capturer,
		logger:    opts.Logger,
		templates: make(map[string]Planes),
	}
}

// MatchImage reports whether imageID is currently on screen. It has the
// shape of trigger.MatchFunc.
func (m *Matcher) MatchImage(ctx context.Context, imageID string) (bool, error) {
	tmpl, err := m.template(imageID)
	if err != nil {
		return false, err
	}
	shot, err := m.capture.Capture()
	if err != nil {
		return false, err
	}
	score, at, err := BestMatch(ctx, ToPlanes(shot, m.scale), tmpl)
	if err != nil {
		return false, err
	}
	found := score >= m.threshold
	m.logger.Printf("Image %s: best score %.4f at %v, matched=%t", imageID, score, at, found)
	return found, nil
}

func (m *Matcher) template(imageID string) (Planes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.templates[imageID]; ok {
		return t, nil
	}

	// Identifiers are relative to dir; cleaning against "/" keeps them there.
	p := filepath.Join(m.dir, filepath.FromSlash(path.Clean("/"+imageID)))
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("screen: open template %s: %w", imageID, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("screen: decode template %s: %w", imageID, err)
	}
	t := ToPlanes(img, m.scale)
	m.templates[imageID] = t
	return t, nil
}
