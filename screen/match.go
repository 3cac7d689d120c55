// Package screen finds template images on the current screen. Matching uses
// normalized cross-correlation over the color channels of optionally
// downscaled images.
package screen

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

var ErrNoDisplay = errors.New("screen: no active display")

// Planes is an image split into equally sized single-channel planes.
type Planes []*image.Gray

// ToPlanes splits src into red, green and blue planes, scaled by scale in
// (0, 1]. The result always starts at the origin and is at least 1x1.
func ToPlanes(src image.Image, scale float64) Planes {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if scale > 0 && scale < 1 {
		w = max(int(math.Round(float64(w)*scale)), 1)
		h = max(int(math.Round(float64(h)*scale)), 1)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), src, b, draw.Src, nil)
	}

	p := Planes{
		image.NewGray(rgba.Bounds()),
		image.NewGray(rgba.Bounds()),
		image.NewGray(rgba.Bounds()),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*rgba.Stride + x*4
			o := y*w + x
			p[0].Pix[o] = rgba.Pix[i]
			p[1].Pix[o] = rgba.Pix[i+1]
			p[2].Pix[o] = rgba.Pix[i+2]
		}
	}
	return p
}

// BestMatch slides tmpl over scene and returns the highest correlation
// coefficient in [-1, 1] and where it occurred. Each channel is centered on
// its own mean and the sums run over all channels, so two shapes that differ
// only in hue do not match. A template larger than the scene, or one with no
// contrast, scores 0.
func BestMatch(ctx context.Context, scene, tmpl Planes) (float64, image.Point, error) {
	if len(scene) == 0 || len(scene) != len(tmpl) {
		return 0, image.Point{}, fmt.Errorf("screen: channel mismatch, scene %d, template %d", len(scene), len(tmpl))
	}
	return bestMatch(ctx, scene, tmpl)
}

func bestMatch(ctx context.Context, scene, tmpl Planes) (float64, image.Point, error) {
	sw, sh := scene[0].Bounds().Dx(), scene[0].Bounds().Dy()
	tw, th := tmpl[0].Bounds().Dx(), tmpl[0].Bounds().Dy()
	if tw == 0 || th == 0 || tw > sw || th > sh {
		return 0, image.Point{}, nil
	}
	n := float64(tw * th)
	channels := len(scene)

	// Zero-mean template per channel.
	t := make([][]float64, channels)
	var tNorm float64
	for c, plane := range tmpl {
		tc := make([]float64, tw*th)
		var mean float64
		for y := 0; y < th; y++ {
			for x := 0; x < tw; x++ {
				v := float64(plane.Pix[y*plane.Stride+x])
				tc[y*tw+x] = v
				mean += v
			}
		}
		mean /= n
		for i := range tc {
			tc[i] -= mean
			tNorm += tc[i] * tc[i]
		}
		t[c] = tc
	}
	if tNorm == 0 {
		return 0, image.Point{}, nil
	}

	// Integral images of each scene channel and its square, (sw+1) x (sh+1).
	iw := sw + 1
	sum := make([][]float64, channels)
	sq := make([][]float64, channels)
	for c, plane := range scene {
		sum[c] = make([]float64, iw*(sh+1))
		sq[c] = make([]float64, iw*(sh+1))
		for y := 0; y < sh; y++ {
			var rowSum, rowSq float64
			for x := 0; x < sw; x++ {
				v := float64(plane.Pix[y*plane.Stride+x])
				rowSum += v
				rowSq += v * v
				sum[c][(y+1)*iw+x+1] = sum[c][y*iw+x+1] + rowSum
				sq[c][(y+1)*iw+x+1] = sq[c][y*iw+x+1] + rowSq
			}
		}
	}
	window := func(a []float64, x, y int) float64 {
		return a[(y+th)*iw+x+tw] - a[y*iw+x+tw] - a[(y+th)*iw+x] + a[y*iw+x]
	}

	best := math.Inf(-1)
	var at image.Point
	for y := 0; y+th <= sh; y++ {
		if err := ctx.Err(); err != nil {
			return 0, image.Point{}, err
		}
		for x := 0; x+tw <= sw; x++ {
			var variance float64
			for c := range scene {
				s := window(sum[c], x, y)
				variance += window(sq[c], x, y) - s*s/n
			}
			score := 0.0
			if variance > 1e-9 {
				var num float64
				for c, plane := range scene {
					tc := t[c]
					for j := 0; j < th; j++ {
						row := plane.Pix[(y+j)*plane.Stride+x:]
						tr := tc[j*tw : (j+1)*tw]
						for i, tv := range tr {
							num += tv * float64(row[i])
						}
					}
				}
				score = num / math.Sqrt(tNorm*variance)
			}
			if score > best {
				best = score
				at = image.Pt(x, y)
			}
		}
	}
	return best, at, nil
}
