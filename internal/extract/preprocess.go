package extract

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sort"
)

// PreprocessPNG runs the recognition preprocessing chain on a rasterized
// page: grayscale, median denoise, adaptive histogram equalization, Otsu
// binarization, deskew. The result is written next to the input and its
// path returned.
func PreprocessPNG(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open page image: %w", err)
	}
	src, err := png.Decode(f)
	closeErr := f.Close()
	if err != nil {
		return "", fmt.Errorf("decode page image: %w", err)
	}
	if closeErr != nil {
		return "", closeErr
	}

	g := toGray(src)
	g = medianDenoise(g)
	g = equalizeAdaptive(g, 8, 2.0)
	g = binarizeOtsu(g)

	if angle := estimateSkew(g); math.Abs(angle) > 0.5 {
		g = rotateGray(g, -angle)
	}

	out := path + ".prep.png"
	w, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create preprocessed image: %w", err)
	}
	if err := png.Encode(w, g); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("encode preprocessed image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return out, nil
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x-b.Min.X, y-b.Min.Y, src.At(x, y))
		}
	}
	return g
}

// medianDenoise applies a 3x3 median filter.
func medianDenoise(g *image.Gray) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	var window [9]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					px, py := x+dx, y+dy
					if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
						continue
					}
					window[n] = int(g.GrayAt(px, py).Y)
					n++
				}
			}
			vals := window[:n]
			sort.Ints(vals)
			out.SetGray(x, y, color.Gray{Y: uint8(vals[n/2])})
		}
	}
	return out
}

// equalizeAdaptive performs tile-based histogram equalization with a clip
// limit, mapping each pixel through its tile's lookup table.
func equalizeAdaptive(g *image.Gray, tiles int, clipLimit float64) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return g
	}
	if tiles < 1 {
		tiles = 1
	}
	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles

	out := image.NewGray(b)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0, y0 := b.Min.X+tx*tileW, b.Min.Y+ty*tileH
			x1, y1 := min(x0+tileW, b.Max.X), min(y0+tileH, b.Max.Y)
			if x0 >= x1 || y0 >= y1 {
				continue
			}

			var hist [256]float64
			count := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[g.GrayAt(x, y).Y]++
					count++
				}
			}

			// Clip the histogram and redistribute the excess uniformly.
			clip := clipLimit * float64(count) / 256.0
			excess := 0.0
			for i := range hist {
				if hist[i] > clip {
					excess += hist[i] - clip
					hist[i] = clip
				}
			}
			bonus := excess / 256.0
			var lut [256]uint8
			cum := 0.0
			for i := range hist {
				cum += hist[i] + bonus
				v := cum * 255.0 / float64(count)
				lut[i] = uint8(math.Min(255, math.Max(0, math.Round(v))))
			}

			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					out.SetGray(x, y, color.Gray{Y: lut[g.GrayAt(x, y).Y]})
				}
			}
		}
	}
	return out
}

// binarizeOtsu thresholds with Otsu's automatic global threshold.
func binarizeOtsu(g *image.Gray) *image.Gray {
	b := g.Bounds()
	var hist [256]int
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[g.GrayAt(x, y).Y]++
			total++
		}
	}
	if total == 0 {
		return g
	}

	sumAll := 0.0
	for i, c := range hist {
		sumAll += float64(i * c)
	}
	var sumB, wB float64
	bestVar, threshold := -1.0, 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			threshold = t
		}
	}

	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if int(g.GrayAt(x, y).Y) > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

// estimateSkew returns the dominant text-line angle in degrees. Candidate
// rotations are scored by the squared row-projection of dark pixels; the
// sharpest profile wins.
func estimateSkew(g *image.Gray) float64 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	// Sample dark pixels on a coarse grid to bound the work per candidate.
	step := max(1, max(w, h)/400)
	type pt struct{ x, y int }
	var dark []pt
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			if g.GrayAt(x, y).Y < 128 {
				dark = append(dark, pt{x, y})
			}
		}
	}
	if len(dark) == 0 {
		return 0
	}

	best, bestScore := 0.0, -1.0
	for angle := -5.0; angle <= 5.0; angle += 0.5 {
		rad := angle * math.Pi / 180.0
		sin, cos := math.Sin(rad), math.Cos(rad)
		rows := make(map[int]int, h)
		for _, p := range dark {
			ry := int(float64(p.y)*cos - float64(p.x)*sin)
			rows[ry]++
		}
		score := 0.0
		for _, c := range rows {
			score += float64(c) * float64(c)
		}
		if score > bestScore {
			bestScore = score
			best = angle
		}
	}
	return best
}

// rotateGray rotates around the image center with border replication.
func rotateGray(g *image.Gray, degrees float64) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	rad := degrees * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx, cy := float64(w)/2, float64(h)/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// inverse mapping
			dx, dy := float64(x)-cx, float64(y)-cy
			sx := int(math.Round(dx*cos + dy*sin + cx))
			sy := int(math.Round(-dx*sin + dy*cos + cy))
			sx = min(max(sx, 0), w-1)
			sy = min(max(sy, 0), h-1)
			out.SetGray(x+b.Min.X, y+b.Min.Y, g.GrayAt(sx+b.Min.X, sy+b.Min.Y))
		}
	}
	return out
}
