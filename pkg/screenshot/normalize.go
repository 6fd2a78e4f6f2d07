package screenshot

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// panelWidthRatio is the empirical width/height ratio of the war-log panel.
// War-field rectangles are calibrated against this synthetic width instead of
// the cropped pixel width, which varies with device chrome and notches.
const panelWidthRatio = 1.8260105448154658

// Panel is the cropped in-game UI region of a screenshot, paired with the
// canonical dimensions used for fractional region lookup.
type Panel struct {
	Image  image.Image
	Width  float64 // synthetic canonical width, Height * panelWidthRatio
	Height float64
}

// Normalize isolates the UI panel from a raw screenshot. The panel is found
// by masking the UI's amber hue/saturation/value band and taking the bounding
// box of the largest connected masked region; when the mask is empty the full
// frame is used instead.
func Normalize(data []byte) (*Panel, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	rect, ok := panelBounds(img)
	if !ok {
		rect = img.Bounds()
	}
	panel := imaging.Crop(img, rect)
	h := float64(panel.Bounds().Dy())
	return &Panel{Image: panel, Width: h * panelWidthRatio, Height: h}, nil
}

// Mask band in OpenCV-style HSV ranges (H 0..180, S and V 0..255).
const (
	maskHueMin = 10
	maskHueMax = 30
	maskSatMin = 50
	maskValMin = 50
)

// panelBounds returns the bounding box of the largest connected region of
// pixels inside the panel color band.
func panelBounds(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.Rectangle{}, false
	}
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			hue, sat, val := rgbToHSV(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			if hue >= maskHueMin && hue <= maskHueMax && sat >= maskSatMin && val >= maskValMin {
				mask[y*w+x] = true
			}
		}
	}

	visited := make([]bool, w*h)
	var best image.Rectangle
	bestArea := 0
	queue := make([]int, 0, 256)
	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		minX, minY := start%w, start/w
		maxX, maxY := minX, minY
		area := 0
		queue = append(queue[:0], start)
		visited[start] = true
		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := idx%w, idx/w
			area++
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				nidx := ny*w + nx
				if mask[nidx] && !visited[nidx] {
					visited[nidx] = true
					queue = append(queue, nidx)
				}
			}
		}
		if area > bestArea {
			bestArea = area
			best = image.Rect(minX, minY, maxX+1, maxY+1)
		}
	}
	if bestArea == 0 {
		return image.Rectangle{}, false
	}
	return best.Add(b.Min), true
}

// rgbToHSV converts 8-bit RGB to OpenCV-range HSV: hue in [0,180), saturation
// and value in [0,255].
func rgbToHSV(r, g, b uint8) (int, int, int) {
	maxC := r
	if g > maxC {
		maxC = g
	}
	if b > maxC {
		maxC = b
	}
	minC := r
	if g < minC {
		minC = g
	}
	if b < minC {
		minC = b
	}
	v := int(maxC)
	delta := int(maxC) - int(minC)
	if maxC == 0 || delta == 0 {
		return 0, 0, v
	}
	s := (255 * delta) / int(maxC)
	var hue float64
	switch maxC {
	case r:
		hue = 60 * float64(int(g)-int(b)) / float64(delta)
	case g:
		hue = 120 + 60*float64(int(b)-int(r))/float64(delta)
	default:
		hue = 240 + 60*float64(int(r)-int(g))/float64(delta)
	}
	if hue < 0 {
		hue += 360
	}
	return int(hue / 2), s, v
}
