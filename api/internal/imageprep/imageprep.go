// Package imageprep prepares a user photo for model submission: geometric
// adjustments first, then iterative JPEG compression down to a byte budget.
package imageprep

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Spec holds the user-configurable adjustments. Values outside the declared
// ranges are clamped, never rejected.
type Spec struct {
	RotateDegrees int `json:"rotate_degrees"` // [-180, 180]
	CropPercent   int `json:"crop_percent"`   // [0, 100], 0 = no crop
	ResizePercent int `json:"resize_percent"` // [10, 200], 100 = no resize
	MaxKilobytes  int `json:"max_kilobytes"`  // > 0
	MaxDimension  int `json:"max_dimension"`  // > 0, pixels
}

const (
	defaultMaxKilobytes = 1024
	defaultMaxDimension = 2048

	startQuality    = 90
	qualityStep     = 10
	minQuality      = 30
	shrinkFactor    = 0.75
	maxShrinkRounds = 3
)

func DefaultSpec() Spec {
	return Spec{
		RotateDegrees: 0,
		CropPercent:   0,
		ResizePercent: 100,
		MaxKilobytes:  defaultMaxKilobytes,
		MaxDimension:  defaultMaxDimension,
	}
}

// Clamp forces every field into its declared range. Zero resize and budget
// fields read as "not set" and fall back to their no-op/default values.
func (s Spec) Clamp() Spec {
	if s.RotateDegrees < -180 {
		s.RotateDegrees = -180
	}
	if s.RotateDegrees > 180 {
		s.RotateDegrees = 180
	}
	if s.CropPercent < 0 {
		s.CropPercent = 0
	}
	if s.CropPercent > 100 {
		s.CropPercent = 100
	}
	switch {
	case s.ResizePercent == 0:
		s.ResizePercent = 100
	case s.ResizePercent < 10:
		s.ResizePercent = 10
	case s.ResizePercent > 200:
		s.ResizePercent = 200
	}
	if s.MaxKilobytes <= 0 {
		s.MaxKilobytes = defaultMaxKilobytes
	}
	if s.MaxDimension <= 0 {
		s.MaxDimension = defaultMaxDimension
	}
	return s
}

// Result is the outcome of one pipeline run. It is always usable: on decode
// or encode failure Fallback is set and Bytes carries the untouched input,
// which remains eligible for submission without a preview.
type Result struct {
	Bytes        []byte
	Image        image.Image // nil when Fallback
	MIME         string
	WithinBudget bool
	Fallback     bool
}

// Process applies the transform steps in fixed order — rotate, center crop,
// percentage resize, dimension cap, budget compression — skipping each step
// at its no-op value. It never fails hard.
func Process(raw []byte, spec Spec) Result {
	spec = spec.Clamp()

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{Bytes: raw, Fallback: true}
	}

	img = rotate(img, spec.RotateDegrees)
	if spec.CropPercent > 0 && spec.CropPercent < 100 {
		img = centerCrop(img, spec.CropPercent)
	}
	if spec.ResizePercent != 100 {
		img = resizePercent(img, spec.ResizePercent)
	}
	img = capDimension(img, spec.MaxDimension)

	out, final, ok, err := encodeToBudget(img, spec.MaxKilobytes*1024)
	if err != nil {
		return Result{Bytes: raw, Fallback: true}
	}
	return Result{
		Bytes:        out,
		Image:        final,
		MIME:         "image/jpeg",
		WithinBudget: ok,
	}
}

func rotate(img image.Image, deg int) image.Image {
	d := ((deg % 360) + 360) % 360
	switch d {
	case 0:
		return img
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	}
	// Arbitrary angle: canvas expands to hold the rotated corners.
	return imaging.Rotate(img, float64(deg), color.White)
}

func centerCrop(img image.Image, pct int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cw := w * pct / 100
	ch := h * pct / 100
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	x := b.Min.X + (w-cw)/2
	y := b.Min.Y + (h-ch)/2
	return imaging.Crop(img, image.Rect(x, y, x+cw, y+ch))
}

func resizePercent(img image.Image, pct int) image.Image {
	b := img.Bounds()
	nw := b.Dx() * pct / 100
	nh := b.Dy() * pct / 100
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}

func capDimension(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}

// encodeToBudget walks the quality ladder, shrinking the image by a fixed
// factor between rounds. The round count is capped so an image that can never
// fit (already minimal, budget absurdly small) terminates with its best
// attempt and ok=false.
func encodeToBudget(img image.Image, maxBytes int) (out []byte, final image.Image, ok bool, err error) {
	cur := img
	var best []byte
	for round := 0; ; round++ {
		for q := startQuality; q >= minQuality; q -= qualityStep {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, cur, &jpeg.Options{Quality: q}); err != nil {
				return nil, nil, false, err
			}
			best = buf.Bytes()
			if len(best) <= maxBytes {
				return best, cur, true, nil
			}
		}
		if round >= maxShrinkRounds {
			return best, cur, false, nil
		}
		b := cur.Bounds()
		nw := int(float64(b.Dx()) * shrinkFactor)
		nh := int(float64(b.Dy()) * shrinkFactor)
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		if nw == b.Dx() && nh == b.Dy() {
			return best, cur, false, nil
		}
		cur = imaging.Resize(cur, nw, nh, imaging.Lanczos)
	}
}
