package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/aerialworks/dronesplat/internal/pose"
)

const (
	dpi      = 72.0
	fontSize = 14.0
	margin   = 60
)

var (
	backgroundColor = color.RGBA{18, 18, 24, 255}
	pathColor       = color.RGBA{90, 170, 255, 255}
	captureColor    = color.RGBA{255, 200, 60, 255}
	startColor      = color.RGBA{80, 220, 120, 255}
)

// PathRenderer draws capture positions, in the local tangent-plane frame,
// onto a square canvas with a freetype-annotated info line.
type PathRenderer struct {
	size    int
	context *freetype.Context
}

func NewPathRenderer(size int) (*PathRenderer, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(fontSize)
	context.SetSrc(image.White)
	context.SetHinting(font.HintingFull)

	return &PathRenderer{size: size, context: context}, nil
}

// Render plots the flight path in capture order. The vertical axis is
// flipped so that north is up.
func (r *PathRenderer) Render(estimates []pose.Estimate) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.size, r.size))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	minX, maxX := estimates[0].Translation.X, estimates[0].Translation.X
	minY, maxY := estimates[0].Translation.Y, estimates[0].Translation.Y
	for _, e := range estimates {
		minX = math.Min(minX, e.Translation.X)
		maxX = math.Max(maxX, e.Translation.X)
		minY = math.Min(minY, e.Translation.Y)
		maxY = math.Max(maxY, e.Translation.Y)
	}

	// Uniform scale across both axes keeps the path shape undistorted.
	extent := math.Max(maxX-minX, maxY-minY)
	if extent == 0 {
		extent = 1
	}
	scale := float64(r.size-2*margin) / extent

	toCanvas := func(e pose.Estimate) image.Point {
		x := margin + int((e.Translation.X-minX)*scale)
		y := r.size - margin - int((e.Translation.Y-minY)*scale)
		return image.Point{X: x, Y: y}
	}

	var prev image.Point
	for i, e := range estimates {
		p := toCanvas(e)
		if i > 0 {
			drawLine(img, prev, p, pathColor)
		}
		prev = p
	}

	for i, e := range estimates {
		c := captureColor
		if i == 0 {
			c = startColor
		}
		drawMark(img, toCanvas(e), 3, c)
	}

	if err := r.annotate(img, estimates, extent); err != nil {
		return nil, err
	}

	return img, nil
}

func (r *PathRenderer) annotate(img *image.RGBA, estimates []pose.Estimate, extent float64) error {
	r.context.SetClip(img.Bounds())
	r.context.SetDst(img)

	fract, suffix := humanize.ComputeSI(extent)
	info := fmt.Sprintf("%d captures, extent %.1f %sm", len(estimates), fract, suffix)

	pt := freetype.Pt(margin, r.size-margin/2)
	if _, err := r.context.DrawString(info, pt); err != nil {
		return fmt.Errorf("drawing info: %w", err)
	}
	return nil
}

// drawLine rasterizes a segment by stepping along its longer axis.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.SetRGBA(a.X, a.Y, c)
		return
	}

	for i := 0; i <= steps; i++ {
		x := a.X + dx*i/steps
		y := a.Y + dy*i/steps
		img.SetRGBA(x, y, c)
	}
}

func drawMark(img *image.RGBA, p image.Point, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(p.X+dx, p.Y+dy, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
