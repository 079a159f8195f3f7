package qa

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const titleBarHeight = 18

// Montage stacks the titled overlay strips vertically. Narrower strips are
// resized to the widest one so the report has straight edges.
func Montage(panels []image.Image, titles []string) image.Image {
	width := 0
	for _, p := range panels {
		if w := p.Bounds().Dx(); w > width {
			width = w
		}
	}

	height := 0
	resized := make([]image.Image, len(panels))
	for i, p := range panels {
		if p.Bounds().Dx() != width {
			p = imaging.Resize(p, width, 0, imaging.Lanczos)
		}
		resized[i] = p
		height += titleBarHeight + p.Bounds().Dy()
	}

	out := imaging.New(width, height, color.Black)
	y := 0
	for i, p := range resized {
		drawTitle(out, titles[i], y, width)
		y += titleBarHeight
		out = imaging.Paste(out, p, image.Pt(0, y))
		y += p.Bounds().Dy()
	}
	return out
}

// drawTitle renders a centered white label onto the black bar starting at
// row y.
func drawTitle(dst *image.NRGBA, title string, y, width int) {
	face := basicfont.Face7x13

	textWidth := font.MeasureString(face, title).Ceil()
	x := (width - textWidth) / 2
	if x < 0 {
		x = 0
	}

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()+2),
	}
	drawer.DrawString(title)
}
