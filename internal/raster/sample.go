package raster

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Cell is one terminal character cell rendered as an upper half block:
// Top is the foreground color, Bottom the background color.
type Cell struct {
	Top    colorful.Color
	Bottom colorful.Color
}

// Grid is a cols x rows block of cells in row-major order.
type Grid struct {
	Cols, Rows int
	Cells      []Cell
}

// At returns the cell at col, row.
func (g Grid) At(col, row int) Cell {
	return g.Cells[row*g.Cols+col]
}

// Sample downsamples img into a terminal grid where each cell covers
// cellW x cellH surface pixels. Each half cell takes the layer color at its
// center with the brightest canvas pixel of its block composited on top, so
// sub-cell stars stay visible instead of averaging away.
func Sample(img *image.RGBA, cols, rows, cellW, cellH int, layers ...Layer) Grid {
	g := Grid{Cols: cols, Rows: rows}
	if cols <= 0 || rows <= 0 || cellW <= 0 || cellH <= 0 {
		g.Cols, g.Rows = 0, 0
		return g
	}
	g.Cells = make([]Cell, cols*rows)

	halfH := cellH / 2
	if halfH == 0 {
		halfH = 1
	}
	w := float64(cols * cellW)
	h := float64(rows * cellH)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0 := col * cellW
			yTop := row * cellH
			yBot := yTop + halfH

			top := shade(layers, float64(x0)+float64(cellW)/2, float64(yTop)+float64(halfH)/2, w, h)
			bot := shade(layers, float64(x0)+float64(cellW)/2, float64(yBot)+float64(halfH)/2, w, h)

			if img != nil {
				top = over(top, brightest(img, x0, yTop, x0+cellW, yBot))
				bot = over(bot, brightest(img, x0, yBot, x0+cellW, yBot+halfH))
			}
			g.Cells[row*cols+col] = Cell{Top: top, Bottom: bot}
		}
	}
	return g
}

// Compose flattens the layers and the canvas into a full-resolution image.
func Compose(img *image.RGBA, width, height int, layers ...Layer) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	w, h := float64(width), float64(height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := shade(layers, float64(x)+0.5, float64(y)+0.5, w, h)
			if img != nil && (image.Point{x, y}).In(img.Rect) {
				c = over(c, pixelAt(img, x, y))
			}
			r, g, b := c.Clamped().RGB255()
			i := out.PixOffset(x, y)
			out.Pix[i+0] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

func shade(layers []Layer, x, y, w, h float64) colorful.Color {
	var c colorful.Color
	for _, l := range layers {
		c = l.Shade(c, x, y, w, h)
	}
	return c
}

// premultiplied RGBA pixel
type pixel [4]uint8

func pixelAt(img *image.RGBA, x, y int) pixel {
	i := img.PixOffset(x, y)
	return pixel{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

// brightest returns the pixel with the largest color sum in [x0,x1)x[y0,y1),
// clipped to the image.
func brightest(img *image.RGBA, x0, y0, x1, y1 int) pixel {
	r := image.Rect(x0, y0, x1, y1).Intersect(img.Rect)
	var best pixel
	bestSum := -1
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			if a := img.Pix[i+3]; a != 0 {
				sum := int(img.Pix[i]) + int(img.Pix[i+1]) + int(img.Pix[i+2])
				if sum > bestSum {
					bestSum = sum
					best = pixel{img.Pix[i], img.Pix[i+1], img.Pix[i+2], a}
				}
			}
			i += 4
		}
	}
	return best
}

// over composites a premultiplied pixel onto base.
func over(base colorful.Color, p pixel) colorful.Color {
	if p[3] == 0 {
		return base
	}
	a := float64(p[3]) / 255
	return colorful.Color{
		R: base.R*(1-a) + float64(p[0])/255,
		G: base.G*(1-a) + float64(p[1])/255,
		B: base.B*(1-a) + float64(p[2])/255,
	}
}
