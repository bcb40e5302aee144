// Package render rasterizes detection results for visual inspection.
//
// The renderer draws the raw edges a detection pass recovered, the
// intersections between them, and the cell grid of every reconstructed
// table, each in its own color. Structure is painted over signal, so a
// cell boundary that drifted away from the stroke it was snapped from
// shows up as two parallel lines. That makes the renderer the quickest
// way to see what a tolerance change actually did to a page.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/trellis/edges"
	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/tables"
)

// Options control the scale and palette of a rendering. Zero colors and a
// non-positive Scale fall back to their DefaultOptions values; a Margin of
// zero is honored, so only a negative one falls back.
type Options struct {
	// Scale is the number of pixels per page unit.
	Scale float64

	// Margin is the blank border, in pixels, around the drawn extent.
	Margin int

	// DrawLabels writes the row,col index into the corner of each cell
	// that is large enough to hold it.
	DrawLabels bool

	Background        color.RGBA
	EdgeColor         color.RGBA // recovered edges
	IntersectionColor color.RGBA // crossings between perpendicular edges
	CellColor         color.RGBA // cell boundaries
	TableColor        color.RGBA // outer table outline
	LabelColor        color.RGBA
}

// DefaultOptions returns the standard debug palette: white page, blue
// edges, red intersections, gray cells, green table outlines, and cell
// labels on.
func DefaultOptions() Options {
	return Options{
		Scale:             1,
		Margin:            8,
		DrawLabels:        true,
		Background:        color.RGBA{0xff, 0xff, 0xff, 0xff},
		EdgeColor:         color.RGBA{0x3b, 0x82, 0xf6, 0xff},
		IntersectionColor: color.RGBA{0xef, 0x44, 0x44, 0xff},
		CellColor:         color.RGBA{0x9c, 0xa3, 0xaf, 0xff},
		TableColor:        color.RGBA{0x10, 0xb9, 0x81, 0xff},
		LabelColor:        color.RGBA{0x00, 0x00, 0x00, 0xff},
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	var zero color.RGBA
	if o.Scale <= 0 {
		o.Scale = def.Scale
	}
	if o.Margin < 0 {
		o.Margin = def.Margin
	}
	if o.Background == zero {
		o.Background = def.Background
	}
	if o.EdgeColor == zero {
		o.EdgeColor = def.EdgeColor
	}
	if o.IntersectionColor == zero {
		o.IntersectionColor = def.IntersectionColor
	}
	if o.CellColor == zero {
		o.CellColor = def.CellColor
	}
	if o.TableColor == zero {
		o.TableColor = def.TableColor
	}
	if o.LabelColor == zero {
		o.LabelColor = def.LabelColor
	}
	return o
}

// Draw renders res onto a fresh canvas covering extent, normally the
// extent of the page the result came from. A nil opts uses
// DefaultOptions. A nil res yields a blank page.
//
// Paint order is edges, intersections, cell boundaries, table outlines,
// then labels, so derived structure always sits on top of the raw signal
// it was built from.
func Draw(res *tables.Result, extent model.BBox, opts *Options) *image.RGBA {
	o := DefaultOptions()
	if opts != nil {
		o = opts.normalized()
	}

	w := o.Margin*2 + int(math.Ceil(extent.Width*o.Scale)) + 1
	h := o.Margin*2 + int(math.Ceil(extent.Height*o.Scale)) + 1
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: o.Background}, image.Point{}, draw.Src)
	if res == nil {
		return img
	}

	p := plotter{
		img:    img,
		scale:  o.Scale,
		origin: model.Point{X: extent.X, Y: extent.Y},
		margin: o.Margin,
	}
	for _, e := range res.HorizontalEdges {
		p.edge(e, o.EdgeColor)
	}
	for _, e := range res.VerticalEdges {
		p.edge(e, o.EdgeColor)
	}
	for _, in := range res.Intersections {
		p.marker(in.Point, o.IntersectionColor)
	}
	for _, t := range res.Tables {
		p.table(t, o)
	}
	return img
}

// DrawPage sizes the canvas from the page's extent. A nil page renders
// onto an empty extent, which leaves only the margin.
func DrawPage(page *model.Page, res *tables.Result, opts *Options) *image.RGBA {
	var extent model.BBox
	if page != nil {
		extent = page.Extent()
	}
	return Draw(res, extent, opts)
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	return f.Close()
}

// plotter maps page coordinates onto canvas pixels.
type plotter struct {
	img    *image.RGBA
	scale  float64
	origin model.Point
	margin int
}

func (p plotter) x(v float64) int {
	return p.margin + int(math.Round((v-p.origin.X)*p.scale))
}

func (p plotter) y(v float64) int {
	return p.margin + int(math.Round((v-p.origin.Y)*p.scale))
}

func (p plotter) fill(r image.Rectangle, c color.RGBA) {
	draw.Draw(p.img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// edge paints a one pixel line along the edge's span. Anything outside
// the canvas is clipped by the draw package.
func (p plotter) edge(e edges.Edge, c color.RGBA) {
	if e.Orientation == edges.Horizontal {
		y := p.y(e.Position)
		p.fill(image.Rect(p.x(e.Start), y, p.x(e.End)+1, y+1), c)
		return
	}
	x := p.x(e.Position)
	p.fill(image.Rect(x, p.y(e.Start), x+1, p.y(e.End)+1), c)
}

// marker paints a three by three dot centered on the point.
func (p plotter) marker(pt model.Point, c color.RGBA) {
	x, y := p.x(pt.X), p.y(pt.Y)
	p.fill(image.Rect(x-1, y-1, x+2, y+2), c)
}

// outline paints the four sides of a box.
func (p plotter) outline(b model.BBox, c color.RGBA) {
	x0, y0 := p.x(b.X), p.y(b.Y)
	x1, y1 := p.x(b.X+b.Width), p.y(b.Y+b.Height)
	p.fill(image.Rect(x0, y0, x1+1, y0+1), c)
	p.fill(image.Rect(x0, y1, x1+1, y1+1), c)
	p.fill(image.Rect(x0, y0, x0+1, y1+1), c)
	p.fill(image.Rect(x1, y0, x1+1, y1+1), c)
}

func (p plotter) table(t *model.Table, o Options) {
	if t == nil {
		return
	}
	for _, row := range t.Cells {
		for _, cell := range row {
			if cell.RowSpan < 1 || cell.ColSpan < 1 {
				// Covered by another cell's span.
				continue
			}
			p.outline(cell.BBox, o.CellColor)
		}
	}
	p.outline(t.BBox, o.TableColor)
	if o.DrawLabels {
		for _, row := range t.Cells {
			for _, cell := range row {
				if cell.RowSpan < 1 || cell.ColSpan < 1 {
					continue
				}
				p.label(cell, o.LabelColor)
			}
		}
	}
	for _, n := range t.Nested {
		p.table(n, o)
	}
}

// label writes "row,col" just inside the cell's top left corner, skipping
// cells too small to hold the text.
func (p plotter) label(cell model.Cell, c color.RGBA) {
	text := strconv.Itoa(cell.Row) + "," + strconv.Itoa(cell.Col)
	face := basicfont.Face7x13
	w := p.x(cell.BBox.X+cell.BBox.Width) - p.x(cell.BBox.X)
	h := p.y(cell.BBox.Y+cell.BBox.Height) - p.y(cell.BBox.Y)
	if w < len(text)*face.Advance+4 || h < face.Height {
		return
	}
	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(p.x(cell.BBox.X)+2, p.y(cell.BBox.Y)+face.Ascent),
	}
	d.DrawString(text)
}
