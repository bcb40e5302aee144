package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/tables"
)

// ruledResult detects a single ruled row of two cells plus one stray rule
// below the table, so the rendering has edges both inside and outside
// reconstructed structure.
func ruledResult(t *testing.T) (*model.Page, *tables.Result) {
	t.Helper()
	page := &model.Page{
		Number: 1,
		Chars: []model.Char{
			{Text: "A", BBox: model.BBox{X: 70, Y: 110, Width: 10, Height: 10}},
			{Text: "B", BBox: model.BBox{X: 170, Y: 110, Width: 10, Height: 10}},
		},
		Lines: []model.LineSegment{
			{Start: model.Point{X: 50, Y: 100}, End: model.Point{X: 250, Y: 100}, Width: 1},
			{Start: model.Point{X: 50, Y: 150}, End: model.Point{X: 250, Y: 150}, Width: 1},
			{Start: model.Point{X: 50, Y: 100}, End: model.Point{X: 50, Y: 150}, Width: 1},
			{Start: model.Point{X: 150, Y: 100}, End: model.Point{X: 150, Y: 150}, Width: 1},
			{Start: model.Point{X: 250, Y: 100}, End: model.Point{X: 250, Y: 150}, Width: 1},
			{Start: model.Point{X: 50, Y: 300}, End: model.Point{X: 250, Y: 300}, Width: 1},
		},
	}
	det, err := tables.NewDetector(nil)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	res := det.FindTablesOnPage(page)
	if len(res.Tables) != 1 {
		t.Fatalf("fixture produced %d tables, want 1", len(res.Tables))
	}
	return page, res
}

// The fixture extent is (50,100)-(250,300), so with the default scale of 1
// and margin of 8 a page point (x,y) lands on pixel (x-42, y-92).
func TestDrawDefaults(t *testing.T) {
	page, res := ruledResult(t)
	img := Draw(res, page.Extent(), nil)

	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 217 || h != 217 {
		t.Fatalf("canvas = %dx%d, want 217x217", w, h)
	}

	o := DefaultOptions()
	checks := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"stray rule keeps the edge color", 58, 208, o.EdgeColor},
		{"intersection marker at the top left corner", 9, 9, o.IntersectionColor},
		{"boundary between the two cells", 108, 33, o.CellColor},
		{"table outline over the top rule", 58, 8, o.TableColor},
		{"cell interior stays blank", 58, 33, o.Background},
	}
	for _, c := range checks {
		if got := img.RGBAAt(c.x, c.y); got != c.want {
			t.Errorf("%s: pixel (%d,%d) = %v, want %v", c.name, c.x, c.y, got, c.want)
		}
	}
}

func TestDrawLabels(t *testing.T) {
	page, res := ruledResult(t)
	o := DefaultOptions()

	// The first cell's label lands just inside its top left corner.
	countLabelPixels := func(img *image.RGBA) int {
		n := 0
		for y := 9; y <= 21; y++ {
			for x := 10; x <= 30; x++ {
				if img.RGBAAt(x, y) == o.LabelColor {
					n++
				}
			}
		}
		return n
	}

	with := Draw(res, page.Extent(), nil)
	if countLabelPixels(with) == 0 {
		t.Error("no label pixels drawn with DrawLabels on")
	}

	without := Draw(res, page.Extent(), &Options{})
	if n := countLabelPixels(without); n != 0 {
		t.Errorf("%d label pixels drawn with DrawLabels off", n)
	}
}

func TestDrawScale(t *testing.T) {
	page, res := ruledResult(t)
	img := Draw(res, page.Extent(), &Options{Scale: 2})

	// Margin zero is honored, so the canvas is exactly the doubled extent.
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 401 || h != 401 {
		t.Fatalf("canvas = %dx%d, want 401x401", w, h)
	}
	o := DefaultOptions()
	if got := img.RGBAAt(100, 400); got != o.EdgeColor {
		t.Errorf("stray rule pixel = %v, want %v", got, o.EdgeColor)
	}
}

func TestDrawNilResult(t *testing.T) {
	page, _ := ruledResult(t)
	img := Draw(nil, page.Extent(), nil)

	o := DefaultOptions()
	for _, pt := range []image.Point{{X: 8, Y: 8}, {X: 108, Y: 33}, {X: 58, Y: 208}} {
		if got := img.RGBAAt(pt.X, pt.Y); got != o.Background {
			t.Errorf("pixel (%d,%d) = %v, want blank page", pt.X, pt.Y, got)
		}
	}
}

func TestDrawNestedTables(t *testing.T) {
	parent := model.NewTable(1, 1)
	parent.BBox = model.BBox{Width: 100, Height: 100}
	parent.Cells[0][0].BBox = parent.BBox

	child := model.NewTable(1, 1)
	child.BBox = model.BBox{X: 20, Y: 20, Width: 40, Height: 40}
	child.Cells[0][0].BBox = child.BBox
	child.Parent = &model.CellRef{Row: 0, Col: 0}
	parent.Nested = append(parent.Nested, child)

	res := &tables.Result{Tables: []*model.Table{parent}}
	img := Draw(res, model.BBox{Width: 100, Height: 100}, &Options{})

	o := DefaultOptions()
	if got := img.RGBAAt(40, 0); got != o.TableColor {
		t.Errorf("parent outline pixel = %v, want %v", got, o.TableColor)
	}
	if got := img.RGBAAt(40, 20); got != o.TableColor {
		t.Errorf("nested outline pixel = %v, want %v", got, o.TableColor)
	}
	if got := img.RGBAAt(40, 40); got != o.Background {
		t.Errorf("nested interior pixel = %v, want %v", got, o.Background)
	}
}

func TestDrawPage(t *testing.T) {
	page, res := ruledResult(t)

	img := DrawPage(page, res, nil)
	if got, want := img.Bounds(), Draw(res, page.Extent(), nil).Bounds(); got != want {
		t.Errorf("DrawPage bounds = %v, want %v", got, want)
	}

	blank := DrawPage(nil, res, nil)
	if w, h := blank.Bounds().Dx(), blank.Bounds().Dy(); w != 17 || h != 17 {
		t.Errorf("nil page canvas = %dx%d, want margin only", w, h)
	}
}

func TestDrawPageDeclaredSize(t *testing.T) {
	page, res := ruledResult(t)
	page.Width, page.Height = 612, 792

	img := DrawPage(page, res, nil)
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 629 || h != 809 {
		t.Fatalf("canvas = %dx%d, want 629x809", w, h)
	}

	// Declared dimensions anchor the origin at (0,0) instead of the
	// primitive extent, shifting everything by it.
	o := DefaultOptions()
	if got := img.RGBAAt(108, 308); got != o.EdgeColor {
		t.Errorf("stray rule pixel = %v, want %v", got, o.EdgeColor)
	}
}

func TestSavePNG(t *testing.T) {
	page, res := ruledResult(t)
	img := Draw(res, page.Extent(), nil)

	path := filepath.Join(t.TempDir(), "page.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening written file: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding written file: %v", err)
	}
	if got, want := decoded.Bounds(), img.Bounds(); got != want {
		t.Errorf("decoded bounds = %v, want %v", got, want)
	}
}

func TestSavePNGBadPath(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	err := SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"), img)
	if err == nil {
		t.Fatal("SavePNG() error = nil, want creation failure")
	}
	if !strings.Contains(err.Error(), "creating") {
		t.Errorf("error = %v, want path creation wrap", err)
	}
}
