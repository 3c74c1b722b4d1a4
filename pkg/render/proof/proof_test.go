package proof

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/pi-bie/ocitysmap/pkg/config"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/grid"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/paging"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

var paris = geo.NewBoundingBox(48.80, 2.25, 48.90, 2.42)

var a4 = paging.Paper{Name: "DinA4", WidthMM: 210, HeightMM: 297}

func singlePlan(t *testing.T) *pipeline.Plan {
	t.Helper()
	g, err := grid.NewProportional(paris, 20000, false)
	if err != nil {
		t.Fatal(err)
	}
	sheet := pipeline.NewSheet(a4, true)
	zone, _, _ := sheet.IndexZone(pipeline.IndexSide, false)
	idx := &layout.Area{
		Zone:    zone,
		Columns: 1,
		Style:   layout.DefaultFlowStyle(),
		Blocks: []layout.Block{
			{Kind: layout.BlockHeader, Text: "R", Zone: layout.Zone{X: zone.X, Y: zone.Y, W: zone.W, H: 14}},
			{Kind: layout.BlockItem, Text: "Rue de Rivoli", Location: "B3", Zone: layout.Zone{X: zone.X, Y: zone.Y + 14, W: zone.W, H: 8}},
		},
	}
	mapZone := sheet.MapZone(idx, pipeline.IndexSide)
	return &pipeline.Plan{
		Mode:     pipeline.ModeSingle,
		Title:    "Paris",
		Language: "fr",
		Paper:    a4,
		BBox:     paris,
		Scale:    20000,
		Zoom:     geo.ScaleToZoom(20000),
		Pages: []pipeline.MapPage{{
			Page:  paging.Page{Number: 1, Outer: paris, Inner: paris, Visible: true},
			Label: pipeline.MapPageLabel(1),
			Map:   mapZone,
			Grid:  g,
		}},
		Single: &pipeline.SingleLayout{
			Title:     sheet.Title,
			Map:       mapZone,
			Copyright: sheet.Copyright,
			Position:  pipeline.IndexSide,
			Index:     idx,
		},
	}
}

func atlasPlan(t *testing.T) *pipeline.Plan {
	t.Helper()
	cfg := config.Default()
	cfg.Atlas.StartScale = 20000
	r := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	res, err := r.Plan(context.Background(), pipeline.Options{
		Mode:   pipeline.ModeAtlas,
		Title:  "Paris",
		BBox:   paris,
		Config: cfg,
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	plan := res.Plan

	cats := []index.Category{{
		Name:  "R",
		Items: []index.Item{{Label: "Rue de Rivoli", Location: "1, 3"}, {Label: "Rue Saint-Honoré", Location: "2, 15"}},
	}}
	usableW, usableH := plan.Paper.Usable(Margin)
	areas, err := layout.Flow(cats, layout.Zone{X: Margin, Y: Margin, W: usableW, H: usableH}, layout.FaceMeasurer{}, layout.FlowOptions{
		FirstPage: 1 + len(plan.Pages),
	})
	if err != nil {
		t.Fatalf("Flow() error = %v", err)
	}
	plan.Index = cats
	plan.IndexPages = areas
	return plan
}

// hasPages reports whether the page tree of an uncompressed PDF counts n
// pages.
func hasPages(pdf []byte, n int) bool {
	return bytes.Contains(pdf, []byte(fmt.Sprintf("/Count %d\n", n)))
}

func TestRenderSingle(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(singlePlan(t), &buf, WithoutCompression()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("Render() output does not start with a PDF header: %q", buf.Bytes()[:min(8, buf.Len())])
	}
	if !hasPages(buf.Bytes(), 1) {
		t.Error("single plan does not render one page")
	}
}

func TestRenderSingleExtraPage(t *testing.T) {
	plan := singlePlan(t)
	sheet := pipeline.NewSheet(a4, true)
	idx := *plan.Single.Index
	idx.Zone = sheet.Page
	idx.Page = 2
	idx.PageLabel = layout.PageLabel(0)
	plan.Single.Position = pipeline.IndexExtraPage
	plan.Single.Index = nil
	plan.Single.Map = sheet.Usable
	plan.Pages[0].Map = sheet.Usable
	plan.IndexPages = []layout.Area{idx}

	var buf bytes.Buffer
	if err := Render(plan, &buf, WithoutCompression()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !hasPages(buf.Bytes(), 2) {
		t.Error("extra-page plan does not render map and index pages")
	}
}

func TestRenderAtlas(t *testing.T) {
	plan := atlasPlan(t)
	var buf bytes.Buffer
	if err := Render(plan, &buf, WithoutCompression()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := plan.PageCount(); !hasPages(buf.Bytes(), want) {
		t.Errorf("atlas proof does not render %d pages", want)
	}
}

func TestRenderInvalid(t *testing.T) {
	if err := Render(nil, io.Discard); err == nil {
		t.Error("Render(nil) error = nil, want error")
	}
	plan := singlePlan(t)
	plan.Paper = paging.Paper{Name: "tiny", WidthMM: 10, HeightMM: 10}
	if err := Render(plan, io.Discard); err == nil {
		t.Error("Render(tiny paper) error = nil, want error")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.pdf")
	if err := WriteFile(singlePlan(t), path, WithCreationDate(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("WriteFile() did not write a PDF")
	}
}

func TestNeighborsText(t *testing.T) {
	tests := []struct {
		in   paging.Neighbors
		want string
	}{
		{paging.Neighbors{}, ""},
		{paging.Neighbors{North: 1, East: 3}, "N 1  E 3"},
		{paging.Neighbors{North: 1, South: 7, West: 4, East: 6}, "N 1  S 7  W 4  E 6"},
	}
	for _, tt := range tests {
		if got := NeighborsText(tt.in); got != tt.want {
			t.Errorf("NeighborsText(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFitZone(t *testing.T) {
	square := geo.BoundingBox{Top: 0.01, Left: 0, Bottom: 0, Right: 0.01}
	got := fitZone(square, layout.Zone{X: 0, Y: 0, W: 200, H: 100})
	want := layout.Zone{X: 50, Y: 0, W: 100, H: 100}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b float64) bool { return a-b < 0.5 && b-a < 0.5 })); diff != "" {
		t.Errorf("fitZone() mismatch (-want +got):\n%s", diff)
	}
}

func TestProjector(t *testing.T) {
	p := newProjector(geo.BoundingBox{Top: 10, Left: 0, Bottom: 0, Right: 20}, layout.Zone{X: 10, Y: 10, W: 200, H: 100})
	got := p.box(geo.BoundingBox{Top: 5, Left: 10, Bottom: 0, Right: 20})
	want := layout.Zone{X: 110, Y: 60, W: 100, H: 50}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("box() mismatch (-want +got):\n%s", diff)
	}
}
