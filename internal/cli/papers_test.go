package cli

import (
	"strings"
	"testing"

	"github.com/pi-bie/ocitysmap/pkg/paging"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

func TestOrientation(t *testing.T) {
	tests := []struct {
		ok    bool
		scale float64
		zoom  int
		want  string
	}{
		{false, 10000, 15, "-"},
		{true, 0, 0, "yes"},
		{true, 8523.7, 16, "1:8523, zoom 16"},
	}
	for _, tt := range tests {
		if got := orientation(tt.ok, tt.scale, tt.zoom); got != tt.want {
			t.Errorf("orientation(%v, %v, %d) = %q, want %q", tt.ok, tt.scale, tt.zoom, got, tt.want)
		}
	}
}

func TestPapersTable(t *testing.T) {
	papers := []pipeline.CompatiblePaper{
		{
			Paper:         paging.Paper{Name: paging.BestFitPaper, WidthMM: 187, HeightMM: 243},
			PortraitOK:    true,
			PortraitScale: 7000,
			PortraitZoom:  16,
			Default:       true,
		},
		{
			Paper:       a4,
			PortraitOK:  true,
			LandscapeOK: true,
		},
	}
	out := papersTable(papers).Render()
	for _, want := range []string{"Best fit", "187 x 243", "1:7000, zoom 16", "default", "DinA4", "210 x 297"} {
		if !strings.Contains(out, want) {
			t.Errorf("papersTable() missing %q in\n%s", want, out)
		}
	}
}
