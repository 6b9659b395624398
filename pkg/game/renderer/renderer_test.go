package renderer

import (
	"strings"
	"testing"

	"github.com/gookit/color"

	"deepfall/pkg/game/terrain"
	"deepfall/pkg/game/validate"
)

func initPlain() {
	InitColors()
	color.Disable()
}

func TestFormatStringMarkup(t *testing.T) {
	initPlain()

	got := FormatString("status: OK{good} BAD{bad} ACTION{run}")
	for _, want := range []string{"good", "bad", "run"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatted string missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "{") {
		t.Errorf("markup braces survived formatting: %q", got)
	}
}

func TestFormatStringUnknownFunction(t *testing.T) {
	initPlain()

	got := FormatString("NOPE{x}")
	if !strings.Contains(got, "ERROR") {
		t.Errorf("unknown markup function should produce an error marker, got %q", got)
	}
}

func TestRenderLevelOneLinePerRow(t *testing.T) {
	initPlain()

	lvl := validate.NewPipeline(validate.DefaultConfig()).Generate(1, 0, terrain.Cave, 1, 48, 32)
	out := RenderLevel(lvl)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != lvl.Layout.Grid.Height() {
		t.Errorf("rendered %d lines, want one per grid row (%d)", len(lines), lvl.Layout.Grid.Height())
	}
	if !strings.Contains(out, "@") {
		t.Error("rendered map should mark the spawn")
	}
	if !strings.Contains(out, "O") {
		t.Error("rendered map should mark the portal")
	}
}
