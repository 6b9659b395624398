// Package renderer prints generated levels as colored ASCII for the
// preview tool. Color is disabled automatically when stdout is not a
// terminal, so piped output stays clean.
package renderer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/engine/terminal"
	"deepfall/pkg/game/room"
	"deepfall/pkg/game/validate"
)

var (
	ColorWall     color.Style
	ColorFloor    color.Style
	ColorPlatform color.Style
	ColorSpawn    color.Style
	ColorPortal   color.Style
	ColorEnemy    color.Style
	ColorDoor     color.Style
	ColorAction   color.Style
	ColorDenied   color.Style
	ColorSubtle   color.Style

	regexpStringFunctions *regexp.Regexp
)

// InitColors initializes the color styles
func InitColors() {
	if !terminal.IsInteractive() {
		color.Disable()
	}

	ColorWall = color.Style{color.FgGray}
	ColorFloor = color.Style{color.FgDefault}
	ColorPlatform = color.Style{color.FgCyan}
	ColorSpawn = color.Style{color.FgGreen, color.OpBold}
	ColorPortal = color.Style{color.FgMagenta, color.OpBold}
	ColorEnemy = color.Style{color.FgRed}
	ColorDoor = color.Style{color.FgYellow, color.OpBold}
	ColorAction = color.Style{color.FgMagenta}
	ColorDenied = color.Style{color.FgRed, color.OpBold}
	ColorSubtle = color.Style{color.FgGray, color.OpBold}

	regexpStringFunctions = regexp.MustCompile(`([a-zA-Z_]*){([a-z A-Z0-9_,:]+)}`)
}

// FormatString formats a string with special markup
func FormatString(msg string, a ...any) string {
	ret := fmt.Sprintf(msg, a...)

	matches := regexpStringFunctions.FindAllStringSubmatch(ret, -1)

	for _, match := range matches {
		function := match[1]
		operand := match[2]

		var val string

		switch function {
		case "GT":
			val = gotext.Get(operand)
		case "OK":
			val = ColorSpawn.Sprintf(operand)
		case "BAD":
			val = ColorDenied.Sprintf(operand)
		case "ACTION":
			val = ColorAction.Sprintf(operand)
		default:
			ret = fmt.Sprintf("ERROR, function not found: %v -> %v", function, operand)
		}

		ret = strings.Replace(ret, match[0], val, -1)
	}

	return ret
}

// PrintString prints a formatted string
func PrintString(msg string, a ...any) {
	fmt.Print(FormatString(msg, a...))
}

// PrintBullet prints a bulleted item
func PrintBullet(txt string) {
	fmt.Printf("- " + FormatString(txt) + "\n")
}

// tileString returns the colored symbol for a plain tile.
func tileString(k grid.Kind) string {
	switch k {
	case grid.Wall:
		return ColorWall.Sprintf("#")
	case grid.Floor:
		return ColorFloor.Sprintf(",")
	case grid.OneWay:
		return ColorPlatform.Sprintf("=")
	default:
		return " "
	}
}

// RenderLevel returns the colored map of a macro level, one line per
// grid row, with spawn, portal, and enemy markers overlaid.
func RenderLevel(lvl *validate.GeneratedLevel) string {
	overlay := map[grid.Point]string{}
	for _, p := range lvl.EnemySpawns {
		overlay[p] = ColorEnemy.Sprintf("e")
	}
	overlay[lvl.Layout.PortalPoint] = ColorPortal.Sprintf("O")
	overlay[lvl.Layout.SpawnPoint] = ColorSpawn.Sprintf("@")

	return renderGrid(lvl.Layout.Grid, overlay)
}

// RenderRoom returns the colored map of a single room with its doors
// marked.
func RenderRoom(r *room.Room) string {
	overlay := map[grid.Point]string{
		r.Entrance: ColorDoor.Sprintf(">"),
		r.Exit:     ColorDoor.Sprintf("<"),
	}
	return renderGrid(r.Grid, overlay)
}

func renderGrid(g *grid.Grid, overlay map[grid.Point]string) string {
	var sb strings.Builder
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if s, ok := overlay[grid.Point{X: x, Y: y}]; ok {
				sb.WriteString(s)
				continue
			}
			sb.WriteString(tileString(g.At(x, y)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// PrintValidationSummary prints the pipeline outcome and any issues
// the repair cycle could not resolve.
func PrintValidationSummary(lvl *validate.GeneratedLevel) {
	if lvl.Result.IsValid {
		PrintString("GT{VALIDATION} OK{passed} (%s)\n", lvl.State)
	} else {
		PrintString("GT{VALIDATION} BAD{failed} (%s)\n", lvl.State)
	}
	for _, issue := range lvl.Result.Issues {
		PrintBullet(issue)
	}
}
