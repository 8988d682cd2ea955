package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Plot renders one named series as an ascii chart.
func Plot(name string, series []float64) string {
	if len(series) < 2 {
		return fmt.Sprintf("%s: not enough points to plot\n", name)
	}
	var b strings.Builder
	b.WriteString(Label.Render(name))
	b.WriteString("\n")
	b.WriteString(asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(3),
	))
	b.WriteString("\n")
	return b.String()
}
