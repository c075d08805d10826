package monitor

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/sembas/internal/boundary"
)

// WriteBoundaryReport renders an interactive HTML scatter of the boundary
// projected onto axes (axisX, axisY) to path. The third value of every
// point carries the node's projected normal angle component along axisX,
// giving the color ramp a sense of surface orientation.
func WriteBoundaryReport(nodes []boundary.PointNode, axisX, axisY int, path string) error {
	if len(nodes) == 0 {
		return fmt.Errorf("nothing to report: empty boundary")
	}
	dims := nodes[0].HS.Dims()
	if axisX < 0 || axisX >= dims || axisY < 0 || axisY >= dims {
		return fmt.Errorf("projection axes (%d, %d) outside %d dimensions", axisX, axisY, dims)
	}

	data := make([]opts.ScatterData, 0, len(nodes))
	for _, node := range nodes {
		data = append(data, opts.ScatterData{
			Value: []interface{}{node.HS.B[axisX], node.HS.B[axisY], node.HS.N[axisX]},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Boundary Exploration", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Explored boundary",
			Subtitle: fmt.Sprintf("points=%d projection=(x%d, x%d)", len(nodes), axisX, axisY),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: fmt.Sprintf("x%d", axisX), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: fmt.Sprintf("x%d", axisY), NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("boundary", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
