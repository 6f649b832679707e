// Command forceplot renders the three-zone force law to a PNG chart.
//
// Usage: go run ./cmd/forceplot -beta 0.3 -gamma 0.7 -out force.png
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/olivierh59500/particle-life/internal/life"
)

var (
	betaFlag    = flag.Float64("beta", 0.3, "Near zone boundary as a fraction of the radius")
	gammaFlag   = flag.Float64("gamma", 0.7, "Far zone boundary as a fraction of the radius")
	stateFlag   = flag.String("state", "", "Take beta and gamma from a saved state file")
	samplesFlag = flag.Int("samples", 200, "Points per curve")
	outFlag     = flag.String("out", "force.png", "Output PNG file")
)

var behaviors = []float64{1, 0.5, 0, -0.5, -1}

func main() {
	flag.Parse()

	params := life.Params{Speed: 1, Beta: *betaFlag, Gamma: *gammaFlag, Radius: 1}
	if *stateFlag != "" {
		st, err := life.LoadState(*stateFlag)
		if err != nil {
			log.Fatal(err)
		}
		params = st.Params
	}
	if err := params.Validate(); err != nil {
		log.Fatal(err)
	}
	if *samplesFlag < 2 {
		log.Fatalf("need at least 2 samples, got %d", *samplesFlag)
	}

	f, err := os.Create(*outFlag)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	graph := buildChart(params, *samplesFlag)
	if err := graph.Render(chart.PNG, f); err != nil {
		log.Fatalf("Failed to render chart: %v", err)
	}
	log.Printf("wrote %s", *outFlag)
}

// buildChart plots magnitude over normalized distance for a spread of behavior values
func buildChart(p life.Params, samples int) chart.Chart {
	xs := make([]float64, samples)
	for i := range xs {
		// Stop just short of 1, where the pair leaves the radius
		xs[i] = float64(i) / float64(samples)
	}

	var series []chart.Series
	for i, b := range behaviors {
		ys := make([]float64, samples)
		for j, x := range xs {
			ys[j] = life.Magnitude(x, b, p.Beta, p.Gamma)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("behavior %+.1f", b),
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: curveColor(i), StrokeWidth: 2.0},
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("force law (beta %.2f, gamma %.2f)", p.Beta, p.Gamma),
		Width:  800,
		Height: 480,
		XAxis: chart.XAxis{
			Name:  "distance / radius",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  "magnitude",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: -1.05, Max: 1.05},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

func curveColor(i int) drawing.Color {
	colors := []drawing.Color{
		chart.ColorRed,
		{R: 255, G: 165, B: 0, A: 255},
		chart.ColorAlternateGray,
		chart.ColorGreen,
		chart.ColorBlue,
	}
	return colors[i%len(colors)]
}
