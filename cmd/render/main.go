// Command render runs one trajectory prediction offline and writes PNG
// visualizations: the sampled trajectory fan over time and the height
// heatmap. Useful for eyeballing tuning changes without the game attached.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/thermcast/ising"
	"github.com/Noofbiz/thermcast/predict"
)

func main() {
	birdY := flag.Float64("y", 300, "current bird height (0 = top of board)")
	velocity := flag.Float64("velocity", 0, "current vertical velocity (positive = falling)")
	pipesJSON := flag.String("pipes", "", `upcoming pipes as JSON, e.g. [{"x":400,"topHeight":200,"bottomY":400}]`)
	seed := flag.Int64("seed", predict.DefaultSeed, "root seed for the sample streams")
	tuningPath := flag.String("tuning", "", "optional JSON model-tuning file")
	outDir := flag.String("out", "render_out", "output directory for PNGs")
	flag.Parse()

	pipes, err := parsePipes(*pipesJSON)
	if err != nil {
		log.Fatalf("failed to parse -pipes: %v", err)
	}

	p := predict.New(*seed)
	if *tuningPath != "" {
		if err := p.LoadTuning(*tuningPath); err != nil {
			log.Fatalf("failed to load tuning: %v", err)
		}
	}

	result, err := p.Predict(predict.Request{Height: *birdY, Velocity: *velocity, Pipes: pipes})
	if err != nil {
		log.Fatalf("prediction failed: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}
	if err := plotTrajectories(*outDir, result, pipes); err != nil {
		log.Fatalf("failed to plot trajectories: %v", err)
	}
	if err := plotHeatmap(*outDir, result.Heatmap); err != nil {
		log.Fatalf("failed to plot heatmap: %v", err)
	}
	log.Printf("Wrote %d trajectories and %d-bin heatmap to %s", len(result.Trajectories), len(result.Heatmap), *outDir)
}

func parsePipes(s string) ([]ising.Pipe, error) {
	if s == "" {
		return nil, nil
	}
	var raw []struct {
		X         float64 `json:"x"`
		TopHeight float64 `json:"topHeight"`
		BottomY   float64 `json:"bottomY"`
	}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	pipes := make([]ising.Pipe, 0, len(raw))
	for _, r := range raw {
		pipes = append(pipes, ising.Pipe{X: r.X, GapTop: r.TopHeight, GapBottom: r.BottomY})
	}
	return pipes, nil
}

// plotTrajectories draws the sampled trajectory fan: step index on x,
// board height on y (inverted so "up" is up), faint green lines per sample.
func plotTrajectories(outDir string, result *predict.Result, pipes []ising.Pipe) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sampled trajectories (%d draws)", len(result.Trajectories))
	p.X.Label.Text = "step"
	p.Y.Label.Text = "height"
	// Board coordinates grow downward; invert the axis so climbing reads
	// as climbing.
	p.Y.Min = predict.BoardHeight
	p.Y.Max = 0

	for i, traj := range result.Trajectories {
		xys := make(plotter.XYs, len(traj))
		for t, y := range traj {
			xys[t].X = float64(t)
			xys[t].Y = y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = color.RGBA{R: 40, G: 120, B: 40, A: uint8(100 + (i%3)*30)}
		line.Width = vg.Points(0.8)
		p.Add(line)
		if i == 0 {
			p.Legend.Add("trajectories (sample)", line)
		}
	}

	// Gap edges of each pipe as horizontal dashed lines for context.
	for _, pipe := range pipes {
		for _, edge := range []float64{pipe.GapTop, pipe.GapBottom} {
			line, err := plotter.NewLine(plotter.XYs{
				{X: 0, Y: edge},
				{X: float64(predict.ReportHorizon - 1), Y: edge},
			})
			if err != nil {
				return err
			}
			line.Color = color.RGBA{R: 200, G: 30, B: 30, A: 180}
			line.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			p.Add(line)
		}
	}

	p.Add(plotter.NewGrid())
	return p.Save(8*vg.Inch, 6*vg.Inch, filepath.Join(outDir, "trajectories.png"))
}

// plotHeatmap draws the binned height distribution as a bar chart, one bar
// per height band from the top of the board down.
func plotHeatmap(outDir string, heatmap []float64) error {
	p := plot.New()
	p.Title.Text = "Predicted height distribution"
	p.X.Label.Text = "height bin (top to bottom)"
	p.Y.Label.Text = "probability"

	bars, err := plotter.NewBarChart(plotter.Values(heatmap), vg.Points(10))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	p.Add(bars)

	return p.Save(8*vg.Inch, 4*vg.Inch, filepath.Join(outDir, "heatmap.png"))
}
