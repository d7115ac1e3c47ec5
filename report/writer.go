package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"valves/graph"
	"valves/metrics"
	"valves/plan"
)

// Run describes one solve for search.json.
type Run struct {
	Input       string        `json:"input"`
	Start       string        `json:"start"`
	Budget      int           `json:"budget"`
	Score       uint64        `json:"score"`
	Actions     int           `json:"actions"`
	StartTime   time.Time     `json:"startTime"`
	Duration    time.Duration `json:"duration"`
	Expansions  int64         `json:"expansions"`
	Evaluations int64         `json:"evaluations"`
}

// NewRun fills a Run from a finished search.
func NewRun(input, start string, path plan.Path, score uint64, metric metrics.SearchMetric) Run {
	return Run{
		Input:       input,
		Start:       start,
		Budget:      metric.Budget,
		Score:       score,
		Actions:     len(path),
		StartTime:   metric.StartTime,
		Duration:    metric.Duration,
		Expansions:  metric.Expansions,
		Evaluations: metric.Evaluations,
	}
}

// Writer stores run records under a timestamped directory.
type Writer struct {
	baseDir string
}

func NewWriter(root string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405.000000000Z")
	baseDir := filepath.Join(root, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteSteps replays path over total steps into steps.csv.
func (w *Writer) WriteSteps(g *graph.Graph, path plan.Path, total int) error {
	f, err := os.Create(filepath.Join(w.baseDir, "steps.csv"))
	if err != nil {
		return fmt.Errorf("failed to create steps file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"step", "action", "node", "flow", "accrued"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write steps header: %w", err)
	}

	for _, tick := range plan.Replay(g, path, total) {
		action, node := "idle", ""
		if !tick.Idle {
			action = tick.Action.Kind.String()
			node = g.Node(tick.Action.Node).Label
		}
		row := []string{
			strconv.Itoa(tick.Step + 1),
			action,
			node,
			strconv.FormatUint(tick.Flow, 10),
			strconv.FormatUint(tick.Accrued, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write step row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush steps: %w", err)
	}
	return nil
}

// WriteRun stores the run summary as search.json.
func (w *Writer) WriteRun(run Run) error {
	f, err := os.Create(filepath.Join(w.baseDir, "search.json"))
	if err != nil {
		return fmt.Errorf("failed to create run file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(run); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	return nil
}
