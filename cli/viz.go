// ABOUTME: Visualization CLI commands
// ABOUTME: Handles dashboard, status catalog, journey, and pipeline graph commands
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

// StatsCommand prints the text dashboard.
func StatsCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	stats := viz.GenerateDashboardStats(t.List(), time.Now())
	_, _ = fmt.Fprint(stdout, viz.RenderDashboard(stats))
	return nil
}

// StatusesCommand prints the status catalog in funnel order.
func StatusesCommand(args []string) error {
	fs := flag.NewFlagSet("statuses", flag.ExitOnError)
	_ = fs.Parse(args)

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VALUE\tLABEL\tGROUP")
	_, _ = fmt.Fprintln(w, "-----\t-----\t-----")
	for _, def := range models.StatusDefinitions() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", def.Value, def.Label, def.Group)
	}
	return w.Flush()
}

// JourneyCommand prints a prospect's visited stages, or writes the journey
// graph when --dot or --output is given.
func JourneyCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("journey", flag.ExitOnError)
	output := fs.String("output", "", "Write the graph to a file")
	dot := fs.Bool("dot", false, "Print the graph instead of the stage list")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("prospect ID required")
	}
	id := fs.Arg(0)

	if *dot || *output != "" {
		generator := viz.NewGraphGenerator(t)
		graph, err := generator.GenerateJourneyGraph(id)
		if err != nil {
			return err
		}
		return writeGraph(*output, graph)
	}

	p, err := t.Get(id)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "%s: %s\n\n", p.Name, p.Status.Label())
	for _, stage := range viz.VisitedStages(p) {
		marker := "✓"
		if stage.Current {
			marker = "▶"
		}
		entered := ""
		if stage.EnteredAt != nil {
			entered = stage.EnteredAt.Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(stdout, "  %s %-32s %s\n", marker, stage.Label, entered)
		for _, tp := range stage.Touchpoints {
			_, _ = fmt.Fprintf(stdout, "      %-10s %s: %s\n", tp.Timing, tp.Name, tp.Description)
		}
	}
	return nil
}

// StagesCommand lists each journey stage with its prospects and total value.
func StagesCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("stages", flag.ExitOnError)
	status := fs.String("status", "", "Only this status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var only models.Status
	if *status != "" {
		s, err := models.ParseStatus(*status)
		if err != nil {
			return err
		}
		only = s
	}

	for _, stage := range viz.StageSummaries(t.List()) {
		if only != "" && stage.Status != only {
			continue
		}
		timing := ""
		if len(stage.Touchpoints) > 0 {
			timing = stage.Touchpoints[0].Timing
		}
		_, _ = fmt.Fprintf(stdout, "%-32s %-10s %s\n", stage.Label, timing, stage)
		for _, p := range stage.Prospects {
			_, _ = fmt.Fprintf(stdout, "    %s (%s) %s\n", p.Name, p.Company, viz.FormatUSD(p.DealValue))
		}
	}
	return nil
}

// PipelineGraphCommand generates the pipeline graph.
func PipelineGraphCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("pipeline-graph", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	generator := viz.NewGraphGenerator(t)
	graph, err := generator.GeneratePipelineGraph()
	if err != nil {
		return err
	}
	return writeGraph(*output, graph)
}

func writeGraph(output, graph string) error {
	if output != "" {
		return os.WriteFile(output, []byte(graph), 0644)
	}

	_, _ = fmt.Fprintln(stdout, graph)
	return nil
}
