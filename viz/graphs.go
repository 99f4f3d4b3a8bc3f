// ABOUTME: Graphviz renderings of a prospect journey and the whole pipeline
// ABOUTME: Produces DOT source via go-graphviz for piping into dot or a viewer
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/prospector/models"
)

// ProspectSource is the read side of the tracker.
type ProspectSource interface {
	List() []models.Prospect
	Get(id string) (models.Prospect, error)
}

type GraphGenerator struct {
	source ProspectSource
}

func NewGraphGenerator(source ProspectSource) *GraphGenerator {
	return &GraphGenerator{source: source}
}

var groupColors = map[string]string{
	models.GroupProspecting:   "lightblue",
	models.GroupPostOverview:  "lightcyan",
	models.GroupReengagement:  "lightsalmon",
	models.GroupMeetingFunnel: "plum",
	models.GroupPostProposal:  "lightyellow",
	models.GroupTerminal:      "lightgrey",
}

// GenerateJourneyGraph draws the catalog as a left-to-right chain with the
// prospect's visited stages filled and the current stage outlined.
func (g *GraphGenerator) GenerateJourneyGraph(prospectID string) (string, error) {
	p, err := g.source.Get(prospectID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch prospect: %w", err)
	}

	return render(func(graph *cgraph.Graph) error {
		graph.SetLabel(fmt.Sprintf("%s - %s", p.Name, p.Status.Label()))
		graph.SetRankDir(cgraph.LRRank)

		var prev *cgraph.Node
		for _, stage := range JourneyStages(p) {
			node, err := graph.CreateNodeByName(string(stage.Status))
			if err != nil {
				return fmt.Errorf("failed to create stage node: %w", err)
			}
			label := stage.Label
			if len(stage.Touchpoints) > 0 {
				label += "\n" + stage.Touchpoints[0].Timing
			}
			if stage.EnteredAt != nil {
				label += "\n" + stage.EnteredAt.Format("Jan 02 2006")
			}
			node.SetLabel(label)
			node.SetShape("box")
			if len(stage.Touchpoints) > 0 {
				node.SetTooltip(stage.Touchpoints[0].Description)
			}

			switch {
			case stage.Current:
				node.SetStyle("filled,bold")
				node.SetFillColor("gold")
			case stage.Visited:
				node.SetStyle("filled")
				node.SetFillColor(groupColors[stage.Group])
			default:
				node.SetStyle("dashed")
			}

			if prev != nil {
				if _, err := graph.CreateEdgeByName("", prev, node); err != nil {
					return fmt.Errorf("failed to create stage edge: %w", err)
				}
			}
			prev = node
		}
		return nil
	})
}

// GeneratePipelineGraph draws one cluster-like node per funnel group linked to
// the statuses it contains, with prospects hanging off their current status.
func (g *GraphGenerator) GeneratePipelineGraph() (string, error) {
	prospects := g.source.List()
	counts := CountByStatus(prospects)
	groupCounts := CountByGroup(prospects)

	return render(func(graph *cgraph.Graph) error {
		graph.SetLabel(fmt.Sprintf("Pipeline: %d prospects, %s open", len(prospects), FormatUSD(PipelineValue(prospects))))
		graph.SetRankDir(cgraph.LRRank)

		var prevGroup *cgraph.Node
		statusNodes := make(map[models.Status]*cgraph.Node)
		for _, group := range models.Groups() {
			gnode, err := graph.CreateNodeByName("group_" + nodeKey(group))
			if err != nil {
				return fmt.Errorf("failed to create group node: %w", err)
			}
			gnode.SetLabel(fmt.Sprintf("%s\n(%d)", group, groupCounts[group]))
			gnode.SetShape("folder")
			gnode.SetStyle("filled")
			gnode.SetFillColor(groupColors[group])

			if prevGroup != nil {
				edge, err := graph.CreateEdgeByName("next", prevGroup, gnode)
				if err != nil {
					return fmt.Errorf("failed to create group edge: %w", err)
				}
				edge.SetStyle("bold")
			}
			prevGroup = gnode

			for _, status := range models.StatusesInGroup(group) {
				snode, err := graph.CreateNodeByName("status_" + string(status))
				if err != nil {
					return fmt.Errorf("failed to create status node: %w", err)
				}
				snode.SetLabel(fmt.Sprintf("%s\n%d", status.Label(), counts[status]))
				snode.SetShape("box")
				statusNodes[status] = snode

				edge, err := graph.CreateEdgeByName("contains", gnode, snode)
				if err != nil {
					return fmt.Errorf("failed to create membership edge: %w", err)
				}
				edge.SetStyle("dashed")
			}
		}

		for _, p := range prospects {
			snode, ok := statusNodes[p.Status]
			if !ok {
				continue
			}
			pnode, err := graph.CreateNodeByName("prospect_" + p.ID)
			if err != nil {
				return fmt.Errorf("failed to create prospect node: %w", err)
			}
			pnode.SetLabel(fmt.Sprintf("%s\n%s\n%s", p.Name, p.Company, FormatUSD(p.DealValue)))
			pnode.SetShape("ellipse")
			if p.IsHighValue {
				pnode.SetStyle("filled")
				pnode.SetFillColor("gold")
			}
			edge, err := graph.CreateEdgeByName("at", snode, pnode)
			if err != nil {
				return fmt.Errorf("failed to create prospect edge: %w", err)
			}
			edge.SetDir("none")
		}
		return nil
	})
}

func render(build func(*cgraph.Graph) error) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	if err := build(graph); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

func nodeKey(s string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(s))
}
