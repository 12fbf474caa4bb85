// ABOUTME: Pipeline funnel visualization
// ABOUTME: Renders the board as a status funnel with counts and weighted value
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

// FunnelGenerator renders pipeline graphs from live backend data.
type FunnelGenerator struct {
	client *api.Client
}

func NewFunnelGenerator(client *api.Client) *FunnelGenerator {
	return &FunnelGenerator{client: client}
}

// GenerateFunnel renders the pipeline as a left-to-right funnel. Each status
// node carries the lead count and the open weighted opportunity value of the
// leads sitting in that column.
func (g *FunnelGenerator) GenerateFunnel(ctx context.Context) (string, error) {
	leads, err := g.client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeAll})
	if err != nil {
		return "", fmt.Errorf("failed to fetch leads: %w", err)
	}

	store := engine.NewStore()
	store.ReplaceAll(leads)
	columns := store.GroupByStatus()

	weighted := make(map[models.LeadStatus]int64, len(models.PipelineStatuses))
	for _, status := range models.PipelineStatuses {
		for _, lead := range columns[status] {
			tracker := engine.NewTracker(g.client, lead.ID)
			if err := tracker.Load(ctx); err != nil {
				return "", fmt.Errorf("failed to fetch opportunities for %s: %w", lead.Name, err)
			}
			weighted[status] += tracker.OpenWeightedTotal()
		}
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.LRRank)

	// One node per column, edges along the pipeline order
	var prev *cgraph.Node
	for _, status := range models.PipelineStatuses {
		label := fmt.Sprintf("%s\n%d lead(s)", status.Label(), len(columns[status]))
		if weighted[status] > 0 {
			label += fmt.Sprintf("\n%s weighted", models.FormatCents(weighted[status]))
		}

		node, err := graph.CreateNodeByName(string(status))
		if err != nil {
			return "", fmt.Errorf("failed to create node: %w", err)
		}
		node.SetLabel(label)
		node.SetShape(cgraph.BoxShape)

		if prev != nil {
			if _, err := graph.CreateEdgeByName("", prev, node); err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
		}
		prev = node
	}

	// Generate DOT source
	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
