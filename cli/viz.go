// ABOUTME: Visualization CLI commands
// ABOUTME: Handles pipeline funnel graph generation
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/viz"
)

// VizFunnelCommand generates the pipeline funnel graph.
func VizFunnelCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("viz funnel", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	generator := viz.NewFunnelGenerator(client)
	dot, err := generator.GenerateFunnel(context.Background())
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}
