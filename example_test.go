package regolith_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aretw0/regolith"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/runner"
)

// ExampleNew runs a small model seeded with a single weathered node.
// Saprolite only spreads along horizontal links, so it fills the seed's row.
func ExampleNew() {
	ctx := context.Background()
	sim, err := regolith.New(ctx,
		regolith.Params{Rows: 5, Cols: 7, Spacing: 1, Seed: 1},
		regolith.WithFractureGenerator(seedNode{row: 2, col: 3}),
	)
	if err != nil {
		log.Fatal(err)
	}

	res, err := sim.Runner(
		runner.Config{PlotInterval: 100, RunDuration: 1000, ReportInterval: time.Hour},
		runner.WithReportWriter(io.Discard),
	).Run(ctx)
	if err != nil {
		log.Fatal(err)
	}

	frame := sim.Frame("example", res.Steps)
	fmt.Println("steps:", res.Steps)
	fmt.Println("saprolite nodes:", frame.Count(domain.Saprolite))
	// Output:
	// steps: 10
	// saprolite nodes: 5
}
