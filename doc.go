/*
Package regolith simulates the weathering of fractured bedrock into saprolite with a
continuous-time cellular automaton.

A square raster grid is walled off, seeded with straight fracture lines and handed
to an event-driven automaton whose two transition rules let saprolite creep sideways
into neighbouring rock. A runner advances the automaton in fixed plot intervals,
reporting progress and refreshing a plotter after every step.

# Usage

	sim, err := regolith.New(ctx, regolith.DefaultParams())
	if err != nil {
		log.Fatal(err)
	}

	res, err := sim.Runner(runner.DefaultConfig(),
		runner.WithPlotter(plot.NewTerminal(os.Stdout, plot.DefaultColormap())),
	).Run(ctx)

# Layout

  - pkg/domain: node states, transitions, frames, sentinel errors and lifecycle hooks.
  - pkg/ports: the Grid, Engine, Plotter and FrameStore contracts.
  - pkg/rules, pkg/grid, pkg/fracture, pkg/cts: the model.
  - pkg/runner: the simulation loop.
  - pkg/plot, pkg/adapters: displays, frame stores and the HTTP live view.
  - cmd/regolith, internal/cli: the command line.
*/
package regolith
