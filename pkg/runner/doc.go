/*
Package runner drives a weathering simulation.

A Runner advances an engine in fixed plot-interval steps until the run duration
is reached, refreshes its plotter after every step, optionally persists each
frame, and prints a progress line at most once per report interval of wall-clock
time.

	r := runner.NewRunner(
		runner.WithConfig(runner.Config{PlotInterval: 0.5, RunDuration: 20, ReportInterval: 10 * time.Second}),
		runner.WithEngine(engine),
		runner.WithShape(rows, cols),
		runner.WithPlotter(plotter),
	)
	res, err := r.Run(ctx)
*/
package runner
