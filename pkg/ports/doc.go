/*
Package ports defines the driven ports (interfaces) of the regolith simulation.

These interfaces decouple the simulation driver from the concrete grid, engine,
plotting and storage implementations, so any of them can be swapped or stubbed
in tests.

# Key Interfaces

  - Grid: Raster topology with boundary flags and the links transitions act on.
  - Engine: Continuous-time cellular automaton advanced in simulated time.
  - FractureGenerator: Produces the initial fracture-line pattern.
  - Plotter: Displays frames (terminal, images, HTTP live view).
  - FrameStore: Persists frames for replay.
*/
package ports
