/*
Package domain contains the core domain models of the regolith simulation.

It defines node states, the pairwise link states that transition rules act on,
the rules themselves and the Frame snapshot handed to plotters and stores.
The package is kept pure and free of external dependencies like I/O or
persistence.

# Key Entities

  - NodeState: The discrete label of a grid cell (rock or saprolite).
  - PairState: The joint state of two adjacent cells plus the link orientation.
  - Transition: A rule moving a link from one pair state to another at a given rate.
  - Frame: A snapshot of the node-state array at a given simulated time.
*/
package domain
