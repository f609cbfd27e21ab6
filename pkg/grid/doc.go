/*
Package grid implements the raster grid the weathering automaton runs on and
the initializer that seeds it with fractures.

Nodes are numbered row-major from the bottom-left corner (id = row*cols + col).
Horizontal links point left to right, vertical links bottom to top. Nodes on a
closed boundary keep their state forever and the links touching them are not
active.
*/
package grid
