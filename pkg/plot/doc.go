/*
Package plot renders node-state frames.

Frames are drawn with a listed Colormap indexed by node state. Terminal redraws
the grid in place with true-colour half blocks, Images writes PNG frames, an
MJPEG movie and a saprolite-fraction chart. Multi fans a frame out to several
plotters.
*/
package plot
