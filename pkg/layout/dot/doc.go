// Package dot implements a layout solver on Graphviz.
//
// Graphviz lays out one flat graph at a time, so the solver works bottom-up
// through the hierarchy: the children of every container are laid out first,
// the container grows to hold them plus padding, and then the container's
// own level is laid out with the grown size. Sibling containers are
// independent and run concurrently.
//
// An edge between nodes in different containers is routed at the level of
// their lowest common container, between the ancestors that are siblings
// there. Edges from a container to its own descendants carry no constraint
// and are left unrouted.
//
// Each level is rendered with the "dot" engine to annotated DOT, from which
// node centers (pos), sizes and edge splines are read back and converted to
// top-left coordinates with y pointing down.
package dot
