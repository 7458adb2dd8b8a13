package cache

// Key prefixes for each kind of entry.
const (
	PrefixLayout = "layout"
	PrefixRender = "render"
)

// LayoutKeyOpts are the layout inputs besides the graph itself.
type LayoutKeyOpts struct {
	// Solver names the layout backend, since backends place nodes differently.
	Solver string
	// Options is the canonical form of the layout options.
	Options string
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a positioned graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// RenderKey identifies a rendered artifact of a positioned graph.
	RenderKey(layoutHash, format string) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey(PrefixLayout, graphHash, opts.Solver, opts.Options)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(layoutHash, format string) string {
	return hashKey(PrefixRender, layoutHash, format)
}

// KeyType returns the prefix of a key built by DefaultKeyer, used to label
// cache metrics.
func KeyType(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
