package mapping

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rowgraph/pkg/errors"
)

// Config is the complete mapping document for one view.
type Config struct {
	Layout   *RowMapping      `json:"layout"`
	Edges    []EdgeMapping    `json:"edges,omitempty"`
	Overlays []OverlayMapping `json:"overlays,omitempty"`
}

// Decode reads and validates a mapping document.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "decode mapping")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and validates a mapping document from a file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Validate checks structural requirements of the document: a layout root,
// valid and unique mapping ids, known flow symbols and overlay membership
// fields. It does not look at data; missing categories are not an error.
func (c *Config) Validate() error {
	if c.Layout == nil {
		return errors.New(errors.ErrCodeInvalidMapping, "mapping has no layout")
	}

	seen := make(map[string]bool)
	var err error
	c.Layout.Walk(func(m, _ *RowMapping) bool {
		if err = errors.ValidateIdentifier(m.ID); err != nil {
			return false
		}
		if seen[m.ID] {
			err = errors.New(errors.ErrCodeInvalidMapping, "duplicate mapping id %q", m.ID)
			return false
		}
		seen[m.ID] = true
		return true
	})
	if err != nil {
		return err
	}

	for _, e := range c.Edges {
		if err := errors.ValidateIdentifier(e.ID); err != nil {
			return err
		}
		if !e.Flow.Valid() {
			return errors.New(errors.ErrCodeInvalidMapping, "edge mapping %q has invalid flow symbol %q", e.ID, e.Flow)
		}
		if e.SourceKey == "" || e.TargetKey == "" {
			return errors.New(errors.ErrCodeInvalidMapping, "edge mapping %q needs sourceKey and targetKey", e.ID)
		}
	}

	for _, o := range c.Overlays {
		if err := errors.ValidateIdentifier(o.ID); err != nil {
			return err
		}
		if o.AttachesTo == "" {
			return errors.New(errors.ErrCodeInvalidMapping, "overlay mapping %q has no attachesTo field", o.ID)
		}
	}
	return nil
}

// Structural returns the categories that carry edges or overlays.
// The filter engine never clears these.
func (c *Config) Structural() map[string]bool {
	out := make(map[string]bool, len(c.Edges)+len(c.Overlays))
	for _, e := range c.Edges {
		out[e.ID] = true
	}
	for _, o := range c.Overlays {
		out[o.ID] = true
	}
	return out
}

// Categories returns every node category in the layout tree in preorder.
func (c *Config) Categories() []string {
	var out []string
	if c.Layout == nil {
		return out
	}
	c.Layout.Walk(func(m, _ *RowMapping) bool {
		out = append(out, m.ID)
		return true
	})
	return out
}
