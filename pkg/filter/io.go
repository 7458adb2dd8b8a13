package filter

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/rowgraph/pkg/errors"
)

// Decode reads a selection document of the form
// {"allowedIris": [...], "filterObject": {"category": [...]}}.
// A JSON null yields a nil selection.
func Decode(r io.Reader) (*Selection, error) {
	var sel *Selection
	if err := json.NewDecoder(r).Decode(&sel); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSelection, err, "decode selection")
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return sel, nil
}

// Load reads a selection document from a file.
func Load(path string) (*Selection, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open selection %s", path)
	}
	defer f.Close()
	return Decode(f)
}
