package render

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestConvertWithoutConverter(t *testing.T) {
	old := converter
	converter = filepath.Join(t.TempDir(), "no-such-rsvg")
	t.Cleanup(func() { converter = old })

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"/>`)
	if _, err := ToPDF(context.Background(), svg); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPDF err = %v, want ErrConverterMissing", err)
	}
	if _, err := ToPNG(context.Background(), svg, 2); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPNG err = %v, want ErrConverterMissing", err)
	}
}
