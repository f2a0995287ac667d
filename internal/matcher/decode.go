package matcher

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/spakin/netpbm"
)

// LoadTemplate opens and decodes an image file using netpbm first, then the
// standard decoders
func LoadTemplate(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateLoad, path, err)
	}
	defer file.Close()

	if pnm, err := netpbm.Decode(file, nil); err == nil {
		return pnm, nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateLoad, path, err)
	}
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateLoad, path, err)
	}
	return img, nil
}
