package archive

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
)

var ErrNotImage = errors.New("archive response is not a GIF image")

// Decode returns the first frame of an archive GIF
func Decode(data []byte) (image.Image, error) {
	if !bytes.HasPrefix(data, []byte("GIF87a")) && !bytes.HasPrefix(data, []byte("GIF89a")) {
		return nil, fmt.Errorf("%w: %d bytes without GIF header", ErrNotImage, len(data))
	}

	img, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, nil
}
