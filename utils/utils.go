package utils

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
)

type ImageConverted struct {
	Size int64
	NewX uint16
	NewY uint16
	OldX uint16
	OldY uint16
}

// ShrinkImage decodes a GIF, PNG or JPEG image, fits it in a maxSize square (when maxSize > 0)
// and writes it out as JPEG. Smaller images are re-encoded at their own size
func ShrinkImage(maxSize uint, reader io.Reader, writer io.Writer) (result ImageConverted, err error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return result, err
	}
	imageRect := img.Bounds().Size()
	result.OldX = uint16(imageRect.X)
	result.OldY = uint16(imageRect.Y)

	newImage := img
	if maxSize > 0 && (uint(imageRect.X) > maxSize || uint(imageRect.Y) > maxSize) {
		newImage = resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
	}
	var newBuf bytes.Buffer
	if err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: 90}); err != nil {
		return
	}
	imageRect = newImage.Bounds().Size()
	result.NewX = uint16(imageRect.X)
	result.NewY = uint16(imageRect.Y)

	result.Size, err = io.Copy(writer, &newBuf)
	return
}
