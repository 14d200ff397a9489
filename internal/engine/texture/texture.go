// Package texture decodes images and uploads them as GL textures.
package texture

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
)

// DefaultMaxSize caps the longest side of an uploaded texture.
const DefaultMaxSize = 2048

// Decode reads an image in any registered format (png, jpeg, bmp).
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, format, nil
}

// Prepare converts img to RGBA rows in GL order (bottom row first),
// scaling it down so neither side exceeds maxSize.
func Prepare(img image.Image, maxSize int) *image.RGBA {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			w, h = maxSize, max(1, h*maxSize/w)
		} else {
			w, h = max(1, w*maxSize/h), maxSize
		}
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == src.Dx() && h == src.Dy() {
		draw.Draw(scaled, scaled.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, src, draw.Src, nil)
	}

	flipped := image.NewRGBA(scaled.Bounds())
	row := w * 4
	for y := 0; y < h; y++ {
		copy(flipped.Pix[y*flipped.Stride:y*flipped.Stride+row], scaled.Pix[(h-1-y)*scaled.Stride:])
	}
	return flipped
}

// Texture is a 2D GL texture with repeat wrapping and trilinear filtering.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// Load decodes the image at path and uploads it.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture: %w", err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Upload(Prepare(img, DefaultMaxSize)), nil
}

// Upload creates a mipmapped texture from prepared RGBA pixels.
func Upload(img *image.RGBA) *Texture {
	t := &Texture{Width: img.Rect.Dx(), Height: img.Rect.Dy()}

	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.Width), int32(t.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// Bind binds the texture to the given unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Release deletes the GL texture. Safe to call more than once.
func (t *Texture) Release() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}
