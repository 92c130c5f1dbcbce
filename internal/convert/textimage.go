package convert

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	textImageWidth  = 1200
	textImageMargin = 20
	textLineHeight  = 16
)

// renderTextImage paints plain text onto a white raster image. It is the
// terminal fallback of the word-processor chains: crude, but it always
// produces something a vision model can read.
func renderTextImage(text string) (*Artifact, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\t", "    "), "\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("no text to render")
	}

	height := textImageMargin*2 + textLineHeight*len(lines)
	if height < 200 {
		height = 200
	}
	img := image.NewRGBA(image.Rect(0, 0, textImageWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	y := textImageMargin + textLineHeight
	for _, line := range lines {
		d.Dot = fixed.P(textImageMargin, y)
		d.DrawString(line)
		y += textLineHeight
	}

	tmpDir, err := os.MkdirTemp("", "da-txtimg-*")
	if err != nil {
		return nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "text.png")
	f, err := os.Create(out)
	if err != nil {
		cleanup()
		return nil, err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		cleanup()
		return nil, fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return nil, err
	}
	return newTempArtifact(out, "text-image", cleanup), nil
}
