package barcode

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	barWidth   = 360
	barHeight  = 90
	textMargin = 18
)

// relDir is the directory under the upload root where barcode images are
// written. The public path is derived from the SAME relative path, so the
// URL always points at the file that was actually written.
const relDir = "order/bar-code"

// Generator renders Code-128 barcode images for order numbers.
type Generator struct {
	UploadRoot string // physical root, e.g. ./uploads
	BaseURL    string // public root, e.g. https://api.example.com
}

// Generate renders a Code-128 barcode for the given order number, with the
// human-readable number beneath the bars, and writes it as a PNG under
// <UploadRoot>/order/bar-code/. It returns the public URL path of the file.
//
// Callers treat failure as non-fatal: a missing barcode never blocks order
// creation.
func (g *Generator) Generate(orderNo string) (string, error) {
	code, err := code128.Encode(orderNo)
	if err != nil {
		return "", fmt.Errorf("failed to encode barcode: %w", err)
	}

	scaled, err := barcode.Scale(code, barWidth, barHeight)
	if err != nil {
		return "", fmt.Errorf("failed to scale barcode: %w", err)
	}

	img := compose(scaled, orderNo)

	dir := filepath.Join(g.UploadRoot, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create barcode directory: %w", err)
	}

	// Timestamped filename keeps concurrent requests collision-free.
	name := fmt.Sprintf("barcode-%d.png", time.Now().UnixNano())
	savePath := filepath.Join(dir, name)

	f, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("failed to create barcode file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode barcode png: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", g.BaseURL, relDir, name), nil
}

// compose stacks the scannable bars above the human-readable order number
// on a white canvas.
func compose(bars image.Image, label string) image.Image {
	bounds := bars.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()+textMargin))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, bounds, bars, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, label).Ceil()
	x := (bounds.Dx() - textWidth) / 2
	if x < 0 {
		x = 0
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, bounds.Dy()+textMargin-4),
	}
	drawer.DrawString(label)

	return canvas
}
