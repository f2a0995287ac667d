// Package render draws small images in the terminal with background colored
// cells, two columns per pixel.
package render

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one pixel on screen
const cell = "  "

// bgStyle returns a style painting the background with an 8-bit RGB color
func bgStyle(r, g, b uint8) lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)))
}

// RenderImage writes img to writer, one terminal line per pixel row
func RenderImage(img image.Image, writer io.Writer) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Convert 16-bit color to 8-bit
			fmt.Fprint(writer, bgStyle(uint8(r>>8), uint8(g>>8), uint8(b>>8)).Render(cell))
		}
		fmt.Fprintln(writer)
	}
}

// FormatImageOutput returns a titled preview of img
func FormatImageOutput(title string, img image.Image) string {
	var sb strings.Builder
	b := img.Bounds()
	sb.WriteString(fmt.Sprintf("%s (%dx%d)\n\n", title, b.Dx(), b.Dy()))
	RenderImage(img, &sb)
	return sb.String()
}
