package charts

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	apperrors "fxstory/internal/errors"
)

const (
	glyphHeight    = 13
	titleScale     = 3
	subtitleScale  = 2
	signatureScale = 2
	blockPadding   = 12
	minRowHeight   = 120
)

var (
	signatureBackground = drawing.ColorFromHex("4d4d4d")
	signatureText       = drawing.ColorFromHex("f0f0f0")
)

// Figure is a titled grid of panels. Each row divides the width evenly
// between its panels and every row gets the same height.
type Figure struct {
	Title    string
	Subtitle string // may span several lines
	// Signature is printed right-aligned in a dark bar at the bottom.
	Signature string
	Rows      [][]Panel
	Width     int
	Height    int
}

func (f Figure) validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid figure size %dx%d", f.Width, f.Height)
	}
	if len(f.Rows) == 0 {
		return fmt.Errorf("figure %q has no rows", f.Title)
	}
	for i, row := range f.Rows {
		if len(row) == 0 {
			return fmt.Errorf("figure %q row %d is empty", f.Title, i)
		}
	}
	return nil
}

func (f Figure) headerHeight() int {
	h := 0
	if f.Title != "" {
		h += titleScale*glyphHeight + blockPadding
	}
	if f.Subtitle != "" {
		h += len(strings.Split(f.Subtitle, "\n"))*(subtitleScale*glyphHeight+4) + blockPadding
	}
	if h > 0 {
		h += blockPadding
	}
	return h
}

func (f Figure) footerHeight() int {
	if f.Signature == "" {
		return 0
	}
	return signatureScale*glyphHeight + 2*blockPadding
}

// Renderer draws figures. Panels that fail to render are logged and
// replaced by a blank panel.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a renderer logging through logger.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger.With(slog.String("component", "charts"))}
}

// Render composes the figure into a single image.
func (r *Renderer) Render(ctx context.Context, f Figure) (*image.RGBA, error) {
	if err := f.validate(); err != nil {
		return nil, apperrors.NewRenderError("invalid figure", err)
	}
	header, footer := f.headerHeight(), f.footerHeight()
	rowHeight := (f.Height - header - footer) / len(f.Rows)
	if rowHeight < minRowHeight {
		return nil, apperrors.NewRenderError(
			fmt.Sprintf("figure %q too small for %d rows", f.Title, len(f.Rows)), nil)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	y := blockPadding
	if f.Title != "" {
		drawText(canvas, f.Title, blockPadding, y, titleScale, drawing.ColorBlack)
		y += titleScale*glyphHeight + blockPadding
	}
	for _, line := range splitLines(f.Subtitle) {
		drawText(canvas, line, blockPadding, y, subtitleScale, drawing.ColorFromHex("444444"))
		y += subtitleScale*glyphHeight + 4
	}

	for i, row := range f.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		colWidth := f.Width / len(row)
		top := header + i*rowHeight
		for j, p := range row {
			img := r.panel(p, colWidth, rowHeight)
			rect := image.Rect(j*colWidth, top, (j+1)*colWidth, top+rowHeight)
			draw.Draw(canvas, rect, img, img.Bounds().Min, draw.Src)
		}
	}

	if footer > 0 {
		bar := image.Rect(0, f.Height-footer, f.Width, f.Height)
		draw.Draw(canvas, bar, image.NewUniform(signatureBackground), image.Point{}, draw.Src)
		w := textWidth(f.Signature) * signatureScale
		drawText(canvas, f.Signature, f.Width-w-blockPadding, bar.Min.Y+blockPadding, signatureScale, signatureText)
	}

	r.logger.DebugContext(ctx, "Figure rendered",
		slog.String("title", f.Title),
		slog.Int("rows", len(f.Rows)),
		slog.Int("width", f.Width),
		slog.Int("height", f.Height))
	return canvas, nil
}

func (r *Renderer) panel(p Panel, w, h int) image.Image {
	img, err := renderPanel(p, w, h)
	if err != nil {
		r.logger.Warn("Panel replaced by blank",
			slog.String("panel", p.Title),
			slog.String("error", err.Error()))
		return blankPanel(p, w, h)
	}
	return img
}

// RenderToFile renders f and writes it as a PNG at path.
func (r *Renderer) RenderToFile(ctx context.Context, f Figure, path string) error {
	img, err := r.Render(ctx, f)
	if err != nil {
		return err
	}
	if err := Save(img, path); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Chart saved",
		slog.String("title", f.Title),
		slog.String("path", path))
	return nil
}

// Save writes img to path as a PNG, creating the parent directory.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create chart directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("create chart file", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return apperrors.NewStorageError("encode chart", err)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError("close chart file", err)
	}
	return nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func textWidth(s string) int {
	d := font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

// drawText writes s with its top-left corner at (x, y), scaling the 7x13
// bitmap font by an integer factor.
func drawText(dst *image.RGBA, s string, x, y, scale int, col color.Color) {
	if s == "" {
		return
	}
	if scale < 1 {
		scale = 1
	}
	w := textWidth(s)
	src := image.NewRGBA(image.Rect(0, 0, w, glyphHeight))
	d := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(basicfont.Face7x13.Ascent)},
	}
	d.DrawString(s)

	target := image.Rect(x, y, x+w*scale, y+glyphHeight*scale)
	xdraw.NearestNeighbor.Scale(dst, target, src, src.Bounds(), xdraw.Over, nil)
}

// drawCentered writes s horizontally centred with its top at y.
func drawCentered(dst *image.RGBA, s string, y, scale int, col color.Color) {
	w := textWidth(s) * scale
	x := (dst.Bounds().Dx() - w) / 2
	if x < 0 {
		x = 0
	}
	drawText(dst, s, x, y, scale, col)
}
