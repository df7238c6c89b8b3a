// Package theme renders the visible output for the active song: a poster
// image painted with the song's resolved colors.
package theme

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/songboard/songboard/internal/colors"
	"github.com/songboard/songboard/internal/domain"
	"go.uber.org/zap"
)

const (
	posterWidth     = 1080
	posterHeight    = 1920
	bandHeightRatio = 0.18 // Title band size as fraction of poster height
	jpegQuality     = 90
	posterFilename  = "active_song.jpg"
)

// Fallbacks when a song carries an unresolvable color string. The
// resolver reports failure; choosing the default is this renderer's call.
var (
	defaultBackground = domain.Color{R: 1, G: 1, B: 1, A: 1}          // opaque white
	defaultForeground = domain.Color{R: 0.25, G: 0.25, B: 0.25, A: 1} // dark gray
)

// PosterRenderer paints a song's colors onto a fixed portrait canvas and
// writes the result into the configured output directory.
type PosterRenderer struct {
	logger *zap.Logger
	appCfg domain.Config
}

// NewPosterRenderer creates a new poster renderer
func NewPosterRenderer(logger *zap.Logger, appCfg domain.Config) *PosterRenderer {
	return &PosterRenderer{
		logger: logger,
		appCfg: appCfg,
	}
}

// Render produces the poster for the given song and returns the path to
// the generated file. Color resolution failures fall back to the
// renderer defaults and never fail the render.
func (r *PosterRenderer) Render(song domain.Song) (string, error) {
	background := colors.ResolveOr(song.BackgroundColor, defaultBackground)
	foreground := colors.ResolveOr(song.ForegroundColor, defaultForeground)

	data, err := r.compose(background, foreground)
	if err != nil {
		return "", fmt.Errorf("failed to compose poster: %w", err)
	}

	outputDir := r.appCfg.OutputDir()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, posterFilename)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write poster file: %w", err)
	}

	r.logger.Info("Poster generated successfully",
		zap.String("path", outputPath),
		zap.Uint8("song", song.ID),
		zap.Int("size", len(data)))

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil // Return relative path if abs fails
	}

	return absPath, nil
}

// compose paints the background fill with a centered foreground band and
// encodes the canvas as JPEG.
func (r *PosterRenderer) compose(background, foreground domain.Color) ([]byte, error) {
	canvas := imaging.New(posterWidth, posterHeight, toNRGBA(background))

	heightF := float64(posterHeight)
	bandHeight := int(heightF * bandHeightRatio)
	band := imaging.New(posterWidth, bandHeight, toNRGBA(foreground))

	centerY := (posterHeight - bandHeight) / 2
	result := imaging.Paste(canvas, band, image.Pt(0, centerY))

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, result, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode poster: %w", err)
	}

	r.logger.Debug("Poster composed", zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// toNRGBA converts normalized channel values to 8-bit color
func toNRGBA(c domain.Color) color.NRGBA {
	return color.NRGBA{
		R: channelByte(c.R),
		G: channelByte(c.G),
		B: channelByte(c.B),
		A: channelByte(c.A),
	}
}

// channelByte scales a [0,1] channel to [0,255] with rounding
func channelByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
