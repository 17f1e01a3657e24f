package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ProcessedImage contains all variants of a processed photo
type ProcessedImage struct {
	Original    []byte
	Thumbnail   []byte
	ContentType string
	Width       int
	Height      int
}

// Config for photo processing
type Config struct {
	MaxWidth  int // Max width for original
	MaxHeight int // Max height for original
	ThumbSize int // Square thumbnail edge length
	Quality   int // JPEG quality 1-100
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  2000,
		MaxHeight: 2000,
		ThumbSize: 400,
		Quality:   85,
	}
}

// Processor handles profile photo processing
type Processor struct {
	config Config
}

// NewProcessor creates photo processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Process decodes a photo, downsizes it if needed and renders a square
// center-cropped thumbnail.
func (p *Processor) Process(reader io.Reader) (*ProcessedImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	result := &ProcessedImage{
		ContentType: mimeFromFormat(format),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}

	resized := img
	if result.Width > p.config.MaxWidth || result.Height > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
		result.Width = resized.Bounds().Dx()
		result.Height = resized.Bounds().Dy()
	}

	original, err := p.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original: %w", err)
	}
	result.Original = original

	thumb := imaging.Fill(img, p.config.ThumbSize, p.config.ThumbSize, imaging.Center, imaging.Lanczos)
	thumbnail, err := p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	result.Thumbnail = thumbnail

	return result, nil
}

// ValidateType checks if file is a supported image type
func ValidateType(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// MaxFileSize in bytes (10MB)
const MaxFileSize int64 = 10 * 1024 * 1024

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func mimeFromFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// PhotoPaths generates storage keys for a photo's original and thumbnail
func PhotoPaths(userID, photoID, filename string) (original, thumb string) {
	ext := filepath.Ext(filename)
	original = fmt.Sprintf("photos/%s/%s%s", userID, photoID, ext)
	thumb = fmt.Sprintf("photos/%s/%s_thumb%s", userID, photoID, ext)
	return
}
