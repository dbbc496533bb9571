package ingest

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// OCR reads the text off an image.
type OCR interface {
	Text(ctx context.Context, image []byte) (string, error)
}

// Tesseract runs OCR through the tesseract library, one gosseract client per
// call.
type Tesseract struct {
	Languages []string
}

func (t Tesseract) Text(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if len(t.Languages) > 0 {
		if err := client.SetLanguage(t.Languages...); err != nil {
			return "", err
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}
	return client.Text()
}

// ParseRaster extracts tags from a PNG or JPEG drawing with OCR.
func ParseRaster(ctx context.Context, name string, data []byte, ocr OCR) (ParsedFile, error) {
	p := ParsedFile{Name: name}
	if ocr == nil {
		p.Notes = append(p.Notes, "raster: OCR is not configured, no tags read")
		return p, nil
	}
	text, err := ocr.Text(ctx, data)
	if err != nil {
		return p, fmt.Errorf("ingest: %s: ocr: %w", name, err)
	}
	p.Tags = ExtractTags(text)
	p.Notes = append(p.Notes, fmt.Sprintf("raster: %d tags read by OCR", len(p.Tags)))
	return p, nil
}
