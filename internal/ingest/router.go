package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

var ErrUnsupported = errors.New("ingest: unsupported file type")

type Kind string

const (
	KindJSON    Kind = "json"
	KindYAML    Kind = "yaml"
	KindDrawIO  Kind = "drawio"
	KindPUML    Kind = "puml"
	KindSVG     Kind = "svg"
	KindRaster  Kind = "raster"
	KindUnknown Kind = "unknown"
)

func DetectType(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return KindJSON
	case ".yaml", ".yml":
		return KindYAML
	case ".drawio":
		return KindDrawIO
	case ".puml", ".plantuml":
		return KindPUML
	case ".svg":
		return KindSVG
	case ".png", ".jpg", ".jpeg":
		return KindRaster
	default:
		return KindUnknown
	}
}

// ParsedFile is what one upload contributes: structured records when the
// format carries them, and tag text read off drawings that only carry
// pictures or loose text.
type ParsedFile struct {
	Name  string             `json:"name"`
	Kind  Kind               `json:"kind"`
	Model types.ProcessModel `json:"model"`
	Tags  []string           `json:"tags,omitempty"`
	Notes []string           `json:"notes,omitempty"`
}

// Parse dispatches on the file extension. ocr may be nil, in which case
// raster uploads only produce a note.
func Parse(ctx context.Context, name string, data []byte, ocr OCR) (ParsedFile, error) {
	kind := DetectType(name)
	var (
		p   ParsedFile
		err error
	)
	switch kind {
	case KindJSON, KindYAML:
		p, err = ParseModel(name, data)
	case KindDrawIO:
		p, err = ParseDrawIO(name, data)
	case KindPUML:
		p, err = ParsePUML(name, data)
	case KindSVG:
		p, err = ParseSVG(name, data)
	case KindRaster:
		p, err = ParseRaster(ctx, name, data, ocr)
	default:
		return ParsedFile{Name: name, Kind: kind}, fmt.Errorf("%w %q", ErrUnsupported, filepath.Ext(name))
	}
	p.Kind = kind
	return p, err
}

func ParseFile(ctx context.Context, path string, ocr OCR) (ParsedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ParsedFile{Name: path}, err
	}
	return Parse(ctx, filepath.Base(path), b, ocr)
}

// Merge concatenates several uploads into one result.
func Merge(files []ParsedFile) ParsedFile {
	out := ParsedFile{Name: "merged"}
	seen := map[string]bool{}
	for _, f := range files {
		out.Model.Equipment = append(out.Model.Equipment, f.Model.Equipment...)
		out.Model.Streams = append(out.Model.Streams, f.Model.Streams...)
		out.Notes = append(out.Notes, f.Notes...)
		for _, t := range f.Tags {
			if !seen[t] {
				seen[t] = true
				out.Tags = append(out.Tags, t)
			}
		}
	}
	return out
}
