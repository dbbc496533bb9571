package diagram

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/metrics"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	PDF Format = "pdf"
	DOT Format = "dot"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return PNG, nil
	case PNG, SVG, PDF, DOT:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported diagram format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case SVG:
		return "image/svg+xml"
	case PDF:
		return "application/pdf"
	case DOT:
		return "text/vnd.graphviz"
	default:
		return "image/png"
	}
}

// Rasterizer turns DOT source into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, dot string, format Format) ([]byte, error)
}

// DotCommand pipes DOT source through the Graphviz dot binary.
type DotCommand struct {
	Binary string
}

func (d DotCommand) Rasterize(ctx context.Context, dot string, format Format) ([]byte, error) {
	bin := d.Binary
	if bin == "" {
		bin = "dot"
	}
	cmd := exec.CommandContext(ctx, bin, "-T"+string(format))
	cmd.Stdin = strings.NewReader(dot)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz -T%s: %w: %s", format, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

type Result struct {
	Graph  *Graph
	DOT    string
	Format Format
	Data   []byte
}

type Renderer struct {
	backend Rasterizer
	quality Quality
	sem     *semaphore.Weighted
	metrics *metrics.Registry
}

type NewRendererParams struct {
	Backend       Rasterizer
	Quality       Quality
	MaxConcurrent int64
	Metrics       *metrics.Registry
}

func NewRenderer(p NewRendererParams) *Renderer {
	if p.Backend == nil {
		p.Backend = DotCommand{}
	}
	if p.MaxConcurrent <= 0 {
		p.MaxConcurrent = 4
	}
	if p.Quality == "" {
		p.Quality = QualityStandard
	}
	return &Renderer{
		backend: p.Backend,
		quality: p.Quality,
		sem:     semaphore.NewWeighted(p.MaxConcurrent),
		metrics: p.Metrics,
	}
}

func (r *Renderer) Render(ctx context.Context, m types.ProcessModel, format Format) (Result, error) {
	return r.RenderWith(ctx, m, format, r.quality)
}

// RenderWith builds, encodes and rasterizes m. DOT output skips the backend.
func (r *Renderer) RenderWith(ctx context.Context, m types.ProcessModel, format Format, q Quality) (res Result, err error) {
	start := time.Now()
	defer func() { r.metrics.ObserveRender(string(format), time.Since(start), err) }()

	g, err := Build(m, OptionsFor(q))
	if err != nil {
		return Result{}, err
	}
	src, err := EncodeDOT(g)
	if err != nil {
		return Result{}, err
	}
	res = Result{Graph: g, DOT: src, Format: format}
	if format == DOT {
		res.Data = []byte(src)
		return res, nil
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return Result{}, err
	}
	defer r.sem.Release(1)

	data, err := r.backend.Rasterize(ctx, src, format)
	if err != nil {
		logger.Error("Diagram rasterize failed", "format", format, "nodes", len(g.Nodes), "err", err)
		return Result{}, err
	}
	logger.Debug("Diagram rendered", "format", format, "nodes", len(g.Nodes), "edges", len(g.Edges), "bytes", len(data))
	res.Data = data
	return res, nil
}
