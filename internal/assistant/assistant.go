package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MalithGihan/pfdgen-service/internal/diagram"
	"github.com/MalithGihan/pfdgen-service/internal/ingest"
	"github.com/MalithGihan/pfdgen-service/internal/llm"
	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/session"
	"github.com/MalithGihan/pfdgen-service/internal/store"
	"github.com/MalithGihan/pfdgen-service/internal/validate"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

var (
	ErrEmptyInput = errors.New("assistant: empty input")
	ErrNoDiagram  = errors.New("assistant: no diagram has been generated")
	ErrNoImage    = errors.New("assistant: no image has been uploaded")
)

const (
	generatedMessage = "I've generated the PFD based on your description. Here it is:"
	downloadMessage  = "Download your PFD"
	successMessage   = "Process data extracted successfully! You can now ask questions about your PFD."

	extractTemperature = 0.1
	answerTemperature  = 0.1
)

// Assistant runs the chat interactions. Every handler takes the session
// state and returns the updated state; on error the input state is returned
// unchanged.
type Assistant struct {
	llm      llm.Client
	renderer *diagram.Renderer
	store    store.Store
	ocr      ingest.OCR
	quality  diagram.Quality
	now      func() time.Time
}

type Params struct {
	LLM      llm.Client
	Renderer *diagram.Renderer
	Store    store.Store
	OCR      ingest.OCR
	Quality  diagram.Quality
}

func New(p Params) *Assistant {
	if p.Quality == "" {
		p.Quality = diagram.QualityHigh
	}
	return &Assistant{
		llm:      p.LLM,
		renderer: p.Renderer,
		store:    p.Store,
		ocr:      p.OCR,
		quality:  p.Quality,
		now:      time.Now,
	}
}

func (a *Assistant) Provider() string { return a.llm.Name() }

func (a *Assistant) Ping(ctx context.Context) error { return a.llm.Ping(ctx) }

// Generate turns a process description into a model, renders it and posts
// the diagram into the chat.
func (a *Assistant) Generate(ctx context.Context, st session.State, description string) (session.State, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return st, ErrEmptyInput
	}

	m, err := a.Extract(ctx, description)
	if err != nil {
		return st, err
	}

	res, err := a.renderer.RenderWith(ctx, m, diagram.PNG, a.quality)
	if err != nil {
		return st, fmt.Errorf("assistant: render: %w", err)
	}

	key := store.DiagramKey(st.ID, a.now(), "png")
	if a.store != nil {
		if err := a.store.Put(ctx, key, res.Data, diagram.PNG.ContentType()); err != nil {
			return st, fmt.Errorf("assistant: save diagram: %w", err)
		}
	}

	next := st
	next.Model = &m
	next.Diagram = res.Data
	next.DiagramKey = key
	next.Description = Describe(m)
	next.ShowForm = false

	img := session.NewMessage(llm.RoleAssistant, session.KindImage, generatedMessage)
	img.Artifact = key
	dl := session.NewMessage(llm.RoleAssistant, session.KindDownload, downloadMessage)
	dl.Artifact = key
	next = next.Append(img, dl, session.NewMessage(llm.RoleAssistant, session.KindSuccess, successMessage))

	logger.Info("Diagram generated",
		"session", st.ID,
		"equipment", len(m.Equipment),
		"streams", len(m.Streams),
		"recycles", len(res.Graph.Analysis.Recycles))
	return next, nil
}

// Extract asks the model for a process document. A document that fails the
// schema is sent back once with the validation errors.
func (a *Assistant) Extract(ctx context.Context, description string) (types.ProcessModel, error) {
	doc, err := a.completeDocument(ctx, llm.Request{
		System:      llm.GenerateSystem,
		Prompt:      llm.GeneratePrompt(description),
		JSON:        true,
		Schema:      llm.ProcessDocument{},
		Temperature: extractTemperature,
	})
	if err != nil {
		return types.ProcessModel{}, err
	}

	if verr := validate.ValidateMap(doc); verr != nil {
		logger.Warn("Model output failed schema, requesting repair", "err", verr)
		doc, err = a.completeDocument(ctx, llm.Request{
			System:      llm.RepairSystem,
			Prompt:      llm.RepairPrompt(doc, verr),
			JSON:        true,
			Schema:      llm.ProcessDocument{},
			Temperature: extractTemperature,
		})
		if err != nil {
			return types.ProcessModel{}, err
		}
		if verr := validate.ValidateMap(doc); verr != nil {
			return types.ProcessModel{}, fmt.Errorf("assistant: model output invalid after repair: %w", verr)
		}
	}

	return llm.DecodeProcessModel(doc)
}

func (a *Assistant) completeDocument(ctx context.Context, req llm.Request) (map[string]any, error) {
	reply, err := a.llm.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("assistant: %s: %w", a.llm.Name(), err)
	}
	doc, err := llm.DecodeDocument(reply)
	if err != nil {
		return nil, fmt.Errorf("assistant: could not extract process data: %w", err)
	}
	return llm.Sanitize(doc), nil
}
