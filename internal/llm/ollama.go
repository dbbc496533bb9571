package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"

	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/metrics"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3:instruct"
)

// Ollama talks to a local or remote Ollama server through its API client.
type Ollama struct {
	model       string
	visionModel string

	reqLock *semaphore.Weighted
	metrics *metrics.Registry

	Client *api.Client
}

type NewOllamaParams struct {
	BaseURL     string
	APIKey      string
	Model       string
	VisionModel string

	MaxConcurrentRequests int64
	Timeout               time.Duration

	Metrics *metrics.Registry
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

func NewOllama(p NewOllamaParams) (*Ollama, error) {
	base := p.BaseURL
	if base == "" {
		base = defaultOllamaURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if p.Model == "" {
		p.Model = defaultOllamaModel
	}
	if p.VisionModel == "" {
		p.VisionModel = p.Model
	}
	if p.MaxConcurrentRequests <= 0 {
		p.MaxConcurrentRequests = 1
	}
	if p.Timeout <= 0 {
		p.Timeout = 90 * time.Second
	}

	httpClient := &http.Client{Timeout: p.Timeout}
	if p.APIKey != "" {
		httpClient.Transport = &headerTransport{
			headers: map[string]string{"Authorization": "Bearer " + p.APIKey},
			rt:      http.DefaultTransport,
		}
	}

	return &Ollama{
		model:       p.Model,
		visionModel: p.VisionModel,
		reqLock:     semaphore.NewWeighted(p.MaxConcurrentRequests),
		metrics:     p.Metrics,
		Client:      api.NewClient(u, httpClient),
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Ping(ctx context.Context) error {
	return o.Client.Heartbeat(ctx)
}

func (o *Ollama) Complete(ctx context.Context, req Request) (out string, err error) {
	chat, err := o.chatRequest(req)
	if err != nil {
		return "", err
	}

	if err := o.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer o.reqLock.Release(1)

	start := time.Now()
	defer func() { o.metrics.ObserveLLM(o.Name(), req.kind(), time.Since(start), err) }()

	var final api.ChatResponse
	err = o.Client.Chat(ctx, chat, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Debug("ollama chat done",
		"model", chat.Model,
		"prompt_tokens", final.Metrics.PromptEvalCount,
		"eval_tokens", final.Metrics.EvalCount,
		"duration", final.Metrics.TotalDuration)
	return final.Message.Content, nil
}

func (o *Ollama) chatRequest(req Request) (*api.ChatRequest, error) {
	msgs := make([]api.Message, 0, len(req.History)+2)
	if req.System != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: req.System})
	}
	for _, t := range req.History {
		msgs = append(msgs, api.Message{Role: t.Role, Content: t.Content})
	}
	user := api.Message{Role: RoleUser, Content: req.Prompt}
	for _, img := range req.Images {
		user.Images = append(user.Images, api.ImageData(img))
	}
	msgs = append(msgs, user)

	model := o.model
	if len(req.Images) > 0 {
		model = o.visionModel
	}

	stream := false
	chat := &api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": req.Temperature},
	}

	if req.JSON {
		format := json.RawMessage(`"json"`)
		if req.Schema != nil {
			b, err := json.Marshal(ReflectSchema(req.Schema))
			if err != nil {
				return nil, err
			}
			format = b
		}
		chat.Format = format
	}

	n, err := contextWindow(req)
	if err != nil {
		logger.Warn("token count unavailable, using server context size", "err", err)
	} else if n > 0 {
		chat.Options["num_ctx"] = n
	}
	return chat, nil
}
