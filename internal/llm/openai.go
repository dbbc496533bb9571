package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/MalithGihan/pfdgen-service/internal/metrics"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI covers api.openai.com and any server speaking its chat completions
// protocol.
type OpenAI struct {
	model       string
	visionModel string

	metrics *metrics.Registry

	Client *openai.Client
}

type NewOpenAIParams struct {
	BaseURL     string
	APIKey      string
	Model       string
	VisionModel string

	Metrics *metrics.Registry
}

func NewOpenAI(p NewOpenAIParams) (*OpenAI, error) {
	if p.APIKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	if p.Model == "" {
		p.Model = defaultOpenAIModel
	}
	if p.VisionModel == "" {
		p.VisionModel = p.Model
	}

	opts := []option.RequestOption{option.WithAPIKey(p.APIKey)}
	if p.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAI{
		model:       p.Model,
		visionModel: p.VisionModel,
		metrics:     p.Metrics,
		Client:      &client,
	}, nil
}

func (c *OpenAI) Name() string { return "openai" }

func (c *OpenAI) Ping(ctx context.Context) error {
	_, err := c.Client.Models.List(ctx)
	return err
}

func (c *OpenAI) Complete(ctx context.Context, req Request) (out string, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveLLM(c.Name(), req.kind(), time.Since(start), err) }()

	response, err := c.Client.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", errors.New("openai: no choices in response")
	}
	msg := response.Choices[0].Message.Content
	if msg == "" {
		return "", fmt.Errorf("openai: empty response (finish_reason: %s)", response.Choices[0].FinishReason)
	}
	return msg, nil
}

func (c *OpenAI) params(req Request) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, t := range req.History {
		if t.Role == RoleAssistant {
			msgs = append(msgs, openai.AssistantMessage(t.Content))
		} else {
			msgs = append(msgs, openai.UserMessage(t.Content))
		}
	}

	model := c.model
	if len(req.Images) > 0 {
		model = c.visionModel
		parts := []openai.ChatCompletionContentPartUnionParam{openai.TextContentPart(req.Prompt)}
		for _, img := range req.Images {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: dataURL(img),
			}))
		}
		msgs = append(msgs, openai.UserMessage(parts))
	} else {
		msgs = append(msgs, openai.UserMessage(req.Prompt))
	}

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	}

	switch {
	case req.JSON && req.Schema != nil:
		body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "process_model",
					Schema: ReflectSchema(req.Schema),
					Strict: openai.Bool(false),
				},
			},
		}
	case req.JSON:
		body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return body
}

func dataURL(img []byte) string {
	return "data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
}
