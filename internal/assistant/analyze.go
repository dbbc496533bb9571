package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/MalithGihan/pfdgen-service/internal/ingest"
	"github.com/MalithGihan/pfdgen-service/internal/llm"
	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/session"
)

// AnalyzeUpload answers a question about an uploaded diagram. A nil image
// reuses the last upload. Questions asking to improve, replace or find an
// alternative for a known equipment type get the improvement table appended.
func (a *Assistant) AnalyzeUpload(ctx context.Context, st session.State, image []byte, question string) (session.State, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return st, ErrEmptyInput
	}

	next := st.Clone()
	conv := next.Analysis
	if len(image) > 0 {
		conv.Image = image
		conv.HasImage = true
	}
	if !conv.HasImage {
		return st, ErrNoImage
	}

	answer, err := a.askImage(ctx, conv.Image, question)
	if err != nil {
		return st, err
	}
	if typ, ok := improvementTarget(question); ok {
		answer += "\n\n" + Improvements(typ).Markdown()
	}

	conv.History = append(conv.History,
		session.NewMessage(llm.RoleUser, session.KindText, question),
		session.NewMessage(llm.RoleAssistant, session.KindText, answer),
	)
	next.Analysis = conv
	return next, nil
}

// Verify checks an uploaded diagram against a process description.
func (a *Assistant) Verify(ctx context.Context, st session.State, image []byte, description string) (session.State, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return st, ErrEmptyInput
	}

	conv := st.Verification
	if len(image) > 0 {
		conv.Image = image
		conv.HasImage = true
	}
	if !conv.HasImage {
		return st, ErrNoImage
	}
	conv.Description = description

	return a.verifyTurn(ctx, st, conv, llm.VerificationQuestion(description))
}

// VerifyAsk is a follow-up question about the diagram under verification.
func (a *Assistant) VerifyAsk(ctx context.Context, st session.State, question string) (session.State, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return st, ErrEmptyInput
	}
	if !st.Verification.HasImage {
		return st, ErrNoImage
	}
	return a.verifyTurn(ctx, st, st.Verification, question)
}

func (a *Assistant) verifyTurn(ctx context.Context, st session.State, conv session.Conversation, question string) (session.State, error) {
	answer, err := a.askImage(ctx, conv.Image, question)
	if err != nil {
		return st, err
	}
	next := st.Clone()
	conv.History = append(next.Verification.History,
		session.NewMessage(llm.RoleUser, session.KindText, question),
		session.NewMessage(llm.RoleAssistant, session.KindText, answer),
	)
	next.Verification = conv
	return next, nil
}

func (a *Assistant) askImage(ctx context.Context, image []byte, question string) (string, error) {
	prompt := llm.ImageQuestionPrompt(question)
	if tags := a.readTags(ctx, image); len(tags) > 0 {
		prompt += "\n\nEquipment and stream tags read from the image: " + strings.Join(tags, ", ")
	}
	answer, err := a.llm.Complete(ctx, llm.Request{
		System:      llm.AnalystSystem,
		Prompt:      prompt,
		Images:      [][]byte{image},
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("assistant: %s: %w", a.llm.Name(), err)
	}
	return answer, nil
}

// readTags is best effort: OCR failures only lose the hint.
func (a *Assistant) readTags(ctx context.Context, image []byte) []string {
	if a.ocr == nil {
		return nil
	}
	text, err := a.ocr.Text(ctx, image)
	if err != nil {
		logger.Warn("OCR failed, continuing without tags", "err", err)
		return nil
	}
	return ingest.ExtractTags(text)
}
