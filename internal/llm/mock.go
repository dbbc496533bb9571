package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var tagPattern = regexp.MustCompile(`\b([A-Z]{1,2})-(\d{2,4})\b`)

var tagTypes = map[string]string{
	"P": "pump",
	"E": "heat_exchanger",
	"C": "distillation_column",
	"T": "tank",
	"R": "reactor",
	"K": "compressor",
	"S": "separator",
	"V": "vessel",
	"M": "mixer",
}

// Mock is an offline client. Scripted Replies are served first, in order;
// after that JSON requests get a process chained through the equipment tags
// found in the prompt and text requests echo the prompt's first line.
type Mock struct {
	mu       sync.Mutex
	Replies  []string
	Err      error
	Requests []Request
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Ping(context.Context) error { return m.Err }

func (m *Mock) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) > 0 {
		r := m.Replies[0]
		m.Replies = m.Replies[1:]
		return r, nil
	}

	if req.JSON {
		b, err := json.Marshal(mockProcess(req.Prompt))
		return string(b), err
	}
	first, _, _ := strings.Cut(strings.TrimSpace(req.Prompt), "\n")
	if len(req.Images) > 0 {
		return fmt.Sprintf("[mock vision, %d image(s)] %s", len(req.Images), first), nil
	}
	return "[mock] " + first, nil
}

func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

func mockProcess(prompt string) ProcessDocument {
	var tags []string
	seen := map[string]bool{}
	for _, t := range tagPattern.FindAllString(prompt, -1) {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = []string{"T-101", "P-101"}
	}

	var doc ProcessDocument
	for _, t := range tags {
		prefix, _, _ := strings.Cut(t, "-")
		typ, ok := tagTypes[prefix[:1]]
		if !ok {
			typ = "vessel"
		}
		doc.Equipment = append(doc.Equipment, EquipmentDocument{ID: t, Type: typ, Spec: t})
	}
	for i := 1; i < len(tags); i++ {
		doc.Streams = append(doc.Streams, StreamDocument{
			ID:   fmt.Sprintf("S%d", i),
			From: tags[i-1],
			To:   tags[i],
			Flow: 100,
		})
	}
	if doc.Streams == nil {
		doc.Streams = []StreamDocument{}
	}
	return doc
}
