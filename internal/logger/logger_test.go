package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/logger/console"
)

func TestFanOutToConsole(t *testing.T) {
	var a, b bytes.Buffer
	logger.Init(
		console.New(console.Params{Output: &a}),
		console.New(console.Params{Output: &b, Debug: true}),
	)
	t.Cleanup(func() { logger.Init() })

	logger.Info("rendered", "nodes", 3)
	logger.Debug("layout detail")

	assert.Contains(t, a.String(), "rendered")
	assert.Contains(t, a.String(), "nodes=3")
	assert.NotContains(t, a.String(), "layout detail")
	assert.Contains(t, b.String(), "layout detail")
}

func TestNoBackendsIsSilent(t *testing.T) {
	logger.Init()
	assert.NotPanics(t, func() { logger.Error("nothing listens", "k", "v") })
}
