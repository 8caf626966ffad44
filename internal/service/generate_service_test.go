package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alteran/internal/dto"
	"alteran/internal/pkg/openrouter"
	"alteran/internal/pkg/sse"
	pkgErrors "alteran/pkg/errors"
)

type fakeOpener struct {
	configured bool
	body       string
	err        error
	messages   []openrouter.Message
}

func (f *fakeOpener) Configured() bool { return f.configured }

func (f *fakeOpener) Stream(_ context.Context, messages []openrouter.Message) (io.ReadCloser, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func deltaLine(text string) string {
	return `data: {"choices":[{"delta":{"content":` + quote(text) + `}}]}` + "\n\n"
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

const generated = `---SHORT_DESCRIPTION---
Краткое описание.
---DETAILED_CONTENT---
## Обзор
Текст.
---TECH_STACK---
Go, SQLite , , gin`

func TestParseGenerateOutput(t *testing.T) {
	result := ParseGenerateOutput(generated)
	assert.Equal(t, "Краткое описание.", result.Description)
	assert.Equal(t, "## Обзор\nТекст.", result.Content)
	assert.Equal(t, []string{"Go", "SQLite", "gin"}, result.TechStack)

	partial := ParseGenerateOutput("---DETAILED_CONTENT---\nonly content")
	assert.Empty(t, partial.Description)
	assert.Equal(t, "only content", partial.Content)
	assert.Empty(t, partial.TechStack)

	assert.Empty(t, ParseGenerateOutput("no markers").Content)
}

func TestBuildUserMessage(t *testing.T) {
	assert.Equal(t, "Project Title: Alteran", BuildUserMessage(&dto.GenerateRequest{Title: " Alteran "}))
	assert.Equal(t,
		"Project Title: Alteran\nKeywords / Description: portfolio\nAdditional Context: go rewrite",
		BuildUserMessage(&dto.GenerateRequest{Title: "Alteran", Keywords: "portfolio", Context: "go rewrite"}))
}

func TestStreamRelaysText(t *testing.T) {
	opener := &fakeOpener{configured: true, body: deltaLine("Hel") + ": keep-alive\n\n" + deltaLine("lo") + "data: [DONE]\n\n"}
	svc := NewGenerateService(opener)

	var buf bytes.Buffer
	err := svc.Stream(context.Background(), &dto.GenerateRequest{Title: "X"}, sse.NewWriter(&buf))
	require.NoError(t, err)

	assert.Equal(t, "data: {\"text\":\"Hel\"}\n\ndata: {\"text\":\"lo\"}\n\ndata: [DONE]\n\n", buf.String())
	require.Len(t, opener.messages, 2)
	assert.Equal(t, "system", opener.messages[0].Role)
	assert.Equal(t, SystemPrompt, opener.messages[0].Content)
	assert.Equal(t, "Project Title: X", opener.messages[1].Content)
}

func TestStreamUpstreamFailureWritesErrorEvent(t *testing.T) {
	opener := &fakeOpener{configured: true, err: &openrouter.APIError{StatusCode: 429, Message: "Rate limit exceeded. Please wait a moment and try again."}}
	svc := NewGenerateService(opener)

	var buf bytes.Buffer
	err := svc.Stream(context.Background(), &dto.GenerateRequest{Title: "X"}, sse.NewWriter(&buf))
	require.Error(t, err)
	assert.Equal(t, "data: {\"error\":\"Rate limit exceeded. Please wait a moment and try again.\"}\n\ndata: [DONE]\n\n", buf.String())
}

func TestStreamRejectsBeforeWriting(t *testing.T) {
	var buf bytes.Buffer

	err := NewGenerateService(&fakeOpener{configured: true}).Stream(context.Background(), &dto.GenerateRequest{Title: " "}, sse.NewWriter(&buf))
	assert.ErrorIs(t, err, pkgErrors.ErrTitleRequired)

	err = NewGenerateService(&fakeOpener{}).Stream(context.Background(), &dto.GenerateRequest{Title: "X"}, sse.NewWriter(&buf))
	assert.ErrorIs(t, err, pkgErrors.ErrGenerateDisabled)
	assert.Empty(t, buf.String())
}

func TestGenerateCollectsAndParses(t *testing.T) {
	var body strings.Builder
	for _, part := range strings.SplitAfter(generated, "\n") {
		body.WriteString(deltaLine(part))
	}
	body.WriteString("data: [DONE]\n\n")

	result, err := NewGenerateService(&fakeOpener{configured: true, body: body.String()}).
		Generate(context.Background(), &dto.GenerateRequest{Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, "Краткое описание.", result.Description)
	assert.Equal(t, []string{"Go", "SQLite", "gin"}, result.TechStack)
}

func TestGenerateUpstreamError(t *testing.T) {
	body := deltaLine("partial") + `data: {"error":{"message":"model overloaded"}}` + "\n\n"
	_, err := NewGenerateService(&fakeOpener{configured: true, body: body}).
		Generate(context.Background(), &dto.GenerateRequest{Title: "X"})
	require.Error(t, err)
	appErr, ok := pkgErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.Code)
	assert.Equal(t, "model overloaded", appErr.Message)
}
