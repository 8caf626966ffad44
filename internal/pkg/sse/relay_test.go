package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type chunk struct {
	Delta string `json:"delta"`
	Fail  string `json:"fail"`
}

// 测试用的提取函数: {"delta":"x"} 输出 x, {"fail":"msg"} 视为上游报错
func extractChunk(data []byte) (string, error) {
	var c chunk
	if err := json.Unmarshal(data, &c); err != nil {
		return "", ErrSkip
	}
	if c.Fail != "" {
		return "", errors.New(c.Fail)
	}
	return c.Delta, nil
}

func relay(t *testing.T, ctx context.Context, upstream io.Reader) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Relay(ctx, upstream, NewWriter(&out), extractChunk)
	return out.String(), err
}

func TestRelayForwardsDeltasInOrder(t *testing.T) {
	upstream := strings.Join([]string{
		": keep-alive comment",
		"",
		`data: {"delta":"Hel"}`,
		`data: {"delta":""}`,
		`data: not-json`,
		`event: ignored`,
		`data: {"delta":"lo"}`,
		"data: [DONE]",
		`data: {"delta":"after done"}`,
	}, "\n")

	out, err := relay(t, context.Background(), strings.NewReader(upstream))
	require.NoError(t, err)
	assert.Equal(t, "data: {\"text\":\"Hel\"}\n\ndata: {\"text\":\"lo\"}\n\ndata: [DONE]\n\n", out)
}

func TestRelayHandlesTrailingBufferWithoutNewline(t *testing.T) {
	out, err := relay(t, context.Background(), strings.NewReader("data: {\"delta\":\"a\"}\ndata: {\"delta\":\"b\"}"))
	require.NoError(t, err)
	assert.Equal(t, "data: {\"text\":\"a\"}\n\ndata: {\"text\":\"b\"}\n\ndata: [DONE]\n\n", out)
}

func TestRelayEndsWithDoneOnEOF(t *testing.T) {
	out, err := relay(t, context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "data: [DONE]\n\n", out)
}

func TestRelayUpstreamErrorChunk(t *testing.T) {
	upstream := "data: {\"delta\":\"x\"}\ndata: {\"fail\":\"model overloaded\"}\ndata: {\"delta\":\"y\"}\n"

	out, err := relay(t, context.Background(), strings.NewReader(upstream))
	require.EqualError(t, err, "model overloaded")
	assert.Equal(t, "data: {\"text\":\"x\"}\n\ndata: {\"error\":\"model overloaded\"}\n\ndata: [DONE]\n\n", out)
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestRelayReadError(t *testing.T) {
	upstream := &failingReader{data: []byte("data: {\"delta\":\"x\"}\n"), err: errors.New("connection reset")}

	out, err := relay(t, context.Background(), upstream)
	require.EqualError(t, err, "connection reset")
	assert.True(t, strings.HasSuffix(out, "data: {\"error\":\"connection reset\"}\n\ndata: [DONE]\n\n"))
}

func TestRelayCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := relay(t, ctx, strings.NewReader("data: {\"delta\":\"x\"}\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "data: {\"error\":\"Generation cancelled\"}\n\ndata: [DONE]\n\n", out)
}

func TestRelayOverPipe(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		for _, part := range []string{"da", "ta: {\"delta\":\"st", "ream\"}\n", "data: [DONE]\n"} {
			_, _ = pw.Write([]byte(part))
		}
		_ = pw.Close()
	}()

	out, err := relay(t, context.Background(), pr)
	require.NoError(t, err)
	assert.Equal(t, "data: {\"text\":\"stream\"}\n\ndata: [DONE]\n\n", out)
}

func TestCollect(t *testing.T) {
	text, err := Collect(context.Background(), strings.NewReader("data: {\"delta\":\"a\"}\n\ndata: {\"delta\":\"b\"}\ndata: [DONE]\n"), extractChunk)
	require.NoError(t, err)
	assert.Equal(t, "ab", text)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Generation timed out", ErrorMessage(context.DeadlineExceeded))
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom")))
}
