// Package sse 读写 text/event-stream 格式的数据流
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Done 流结束标记
const Done = "[DONE]"

// Event 下发给浏览器的事件, Text 与 Error 二选一
type Event struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Writer 以 "data: <payload>\n\n" 格式写出事件, 每个事件写完立即 flush
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

func NewWriter(w io.Writer) *Writer {
	flusher, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: flusher}
}

// SetHeaders 设置事件流响应头, 关闭代理缓冲
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// Text 写出一段增量文本
func (w *Writer) Text(text string) error {
	return w.send(Event{Text: text})
}

// Error 写出错误事件
func (w *Writer) Error(message string) error {
	return w.send(Event{Error: message})
}

// Done 写出结束标记
func (w *Writer) Done() error {
	return w.write([]byte(Done))
}

// Fail 写出错误事件并结束流
func (w *Writer) Fail(message string) error {
	if err := w.Error(message); err != nil {
		return err
	}
	return w.Done()
}

func (w *Writer) send(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return w.write(data)
}

func (w *Writer) write(data []byte) error {
	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", data); err != nil {
		return err
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}
