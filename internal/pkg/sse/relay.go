package sse

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// ErrSkip 由 DeltaFunc 返回, 表示该行无法解析, 忽略即可
var ErrSkip = errors.New("sse: skip chunk")

// DeltaFunc 从上游的一条 data 负载中提取增量文本
// 返回 ErrSkip 时忽略该行, 其他错误视为上游报错并终止转发
type DeltaFunc func(data []byte) (string, error)

// Relay 逐行读取上游事件流, 把增量文本以 {"text":...} 事件写给 w, 最终总以 [DONE] 结束
// 上游报错, 读取失败或 ctx 取消时先写出 {"error":...} 事件, 并返回该错误
func Relay(ctx context.Context, upstream io.Reader, w *Writer, extract DeltaFunc) error {
	err := Scan(ctx, upstream, extract, w.Text)
	if err != nil {
		if writeErr := w.Fail(ErrorMessage(err)); writeErr != nil {
			return errors.Join(err, writeErr)
		}
		return err
	}
	return w.Done()
}

// Collect 读取完整的上游事件流并拼接全部增量文本
func Collect(ctx context.Context, upstream io.Reader, extract DeltaFunc) (string, error) {
	var b strings.Builder
	err := Scan(ctx, upstream, extract, func(text string) error {
		b.WriteString(text)
		return nil
	})
	return b.String(), err
}

// Scan 解析上游事件流, 对每段非空增量文本调用 emit
// 空行与 ":" 开头的注释行被忽略; 读到 [DONE] 或 EOF 时正常返回
func Scan(ctx context.Context, upstream io.Reader, extract DeltaFunc, emit func(string) error) error {
	reader := bufio.NewReaderSize(upstream, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// EOF 时 line 可能是没有换行结尾的残留数据, 同样需要处理
		line, readErr := reader.ReadString('\n')
		if line != "" {
			done, err := handleLine(line, extract, emit)
			if err != nil || done {
				return err
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return readErr
		}
	}
}

func handleLine(line string, extract DeltaFunc, emit func(string) error) (bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ":") {
		return false, nil
	}

	data, ok := strings.CutPrefix(trimmed, "data:")
	if !ok {
		return false, nil
	}
	data = strings.TrimSpace(data)
	if data == Done {
		return true, nil
	}

	text, err := extract([]byte(data))
	if err != nil {
		if errors.Is(err, ErrSkip) {
			return false, nil
		}
		return false, err
	}
	if text == "" {
		return false, nil
	}
	return false, emit(text)
}

// ErrorMessage 将错误转换为面向用户的提示
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "Generation cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Generation timed out"
	default:
		return err.Error()
	}
}
