package logger

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// LogWriter 适配 gorm logger.Writer, 让 SQL 日志与业务日志走同一输出
type LogWriter struct {
	zapcore.WriteSyncer
}

func (l *LogWriter) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.WriteSyncer, format+"\n", args...)
	_ = l.WriteSyncer.Sync()
}

// Write 实现 io.Writer, 供 gin 的默认输出使用
func (l *LogWriter) Write(p []byte) (int, error) {
	return l.WriteSyncer.Write(p)
}

func GetWriter() *LogWriter {
	return logWriter
}
