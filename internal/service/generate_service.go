package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"alteran/internal/dto"
	"alteran/internal/pkg/logger"
	"alteran/internal/pkg/openrouter"
	"alteran/internal/pkg/sse"
	pkgErrors "alteran/pkg/errors"
)

// SystemPrompt 要求模型按固定标记分段输出
const SystemPrompt = `Ты опытный технический писатель, специализирующийся на описаниях проектов для портфолио разработчиков.
По названию проекта, ключевым словам и контексту сгенерируй:

1. SHORT_DESCRIPTION: Compelling 1-2 предложения для карточки портфолио, кратко и цепляюще
2. DETAILED_CONTENT: Подробное описание проекта в красивом Markdown-формате со структурой:
   - ## Обзор: 2-3 предложения что это и зачем
   - ## Ключевые возможности: bullet-список с **жирными** названиями фич и их описанием
   - ## Технические решения: что было сложного, как решили, интересные архитектурные решения
   - ## Результат: итог, что получилось, какую проблему решает
   Используй **жирный текст** для акцентов, ` + "`inline code`" + ` для технических терминов, заголовки ## и ### для структуры.
3. TECH_STACK: Список технологий через запятую (максимум 8 штук)

ВАЖНО: Весь текст пиши ТОЛЬКО на русском языке. Технологии в TECH_STACK пиши на английском.

Формат ответа СТРОГО:
---SHORT_DESCRIPTION---
[краткое описание на русском]
---DETAILED_CONTENT---
[подробное описание в Markdown на русском]
---TECH_STACK---
[Tech, Stack, через, запятую]`

// 输出分段标记
const (
	markerDescription = "---SHORT_DESCRIPTION---"
	markerContent     = "---DETAILED_CONTENT---"
	markerTechStack   = "---TECH_STACK---"
)

// StreamOpener 打开上游流式响应
type StreamOpener interface {
	Configured() bool
	Stream(ctx context.Context, messages []openrouter.Message) (io.ReadCloser, error)
}

type GenerateService interface {
	Enabled() bool
	// Stream 将模型输出以事件流写给 w, 出错时写出错误事件后结束
	Stream(ctx context.Context, req *dto.GenerateRequest, w *sse.Writer) error
	// Generate 等待模型输出完成并解析为结构化结果
	Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error)
}

type generateService struct {
	opener StreamOpener
}

func NewGenerateService(opener StreamOpener) GenerateService {
	return &generateService{opener: opener}
}

func (s *generateService) Enabled() bool {
	return s.opener != nil && s.opener.Configured()
}

// BuildUserMessage 拼接用户消息, 空字段不出现
func BuildUserMessage(req *dto.GenerateRequest) string {
	var b strings.Builder
	b.WriteString("Project Title: ")
	b.WriteString(strings.TrimSpace(req.Title))
	if keywords := strings.TrimSpace(req.Keywords); keywords != "" {
		b.WriteString("\nKeywords / Description: ")
		b.WriteString(keywords)
	}
	if extra := strings.TrimSpace(req.Context); extra != "" {
		b.WriteString("\nAdditional Context: ")
		b.WriteString(extra)
	}
	return b.String()
}

func (s *generateService) open(ctx context.Context, req *dto.GenerateRequest) (io.ReadCloser, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, pkgErrors.ErrTitleRequired
	}
	if !s.Enabled() {
		return nil, pkgErrors.ErrGenerateDisabled
	}

	return s.opener.Stream(ctx, []openrouter.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: BuildUserMessage(req)},
	})
}

func (s *generateService) Stream(ctx context.Context, req *dto.GenerateRequest, w *sse.Writer) error {
	upstream, err := s.open(ctx, req)
	if err != nil {
		// 参数与配置错误在写出响应头之前返回, 由 handler 映射状态码
		if _, ok := pkgErrors.As(err); ok {
			return err
		}
		logger.Warn("打开生成流失败", zap.String("title", req.Title), zap.Error(err))
		return errors.Join(err, w.Fail(sse.ErrorMessage(err)))
	}
	defer upstream.Close()

	if err := sse.Relay(ctx, upstream, w, openrouter.ExtractDelta); err != nil {
		logger.Warn("生成流中断", zap.String("title", req.Title), zap.Error(err))
		return err
	}
	logger.Info("生成完成", zap.String("title", req.Title))
	return nil
}

func (s *generateService) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error) {
	upstream, err := s.open(ctx, req)
	if err != nil {
		return nil, toGenerateError(err)
	}
	defer upstream.Close()

	raw, err := sse.Collect(ctx, upstream, openrouter.ExtractDelta)
	if err != nil {
		return nil, toGenerateError(err)
	}
	return ParseGenerateOutput(raw), nil
}

func toGenerateError(err error) error {
	if _, ok := pkgErrors.As(err); ok {
		return err
	}
	var apiErr *openrouter.APIError
	if errors.As(err, &apiErr) {
		return pkgErrors.Wrap(pkgErrors.CodeBadGateway, apiErr.Message, err)
	}
	return pkgErrors.Wrap(pkgErrors.CodeBadGateway, sse.ErrorMessage(err), err)
}

// section 返回 start 标记之后到 end 标记(或结尾)之间的文本
func section(raw, start, end string) string {
	i := strings.Index(raw, start)
	if i < 0 {
		return ""
	}
	rest := raw[i+len(start):]
	if end != "" {
		if j := strings.Index(rest, end); j >= 0 {
			rest = rest[:j]
		}
	}
	return strings.TrimSpace(rest)
}

// ParseGenerateOutput 按标记拆分模型输出, 缺失的段落为空
func ParseGenerateOutput(raw string) *dto.GenerateResult {
	return &dto.GenerateResult{
		Description: section(raw, markerDescription, markerContent),
		Content:     section(raw, markerContent, markerTechStack),
		TechStack:   dto.SplitList(section(raw, markerTechStack, "")),
	}
}
