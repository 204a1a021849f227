package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"ai-doc-platform-api/internal/config"
)

// OpenAIGoChatModel 基于官方 openai-go SDK 的 ChatModel 实现（chat completions）
type OpenAIGoChatModel struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
}

var _ model.BaseChatModel = (*OpenAIGoChatModel)(nil)

// NewOpenAIGoChatModel 创建 openai-go ChatModel；SDK 内置重试关闭，由 WithRetry 统一控制
func NewOpenAIGoChatModel(cfg config.ProviderConfig) (*OpenAIGoChatModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIGoChatModel{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// GetType 组件类型名（用于回调 RunInfo）
func (m *OpenAIGoChatModel) GetType() string {
	return "OpenAIGo"
}

// IsCallbacksEnabled 组件自行触发回调
func (m *OpenAIGoChatModel) IsCallbacksEnabled() bool {
	return true
}

// Generate 单次补全
func (m *OpenAIGoChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (outMsg *schema.Message, err error) {
	conf := m.resolveConfig(opts...)

	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: input, Config: conf})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(conf.Model),
		Messages: toOpenAIMessages(input),
	}
	if conf.Temperature > 0 {
		params.Temperature = openai.Float(float64(conf.Temperature))
	}
	if conf.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(conf.MaxTokens))
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: empty choices")
	}

	usage := &schema.TokenUsage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	outMsg = &schema.Message{
		Role:    schema.Assistant,
		Content: resp.Choices[0].Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(resp.Choices[0].FinishReason),
			Usage:        usage,
		},
	}

	callbacks.OnEnd(ctx, &model.CallbackOutput{
		Message: outMsg,
		Config:  conf,
		TokenUsage: &model.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		},
	})
	return outMsg, nil
}

// Stream 以单帧流返回完整结果（本服务不做增量输出）
func (m *OpenAIGoChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *OpenAIGoChatModel) resolveConfig(opts ...model.Option) *model.Config {
	temperature := float32(m.temperature)
	maxTokens := m.maxTokens
	modelName := m.model

	common := model.GetCommonOptions(&model.Options{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		Model:       &modelName,
	}, opts...)

	conf := &model.Config{Model: modelName}
	if common.Model != nil && *common.Model != "" {
		conf.Model = *common.Model
	}
	if common.Temperature != nil {
		conf.Temperature = *common.Temperature
	}
	if common.MaxTokens != nil {
		conf.MaxTokens = *common.MaxTokens
	}
	return conf
}

func toOpenAIMessages(in []*schema.Message) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(in))
	for _, msg := range in {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			msgs = append(msgs, openai.SystemMessage(msg.Content))
		case schema.Assistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(msg.Content))
		default:
			msgs = append(msgs, openai.UserMessage(msg.Content))
		}
	}
	return msgs
}

func (m *OpenAIGoChatModel) String() string {
	return fmt.Sprintf("openai-go(%s)", m.model)
}
