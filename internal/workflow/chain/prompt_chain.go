// Package chain 基于 Eino compose 编排 模板 -> 模型 的生成链
package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "ai-doc-platform-api/internal/domain/service"
	wfmodel "ai-doc-platform-api/internal/workflow/model"
	wfnode "ai-doc-platform-api/internal/workflow/node"
	workflowport "ai-doc-platform-api/internal/workflow/port"
	workflowprompt "ai-doc-platform-api/internal/workflow/prompt"
	"ai-doc-platform-api/pkg/logger"
)

// Input 链输入需提供单次调用参数
type Input interface {
	Options() wfmodel.GenerateOptions
}

// ResponseSchema 结构化输出约束（response_format: json_schema）
type ResponseSchema struct {
	Name   string
	Schema map[string]any
}

// PromptChain init -> template -> llm -> finalize 四节点链；编译结果进程内复用
type PromptChain[I Input] struct {
	factory  workflowport.ChatModelFactory
	name     string
	workflow string
	promptID workflowprompt.PromptID
	vars     func(I) (map[string]any, error)
	schema   *ResponseSchema

	chainOnce sync.Once
	chain     compose.Runnable[I, *schema.Message]
	chainErr  error
}

type promptChainState[I Input] struct {
	In       I
	Messages []*schema.Message
	OutMsg   *schema.Message
}

var defaultPromptRegistry = workflowprompt.NewRegistry()

// Invoke 执行链，返回模型原始消息
func (c *PromptChain[I]) Invoke(ctx context.Context, in I) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

func (c *PromptChain[I]) getChain() (compose.Runnable[I, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *PromptChain[I]) buildChain(ctx context.Context) (compose.Runnable[I, *schema.Message], error) {
	chain := compose.NewChain[I, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in I) (*promptChainState[I], error) {
			return &promptChainState[I]{In: in}, nil
		}),
		compose.WithNodeName(c.name+".init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *promptChainState[I]) (*promptChainState[I], error) {
			vars, err := c.vars(st.In)
			if err != nil {
				return nil, err
			}
			tpl, err := defaultPromptRegistry.ChatTemplate(c.promptID)
			if err != nil {
				return nil, err
			}
			msgs, err := tpl.Format(ctx, vars)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName(c.name+".template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *promptChainState[I]) (*promptChainState[I], error) {
			opts := st.In.Options()
			provider := strings.TrimSpace(opts.Provider)

			ctx = llmctx.WithWorkflowProvider(ctx, c.workflow, provider)
			chatModel, err := c.factory.Get(ctx, provider)
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, c.modelOptions(opts, c.schema != nil)...)
			if err != nil && c.schema != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"workflow", c.workflow,
					"provider", provider,
					"model", strings.TrimSpace(opts.Model),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, c.modelOptions(opts, false)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName(c.name+".llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *promptChainState[I]) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName(c.name+".finalize"),
	)

	return chain.Compile(ctx)
}

func (c *PromptChain[I]) modelOptions(in wfmodel.GenerateOptions, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if m := strings.TrimSpace(in.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	if enableSchema && c.schema != nil {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   c.schema.Name,
					"strict": false,
					"schema": c.schema.Schema,
				},
			},
		}))
	}
	return opts
}
