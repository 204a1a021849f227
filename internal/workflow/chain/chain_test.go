package chain

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmctx "ai-doc-platform-api/internal/domain/service"
	wfmodel "ai-doc-platform-api/internal/workflow/model"
)

type scriptedModel struct {
	mu        sync.Mutex
	replies   []reply
	calls     int
	inputs    [][]*schema.Message
	workflows []string
}

type reply struct {
	content string
	err     error
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	m.workflows = append(m.workflows, llmctx.WorkflowFromContext(ctx))
	r := m.replies[min(m.calls, len(m.replies)-1)]
	m.calls++
	if r.err != nil {
		return nil, r.err
	}
	return schema.AssistantMessage(r.content, nil), nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type fakeFactory struct {
	model model.BaseChatModel
	err   error
	names []string
}

func (f *fakeFactory) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.names = append(f.names, name)
	return f.model, f.err
}

func TestOutlineChain_Invoke(t *testing.T) {
	m := &scriptedModel{replies: []reply{{content: `{"sections":["A","B"]}`}}}
	f := &fakeFactory{model: m}
	c := NewOutlineChain(f)

	out, err := c.Invoke(context.Background(), &wfmodel.OutlineInput{
		GenerateOptions: wfmodel.GenerateOptions{Provider: " openai "},
		Topic:           "AI Trends",
		DocumentLabel:   "Word document",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"sections":["A","B"]}`, out.Content)
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, []string{"openai"}, f.names)
	assert.Equal(t, []string{llmctx.WorkflowOutline}, m.workflows)

	require.Len(t, m.inputs[0], 2)
	assert.Contains(t, m.inputs[0][1].Content, `"AI Trends"`)
	assert.Contains(t, m.inputs[0][1].Content, "Word document")
}

func TestOutlineChain_DowngradesWhenResponseFormatRejected(t *testing.T) {
	m := &scriptedModel{replies: []reply{
		{err: errors.New("400 Bad Request: response_format json_schema is not supported")},
		{content: `["A"]`},
	}}
	c := NewOutlineChain(&fakeFactory{model: m})

	out, err := c.Invoke(context.Background(), &wfmodel.OutlineInput{Topic: "X"})
	require.NoError(t, err)
	assert.Equal(t, `["A"]`, out.Content)
	assert.Equal(t, 2, m.calls)
}

func TestSectionBodyChain_DoesNotRetryOtherErrors(t *testing.T) {
	m := &scriptedModel{replies: []reply{{err: errors.New("503 service unavailable")}}}
	c := NewSectionBodyChain(&fakeFactory{model: m})

	_, err := c.Invoke(context.Background(), &wfmodel.SectionBodyInput{DocumentTitle: "D", SectionTitle: "S"})
	require.Error(t, err)
	assert.Equal(t, 1, m.calls)
}

func TestSectionBodyChain_NoSchemaRetryOnFormatError(t *testing.T) {
	m := &scriptedModel{replies: []reply{{err: errors.New("response_format rejected")}}}
	c := NewSectionBodyChain(&fakeFactory{model: m})

	_, err := c.Invoke(context.Background(), &wfmodel.SectionBodyInput{DocumentTitle: "D", SectionTitle: "S"})
	require.Error(t, err)
	assert.Equal(t, 1, m.calls)
}

func TestRefineChain_PassesContentVerbatim(t *testing.T) {
	m := &scriptedModel{replies: []reply{{content: "better"}}}
	c := NewRefineChain(&fakeFactory{model: m})

	out, err := c.Invoke(context.Background(), &wfmodel.RefineInput{
		SectionTitle:  "Intro",
		DocumentLabel: "PowerPoint presentation",
		Content:       "json {like} text",
		Instruction:   "shorter",
	})
	require.NoError(t, err)
	assert.Equal(t, "better", out.Content)
	assert.Contains(t, m.inputs[0][1].Content, "json {like} text")
	assert.Contains(t, m.inputs[0][1].Content, "shorter")
	assert.Equal(t, []string{llmctx.WorkflowRefine}, m.workflows)
}

func TestPromptChain_FactoryErrors(t *testing.T) {
	c := NewSectionBodyChain(&fakeFactory{err: errors.New("no provider")})
	_, err := c.Invoke(context.Background(), &wfmodel.SectionBodyInput{SectionTitle: "S"})
	assert.ErrorContains(t, err, "no provider")

	var nilChain *SectionBodyChain
	_, err = nilChain.Invoke(context.Background(), &wfmodel.SectionBodyInput{})
	assert.Error(t, err)
}

func TestPromptChain_ModelOptions(t *testing.T) {
	c := NewOutlineChain(&fakeFactory{})
	temp := float32(0.2)
	tokens := 256

	opts := c.modelOptions(wfmodel.GenerateOptions{Model: "gpt", Temperature: &temp, MaxTokens: &tokens}, true)
	assert.Len(t, opts, 4)

	common := model.GetCommonOptions(nil, opts...)
	require.NotNil(t, common.Model)
	assert.Equal(t, "gpt", *common.Model)
	assert.Equal(t, 256, *common.MaxTokens)

	assert.Len(t, c.modelOptions(wfmodel.GenerateOptions{}, false), 0)
	assert.Len(t, NewSectionBodyChain(nil).modelOptions(wfmodel.GenerateOptions{}, true), 0)
}
