package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/domain/entity"
	apperrors "ai-doc-platform-api/pkg/errors"
)

type stubModel struct {
	content string
	err     error
	calls   int
}

func (m *stubModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.content, nil), nil
}

func (m *stubModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type stubFactory struct{ m *stubModel }

func (f stubFactory) Get(context.Context, string) (model.BaseChatModel, error) {
	return f.m, nil
}

func newLive(m *stubModel, strict bool) *Live {
	return NewLive(stubFactory{m: m}, WithProvider("openai"), WithStrict(strict))
}

func TestOffline_Outline(t *testing.T) {
	g := NewOffline()
	titles, err := g.Outline(context.Background(), OutlineRequest{Topic: "AI Trends", DocumentType: entity.DocumentTypeDocx})
	require.NoError(t, err)
	assert.Equal(t, []string{"Introduction to AI Trends", "Market Overview", "Key Trends", "Challenges", "Conclusion"}, titles)
	assert.Equal(t, ModeOffline, g.Mode())
}

func TestOffline_SectionBodyAndRefine(t *testing.T) {
	g := NewOffline()
	body, err := g.SectionBody(context.Background(), SectionRequest{DocumentTitle: "AI Trends", SectionTitle: "Key Trends"})
	require.NoError(t, err)
	assert.Equal(t, "This is generated content for Key Trends about AI Trends.", body)

	refined, err := g.Refine(context.Background(), RefineRequest{Content: "Hello", Instruction: "make it formal"})
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\n[Refined with: make it formal]", refined)
}

func TestAppendRefinement_EmptyContent(t *testing.T) {
	assert.Equal(t, "\n\n[Refined with: x]", AppendRefinement("", "x"))
}

func TestLive_OutlineParsesFencedArray(t *testing.T) {
	m := &stubModel{content: "```json\n[\"Intro\", \"Growth\", \"Risks\"]\n```"}
	titles, err := newLive(m, false).Outline(context.Background(), OutlineRequest{Topic: "AI", DocumentType: entity.DocumentTypePptx})
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "Growth", "Risks"}, titles)
	assert.Equal(t, 1, m.calls)
}

func TestLive_OutlineParseFailureFallsBackWithoutSecondCall(t *testing.T) {
	m := &stubModel{content: "I cannot do that"}
	titles, err := newLive(m, false).Outline(context.Background(), OutlineRequest{Topic: "AI", DocumentType: entity.DocumentTypeDocx})
	require.NoError(t, err)
	assert.Equal(t, []string{"Introduction to AI", "Overview", "Details", "Summary"}, titles)
	assert.Equal(t, 1, m.calls)
}

func TestLive_OutlineUpstreamFailure(t *testing.T) {
	m := &stubModel{err: errors.New("connection refused")}

	titles, err := newLive(m, false).Outline(context.Background(), OutlineRequest{Topic: "AI"})
	require.NoError(t, err)
	assert.Equal(t, FallbackOutline("AI"), titles)

	_, err = newLive(m, true).Outline(context.Background(), OutlineRequest{Topic: "AI"})
	assert.True(t, apperrors.IsGenerationFailed(err))
}

func TestLive_SectionBody(t *testing.T) {
	m := &stubModel{content: "  Real content.  "}
	body, err := newLive(m, false).SectionBody(context.Background(), SectionRequest{DocumentTitle: "D", SectionTitle: "S"})
	require.NoError(t, err)
	assert.Equal(t, "Real content.", body)
}

func TestLive_SectionBodyFailure(t *testing.T) {
	m := &stubModel{err: errors.New("timeout")}
	body, err := newLive(m, false).SectionBody(context.Background(), SectionRequest{SectionTitle: "S"})
	require.NoError(t, err)
	assert.Contains(t, body, "Error generating content: ")
	assert.Contains(t, body, "timeout")

	_, err = newLive(m, true).SectionBody(context.Background(), SectionRequest{SectionTitle: "S"})
	assert.True(t, apperrors.IsGenerationFailed(err))
}

func TestLive_SectionBodyEmptyResponse(t *testing.T) {
	body, err := newLive(&stubModel{content: "   "}, false).SectionBody(context.Background(), SectionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Error generating content: empty llm response", body)
}

func TestLive_Refine(t *testing.T) {
	ok := &stubModel{content: "Polished."}
	out, err := newLive(ok, false).Refine(context.Background(), RefineRequest{Content: "rough", Instruction: "polish"})
	require.NoError(t, err)
	assert.Equal(t, "Polished.", out)

	bad := &stubModel{err: errors.New("boom")}
	out, err = newLive(bad, false).Refine(context.Background(), RefineRequest{Content: "rough", Instruction: "polish"})
	require.NoError(t, err)
	assert.Equal(t, "rough\n\n[Refined with: polish]", out)

	_, err = newLive(bad, true).Refine(context.Background(), RefineRequest{Content: "rough", Instruction: "polish"})
	assert.True(t, apperrors.IsGenerationFailed(err))
}

func TestNewFromConfig_SelectsVariant(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "openai",
		Providers:       map[string]config.ProviderConfig{"openai": {Model: "gpt"}},
	}}
	assert.Equal(t, ModeOffline, NewFromConfig(cfg, stubFactory{m: &stubModel{}}).Mode())

	cfg.LLM.Providers["openai"] = config.ProviderConfig{APIKey: "sk-live", Model: "gpt"}
	assert.Equal(t, ModeLive, NewFromConfig(cfg, stubFactory{m: &stubModel{}}).Mode())
	assert.Equal(t, ModeOffline, NewFromConfig(cfg, nil).Mode())
}
