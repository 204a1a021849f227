package generation

import (
	"context"
	"fmt"
	"time"

	"ai-doc-platform-api/pkg/metrics"
)

// Offline 无凭据时使用的确定性生成器，不访问网络
type Offline struct{}

// NewOffline 创建离线生成器
func NewOffline() *Offline {
	return &Offline{}
}

// Mode 运行模式
func (g *Offline) Mode() string {
	return ModeOffline
}

// Outline 固定五段大纲
func (g *Offline) Outline(_ context.Context, req OutlineRequest) ([]string, error) {
	defer observe(KindOutline, ModeOffline, metrics.OutcomeOK, time.Now())
	return []string{
		"Introduction to " + req.Topic,
		"Market Overview",
		"Key Trends",
		"Challenges",
		"Conclusion",
	}, nil
}

// SectionBody 占位正文
func (g *Offline) SectionBody(_ context.Context, req SectionRequest) (string, error) {
	defer observe(KindSectionBody, ModeOffline, metrics.OutcomeOK, time.Now())
	return fmt.Sprintf("This is generated content for %s about %s.", req.SectionTitle, req.DocumentTitle), nil
}

// Refine 离线模式下退化为追加润色备注
func (g *Offline) Refine(_ context.Context, req RefineRequest) (string, error) {
	defer observe(KindRefine, ModeOffline, metrics.OutcomeOK, time.Now())
	return AppendRefinement(req.Content, req.Instruction), nil
}
