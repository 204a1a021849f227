package export

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-doc-platform-api/internal/application/document"
	"ai-doc-platform-api/internal/application/generation"
	"ai-doc-platform-api/internal/application/outline"
	"ai-doc-platform-api/internal/application/project"
	"ai-doc-platform-api/internal/application/section"
	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/internal/domain/repository"
	"ai-doc-platform-api/internal/infrastructure/persistence/sqlite"
	apperrors "ai-doc-platform-api/pkg/errors"
)

type fixture struct {
	projectRepo repository.ProjectRepository
	sectionRepo repository.SectionRepository

	projects *project.Service
	planner  *outline.Planner
	sections *section.Manager
	export   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	client, err := sqlite.NewClient(ctx, &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	projectRepo := sqlite.NewProjectRepository(client)
	sectionRepo := sqlite.NewSectionRepository(client)
	gen := generation.NewOffline()

	return &fixture{
		projectRepo: projectRepo,
		sectionRepo: sectionRepo,
		projects:    project.NewService(projectRepo, sectionRepo, sqlite.NewTxManager(client)),
		planner:     outline.NewPlanner(gen),
		sections:    section.NewManager(sectionRepo, projectRepo, gen, nil, nil),
		export:      NewService(projectRepo, sectionRepo, document.NewRenderer()),
	}
}

func (f *fixture) build(t *testing.T, owner, title, docType string) *entity.Project {
	t.Helper()
	ctx := context.Background()

	p, err := f.projects.CreateProject(ctx, owner, title, docType, title)
	require.NoError(t, err)

	titles, err := f.planner.Plan(ctx, title, docType)
	require.NoError(t, err)
	sections, err := f.projects.ApplyOutline(ctx, p.ID, owner, titles)
	require.NoError(t, err)

	for _, s := range sections {
		_, err := f.sections.Generate(ctx, s.ID, owner)
		require.NoError(t, err)
	}
	return p
}

func TestExport_EndToEndDocx(t *testing.T) {
	f := newFixture(t)
	p := f.build(t, "u-1", "AI Trends", "docx")

	res, err := f.export.Export(context.Background(), p.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "AI_Trends.docx", res.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", res.MimeType)

	got, err := document.Extract(res.Data, entity.DocumentTypeDocx)
	require.NoError(t, err)
	assert.Equal(t, "AI Trends", got.Title)
	require.Len(t, got.Sections, 5)

	wantTitles := []string{"Introduction to AI Trends", "Market Overview", "Key Trends", "Challenges", "Conclusion"}
	for i, s := range got.Sections {
		assert.Equal(t, wantTitles[i], s.Title)
		assert.Equal(t, "This is generated content for "+wantTitles[i]+" about AI Trends.", s.Content)
	}
}

func TestExport_EndToEndPptx(t *testing.T) {
	f := newFixture(t)
	p := f.build(t, "u-1", "Quarterly Review", "slide-deck")

	res, err := f.export.Export(context.Background(), p.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly_Review.pptx", res.Filename)
	assert.Equal(t, entity.DocumentTypePptx, res.DocumentType)

	got, err := document.Extract(res.Data, entity.DocumentTypePptx)
	require.NoError(t, err)
	require.Len(t, got.Sections, 5)
	assert.Equal(t, "Introduction to Quarterly Review", got.Sections[0].Title)
	assert.Equal(t, "Conclusion", got.Sections[4].Title)
}

func TestExport_OrdersByIndexNotCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.projects.CreateProject(ctx, "u-1", "Ordered", "docx", "")
	require.NoError(t, err)

	_, err = f.projects.CreateSections(ctx, p.ID, "u-1", []project.NewSection{
		{Title: "Third", OrderIndex: 7},
		{Title: "First", OrderIndex: 0},
		{Title: "Second", OrderIndex: 3},
	})
	require.NoError(t, err)

	res, err := f.export.Export(ctx, p.ID, "u-1")
	require.NoError(t, err)
	got, err := document.Extract(res.Data, entity.DocumentTypeDocx)
	require.NoError(t, err)

	titles := make([]string, 0, len(got.Sections))
	for _, s := range got.Sections {
		titles = append(titles, s.Title)
		assert.Empty(t, s.Content, "ungenerated sections export with empty body")
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, titles)
}

func TestExport_OwnershipAndMissing(t *testing.T) {
	f := newFixture(t)
	p := f.build(t, "u-1", "AI Trends", "docx")

	_, err := f.export.Export(context.Background(), p.ID, "u-2")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = f.export.Export(context.Background(), "missing", "u-1")
	assert.Equal(t, apperrors.CodeProjectNotFound, apperrors.CodeOf(err))
}

func TestExport_ConcurrentCallsAgree(t *testing.T) {
	f := newFixture(t)
	p := f.build(t, "u-1", "AI Trends", "pptx")

	const n = 8
	var wg sync.WaitGroup
	results := make([]*Result, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.export.Export(context.Background(), p.ID, "u-1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		got, err := document.Extract(results[i].Data, entity.DocumentTypePptx)
		require.NoError(t, err)
		assert.Len(t, got.Sections, 5)
	}
}

// gatedSections 在读取段落前报告进入并等待放行
type gatedSections struct {
	repository.SectionRepository
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSections) ListByProject(ctx context.Context, projectID string) ([]*entity.Section, error) {
	g.entered <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.SectionRepository.ListByProject(ctx, projectID)
}

func TestExport_CancelledCallerDoesNotFailOthers(t *testing.T) {
	f := newFixture(t)
	p := f.build(t, "u-1", "AI Trends", "docx")

	gate := &gatedSections{
		SectionRepository: f.sectionRepo,
		entered:           make(chan struct{}, 2),
		release:           make(chan struct{}),
	}
	svc := NewService(f.projectRepo, gate, document.NewRenderer())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Export(ctxA, p.ID, "u-1")
		errA <- err
	}()
	<-gate.entered

	type outcome struct {
		res *Result
		err error
	}
	doneB := make(chan outcome, 1)
	go func() {
		res, err := svc.Export(context.Background(), p.ID, "u-1")
		doneB <- outcome{res, err}
	}()
	<-gate.entered

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(gate.release)
	b := <-doneB
	require.NoError(t, b.err)
	got, err := document.Extract(b.res.Data, entity.DocumentTypeDocx)
	require.NoError(t, err)
	assert.Len(t, got.Sections, 5)
}

func TestExport_ReadsContentWrittenBeforeCall(t *testing.T) {
	f := newFixture(t)
	p := f.build(t, "u-1", "AI Trends", "docx")
	ctx := context.Background()

	_, err := f.export.Export(ctx, p.ID, "u-1")
	require.NoError(t, err)

	sections, err := f.projects.ListSections(ctx, p.ID, "u-1")
	require.NoError(t, err)
	refined, err := f.sections.Refine(ctx, sections[0].ID, "u-1", "add numbers")
	require.NoError(t, err)

	res, err := f.export.Export(ctx, p.ID, "u-1")
	require.NoError(t, err)
	got, err := document.Extract(res.Data, entity.DocumentTypeDocx)
	require.NoError(t, err)
	assert.Equal(t, refined.Body(), got.Sections[0].Content)
}

func TestSuggestedFilename(t *testing.T) {
	assert.Equal(t, "AI_Trends.docx", SuggestedFilename("AI Trends", entity.DocumentTypeDocx))
	assert.Equal(t, "Deck.pptx", SuggestedFilename("Deck", entity.DocumentTypePptx))
}
