package section

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-doc-platform-api/internal/application/generation"
	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/internal/domain/repository"
	"ai-doc-platform-api/internal/infrastructure/messaging"
	apperrors "ai-doc-platform-api/pkg/errors"
)

type memStore struct {
	mu       sync.Mutex
	projects map[string]*entity.Project
	sections map[string]*entity.Section
	writes   int
}

func newMemStore() *memStore {
	return &memStore{projects: map[string]*entity.Project{}, sections: map[string]*entity.Section{}}
}

type projectRepo struct{ *memStore }

func (r projectRepo) Create(_ context.Context, p *entity.Project) error {
	r.projects[p.ID] = p
	return nil
}
func (r projectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	if p, ok := r.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}
func (r projectRepo) ListByOwner(context.Context, string, repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	return nil, errors.New("not used")
}
func (r projectRepo) Delete(context.Context, string) error { return errors.New("not used") }

type sectionRepo struct{ *memStore }

func (r sectionRepo) CreateBatch(_ context.Context, projectID string, sections []*entity.Section) error {
	for _, s := range sections {
		s.ProjectID = projectID
		r.sections[s.ID] = s
	}
	return nil
}
func (r sectionRepo) GetByID(_ context.Context, id string) (*entity.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sections[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}
func (r sectionRepo) ListByProject(context.Context, string) ([]*entity.Section, error) {
	return nil, errors.New("not used")
}
func (r sectionRepo) UpdateContent(_ context.Context, id, content string, expected int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sections[id]
	if !ok {
		return 0, apperrors.ErrSectionNotFound
	}
	if s.Version != expected {
		return 0, apperrors.ErrVersionConflict
	}
	r.writes++
	c := content
	s.Content = &c
	s.Version++
	return s.Version, nil
}
func (r sectionRepo) DeleteByProject(context.Context, string) error { return nil }

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) PublishSectionEvent(_ context.Context, eventType string, _ *messaging.SectionEvent) (string, error) {
	p.events = append(p.events, eventType)
	return "1-0", p.err
}

type countingGenerator struct {
	generation.Generator
	bodyCalls   int
	refineCalls int
	refineErr   error
}

func (g *countingGenerator) SectionBody(ctx context.Context, req generation.SectionRequest) (string, error) {
	g.bodyCalls++
	return g.Generator.SectionBody(ctx, req)
}

func (g *countingGenerator) Refine(ctx context.Context, req generation.RefineRequest) (string, error) {
	g.refineCalls++
	if g.refineErr != nil {
		return "", g.refineErr
	}
	return "model: " + req.Instruction, nil
}

type fixture struct {
	store *memStore
	gen   *countingGenerator
	pub   *recordingPublisher
	mgr   *Manager
	sec   *entity.Section
}

func setup(t *testing.T, refineMode string) *fixture {
	t.Helper()
	store := newMemStore()
	project := entity.NewProject("owner-1", "AI Trends", entity.DocumentTypeDocx, "")
	project.ID = "p-1"
	store.projects[project.ID] = project

	sec := entity.NewSection(project.ID, "Key Trends", 0)
	sec.ID = "s-1"
	store.sections[sec.ID] = sec

	gen := &countingGenerator{Generator: generation.NewOffline()}
	pub := &recordingPublisher{}
	cfg := &config.Config{Generation: config.GenerationConfig{RefineMode: refineMode}}
	mgr := NewManager(sectionRepo{store}, projectRepo{store}, gen, pub, cfg)
	return &fixture{store: store, gen: gen, pub: pub, mgr: mgr, sec: sec}
}

func TestGenerate_WritesBody(t *testing.T) {
	f := setup(t, config.RefineModeAppend)

	got, err := f.mgr.Generate(context.Background(), "s-1", "owner-1")
	require.NoError(t, err)
	require.NotNil(t, got.Content)
	assert.Equal(t, "This is generated content for Key Trends about AI Trends.", *got.Content)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, []string{messaging.EventSectionGenerated}, f.pub.events)
}

func TestGenerate_OverwritesExistingContent(t *testing.T) {
	f := setup(t, config.RefineModeAppend)
	old := "stale text"
	f.sec.Content = &old

	got, err := f.mgr.Generate(context.Background(), "s-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "This is generated content for Key Trends about AI Trends.", *got.Content)

	again, err := f.mgr.Generate(context.Background(), "s-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, *got.Content, *again.Content)
	assert.Equal(t, 3, again.Version)
}

func TestGenerate_NotFound(t *testing.T) {
	f := setup(t, config.RefineModeAppend)
	_, err := f.mgr.Generate(context.Background(), "missing", "owner-1")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, f.gen.bodyCalls)
}

func TestGenerate_OrphanSectionIsNotFound(t *testing.T) {
	f := setup(t, config.RefineModeAppend)
	delete(f.store.projects, "p-1")
	_, err := f.mgr.Generate(context.Background(), "s-1", "owner-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGenerate_ForbiddenBeforeAnyWork(t *testing.T) {
	f := setup(t, config.RefineModeAppend)
	_, err := f.mgr.Generate(context.Background(), "s-1", "intruder")
	assert.True(t, apperrors.IsForbidden(err))
	assert.Zero(t, f.gen.bodyCalls)
	assert.Zero(t, f.store.writes)
	assert.Nil(t, f.sec.Content)
	assert.Empty(t, f.pub.events)
}

func TestRefine_AppendsExactNote(t *testing.T) {
	f := setup(t, config.RefineModeAppend)
	body := "Hello"
	f.sec.Content = &body

	got, err := f.mgr.Refine(context.Background(), "s-1", "owner-1", "make it formal")
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\n[Refined with: make it formal]", *got.Content)
	assert.Zero(t, f.gen.refineCalls)
	assert.Equal(t, []string{messaging.EventSectionRefined}, f.pub.events)
}

func TestRefine_AbsentContentCountsAsEmpty(t *testing.T) {
	f := setup(t, config.RefineModeAppend)
	got, err := f.mgr.Refine(context.Background(), "s-1", "owner-1", "expand")
	require.NoError(t, err)
	assert.Equal(t, "\n\n[Refined with: expand]", *got.Content)
}

func TestRefine_Validation(t *testing.T) {
	f := setup(t, config.RefineModeAppend)

	_, err := f.mgr.Refine(context.Background(), "s-1", "owner-1", "   ")
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.CodeOf(err))

	_, err = f.mgr.Refine(context.Background(), "s-1", "intruder", "   ")
	assert.True(t, apperrors.IsForbidden(err), "ownership is checked before input validation")

	_, err = f.mgr.Refine(context.Background(), "nope", "owner-1", "x")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, f.store.writes)
}

func TestRefine_ModelMode(t *testing.T) {
	f := setup(t, config.RefineModeModel)
	got, err := f.mgr.Refine(context.Background(), "s-1", "owner-1", "shorter")
	require.NoError(t, err)
	assert.Equal(t, "model: shorter", *got.Content)
	assert.Equal(t, 1, f.gen.refineCalls)
}

func TestRefine_ModelModeStrictFailureDoesNotWrite(t *testing.T) {
	f := setup(t, config.RefineModeModel)
	f.gen.refineErr = apperrors.ErrGenerationFailed
	_, err := f.mgr.Refine(context.Background(), "s-1", "owner-1", "shorter")
	assert.True(t, apperrors.IsGenerationFailed(err))
	assert.Zero(t, f.store.writes)
}

func TestWrite_ConflictOnStaleVersion(t *testing.T) {
	f := setup(t, config.RefineModeAppend)

	stale, err := sectionRepo{f.store}.GetByID(context.Background(), "s-1")
	require.NoError(t, err)
	_, err = f.mgr.Generate(context.Background(), "s-1", "owner-1")
	require.NoError(t, err)

	_, err = f.mgr.write(context.Background(), stale, "owner-1", "late", "generate", messaging.EventSectionGenerated)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "This is generated content for Key Trends about AI Trends.", *f.sec.Content)
}

func TestPublishFailureIsNotReturned(t *testing.T) {
	f := setup(t, config.RefineModeAppend)
	f.pub.err = errors.New("redis down")
	_, err := f.mgr.Generate(context.Background(), "s-1", "owner-1")
	assert.NoError(t, err)
}

func TestNilPublisher(t *testing.T) {
	f := setup(t, config.RefineModeAppend)
	mgr := NewManager(sectionRepo{f.store}, projectRepo{f.store}, generation.NewOffline(), nil, nil)
	_, err := mgr.Generate(context.Background(), "s-1", "owner-1")
	assert.NoError(t, err)
}
