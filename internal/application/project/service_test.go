package project

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/internal/domain/repository"
	"ai-doc-platform-api/internal/infrastructure/persistence/sqlite"
	apperrors "ai-doc-platform-api/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	client, err := sqlite.NewClient(context.Background(), &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewService(sqlite.NewProjectRepository(client), sqlite.NewSectionRepository(client), sqlite.NewTxManager(client))
}

func TestCreateProject(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "u-1", "  AI Trends ", "word-document", "AI")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "AI Trends", p.Title)
	assert.Equal(t, entity.DocumentTypeDocx, p.DocumentType)

	_, err = s.CreateProject(ctx, "u-1", " ", "docx", "")
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.CodeOf(err))

	_, err = s.CreateProject(ctx, "u-1", "Title", "pdf", "")
	assert.True(t, apperrors.IsInvalidDocumentType(err))
}

func TestGetProject_Ownership(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p, err := s.CreateProject(ctx, "u-1", "AI Trends", "docx", "")
	require.NoError(t, err)

	got, err := s.GetProject(ctx, p.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.GetProject(ctx, p.ID, "u-2")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = s.GetProject(ctx, "nope", "u-1")
	assert.Equal(t, apperrors.CodeProjectNotFound, apperrors.CodeOf(err))
}

func TestListProjects_OnlyOwner(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	for _, owner := range []string{"u-1", "u-1", "u-2"} {
		_, err := s.CreateProject(ctx, owner, "T", "pptx", "")
		require.NoError(t, err)
	}

	page, err := s.ListProjects(ctx, "u-1", repository.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestSections_OutlineAndManual(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p, err := s.CreateProject(ctx, "u-1", "AI Trends", "docx", "")
	require.NoError(t, err)

	created, err := s.ApplyOutline(ctx, p.ID, "u-1", []string{"Intro", "Body", "End"})
	require.NoError(t, err)
	require.Len(t, created, 3)
	for i, sec := range created {
		assert.Equal(t, i, sec.OrderIndex)
		assert.False(t, sec.HasContent())
	}

	_, err = s.CreateSections(ctx, p.ID, "u-1", []NewSection{{Title: "Dup", OrderIndex: 1}})
	assert.True(t, apperrors.IsConflict(err))

	_, err = s.CreateSections(ctx, p.ID, "u-1", []NewSection{{Title: " ", OrderIndex: 9}})
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.CodeOf(err))

	_, err = s.ApplyOutline(ctx, p.ID, "u-2", []string{"X"})
	assert.True(t, apperrors.IsForbidden(err))

	list, err := s.ListSections(ctx, p.ID, "u-1")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	sec, err := s.GetSection(ctx, created[1].ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Body", sec.Title)

	_, err = s.GetSection(ctx, created[1].ID, "u-2")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = s.GetSection(ctx, "nope", "u-1")
	assert.Equal(t, apperrors.CodeSectionNotFound, apperrors.CodeOf(err))
}

func TestDeleteProject(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p, err := s.CreateProject(ctx, "u-1", "AI Trends", "docx", "")
	require.NoError(t, err)
	created, err := s.ApplyOutline(ctx, p.ID, "u-1", []string{"A", "B"})
	require.NoError(t, err)

	assert.True(t, apperrors.IsForbidden(s.DeleteProject(ctx, p.ID, "u-2")))
	require.NoError(t, s.DeleteProject(ctx, p.ID, "u-1"))

	_, err = s.GetProject(ctx, p.ID, "u-1")
	assert.True(t, apperrors.IsNotFound(err))
	_, err = s.GetSection(ctx, created[0].ID, "u-1")
	assert.True(t, apperrors.IsNotFound(err))
}
