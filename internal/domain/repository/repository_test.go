package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-doc-platform-api/internal/domain/entity"
	apperrors "ai-doc-platform-api/pkg/errors"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 500)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = NewPagination(3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
}

func TestNewPagedResult(t *testing.T) {
	r := NewPagedResult[int](nil, 21, NewPagination(1, 10))
	assert.Equal(t, 3, r.TotalPages)
	assert.NotNil(t, r.Items)
}

func TestCheckOrderIndexes(t *testing.T) {
	ok := entity.NewSectionsFromOutline("p", []string{"a", "b"})
	assert.NoError(t, CheckOrderIndexes(ok))

	dup := []*entity.Section{entity.NewSection("p", "a", 1), entity.NewSection("p", "b", 1)}
	assert.True(t, apperrors.IsConflict(CheckOrderIndexes(dup)))

	neg := []*entity.Section{entity.NewSection("p", "a", -1)}
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.CodeOf(CheckOrderIndexes(neg)))
}
