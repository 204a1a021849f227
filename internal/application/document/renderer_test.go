package document

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-doc-platform-api/internal/domain/entity"
	apperrors "ai-doc-platform-api/pkg/errors"
)

var fixedClock = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

func sampleSections() []Section {
	return []Section{
		{Title: "Introduction to AI Trends", Content: "This is generated content for Introduction to AI Trends about AI Trends."},
		{Title: "Market Overview", Content: "Line one\nLine two\twith tab"},
		{Title: "Challenges", Content: ""},
	}
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func readZipPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestRender_DocxStructure(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock))
	buf, err := r.Render("AI Trends", sampleSections(), entity.DocumentTypeDocx)
	require.NoError(t, err)

	names := zipNames(t, buf.Bytes())
	assert.Equal(t, "[Content_Types].xml", names[0])
	assert.Contains(t, names, "word/document.xml")
	assert.Contains(t, names, "word/styles.xml")

	got, err := Extract(buf.Bytes(), entity.DocumentTypeDocx)
	require.NoError(t, err)
	assert.Equal(t, "AI Trends", got.Title)
	assert.Equal(t, sampleSections(), got.Sections)

	doc := readZipPart(t, buf.Bytes(), "word/document.xml")
	assert.Equal(t, 3, strings.Count(doc, `<w:pStyle w:val="Heading1"/>`))
	assert.Equal(t, 1, strings.Count(doc, `<w:pStyle w:val="Title"/>`))
	assert.Contains(t, doc, `<w:br/>`)
	assert.Contains(t, doc, `<w:tab/>`)
	// 标题段 + 每段落 标题段/正文段
	assert.Equal(t, 1+2*3, strings.Count(doc, `<w:p>`))
}

func TestRender_PptxStructure(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock))
	buf, err := r.Render("AI Trends", sampleSections(), entity.DocumentTypePptx)
	require.NoError(t, err)

	names := zipNames(t, buf.Bytes())
	for _, want := range []string{
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide3.xml",
	} {
		assert.Contains(t, names, want)
	}
	assert.NotContains(t, names, "ppt/slides/slide4.xml")

	pres := readZipPart(t, buf.Bytes(), "ppt/presentation.xml")
	assert.Equal(t, 3, strings.Count(pres, "<p:sldId "))

	got, err := Extract(buf.Bytes(), entity.DocumentTypePptx)
	require.NoError(t, err)
	assert.Equal(t, "AI Trends", got.Title)
	assert.Equal(t, sampleSections(), got.Sections)

	slide2 := readZipPart(t, buf.Bytes(), "ppt/slides/slide2.xml")
	assert.Equal(t, 1+2, strings.Count(slide2, "<a:p>"), "title paragraph plus one per content line")
}

func TestRender_OrderIsInputOrder(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock))
	in := []Section{{Title: "B", Content: "b"}, {Title: "A", Content: "a"}}
	for _, dt := range entity.DocumentTypes() {
		buf, err := r.Render("T", in, dt)
		require.NoError(t, err)
		got, err := Extract(buf.Bytes(), dt)
		require.NoError(t, err)
		assert.Equal(t, in, got.Sections, string(dt))
	}
}

func TestRender_EscapesMarkup(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock))
	in := []Section{{Title: "R&D <2025>", Content: `"quotes" & 'apostrophes' </w:t>`}}
	for _, dt := range entity.DocumentTypes() {
		buf, err := r.Render("Q&A", in, dt)
		require.NoError(t, err)
		got, err := Extract(buf.Bytes(), dt)
		require.NoError(t, err)
		assert.Equal(t, "Q&A", got.Title)
		assert.Equal(t, in, got.Sections)
	}
}

func TestRender_EmptyDocument(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock))
	for _, dt := range entity.DocumentTypes() {
		buf, err := r.Render("Empty", nil, dt)
		require.NoError(t, err)
		got, err := Extract(buf.Bytes(), dt)
		require.NoError(t, err)
		assert.Equal(t, "Empty", got.Title)
		assert.Empty(t, got.Sections)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock))
	a, err := r.Render("AI Trends", sampleSections(), entity.DocumentTypePptx)
	require.NoError(t, err)
	b, err := r.Render("AI Trends", sampleSections(), entity.DocumentTypePptx)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), b.Bytes())

	core := readZipPart(t, a.Bytes(), "docProps/core.xml")
	assert.Contains(t, core, "2025-01-02T03:04:05Z")
}

func TestRender_UnknownTypeProducesNothing(t *testing.T) {
	buf, err := NewRenderer().Render("AI Trends", sampleSections(), entity.DocumentType("pdf"))
	assert.Nil(t, buf)
	assert.True(t, apperrors.IsInvalidDocumentType(err))

	_, err = Extract([]byte("not a zip"), entity.DocumentTypeDocx)
	assert.Error(t, err)
}

func TestFromEntities(t *testing.T) {
	body := "text"
	sections := []*entity.Section{
		{Title: "A", Content: &body},
		{Title: "B"},
	}
	assert.Equal(t, []Section{{Title: "A", Content: "text"}, {Title: "B", Content: ""}}, FromEntities(sections))
}
