// Package document 渲染 docx / pptx 文档包
package document

import (
	"archive/zip"
	"bytes"
	"embed"
	"fmt"
	"strings"
	"time"

	"ai-doc-platform-api/internal/domain/entity"
	apperrors "ai-doc-platform-api/pkg/errors"
)

//go:embed parts
var partsFS embed.FS

// Section 渲染输入：段落标题与内容（未生成时为空串）
type Section struct {
	Title   string
	Content string
}

// FromEntities 将实体段落转换为渲染输入，保持传入顺序
func FromEntities(sections []*entity.Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, Section{Title: s.Title, Content: s.Body()})
	}
	return out
}

// Renderer 文档渲染器
type Renderer struct {
	now func() time.Time
}

// Option 渲染器可选项
type Option func(*Renderer)

// WithClock 注入时钟（用于可复现输出）
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// NewRenderer 创建渲染器
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render 按文档类型渲染；类型不受支持时不产生任何输出
func (r *Renderer) Render(title string, sections []Section, docType entity.DocumentType) (*bytes.Buffer, error) {
	var parts []part
	switch docType {
	case entity.DocumentTypeDocx:
		parts = r.docxParts(title, sections)
	case entity.DocumentTypePptx:
		parts = r.pptxParts(title, sections)
	default:
		return nil, apperrors.ErrInvalidDocumentType.WithDetail(string(docType))
	}

	buf := new(bytes.Buffer)
	if err := writePackage(buf, parts, r.now().UTC()); err != nil {
		return nil, apperrors.ErrRenderFailed.WithError(err)
	}
	return buf, nil
}

// part 包内的一个部件
type part struct {
	name string
	data []byte
}

func staticPart(name, embedded string) part {
	data, err := partsFS.ReadFile("parts/" + embedded)
	if err != nil {
		// 内嵌资源在编译期确定
		panic(fmt.Sprintf("missing embedded part %s: %v", embedded, err))
	}
	return part{name: name, data: data}
}

func writePackage(buf *bytes.Buffer, parts []part, modified time.Time) error {
	zw := zip.NewWriter(buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func corePropsPart(title string, at time.Time) part {
	ts := at.Format(time.RFC3339)
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	b.WriteString(`<dc:title>`)
	b.WriteString(escape(title))
	b.WriteString(`</dc:title>`)
	b.WriteString(`<dc:creator>ai-doc-platform</dc:creator>`)
	b.WriteString(`<dcterms:created xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:created>`)
	b.WriteString(`<dcterms:modified xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:modified>`)
	b.WriteString(`</cp:coreProperties>`)
	return part{name: "docProps/core.xml", data: []byte(b.String())}
}

func appPropsPart(application string) part {
	data := xmlHeader +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>` + escape(application) + `</Application>` +
		`</Properties>`
	return part{name: "docProps/app.xml", data: []byte(data)}
}

// normalizeNewlines 统一换行符
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
