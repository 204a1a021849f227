package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"ai-doc-platform-api/internal/domain/entity"
	apperrors "ai-doc-platform-api/pkg/errors"
)

// Extracted 从文档包读回的结构
type Extracted struct {
	Title    string
	Sections []Section
}

// Extract 读回 Render 产出的文档包（标题与段落序列）
func Extract(data []byte, docType entity.DocumentType) (*Extracted, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	switch docType {
	case entity.DocumentTypeDocx:
		return extractDocx(files)
	case entity.DocumentTypePptx:
		return extractPptx(files)
	default:
		return nil, apperrors.ErrInvalidDocumentType.WithDetail(string(docType))
	}
}

func readPart(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("missing part %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type wordParagraph struct {
	style string
	text  string
}

func extractDocx(files map[string]*zip.File) (*Extracted, error) {
	data, err := readPart(files, "word/document.xml")
	if err != nil {
		return nil, err
	}
	paras, err := parseWordParagraphs(data)
	if err != nil {
		return nil, err
	}

	out := &Extracted{}
	for _, p := range paras {
		switch p.style {
		case "Title":
			out.Title = p.text
		case "Heading1":
			out.Sections = append(out.Sections, Section{Title: p.text})
		default:
			if n := len(out.Sections); n > 0 {
				out.Sections[n-1].Content = p.text
			}
		}
	}
	return out, nil
}

func parseWordParagraphs(data []byte) ([]wordParagraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		paras  []wordParagraph
		cur    *wordParagraph
		text   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return paras, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				cur = &wordParagraph{}
				text.Reset()
			case "pStyle":
				if cur != nil {
					cur.style = attr(t, "val")
				}
			case "t":
				inText = true
			case "br":
				text.WriteString("\n")
			case "tab":
				if cur != nil {
					text.WriteString("\t")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if cur != nil {
					cur.text = text.String()
					paras = append(paras, *cur)
					cur = nil
				}
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}
}

func extractPptx(files map[string]*zip.File) (*Extracted, error) {
	out := &Extracted{}
	if core, err := readPart(files, "docProps/core.xml"); err == nil {
		out.Title = coreTitle(core)
	}

	for n := 1; ; n++ {
		data, err := readPart(files, fmt.Sprintf("ppt/slides/slide%d.xml", n))
		if err != nil {
			break
		}
		s, err := parseSlide(data)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", n, err)
		}
		out.Sections = append(out.Sections, s)
	}
	return out, nil
}

// parseSlide 标题占位符 -> Title，其余占位符段落按行拼接 -> Content
func parseSlide(data []byte) (Section, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		s       Section
		isTitle bool
		inText  bool
		para    strings.Builder
		body    []string
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			s.Content = strings.Join(body, "\n")
			return s, nil
		}
		if err != nil {
			return Section{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				isTitle = false
			case "ph":
				isTitle = attr(t, "type") == "title"
			case "p":
				if t.Name.Space == "http://schemas.openxmlformats.org/drawingml/2006/main" {
					para.Reset()
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if t.Name.Space != "http://schemas.openxmlformats.org/drawingml/2006/main" {
					continue
				}
				if isTitle {
					s.Title = para.String()
				} else {
					body = append(body, para.String())
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
}

func coreTitle(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	inTitle := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inTitle = t.Name.Local == "title"
		case xml.EndElement:
			if inTitle {
				return ""
			}
		case xml.CharData:
			if inTitle {
				return string(t)
			}
		}
	}
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
