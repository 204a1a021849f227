package document

import (
	"strings"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

// docxParts 标题段落，随后每个段落一个 Heading1 + 一个正文段落
func (r *Renderer) docxParts(title string, sections []Section) []part {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document ` + wordNS + `><w:body>`)

	writeWordParagraph(&b, "Title", title)
	for _, s := range sections {
		writeWordParagraph(&b, "Heading1", s.Title)
		writeWordParagraph(&b, "", s.Content)
	}

	b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>`)
	b.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>`)
	b.WriteString(`</w:sectPr></w:body></w:document>`)

	return []part{
		staticPart("[Content_Types].xml", "docx/content_types.xml"),
		staticPart("_rels/.rels", "docx/rels.xml"),
		{name: "word/document.xml", data: []byte(b.String())},
		staticPart("word/_rels/document.xml.rels", "docx/document.xml.rels"),
		staticPart("word/styles.xml", "docx/styles.xml"),
		corePropsPart(title, r.now().UTC()),
		appPropsPart("ai-doc-platform"),
	}
}

// writeWordParagraph 单段落；换行写为 <w:br/>，制表符写为 <w:tab/>
func writeWordParagraph(b *strings.Builder, style, text string) {
	b.WriteString(`<w:p>`)
	if style != "" {
		b.WriteString(`<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`)
	}
	if text != "" {
		b.WriteString(`<w:r>`)
		for i, line := range strings.Split(normalizeNewlines(text), "\n") {
			if i > 0 {
				b.WriteString(`<w:br/>`)
			}
			for j, seg := range strings.Split(line, "\t") {
				if j > 0 {
					b.WriteString(`<w:tab/>`)
				}
				if seg != "" {
					b.WriteString(`<w:t xml:space="preserve">` + escape(seg) + `</w:t>`)
				}
			}
		}
		b.WriteString(`</w:r>`)
	}
	b.WriteString(`</w:p>`)
}
