package document

import (
	"fmt"
	"strings"
)

const (
	presentationNS = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

	// 16:9 幻灯片尺寸（EMU）
	slideWidth  = 12192000
	slideHeight = 6858000

	firstSlideID = 256
)

// pptxParts 每个段落一页 "Title and Content" 幻灯片
func (r *Renderer) pptxParts(title string, sections []Section) []part {
	parts := []part{
		{name: "[Content_Types].xml", data: pptxContentTypes(len(sections))},
		staticPart("_rels/.rels", "pptx/rels.xml"),
		{name: "ppt/presentation.xml", data: presentationXML(len(sections))},
		{name: "ppt/_rels/presentation.xml.rels", data: presentationRels(len(sections))},
		staticPart("ppt/slideMasters/slideMaster1.xml", "pptx/slideMaster1.xml"),
		staticPart("ppt/slideMasters/_rels/slideMaster1.xml.rels", "pptx/slideMaster1.xml.rels"),
		staticPart("ppt/slideLayouts/slideLayout1.xml", "pptx/slideLayout1.xml"),
		staticPart("ppt/slideLayouts/_rels/slideLayout1.xml.rels", "pptx/slideLayout1.xml.rels"),
		staticPart("ppt/theme/theme1.xml", "pptx/theme1.xml"),
	}
	for i, s := range sections {
		n := i + 1
		parts = append(parts,
			part{name: fmt.Sprintf("ppt/slides/slide%d.xml", n), data: slideXML(s)},
			staticPart(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), "pptx/slide.xml.rels"),
		)
	}
	return append(parts,
		corePropsPart(title, r.now().UTC()),
		appPropsPart("ai-doc-platform"),
	)
}

func pptxContentTypes(slides int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for n := 1; n <= slides; n++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, n)
	}
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return []byte(b.String())
}

// presentationXML rId1 为母版、rId2 为主题，幻灯片从 rId3 开始
func presentationXML(slides int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + presentationNS + ` saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if slides > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 0; i < slides; i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, firstSlideID+i, i+3)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, slideWidth, slideHeight)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return []byte(b.String())
}

func presentationRels(slides int) []byte {
	const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="` + relNS + `slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	b.WriteString(`<Relationship Id="rId2" Type="` + relNS + `theme" Target="theme/theme1.xml"/>`)
	for i := 0; i < slides; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%sslide" Target="slides/slide%d.xml"/>`, i+3, relNS, i+1)
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

// slideXML 标题占位符写段落标题，内容占位符每行一个 <a:p>
func slideXML(s Section) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + presentationNS + `><p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	writeDrawingParagraph(&b, strings.ReplaceAll(normalizeNewlines(s.Title), "\n", " "))
	b.WriteString(`</p:txBody></p:sp>`)

	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content Placeholder 2"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>`)
	b.WriteString(`<p:txBody><a:bodyPr><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	for _, line := range strings.Split(normalizeNewlines(s.Content), "\n") {
		writeDrawingParagraph(&b, line)
	}
	b.WriteString(`</p:txBody></p:sp>`)

	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return []byte(b.String())
}

func writeDrawingParagraph(b *strings.Builder, text string) {
	if text == "" {
		b.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
		return
	}
	b.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>` + escape(text) + `</a:t></a:r></a:p>`)
}
