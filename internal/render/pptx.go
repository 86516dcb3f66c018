package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"slidegen/internal/domain"
	"slidegen/internal/layout"
	"slidegen/internal/theme"
)

// PPTX renders the deck as a minimal OOXML presentation package: one blank
// layout, one slide per topic plus title and summary slides, theme colors
// and fonts applied per role. Slides reuse the layout engine's wrapped
// lines so the visual density matches the other formats.
type PPTX struct{}

func NewPPTX() *PPTX { return &PPTX{} }

func (p *PPTX) Format() string { return "pptx" }

// emuPerPt converts points to English Metric Units used by OOXML.
const emuPerPt = 12700

func emu(pt float64) int { return int(pt * emuPerPt) }

func (p *PPTX) Render(d *domain.SlideDeck, engine *layout.Engine) ([]byte, error) {
	if err := checkEngine(engine); err != nil {
		return nil, err
	}
	th := engine.Theme()
	plans := plansFor(d, engine)

	slides := make([]string, 0, len(d.Topics)+2)
	slides = append(slides, p.titleSlide(th, d))
	for i, t := range d.Topics {
		slides = append(slides, p.topicSlide(th, t, plans[i]))
	}
	slides = append(slides, p.summarySlide(th, d))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"[Content_Types].xml":                      contentTypes(len(slides)),
		"_rels/.rels":                              rootRels,
		"ppt/presentation.xml":                     presentationXML(len(slides)),
		"ppt/_rels/presentation.xml.rels":          presentationRels(len(slides)),
		"ppt/slideMasters/slideMaster1.xml":        slideMasterXML,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRels,
		"ppt/slideLayouts/slideLayout1.xml":        slideLayoutXML,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRels,
		"ppt/theme/theme1.xml":                     themeXML(th),
	}
	for i, s := range slides {
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = s
		parts[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)] = slideRels
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("pptx part %s: %w", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return nil, fmt.Errorf("pptx part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pptx close: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *PPTX) titleSlide(th *theme.Theme, d *domain.SlideDeck) string {
	title := textBox(1, layout.MarginX, layout.SurfaceHeight/2-60, layout.SurfaceWidth-2*layout.MarginX, 60,
		[]string{paragraph(DeckTitle, th.Fonts.Title, th.Sizes.Title*1.5, th.Colors.Title, true, "ctr")})
	sub := textBox(2, layout.MarginX, layout.SurfaceHeight/2+20, layout.SurfaceWidth-2*layout.MarginX, 30,
		[]string{paragraph("Generated on "+d.Meta.GeneratedAt.Format("January 2, 2006"),
			th.Fonts.Body, th.Sizes.Body*1.2, th.Colors.Text, false, "ctr")})
	return slideXML(th, title+sub)
}

func (p *PPTX) topicSlide(th *theme.Theme, t domain.Topic, plan layout.Plan) string {
	var titleParas []string
	for _, line := range plan.TitleLines {
		titleParas = append(titleParas, paragraph(line, th.Fonts.Heading, th.Sizes.Heading, th.Colors.Title, true, "l"))
	}
	titleH := float64(len(plan.TitleLines)) * th.Sizes.Heading * layout.LineSpacing
	title := textBox(1, layout.MarginX, layout.MarginTop, layout.SurfaceWidth-2*layout.MarginX, titleH, titleParas)

	var bulletParas []string
	for _, lines := range plan.BulletLines {
		for j, line := range lines {
			text := line
			if j == 0 {
				text = "• " + line
			}
			bulletParas = append(bulletParas, paragraph(text, th.Fonts.Body, th.Sizes.Body, th.Colors.Text, false, "l"))
		}
	}
	bodyY := layout.MarginTop + titleH + layout.HeadingGap
	body := textBox(2, layout.MarginX, bodyY, layout.SurfaceWidth-2*layout.MarginX,
		layout.SurfaceHeight-bodyY-layout.MarginBottom, bulletParas)
	return slideXML(th, title+body)
}

func (p *PPTX) summarySlide(th *theme.Theme, d *domain.SlideDeck) string {
	title := textBox(1, layout.MarginX, layout.SurfaceHeight/2-60, layout.SurfaceWidth-2*layout.MarginX, 60,
		[]string{paragraph("Summary", th.Fonts.Title, th.Sizes.Title*1.4, th.Colors.Title, true, "ctr")})
	line := fmt.Sprintf("Generated %d topics from %d sentences", len(d.Topics), d.Meta.SourceSentences)
	sub := textBox(2, layout.MarginX, layout.SurfaceHeight/2+20, layout.SurfaceWidth-2*layout.MarginX, 30,
		[]string{paragraph(line, th.Fonts.Body, th.Sizes.Body*1.2, th.Colors.Text, false, "ctr")})
	return slideXML(th, title+sub)
}

func slideXML(th *theme.Theme, shapes string) string {
	bg := hexVal(th.Colors.Background)
	return xmlHeader +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="` + bg + `"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>` +
		`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
}

// textBox emits a positioned text shape. id must be unique within a slide
// (ids 1.. are offset past the group shape).
func textBox(id int, x, y, w, h float64, paragraphs []string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>%s</p:txBody></p:sp>`,
		id+1, id, emu(x), emu(y), emu(w), emu(h), strings.Join(paragraphs, ""))
}

func paragraph(text, font string, size float64, color string, bold bool, align string) string {
	b := "0"
	if bold {
		b = "1"
	}
	return fmt.Sprintf(`<a:p><a:pPr algn="%s"/><a:r><a:rPr lang="en-US" sz="%d" b="%s" dirty="0">`+
		`<a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:latin typeface="%s"/></a:rPr>`+
		`<a:t>%s</a:t></a:r></a:p>`,
		align, int(size*100), b, hexVal(color), xmlEscape(baseFontName(font)), xmlEscape(text))
}

// baseFontName strips style suffixes like -Bold; PPTX carries boldness on
// the run properties instead.
func baseFontName(name string) string {
	if i := strings.IndexByte(name, '-'); i > 0 {
		return name[:i]
	}
	return name
}

func hexVal(color string) string {
	return strings.ToUpper(strings.TrimPrefix(color, "#"))
}

func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;",
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n"

func contentTypes(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRels = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`</Relationships>`

func presentationXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="%d" cy="%d"/>`,
		emu(layout.SurfaceWidth), emu(layout.SurfaceHeight), emu(layout.SurfaceHeight), emu(layout.SurfaceWidth))
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRels(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

const slideMasterXML = xmlHeader +
	`<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr/></p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2"` +
	` accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRels = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = xmlHeader +
	`<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr/></p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const slideLayoutRels = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const slideRels = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`</Relationships>`

// themeXML maps the descriptor's accent and text colors into the OOXML
// color scheme; the fixed filler entries keep the part schema-valid.
func themeXML(th *theme.Theme) string {
	accent := hexVal(th.Colors.Accent)
	dk := hexVal(th.Colors.Title)
	lt := hexVal(th.Colors.Background)
	body := xmlEscape(baseFontName(th.Fonts.Body))
	major := xmlEscape(baseFontName(th.Fonts.Title))
	return xmlHeader +
		`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="slidegen">` +
		`<a:themeElements><a:clrScheme name="slidegen">` +
		`<a:dk1><a:srgbClr val="` + dk + `"/></a:dk1><a:lt1><a:srgbClr val="` + lt + `"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="` + dk + `"/></a:dk2><a:lt2><a:srgbClr val="` + lt + `"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="` + accent + `"/></a:accent1><a:accent2><a:srgbClr val="` + accent + `"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="` + accent + `"/></a:accent3><a:accent4><a:srgbClr val="` + accent + `"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="` + accent + `"/></a:accent5><a:accent6><a:srgbClr val="` + accent + `"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="` + accent + `"/></a:hlink><a:folHlink><a:srgbClr val="` + accent + `"/></a:folHlink>` +
		`</a:clrScheme><a:fontScheme name="slidegen">` +
		`<a:majorFont><a:latin typeface="` + major + `"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
		`<a:minorFont><a:latin typeface="` + body + `"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
		`</a:fontScheme><a:fmtScheme name="slidegen">` +
		`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
		`<a:lnStyleLst><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
		`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
		`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
		`</a:fmtScheme></a:themeElements></a:theme>`
}
