package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"slidegen/internal/domain"
	"slidegen/internal/layout"
	"slidegen/internal/theme"
)

// PDF renders the deck as one page per slide on the shared 720x540 pt
// surface, using the layout engine's wrapped lines verbatim.
type PDF struct {
	// Compress controls content stream compression. Tests disable it so
	// rendered text stays greppable in the output bytes.
	Compress bool
}

func NewPDF() *PDF { return &PDF{Compress: true} }

func (p *PDF) Format() string { return "pdf" }

func (p *PDF) Render(d *domain.SlideDeck, engine *layout.Engine) ([]byte, error) {
	if err := checkEngine(engine); err != nil {
		return nil, err
	}
	th := engine.Theme()
	plans := plansFor(d, engine)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: layout.SurfaceWidth, Ht: layout.SurfaceHeight},
	})
	pdf.SetCompression(p.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(layout.MarginX, layout.MarginTop, layout.MarginX)

	p.titlePage(pdf, th, d)
	for i, t := range d.Topics {
		p.topicPage(pdf, th, t, plans[i])
	}
	p.summaryPage(pdf, th, d)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *PDF) titlePage(pdf *fpdf.Fpdf, th *theme.Theme, d *domain.SlideDeck) {
	p.newPage(pdf, th)
	setColor(pdf, th.Colors.Title)
	setFont(pdf, th.Fonts.Title, th.Sizes.Title)
	centerText(pdf, DeckTitle, layout.SurfaceHeight/2-th.Sizes.Title)

	setColor(pdf, th.Colors.Text)
	setFont(pdf, th.Fonts.Body, th.Sizes.Body)
	sub := "Generated on " + d.Meta.GeneratedAt.Format("January 2, 2006")
	centerText(pdf, sub, layout.SurfaceHeight/2+th.Sizes.Body*2)
}

func (p *PDF) topicPage(pdf *fpdf.Fpdf, th *theme.Theme, t domain.Topic, plan layout.Plan) {
	p.newPage(pdf, th)

	y := layout.MarginTop + th.Sizes.Heading
	setColor(pdf, th.Colors.Title)
	setFont(pdf, th.Fonts.Heading, th.Sizes.Heading)
	for _, line := range plan.TitleLines {
		pdf.Text(layout.MarginX, y, line)
		y += th.Sizes.Heading * layout.LineSpacing
	}
	y += layout.HeadingGap

	setColor(pdf, th.Colors.Text)
	setFont(pdf, th.Fonts.Body, th.Sizes.Body)
	for _, lines := range plan.BulletLines {
		for j, line := range lines {
			x := layout.MarginX + 18
			if j == 0 {
				setColor(pdf, th.Colors.Accent)
				pdf.Text(layout.MarginX, y, "\x95") // bullet glyph in cp1252
				setColor(pdf, th.Colors.Text)
			}
			pdf.Text(x, y, line)
			y += th.Sizes.Body * layout.LineSpacing
		}
		y += 6
	}
}

func (p *PDF) summaryPage(pdf *fpdf.Fpdf, th *theme.Theme, d *domain.SlideDeck) {
	p.newPage(pdf, th)
	setColor(pdf, th.Colors.Title)
	setFont(pdf, th.Fonts.Title, th.Sizes.Title)
	centerText(pdf, "Summary", layout.SurfaceHeight/2-th.Sizes.Title)

	setColor(pdf, th.Colors.Text)
	setFont(pdf, th.Fonts.Body, th.Sizes.Body)
	line := fmt.Sprintf("Generated %d topics from %d sentences",
		len(d.Topics), d.Meta.SourceSentences)
	centerText(pdf, line, layout.SurfaceHeight/2+th.Sizes.Body*2)
}

func (p *PDF) newPage(pdf *fpdf.Fpdf, th *theme.Theme) {
	pdf.AddPage()
	r, g, b, err := theme.ParseHexColor(th.Colors.Background)
	if err == nil {
		pdf.SetFillColor(int(r), int(g), int(b))
		pdf.Rect(0, 0, layout.SurfaceWidth, layout.SurfaceHeight, "F")
	}
}

func centerText(pdf *fpdf.Fpdf, s string, y float64) {
	w := pdf.GetStringWidth(s)
	pdf.Text((layout.SurfaceWidth-w)/2, y, s)
}

func setColor(pdf *fpdf.Fpdf, hex string) {
	r, g, b, err := theme.ParseHexColor(hex)
	if err != nil {
		return
	}
	pdf.SetTextColor(int(r), int(g), int(b))
}

// setFont maps a theme font name onto one of the PDF core families.
// Anything outside the core set falls back to Helvetica; a -Bold suffix
// becomes the bold style.
func setFont(pdf *fpdf.Fpdf, name string, size float64) {
	family := "Helvetica"
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "times"):
		family = "Times"
	case strings.Contains(lower, "courier"):
		family = "Courier"
	}
	style := ""
	if strings.Contains(lower, "bold") {
		style = "B"
	}
	pdf.SetFont(family, style, size)
}
