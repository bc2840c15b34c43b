package services

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
)

type RenderMode int

const (
	RenderModeResume RenderMode = iota
	RenderModeCoverLetter
)

func (m RenderMode) String() string {
	if m == RenderModeCoverLetter {
		return "cover-letter"
	}
	return "resume"
}

type PDFRendererService interface {
	Render(text string, mode RenderMode) ([]byte, error)
}

type pdfRendererService struct{}

func NewPDFRendererService() PDFRendererService {
	return &pdfRendererService{}
}

// Line classification. Each line is tagged independently by its markup shape;
// the only cross-line state is bullet accumulation in buildResumeBlocks.
type lineKind int

const (
	lineSectionTitle lineKind = iota
	lineSubTitle
	lineBold
	lineBullet
	linePlain
)

var (
	// A pure separator line: a run of ten or more '=' or '-' characters.
	separatorRe = regexp.MustCompile(`^(?:={10,}|-{10,})$`)
	// Page-count artifact sometimes left behind by extraction ("2 yo").
	artifactRe  = regexp.MustCompile(`(?i)^\d+\s*yo\s*$`)
	partLabelRe = regexp.MustCompile(`^PART\s+\d+:\s*`)
	boldSpanRe  = regexp.MustCompile(`\*([^*]+)\*`)
	strayMarkRe = regexp.MustCompile(`\*+|#{2,}`)
)

// stripMarkers removes any markup characters left over after classification so
// they never show in rendered output.
func stripMarkers(s string) string {
	return strings.TrimSpace(strayMarkRe.ReplaceAllString(s, ""))
}

// classifyLine tags one cleaned line and returns its display text with the
// markup wrapper removed. Symmetric wrappers win over inline spans; inline
// spans win over bullets.
func classifyLine(line string) (string, lineKind) {
	if len(line) > 6 && strings.HasPrefix(line, "***") && strings.HasSuffix(line, "***") {
		return stripMarkers(line[3 : len(line)-3]), lineSectionTitle
	}
	if len(line) > 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") {
		return stripMarkers(line[2 : len(line)-2]), lineSubTitle
	}
	if boldSpanRe.MatchString(line) {
		return stripMarkers(boldSpanRe.ReplaceAllString(line, "$1")), lineBold
	}
	if strings.HasPrefix(line, "•") {
		return stripMarkers(strings.TrimPrefix(line, "•")), lineBullet
	}
	if strings.HasPrefix(line, "-") {
		return stripMarkers(strings.TrimPrefix(line, "-")), lineBullet
	}
	return stripMarkers(line), linePlain
}

type blockKind int

const (
	blockName blockKind = iota
	blockSectionTitle
	blockSubTitle
	blockBold
	blockParagraph
	blockBulletList
)

// block is one unit of page flow: a styled paragraph or an accumulated
// bulleted list.
type block struct {
	kind  blockKind
	text  string
	items []string
}

// buildResumeBlocks turns raw resume text into the ordered block list the
// layout engine consumes: filter separator/artifact lines, strip stray
// labels, classify, accumulate consecutive bullets into one list block, and
// promote a non-bullet line to the Name heading when no block has been
// emitted before it.
func buildResumeBlocks(text string) []block {
	var blocks []block
	var pending []string

	flush := func() {
		if len(pending) > 0 {
			blocks = append(blocks, block{kind: blockBulletList, items: pending})
			pending = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || separatorRe.MatchString(line) || artifactRe.MatchString(line) {
			continue
		}

		line = partLabelRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(strings.ReplaceAll(line, "##", ""))
		if line == "" {
			continue
		}

		display, kind := classifyLine(line)
		if display == "" {
			continue
		}

		if kind == lineBullet {
			pending = append(pending, display)
			continue
		}

		flush()

		// The first emitted text line is the candidate's name, whatever
		// its markup wrapper said. Styling only; the text is unchanged.
		if len(blocks) == 0 {
			blocks = append(blocks, block{kind: blockName, text: display})
			continue
		}

		switch kind {
		case lineSectionTitle:
			blocks = append(blocks, block{kind: blockSectionTitle, text: display})
		case lineSubTitle:
			blocks = append(blocks, block{kind: blockSubTitle, text: display})
		case lineBold:
			blocks = append(blocks, block{kind: blockBold, text: display})
		default:
			blocks = append(blocks, block{kind: blockParagraph, text: display})
		}
	}
	flush()

	return blocks
}

// Style table. Points; Letter page.
const (
	resumeMargin      = 54.0 // 0.75 inch
	coverLetterMargin = 72.0 // 1 inch
)

func (r *pdfRendererService) Render(text string, mode RenderMode) ([]byte, error) {
	if mode == RenderModeCoverLetter {
		return r.renderCoverLetter(text)
	}
	return r.renderResume(text)
}

// renderResume flows the classified blocks onto Letter pages. Pagination is
// automatic; no manual page breaks are computed here.
func (r *pdfRendererService) renderResume(text string) ([]byte, error) {
	blocks := buildResumeBlocks(text)

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(resumeMargin, resumeMargin, resumeMargin)
	doc.SetAutoPageBreak(true, resumeMargin)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for _, b := range blocks {
		switch b.kind {
		case blockName:
			doc.SetTextColor(44, 62, 80)
			doc.SetFont("Helvetica", "B", 18)
			doc.MultiCell(0, 22, tr(b.text), "", "C", false)
			doc.Ln(8)

		case blockSectionTitle:
			doc.SetTextColor(44, 62, 80)
			doc.SetFont("Helvetica", "B", 13)
			doc.Ln(8)
			doc.MultiCell(0, 16, tr(b.text), "", "L", false)
			doc.Ln(4)

		case blockSubTitle:
			doc.SetTextColor(52, 73, 94)
			doc.SetFont("Helvetica", "B", 11)
			doc.MultiCell(0, 14, tr(b.text), "", "L", false)

		case blockBold:
			doc.SetTextColor(45, 55, 72)
			doc.SetFont("Helvetica", "B", 10)
			doc.MultiCell(0, 13, tr(b.text), "", "L", false)

		case blockParagraph:
			doc.SetTextColor(45, 55, 72)
			doc.SetFont("Helvetica", "", 10)
			doc.MultiCell(0, 13, tr(b.text), "", "L", false)

		case blockBulletList:
			doc.SetTextColor(45, 55, 72)
			doc.SetFont("Helvetica", "", 10)
			left, _, _, _ := doc.GetMargins()
			for _, item := range b.items {
				doc.SetX(left + 10)
				doc.CellFormat(14, 13, tr("•"), "", 0, "L", false, 0, "")
				doc.MultiCell(0, 13, tr(item), "", "L", false)
			}
			doc.Ln(4)
		}
	}

	return output(doc, RenderModeResume, len(blocks))
}

// renderCoverLetter is the simple path: blank-line paragraphs, one flowing
// body style, wider margins, no heading or bullet logic.
func (r *pdfRendererService) renderCoverLetter(text string) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(coverLetterMargin, coverLetterMargin, coverLetterMargin)
	doc.SetAutoPageBreak(true, coverLetterMargin)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTextColor(45, 55, 72)
	doc.SetFont("Helvetica", "", 12)

	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")
	count := 0
	for _, para := range paragraphs {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		doc.MultiCell(0, 16, tr(para), "", "L", false)
		doc.Ln(12)
		count++
	}

	return output(doc, RenderModeCoverLetter, count)
}

// output serializes the document into memory. On engine failure nothing
// partial escapes: the caller gets a typed error and no bytes.
func output(doc *fpdf.Fpdf, mode RenderMode, blocks int) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, newRenderError(mode, blocks, err)
	}
	return buf.Bytes(), nil
}
