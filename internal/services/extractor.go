package services

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFExtractorService interface {
	Extract(raw []byte) (*PDFContent, error)
	ExtractText(raw []byte) (string, error)
}

type PDFContent struct {
	Text      string
	PageCount int
}

type pdfExtractorService struct{}

func NewPDFExtractorService() PDFExtractorService {
	return &pdfExtractorService{}
}

// Extract pulls the text layer out of a PDF, one cleaned block per page,
// pages joined by a single blank line. Pages without a text layer (scanned
// images) contribute nothing; a document where every page is empty yields an
// empty string, not an error.
func (p *pdfExtractorService) Extract(raw []byte) (content *PDFContent, err error) {
	if len(raw) == 0 {
		return nil, newDocumentParseError(0, errors.New("empty input"))
	}

	// The parser panics on some malformed documents; fold those into the
	// same typed failure as a regular open error.
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = newDocumentParseError(len(raw), fmt.Errorf("parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, newDocumentParseError(len(raw), err)
	}

	totalPages := reader.NumPage()
	var blocks []string

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text := extractPageByRows(page)
		if cleaned := CleanText(text); cleaned != "" {
			blocks = append(blocks, cleaned)
		}
	}

	return &PDFContent{
		Text:      strings.TrimSpace(strings.Join(blocks, "\n\n")),
		PageCount: totalPages,
	}, nil
}

func (p *pdfExtractorService) ExtractText(raw []byte) (string, error) {
	content, err := p.Extract(raw)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// rowTolerance is the vertical distance, in points, within which two text
// fragments count as sitting on the same line.
const rowTolerance = 2.0

// extractPageByRows reads one page in layout order: rows top to bottom, text
// fragments within a row left to right, so multi-column resumes stay readable.
// Rows are rebuilt from the positioned fragments of page.Content, which carry
// the full text matrix, so Td/TD/T* line moves land on distinct rows. A page
// that cannot be decoded contributes an empty string.
func extractPageByRows(page pdf.Page) (text string) {
	// Content panics on undecodable streams.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	fragments := page.Content().Text
	if len(fragments) == 0 {
		return ""
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].Y != fragments[j].Y {
			return fragments[i].Y > fragments[j].Y
		}
		return fragments[i].X < fragments[j].X
	})

	var lines []string
	var sb strings.Builder
	rowY := fragments[0].Y

	for _, fragment := range fragments {
		if rowY-fragment.Y > rowTolerance {
			lines = append(lines, sb.String())
			sb.Reset()
			rowY = fragment.Y
		}
		sb.WriteString(fragment.S)
	}
	lines = append(lines, sb.String())

	return strings.Join(lines, "\n")
}

// CleanText collapses runs of whitespace within each line to single spaces and
// drops lines that end up empty. Idempotent: cleaning cleaned text is a no-op.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
