package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestPDF assembles a minimal but well-formed PDF, one content stream per
// page, each line placed on its own text row via Td line moves, so the
// extractor has a real document to chew on without fixture files.
func buildTestPDF(pages [][]string) []byte {
	streams := make([]string, 0, len(pages))
	for _, lines := range pages {
		var stream strings.Builder
		stream.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
		for j, line := range lines {
			if j > 0 {
				stream.WriteString("0 -20 Td\n")
			}
			escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(line)
			stream.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
		}
		stream.WriteString("ET\n")
		streams = append(streams, stream.String())
	}
	return assemblePDF(streams)
}

// assemblePDF wraps one content stream per page in the catalog, page tree,
// font and xref plumbing a conforming reader expects.
func assemblePDF(streams []string) []byte {
	type object struct {
		num  int
		body string
	}

	var objects []object

	// 1: catalog, 2: page tree, then page/content pairs, font last.
	fontNum := 3 + 2*len(streams)

	kids := make([]string, 0, len(streams))
	for i := range streams {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}

	objects = append(objects,
		object{1, "<< /Type /Catalog /Pages 2 0 R >>"},
		object{2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
			strings.Join(kids, " "), len(streams))},
	)

	for i, stream := range streams {
		pageNum := 3 + 2*i
		contentNum := pageNum + 1

		objects = append(objects,
			object{pageNum, fmt.Sprintf(
				"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
				fontNum, contentNum)},
			object{contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream",
				len(stream), stream)},
		)
	}

	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	objects = append(objects, object{fontNum, fmt.Sprintf(
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		widths)})

	var buf strings.Builder
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", obj.num, obj.body)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefStart)

	return []byte(buf.String())
}

func TestExtract_SinglePage(t *testing.T) {
	extractor := NewPDFExtractorService()

	raw := buildTestPDF([][]string{
		{"John Doe", "Software Engineer"},
	})

	content, err := extractor.Extract(raw)

	require.NoError(t, err)
	assert.Equal(t, 1, content.PageCount)
	assert.Equal(t, "John Doe\nSoftware Engineer", content.Text)
}

func TestExtract_MultiPageJoinedByBlankLine(t *testing.T) {
	extractor := NewPDFExtractorService()

	raw := buildTestPDF([][]string{
		{"John Doe", "Engineer"},
		{"Skills: Python"},
	})

	text, err := extractor.ExtractText(raw)

	require.NoError(t, err)
	assert.Equal(t, "John Doe\nEngineer\n\nSkills: Python", text)
	assert.NotContains(t, text, "\n\n\n")
}

func TestExtract_LinesPositionedWithTextMatrix(t *testing.T) {
	extractor := NewPDFExtractorService()

	// Same two lines, placed with absolute Tm operators instead of Td moves.
	stream := "BT\n/F1 12 Tf\n" +
		"1 0 0 1 72 720 Tm\n(John Doe) Tj\n" +
		"1 0 0 1 72 700 Tm\n(Software Engineer) Tj\n" +
		"ET\n"

	text, err := extractor.ExtractText(assemblePDF([]string{stream}))

	require.NoError(t, err)
	assert.Equal(t, "John Doe\nSoftware Engineer", text)
}

func TestExtract_EmptyInput(t *testing.T) {
	extractor := NewPDFExtractorService()

	_, err := extractor.Extract(nil)

	require.Error(t, err)
	var parseErr *DocumentParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 0, parseErr.ByteLen)
}

func TestExtract_GarbageInput(t *testing.T) {
	extractor := NewPDFExtractorService()

	garbage := []byte("this is definitely not a portable document")
	_, err := extractor.Extract(garbage)

	require.Error(t, err)
	var parseErr *DocumentParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, len(garbage), parseErr.ByteLen)
	assert.Contains(t, parseErr.Error(), "unreadable PDF document")
}

func TestExtract_TruncatedPDF(t *testing.T) {
	extractor := NewPDFExtractorService()

	raw := buildTestPDF([][]string{{"John Doe"}})
	truncated := raw[:len(raw)/3]

	_, err := extractor.Extract(truncated)

	var parseErr *DocumentParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"collapses runs", "a   b\t\tc", "a b c"},
		{"drops empty lines", "a\n\n\n   \nb", "a\nb"},
		{"trims line edges", "  hello  \n  world  ", "hello\nworld"},
		{"already clean", "John Doe\nEngineer", "John Doe\nEngineer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanText(tc.input))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"a   b\n\nc\td",
		"  leading\nand trailing  \n",
		"single line",
	}

	for _, input := range inputs {
		once := CleanText(input)
		assert.Equal(t, once, CleanText(once))
	}
}
