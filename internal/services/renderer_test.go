package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		name  string
		input string
		text  string
		kind  lineKind
	}{
		{"section title", "***PROFESSIONAL EXPERIENCE***", "PROFESSIONAL EXPERIENCE", lineSectionTitle},
		{"subtitle", "**Senior Engineer | Acme**", "Senior Engineer | Acme", lineSubTitle},
		{"inline bold", "Skills: *Go*, *Python*", "Skills: Go, Python", lineBold},
		{"dot bullet", "• Shipped the billing service", "Shipped the billing service", lineBullet},
		{"dash bullet", "- Reduced latency by 40%", "Reduced latency by 40%", lineBullet},
		{"plain", "Portland, OR", "Portland, OR", linePlain},
		{"too short for title", "*****", "", lineSubTitle},
		{"stray marks removed", "##Education", "Education", linePlain},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, kind := classifyLine(tc.input)
			assert.Equal(t, tc.text, text)
			assert.Equal(t, tc.kind, kind)
		})
	}
}

func TestBuildResumeBlocks_FirstLineIsName(t *testing.T) {
	blocks := buildResumeBlocks("***JOHN DOE***\n***SUMMARY***\nAn engineer.")

	require.Len(t, blocks, 3)
	assert.Equal(t, blockName, blocks[0].kind)
	assert.Equal(t, "JOHN DOE", blocks[0].text)
	assert.Equal(t, blockSectionTitle, blocks[1].kind)
	assert.Equal(t, blockParagraph, blocks[2].kind)
}

func TestBuildResumeBlocks_NameAfterSkippedLines(t *testing.T) {
	// Separators and artifacts before the name do not consume the Name slot.
	blocks := buildResumeBlocks("==========\n2 yo\nJane Smith\nEngineer")

	require.Len(t, blocks, 2)
	assert.Equal(t, blockName, blocks[0].kind)
	assert.Equal(t, "Jane Smith", blocks[0].text)
	assert.Equal(t, blockParagraph, blocks[1].kind)
}

func TestBuildResumeBlocks_BulletAccumulation(t *testing.T) {
	blocks := buildResumeBlocks("• a\n• b\nPlain text")

	require.Len(t, blocks, 2)
	assert.Equal(t, blockBulletList, blocks[0].kind)
	assert.Equal(t, []string{"a", "b"}, blocks[0].items)
	// The leading bullet list already occupies the first slot, so the line
	// after it is a plain paragraph, not the name heading.
	assert.Equal(t, blockParagraph, blocks[1].kind)
	assert.Equal(t, "Plain text", blocks[1].text)
}

func TestBuildResumeBlocks_TrailingBulletsFlushed(t *testing.T) {
	blocks := buildResumeBlocks("John Doe\n• last one\n• and another")

	require.Len(t, blocks, 2)
	assert.Equal(t, blockName, blocks[0].kind)
	assert.Equal(t, blockBulletList, blocks[1].kind)
	assert.Equal(t, []string{"last one", "and another"}, blocks[1].items)
}

func TestBuildResumeBlocks_SeparatorVariants(t *testing.T) {
	cases := []struct {
		line    string
		dropped bool
	}{
		{"==========", true},
		{"----------------", true},
		{"=========", false},  // nine, too short
		{"=====-----", false}, // mixed run
		{"42 yo", true},
		{"42 years old", false},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			blocks := buildResumeBlocks("Name\n" + tc.line)
			if tc.dropped {
				assert.Len(t, blocks, 1)
			} else {
				assert.Len(t, blocks, 2)
			}
		})
	}
}

func TestBuildResumeBlocks_PartLabelStripped(t *testing.T) {
	blocks := buildResumeBlocks("PART 1: OPTIMIZED RESUME\nJohn Doe")

	require.Len(t, blocks, 2)
	assert.Equal(t, blockName, blocks[0].kind)
	assert.Equal(t, "OPTIMIZED RESUME", blocks[0].text)
	assert.Equal(t, "John Doe", blocks[1].text)
}

func TestBuildResumeBlocks_MarkupOnlyLinesDropped(t *testing.T) {
	blocks := buildResumeBlocks("##\n***\nJohn Doe")

	require.Len(t, blocks, 1)
	assert.Equal(t, "John Doe", blocks[0].text)
}

func TestBuildResumeBlocks_Empty(t *testing.T) {
	assert.Empty(t, buildResumeBlocks(""))
	assert.Empty(t, buildResumeBlocks("\n\n==========\n"))
}

func TestRender_Resume(t *testing.T) {
	renderer := NewPDFRendererService()

	text := strings.Join([]string{
		"JOHN DOE",
		"***PROFESSIONAL SUMMARY***",
		"Backend engineer with ten years of experience.",
		"***EXPERIENCE***",
		"**Senior Engineer | Acme | 2019-2024**",
		"• Led migration to Go services",
		"• Cut infra spend by 30%",
		"***SKILLS***",
		"*Languages:* Go, Python, SQL",
	}, "\n")

	pdfBytes, err := renderer.Render(text, RenderModeResume)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF-"))
	assert.Greater(t, len(pdfBytes), 500)
}

func TestRender_EmptyInputStillProducesDocument(t *testing.T) {
	renderer := NewPDFRendererService()

	for _, mode := range []RenderMode{RenderModeResume, RenderModeCoverLetter} {
		t.Run(mode.String(), func(t *testing.T) {
			pdfBytes, err := renderer.Render("", mode)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF-"))
		})
	}
}

func TestRender_CoverLetter(t *testing.T) {
	renderer := NewPDFRendererService()

	text := "Dear Hiring Manager,\n\nI am writing to   apply for\nthe role.\n\nSincerely,\nJohn"

	pdfBytes, err := renderer.Render(text, RenderModeCoverLetter)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF-"))
}

func TestRender_LongResumePaginates(t *testing.T) {
	renderer := NewPDFRendererService()

	var sb strings.Builder
	sb.WriteString("JOHN DOE\n")
	for i := 0; i < 40; i++ {
		sb.WriteString("***SECTION***\n")
		sb.WriteString("• achievement one with some detail about the work\n")
		sb.WriteString("• achievement two with some detail about the work\n")
	}

	pdfBytes, err := renderer.Render(sb.String(), RenderModeResume)

	require.NoError(t, err)
	// One page yields exactly two occurrences: the page object plus the
	// "/Type /Pages" node that contains it as a prefix.
	assert.Greater(t, strings.Count(string(pdfBytes), "/Type /Page"), 2)
}

func TestRenderModeString(t *testing.T) {
	assert.Equal(t, "resume", RenderModeResume.String())
	assert.Equal(t, "cover-letter", RenderModeCoverLetter.String())
}
