package services

import (
	"fmt"

	"resume-optimizer/internal/models"
)

const OptimizerSystemPrompt = "You are an expert resume optimizer with years of experience in HR and technical recruitment. You rewrite resumes to target a specific job posting and explain your changes."

const CoverLetterSystemPrompt = "You are a professional career advisor who writes concise, personable cover letters tailored to a specific job posting."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildOptimizationPrompt creates the single prompt whose completion carries
// both the rewritten resume and the bracket-delimited analysis sections.
func (pb *PromptBuilder) BuildOptimizationPrompt(resumeText string, job *models.Job, customInstructions string) string {
	extra := ""
	if customInstructions != "" {
		extra = fmt.Sprintf("\nAdditional Instructions: %s\n", customInstructions)
	}

	return fmt.Sprintf(`Your task is to optimize the following resume for the position of %s at %s.

Job Description:
%s

Original Resume:
%s
%s
Follow these optimization guidelines carefully:

1. RESUME STRUCTURE AND FORMATTING:
   - Use markdown formatting: *** for main section titles, ** for subtitles
   - The very first line must be the candidate's full name, with no markup
   - Use bullet points (•) for achievements and responsibilities
   - Keep formatting ATS-friendly: no tables, no columns, no separator lines

2. REQUIRED SECTIONS (in order):
   a) ***PERSONAL INFORMATION*** - name, professional title, contact details
   b) ***PROFESSIONAL SUMMARY*** - 3-4 impactful sentences aligned with the job
   c) ***TECHNICAL SKILLS*** - grouped into clear categories
   d) ***PROFESSIONAL EXPERIENCE*** - achievement-focused bullets with metrics
   e) ***EDUCATION*** - degree, institution, dates
   f) ***CERTIFICATIONS*** and ***LANGUAGES*** if present in the original

3. CONTENT OPTIMIZATION:
   - Match keywords and terminology from the job description
   - Quantify achievements, use strong action verbs
   - Keep all original experience, dates, and contact details
   - Never invent information that is not in the original resume

After the complete optimized resume, provide the analysis in exactly this
structure, keeping the section markers exactly as shown:

[SECTION:IMPROVEMENTS]
• Specific improvements made to the resume
- How each change better targets the job
[/SECTION]

[SECTION:INTERVIEW]
• Key talking points and technical topics to review
- STAR stories to prepare for the highlighted experience
[/SECTION]

[SECTION:NEXTSTEPS]
• Skills to develop, certifications to consider
- Portfolio and networking recommendations
[/SECTION]

Main points are marked with • and sub-points with -. Do not add any text after
the final [/SECTION].`,
		job.Title, job.Company, job.Description, resumeText, extra)
}

// BuildCoverLetterPrompt creates the second, independent prompt cycle. The
// completion is plain prose rendered in the simple cover-letter mode.
func (pb *PromptBuilder) BuildCoverLetterPrompt(optimizedResume string, job *models.Job) string {
	return fmt.Sprintf(`Write a cover letter for the position of %s at %s.

Job Description:
%s

Candidate Resume:
%s

Guidelines:
- Three to four short paragraphs separated by blank lines
- Address the company's needs using concrete experience from the resume
- Professional but warm tone; no placeholders, no markup, no bullet points
- Return only the letter text itself.`,
		job.Title, job.Company, job.Description, optimizedResume)
}
