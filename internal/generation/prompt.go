package generation

import (
	"strings"
)

const promptInstructions = `Please generate a comprehensive resume with the following sections:
1. Professional Summary - A compelling 2-3 sentence summary highlighting key qualifications
2. Skills Section - Enhanced skills description that incorporates the provided skills
3. Experience Section - Professional experience description if applicable
4. Education Section - Suggested education content based on the experience level

IMPORTANT: Respond with a valid JSON object only, containing these exact keys:
{
  "summary": "Professional summary text here",
  "skills": "Enhanced skills description here",
  "experience": "Experience description here (or empty string for fresher)",
  "education": "Education content here"
}

Do not include any explanations, markdown formatting, or text outside the JSON object. Ensure the JSON is properly formatted and valid.`

// BuildPrompt renders the generation instruction for req. It is pure and never fails.
func BuildPrompt(req Request) string {
	jd := strings.TrimSpace(req.JobDescription)
	if jd == "" {
		jd = "Not provided"
	}

	var b strings.Builder
	b.WriteString("You are an expert resume writer. Generate a professional resume based on the following information:\n\n")
	b.WriteString("Template Type: ")
	b.WriteString(string(req.TemplateType))
	b.WriteString("\nSkills: ")
	b.WriteString(strings.Join(req.Skills, ", "))
	b.WriteString("\n\nExperience History:\n")
	b.WriteString(experienceLines(req.ExperienceHistory))
	b.WriteString("\n\nJob Description: ")
	b.WriteString(jd)
	b.WriteString("\n\n")
	b.WriteString(promptInstructions)
	return b.String()
}

func experienceLines(entries []ExperienceEntry) string {
	if len(entries) == 0 {
		return "No experience provided"
	}
	lines := make([]string, 0, len(entries))
	for _, exp := range entries {
		lines = append(lines, "- "+describeEntry(exp, ". Achievements: "))
	}
	return strings.Join(lines, "\n")
}

// describeEntry renders "<position> at <company>[: <description>][<achLabel><a, b>]".
func describeEntry(exp ExperienceEntry, achLabel string) string {
	var b strings.Builder
	b.WriteString(exp.Position)
	b.WriteString(" at ")
	b.WriteString(exp.Company)
	if exp.Description != "" {
		b.WriteString(": ")
		b.WriteString(exp.Description)
	}
	if len(exp.Achievements) > 0 {
		b.WriteString(achLabel)
		b.WriteString(strings.Join(exp.Achievements, ", "))
	}
	return b.String()
}
