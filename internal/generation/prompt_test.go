package generation

import (
	"strings"
	"testing"
	"time"
)

func TestBuildPromptIncludesInputs(t *testing.T) {
	req := Request{
		Skills: []string{"JavaScript", "TypeScript", "React"},
		ExperienceHistory: []ExperienceEntry{
			{
				Company:      "Tech Corp",
				Position:     "Senior Developer",
				StartDate:    time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
				Description:  "Built amazing applications",
				Achievements: []string{"Increased performance by 50%", "Led team of 5"},
			},
			{Company: "Startup", Position: "Engineer"},
		},
		JobDescription: "Looking for a senior developer with React experience",
		TemplateType:   TemplateSenior,
	}

	prompt := BuildPrompt(req)

	want := []string{
		"You are an expert resume writer",
		"Template Type: senior",
		"Skills: JavaScript, TypeScript, React",
		"- Senior Developer at Tech Corp: Built amazing applications. Achievements: Increased performance by 50%, Led team of 5\n- Engineer at Startup\n",
		"Job Description: Looking for a senior developer with React experience",
		`"summary"`, `"skills"`, `"experience"`, `"education"`,
		"Do not include any explanations, markdown formatting, or text outside the JSON object.",
	}
	for _, w := range want {
		if !strings.Contains(prompt, w) {
			t.Fatalf("prompt missing %q\n%s", w, prompt)
		}
	}
}

func TestBuildPromptPlaceholders(t *testing.T) {
	prompt := BuildPrompt(Request{Skills: []string{"Python"}, TemplateType: TemplateFresher})

	if !strings.Contains(prompt, "Experience History:\nNo experience provided") {
		t.Fatalf("expected experience placeholder\n%s", prompt)
	}
	if !strings.Contains(prompt, "Job Description: Not provided") {
		t.Fatalf("expected job description placeholder\n%s", prompt)
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	req := Request{Skills: []string{"Go", "SQL"}, TemplateType: TemplateMid, JobDescription: "Backend"}
	if BuildPrompt(req) != BuildPrompt(req) {
		t.Fatalf("expected identical prompts for identical input")
	}
}
