package generation

import "strings"

const (
	baseSoftSkills   = "Problem-solving, Communication, Teamwork, Time Management, Critical Thinking"
	seniorSoftSkills = ", Leadership, Project Management, Strategic Planning"

	fresherExperience = "Entry-level position seeking opportunities to apply academic knowledge and develop professional experience."
	defaultExperience = "Professional experience with progressive responsibilities and consistent achievement of objectives."

	fresherEducation = "Recent graduate with a Bachelor's degree in relevant field and strong academic performance. Coursework and projects demonstrate practical application of theoretical concepts."
	midEducation     = "Bachelor's degree in relevant field complemented by professional certifications and continuous learning initiatives."
	seniorEducation  = "Advanced degree with specialized focus. Continuous professional development through industry certifications and executive education programs."
)

// SynthesizeFallback builds sections offline from the structured input.
// It is deterministic, performs no I/O and never fails.
func SynthesizeFallback(req Request) GeneratedSections {
	hasExperience := len(req.ExperienceHistory) > 0
	return GeneratedSections{
		Summary:    fallbackSummary(req, hasExperience),
		Skills:     fallbackSkills(req),
		Experience: fallbackExperience(req, hasExperience),
		Education:  fallbackEducation(req.TemplateType),
	}
}

func fallbackSummary(req Request, hasExperience bool) string {
	lead := "professional"
	if len(req.Skills) > 0 && req.Skills[0] != "" {
		lead = req.Skills[0]
	}
	if req.TemplateType == TemplateFresher {
		return "Motivated and enthusiastic " + lead + " with strong academic background and keen interest in learning new technologies. Seeking to apply technical skills and passion for innovation in a challenging role."
	}

	background := "strong background"
	if hasExperience {
		background = "proven track record"
	}
	top := req.Skills
	if len(top) > 3 {
		top = top[:3]
	}
	return "Experienced " + lead + " with " + background + " in " + strings.Join(top, ", ") + ". Committed to delivering high-quality results and driving organizational success through expertise and dedication."
}

func fallbackSkills(req Request) string {
	extra := baseSoftSkills
	if req.TemplateType == TemplateSenior {
		extra += seniorSoftSkills
	}
	return "Technical Skills: " + strings.Join(req.Skills, ", ") + "\nAdditional Skills: " + extra
}

func fallbackExperience(req Request, hasExperience bool) string {
	if hasExperience {
		parts := make([]string, 0, len(req.ExperienceHistory))
		for _, exp := range req.ExperienceHistory {
			parts = append(parts, describeEntry(exp, ". Key achievements: "))
		}
		return strings.Join(parts, "\n\n")
	}
	if req.TemplateType == TemplateFresher {
		return fresherExperience
	}
	return defaultExperience
}

func fallbackEducation(t TemplateType) string {
	switch t {
	case TemplateFresher:
		return fresherEducation
	case TemplateMid:
		return midEducation
	default:
		return seniorEducation
	}
}
