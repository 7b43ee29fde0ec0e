package suggest

import "fmt"

const systemPrompt = `You are an experienced technical recruiter who edits resumes.
Only use facts present in the text you are given. Never invent employers, titles,
technologies or numbers. Answer with a JSON array of short strings and nothing else.`

var userPrompts = map[Kind]string{
	KindRewrite: `Rewrite the following resume bullet point into 4 stronger alternatives.
Each alternative must start with an action verb and stay under 25 words.

Bullet point:
%s`,
	KindEnhance: `Give 4 concrete suggestions for improving the following resume text.
Focus on measurable results, named technologies and business impact.

Text:
%s`,
	KindKeywords: `List up to 10 keywords or short skill phrases from the following job description
that a resume should contain to pass an applicant tracking system.

Job description:
%s`,
}

func buildPrompt(req Request) (string, error) {
	tmpl, ok := userPrompts[req.Kind]
	if !ok {
		return "", fmt.Errorf("no prompt for suggestion type %q", req.Kind)
	}
	return fmt.Sprintf(tmpl, req.Input()), nil
}
