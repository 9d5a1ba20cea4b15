package recommend

import (
	"fmt"
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("recommend").Parse(`
You are a helpful AI assistant. Based on the following user request, list as many real, popular or recent movies that match the description. Make sure these are actual movie titles that exist in TMDb. Do not invent fictional names. Return only the movie names in plain text, separated by line breaks. Avoid numeric sequels (e.g., use 'Part Two' instead of '2').

User Request: {{.Text}} (Language: {{.Language}})

Movie List:
`))

// BuildPrompt renders the model prompt for a request.
func BuildPrompt(req Request) (string, error) {
	var b strings.Builder
	data := struct {
		Text     string
		Language string
	}{
		Text:     strings.TrimSpace(req.Text),
		Language: req.Language.String(),
	}
	if err := promptTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
