package generation

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFiles embed.FS

// Prompt names shipped with the package.
const (
	PromptLemmaDetails      = "lemma_details"
	PromptTranslate         = "translate"
	PromptVerifyTranslation = "verify_translation"
	PromptPhraseAnalysis    = "phrase_analysis"
	PromptExtractLemmas     = "extract_lemmas"
	PromptGeneratePhrases   = "generate_phrases"
)

// Prompt is a named pair of system and user template sources.
type Prompt struct {
	Name   string
	System string
	User   string
}

// LoadPrompt reads the embedded templates prompts/<name>.system.tmpl and
// prompts/<name>.user.tmpl. The user template is optional.
func LoadPrompt(name string) (Prompt, error) {
	system, err := fs.ReadFile(promptFiles, "prompts/"+name+".system.tmpl")
	if err != nil {
		return Prompt{}, fmt.Errorf("%w: prompt %q: %v", ErrInvalidConfig, name, err)
	}
	user, err := fs.ReadFile(promptFiles, "prompts/"+name+".user.tmpl")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Prompt{}, fmt.Errorf("%w: prompt %q: %v", ErrInvalidConfig, name, err)
	}
	return Prompt{Name: name, System: string(system), User: string(user)}, nil
}

// MustLoadPrompt is LoadPrompt for prompts that are known to be embedded.
func MustLoadPrompt(name string) Prompt {
	p, err := LoadPrompt(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Render renders both templates with params.
func (p Prompt) Render(params map[string]any) (system, user string, err error) {
	if system, err = Render(p.Name+".system", p.System, params); err != nil {
		return "", "", err
	}
	if user, err = Render(p.Name+".user", p.User, params); err != nil {
		return "", "", err
	}
	return system, user, nil
}

// Render executes the template source with params. A reference to a
// parameter that is not in params fails with ErrMissingParameter.
func Render(name, source string, params map[string]any) (string, error) {
	if source == "" {
		return "", nil
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse template %s: %v", ErrInvalidConfig, name, err)
	}

	if params == nil {
		params = map[string]any{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		if strings.Contains(err.Error(), "map has no entry for key") {
			return "", fmt.Errorf("%w: %v", ErrMissingParameter, err)
		}
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
