package enrich

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPrompt []byte

// Prompt is the instruction template sent with every submission.
type Prompt struct {
	Role         string    `yaml:"role"`
	Intro        string    `yaml:"intro"`
	Instructions []string  `yaml:"instructions"`
	Categories   []string  `yaml:"categories"`
	Examples     []Example `yaml:"examples"`
	Closing      string    `yaml:"closing"`
}

// Example is one few-shot pair. Output is the literal JSON reply.
type Example struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// LoadPrompt reads a prompt from path, or the embedded default when path is
// empty.
func LoadPrompt(path string) (*Prompt, error) {
	data := defaultPrompt
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", path, err)
		}
	}
	return ParsePrompt(data)
}

func ParsePrompt(data []byte) (*Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompt yaml: %w", err)
	}
	if len(p.Instructions) == 0 {
		return nil, errors.New("prompt has no instructions")
	}
	return &p, nil
}

// Render builds the full prompt with text quoted on the last line.
// {categories} inside an instruction expands to the suggested categories.
func (p *Prompt) Render(text string) string {
	var b strings.Builder
	categories := strings.Join(p.Categories, ", ")

	if p.Role != "" {
		b.WriteString(p.Role)
		b.WriteByte('\n')
	}
	if p.Intro != "" {
		b.WriteString(p.Intro)
		b.WriteByte('\n')
	}
	for i, ins := range p.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.ReplaceAll(ins, "{categories}", categories))
	}

	for _, ex := range p.Examples {
		fmt.Fprintf(&b, "\nExemplo de entrada: %q\nExemplo de saída: %s\n", ex.Input, ex.Output)
	}

	b.WriteByte('\n')
	if p.Closing != "" {
		b.WriteString(p.Closing)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\"%s\"\n", text)
	return b.String()
}
