package store

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
)

type exportFile struct {
	Prompts prompt.List `yaml:"prompts"`
}

// Export writes list as YAML.
func Export(w io.Writer, list prompt.List) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(exportFile{Prompts: list}); err != nil {
		return fmt.Errorf("export prompts: %w", err)
	}
	return enc.Close()
}

// Import reads a list written by Export. Entries without an id or colour are
// given one.
func Import(r io.Reader) (prompt.List, error) {
	var file exportFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return prompt.List{}, nil
		}
		return nil, fmt.Errorf("import prompts: %w", err)
	}
	list := file.Prompts.Normalize()
	if list == nil {
		list = prompt.List{}
	}
	if err := list.Validate(); err != nil {
		return nil, fmt.Errorf("import prompts: %w", err)
	}
	return list, nil
}
