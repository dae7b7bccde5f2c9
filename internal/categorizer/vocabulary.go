package categorizer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type vocabularyFile struct {
	PaymentTypes []string `yaml:"payment_types"`
}

// LoadVocabulary reads a YAML file of the form
//
//	payment_types:
//	  - Egyszeri befizetés
//	  - Kivétel
//
// Blank entries are skipped, the order of the remaining ones is kept.
func LoadVocabulary(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}

	var vf vocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}

	vocabulary := make([]string, 0, len(vf.PaymentTypes))
	for _, pt := range vf.PaymentTypes {
		if pt = strings.TrimSpace(pt); pt != "" {
			vocabulary = append(vocabulary, pt)
		}
	}
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("vocabulary file %s defines no payment_types", path)
	}
	return vocabulary, nil
}
