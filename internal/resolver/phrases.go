package resolver

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Phrase is a multi-word override checked before word matching.
type Phrase struct {
	Text   string `yaml:"phrase"`
	ClipID string `yaml:"clip"`
}

// PhraseTable is scanned in order; earlier phrases consume text first.
type PhraseTable []Phrase

func DefaultPhraseTable() PhraseTable {
	return PhraseTable{
		{Text: "how are you", ClipID: "how_are_you"},
	}
}

type phraseFile struct {
	Phrases []Phrase `yaml:"phrases"`
}

// LoadPhraseTable reads a YAML file of the form
//
//	phrases:
//	  - phrase: how are you
//	    clip: how_are_you
//
// Phrases are normalized the same way as input sentences.
func LoadPhraseTable(path string) (PhraseTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrase table: %w", err)
	}
	return ParsePhraseTable(data)
}

func ParsePhraseTable(data []byte) (PhraseTable, error) {
	var f phraseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse phrase table: %w", err)
	}

	table := make(PhraseTable, 0, len(f.Phrases))
	seen := make(map[string]struct{}, len(f.Phrases))
	for i, p := range f.Phrases {
		text := strings.Join(strings.Fields(Normalize(p.Text)), " ")
		clip := strings.TrimSpace(p.ClipID)
		if text == "" || clip == "" {
			return nil, fmt.Errorf("phrase table entry %d: phrase and clip are required", i)
		}
		if _, dup := seen[text]; dup {
			return nil, fmt.Errorf("phrase table entry %d: duplicate phrase %q", i, text)
		}
		seen[text] = struct{}{}
		table = append(table, Phrase{Text: text, ClipID: clip})
	}
	return table, nil
}
