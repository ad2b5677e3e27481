package classifier

import (
	_ "embed"
	"fmt"
	"strings"
)

// The labeled corpus ships with the binary and is not user-editable at
// runtime. One example per line, pipe-separated: label|utterance.
//
//go:embed corpus/training.txt
var corpusRaw string

type example struct {
	Text  string
	Label string
}

func loadCorpus() ([]example, error) {
	var examples []example
	for lineNo, line := range strings.Split(corpusRaw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, text, ok := strings.Cut(line, "|")
		if !ok || label == "" || text == "" {
			return nil, fmt.Errorf("malformed corpus line %d: %q", lineNo+1, line)
		}
		examples = append(examples, example{Text: text, Label: label})
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("training corpus is empty")
	}
	return examples, nil
}
