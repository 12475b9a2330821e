package router

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultTopicsYAML []byte

var ErrInvalidTopics = errors.New("invalid topic table")

// Topic is one canned answer together with the keywords that select it.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// Topics is the ordered keyword table plus the generic answer.
type Topics struct {
	Topics  []Topic `yaml:"topics"`
	Generic string  `yaml:"generic"`
}

// ParseTopics decodes a topic table. Keywords are lowercased and answers
// trimmed; a table without a generic answer is rejected.
func ParseTopics(raw []byte) (*Topics, error) {
	var t Topics
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode topics failed: %w", err)
	}
	t.Generic = strings.TrimSpace(t.Generic)
	if t.Generic == "" {
		return nil, fmt.Errorf("%w: missing generic answer", ErrInvalidTopics)
	}
	for i := range t.Topics {
		topic := &t.Topics[i]
		topic.Answer = strings.TrimSpace(topic.Answer)
		if topic.Name == "" || topic.Answer == "" || len(topic.Keywords) == 0 {
			return nil, fmt.Errorf("%w: topic %d is incomplete", ErrInvalidTopics, i)
		}
		for j, kw := range topic.Keywords {
			topic.Keywords[j] = strings.ToLower(kw)
		}
	}
	return &t, nil
}

// DefaultTopics returns the built-in civil-registry table.
func DefaultTopics() *Topics {
	t, err := ParseTopics(defaultTopicsYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the topic called name.
func (t *Topics) Lookup(name string) (Topic, bool) {
	for _, topic := range t.Topics {
		if topic.Name == name {
			return topic, true
		}
	}
	return Topic{}, false
}

func (t *Topics) match(lower string) (Topic, bool) {
	for _, topic := range t.Topics {
		for _, kw := range topic.Keywords {
			if strings.Contains(lower, kw) {
				return topic, true
			}
		}
	}
	return Topic{}, false
}
