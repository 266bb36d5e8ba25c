package chatbot

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

var validate = validator.New()

// KnowledgeBase is the static topic and response table the dispatcher answers from.
// It is loaded once and must not be modified after it is handed to New.
type KnowledgeBase struct {
	Greeting Chitchat   `yaml:"greeting"`
	Thanks   Chitchat   `yaml:"thanks"`
	Help     Reply      `yaml:"help"`
	Topics   []Topic    `yaml:"topics" validate:"required,min=1,unique=Name,dive"`
	Fallback Reply      `yaml:"fallback"`
	Prompts  PromptPool `yaml:"prompts"`
}

// Chitchat answers small talk with one of several interchangeable variants.
type Chitchat struct {
	Keywords    []string `yaml:"keywords" validate:"required,min=1,dive,required"`
	Variants    []string `yaml:"variants" validate:"required,min=1,dive,required"`
	Suggestions []string `yaml:"suggestions" validate:"dive,required"`
}

// Reply is a single fixed answer.
type Reply struct {
	Keywords    []string `yaml:"keywords" validate:"dive,required"`
	Content     string   `yaml:"content" validate:"required"`
	Suggestions []string `yaml:"suggestions" validate:"dive,required"`
}

// Topic is a category of user intent with its own answers.
type Topic struct {
	Name     string    `yaml:"name" validate:"required"`
	Keywords []string  `yaml:"keywords" validate:"required,min=1,dive,required"`
	Variants []Variant `yaml:"variants" validate:"required,min=1,unique=Name,dive"`
}

// Variant is one answer of a topic, picked by its secondary keywords.
// A variant without keywords matches anything.
type Variant struct {
	Name        string   `yaml:"name" validate:"required"`
	Keywords    []string `yaml:"keywords" validate:"dive,required"`
	Content     string   `yaml:"content" validate:"required"`
	Suggestions []string `yaml:"suggestions" validate:"dive,required"`
}

// PromptPool holds the conversation starters offered at random.
type PromptPool struct {
	Size  int      `yaml:"size" validate:"gt=0"`
	Items []string `yaml:"items" validate:"required,min=1,unique,dive,required"`
}

// DefaultKnowledge returns the built-in table.
func DefaultKnowledge() (*KnowledgeBase, error) {
	kb, err := ParseKnowledge(defaultKnowledge)
	if err != nil {
		return nil, fmt.Errorf("built-in knowledge: %w", err)
	}
	return kb, nil
}

// LoadKnowledge reads a knowledge file. An empty path selects the built-in table.
func LoadKnowledge(path string) (*KnowledgeBase, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultKnowledge()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge file %q: %w", path, err)
	}

	kb, err := ParseKnowledge(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge file %q: %w", path, err)
	}
	return kb, nil
}

// ParseKnowledge decodes and validates a YAML knowledge table.
func ParseKnowledge(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := kb.Validate(); err != nil {
		return nil, err
	}

	return &kb, nil
}

// Validate checks the structural rules the dispatcher relies on.
func (kb *KnowledgeBase) Validate() error {
	if kb == nil {
		return errors.New("knowledge base is required")
	}

	if err := validate.Struct(kb); err != nil {
		return fmt.Errorf("invalid knowledge base: %w", err)
	}

	if len(kb.Help.Keywords) == 0 {
		return errors.New("invalid knowledge base: help keywords are required")
	}

	for _, topic := range kb.Topics {
		last := topic.Variants[len(topic.Variants)-1]
		if len(last.Keywords) != 0 {
			return fmt.Errorf("invalid knowledge base: topic %q: last variant %q must have no keywords", topic.Name, last.Name)
		}

		for _, variant := range topic.Variants[:len(topic.Variants)-1] {
			if len(variant.Keywords) == 0 {
				return fmt.Errorf("invalid knowledge base: topic %q: variant %q shadows the variants after it", topic.Name, variant.Name)
			}
		}
	}

	if kb.Prompts.Size > len(kb.Prompts.Items) {
		return fmt.Errorf("invalid knowledge base: prompts size %d exceeds pool of %d", kb.Prompts.Size, len(kb.Prompts.Items))
	}

	return nil
}

// TopicNames lists the topics in evaluation order.
func (kb *KnowledgeBase) TopicNames() []string {
	return lo.Map(kb.Topics, func(t Topic, _ int) string { return t.Name })
}
