package chatbot

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Topic names of the built-in rules.
const (
	TopicGreeting = "greeting"
	TopicThanks   = "thanks"
	TopicHelp     = "help"
	TopicFallback = "fallback"
)

// Rule kinds reported by Describe.
const (
	KindChitchat = "chitchat"
	KindReply    = "reply"
	KindTopic    = "topic"
)

// Response is the answer to one utterance.
type Response struct {
	Topic       string   `json:"topic"`
	Variant     string   `json:"variant,omitempty"`
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Status describes one rule of the dispatcher.
type Status struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Keywords []string `json:"keywords"`
	Variants []string `json:"variants,omitempty"`
}

type rule interface {
	name() string
	matches(text []rune) bool
	respond(text []rune, src Source) Response
	status() Status
}

// Dispatcher maps free text to canned answers.
// Rules are tried in a fixed order and the first one whose keywords occur in the
// text answers; there is no scoring. A Dispatcher is safe for concurrent use as
// long as its Source is.
type Dispatcher struct {
	rules    []rule
	fallback Response
	prompts  PromptPool
	src      Source
}

// New builds a dispatcher over kb. A nil src selects a time-seeded generator.
func New(kb *KnowledgeBase, src Source) (*Dispatcher, error) {
	if err := kb.Validate(); err != nil {
		return nil, err
	}

	if src == nil {
		src = NewSource(time.Now().UnixNano())
	}

	greeting, err := newChitchatRule(TopicGreeting, kb.Greeting)
	if err != nil {
		return nil, err
	}

	thanks, err := newChitchatRule(TopicThanks, kb.Thanks)
	if err != nil {
		return nil, err
	}

	help, err := newReplyRule(TopicHelp, kb.Help)
	if err != nil {
		return nil, err
	}

	rules := []rule{greeting, thanks, help}
	for _, topic := range kb.Topics {
		r, err := newTopicRule(topic)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return &Dispatcher{
		rules: rules,
		fallback: Response{
			Topic:       TopicFallback,
			Content:     kb.Fallback.Content,
			Suggestions: slices.Clone(kb.Fallback.Suggestions),
		},
		prompts: PromptPool{Size: kb.Prompts.Size, Items: slices.Clone(kb.Prompts.Items)},
		src:     src,
	}, nil
}

// Generate answers utterance. It never fails: text that matches no rule,
// including empty text, gets the fallback answer.
func (d *Dispatcher) Generate(utterance string) Response {
	text := []rune(normalize(utterance))

	for _, r := range d.rules {
		if r.matches(text) {
			return r.respond(text, d.src)
		}
	}

	return copyResponse(d.fallback)
}

// RandomSuggestions samples the configured number of conversation starters.
func (d *Dispatcher) RandomSuggestions() []string {
	return Sample(d.prompts.Items, d.prompts.Size, d.src)
}

// Describe lists the rules in evaluation order. The fallback is not included.
func (d *Dispatcher) Describe() []Status {
	return lo.Map(d.rules, func(r rule, _ int) Status { return r.status() })
}

func copyResponse(r Response) Response {
	r.Suggestions = slices.Clone(r.Suggestions)
	return r
}

type chitchatRule struct {
	topic       string
	keywords    *keywordSet
	variants    []string
	suggestions []string
}

func newChitchatRule(topic string, c Chitchat) (*chitchatRule, error) {
	keywords, err := newKeywordSet(c.Keywords)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", topic, err)
	}

	return &chitchatRule{
		topic:       topic,
		keywords:    keywords,
		variants:    slices.Clone(c.Variants),
		suggestions: slices.Clone(c.Suggestions),
	}, nil
}

func (r *chitchatRule) name() string { return r.topic }

func (r *chitchatRule) matches(text []rune) bool { return r.keywords.matches(text) }

func (r *chitchatRule) respond(_ []rune, src Source) Response {
	return Response{
		Topic:       r.topic,
		Content:     r.variants[src.Intn(len(r.variants))],
		Suggestions: slices.Clone(r.suggestions),
	}
}

func (r *chitchatRule) status() Status {
	return Status{Name: r.topic, Kind: KindChitchat, Keywords: slices.Clone(r.keywords.words)}
}

type replyRule struct {
	topic    string
	keywords *keywordSet
	reply    Response
}

func newReplyRule(topic string, reply Reply) (*replyRule, error) {
	keywords, err := newKeywordSet(reply.Keywords)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", topic, err)
	}

	return &replyRule{
		topic:    topic,
		keywords: keywords,
		reply: Response{
			Topic:       topic,
			Content:     reply.Content,
			Suggestions: slices.Clone(reply.Suggestions),
		},
	}, nil
}

func (r *replyRule) name() string { return r.topic }

func (r *replyRule) matches(text []rune) bool { return r.keywords.matches(text) }

func (r *replyRule) respond([]rune, Source) Response { return copyResponse(r.reply) }

func (r *replyRule) status() Status {
	return Status{Name: r.topic, Kind: KindReply, Keywords: slices.Clone(r.keywords.words)}
}

type topicRule struct {
	topic    string
	keywords *keywordSet
	variants []variantRule
}

type variantRule struct {
	keywords *keywordSet
	response Response
}

func newTopicRule(topic Topic) (*topicRule, error) {
	keywords, err := newKeywordSet(topic.Keywords)
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", topic.Name, err)
	}

	variants := make([]variantRule, 0, len(topic.Variants))
	for _, v := range topic.Variants {
		vk, err := newKeywordSet(v.Keywords)
		if err != nil {
			return nil, fmt.Errorf("topic %s variant %s: %w", topic.Name, v.Name, err)
		}

		variants = append(variants, variantRule{
			keywords: vk,
			response: Response{
				Topic:       topic.Name,
				Variant:     v.Name,
				Content:     v.Content,
				Suggestions: slices.Clone(v.Suggestions),
			},
		})
	}

	return &topicRule{topic: topic.Name, keywords: keywords, variants: variants}, nil
}

func (r *topicRule) name() string { return r.topic }

func (r *topicRule) matches(text []rune) bool { return r.keywords.matches(text) }

func (r *topicRule) respond(text []rune, _ Source) Response {
	for _, v := range r.variants {
		if v.keywords.size() == 0 || v.keywords.matches(text) {
			return copyResponse(v.response)
		}
	}
	// unreachable for a validated table: the last variant has no keywords
	return copyResponse(r.variants[len(r.variants)-1].response)
}

func (r *topicRule) status() Status {
	return Status{
		Name:     r.topic,
		Kind:     KindTopic,
		Keywords: slices.Clone(r.keywords.words),
		Variants: lo.Map(r.variants, func(v variantRule, _ int) string { return v.response.Variant }),
	}
}
