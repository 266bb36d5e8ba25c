package chatbot

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateSelectsTopicAndVariant(t *testing.T) {
	t.Parallel()

	d, _ := mustDispatcher(t, NewSource(1))

	tests := []struct {
		input   string
		topic   string
		variant string
	}{
		{input: "How do I format my resume?", topic: "resume", variant: "format"},
		{input: "Can you review my CV?", topic: "resume", variant: "general"},
		{input: "What skills should I put on my resume?", topic: "resume", variant: "skills"},
		{input: "What should I expect in a technical interview?", topic: "interview", variant: "technical"},
		{input: "Tips for the HR round", topic: "interview", variant: "behavioral"},
		{input: "interview prep", topic: "interview", variant: "general"},
		{input: "Best companies to apply to", topic: "jobSearch", variant: "companies"},
		{input: "How do I search for jobs effectively?", topic: "jobSearch", variant: "general"},
		{input: "career planning", topic: "career", variant: "planning"},
		{input: "Career growth", topic: "career", variant: "general"},
		{input: "When does the campus drive start?", topic: "placement", variant: "general"},
		{input: "I want to learn coding", topic: "skills", variant: "general"},
		{input: "How do I get a referral?", topic: "networking", variant: "general"},
		{input: "Is the CTC negotiable?", topic: "salary", variant: "general"},
		{input: "industrial training", topic: "internship", variant: "general"},
		{input: "What can you do?", topic: TopicHelp},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := d.Generate(tt.input)
			if got.Topic != tt.topic || got.Variant != tt.variant {
				t.Fatalf("expected %s/%s, got %s/%s", tt.topic, tt.variant, got.Topic, got.Variant)
			}
			if got.Content == "" {
				t.Fatalf("expected content to be populated")
			}
		})
	}
}

func TestGenerateTechnicalInterview(t *testing.T) {
	t.Parallel()

	d, kb := mustDispatcher(t, NewSource(1))
	want := findVariant(t, kb, "interview", "technical")

	got := d.Generate("What should I expect in a technical interview?")

	expected := Response{
		Topic:   "interview",
		Variant: "technical",
		Content: want.Content,
		Suggestions: []string{
			"Behavioral interview tips",
			"How to handle interview nerves?",
			"Questions to ask interviewer",
		},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("unexpected response (-want +got):\n%s", diff)
	}
}

func TestGenerateResumeFormat(t *testing.T) {
	t.Parallel()

	d, kb := mustDispatcher(t, NewSource(1))
	want := findVariant(t, kb, "resume", "format")

	got := d.Generate("How do I format my resume?")
	if got.Content != want.Content {
		t.Fatalf("expected resume format content, got %q", got.Content)
	}
	if !slices.Equal(got.Suggestions, want.Suggestions) {
		t.Fatalf("expected suggestions %v, got %v", want.Suggestions, got.Suggestions)
	}
}

func TestGenerateFallback(t *testing.T) {
	t.Parallel()

	d, kb := mustDispatcher(t, NewSource(1))

	for _, input := range []string{"xyzzy plugh", "", "   ", "こんにちは", "¿qué tal?"} {
		got := d.Generate(input)
		if got.Topic != TopicFallback {
			t.Fatalf("input %q: expected fallback, got %s/%s", input, got.Topic, got.Variant)
		}
		if got.Content != kb.Fallback.Content {
			t.Fatalf("input %q: unexpected fallback content", input)
		}
		if len(got.Suggestions) != 0 {
			t.Fatalf("input %q: expected no suggestions, got %v", input, got.Suggestions)
		}
	}

	first := d.Generate("xyzzy plugh")
	second := d.Generate("xyzzy plugh")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("fallback is not stable (-first +second):\n%s", diff)
	}
}

func TestGenerateGreeting(t *testing.T) {
	t.Parallel()

	d, kb := mustDispatcher(t, NewSeededSource("greeting"))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got := d.Generate("Hello there")
		if got.Topic != TopicGreeting {
			t.Fatalf("expected greeting, got %s", got.Topic)
		}
		if got.Content == "" || !slices.Contains(kb.Greeting.Variants, got.Content) {
			t.Fatalf("unexpected greeting content %q", got.Content)
		}
		if !slices.Equal(got.Suggestions, kb.Greeting.Suggestions) {
			t.Fatalf("unexpected greeting suggestions %v", got.Suggestions)
		}
		seen[got.Content] = true
	}

	if len(seen) < 2 {
		t.Fatalf("expected greetings to vary, saw %d distinct", len(seen))
	}
}

func TestGenerateGreetingUsesSource(t *testing.T) {
	t.Parallel()

	_, kb := mustDispatcher(t, nil)

	for i, expected := range kb.Greeting.Variants {
		d, err := New(kb, &sequenceSource{values: []int{i}})
		if err != nil {
			t.Fatalf("creating dispatcher: %v", err)
		}
		if got := d.Generate("good morning!"); got.Content != expected {
			t.Fatalf("source value %d: expected %q, got %q", i, expected, got.Content)
		}
	}
}

func TestGenerateThanks(t *testing.T) {
	t.Parallel()

	d, kb := mustDispatcher(t, &sequenceSource{values: []int{3}})

	got := d.Generate("Thank you so much")
	if got.Topic != TopicThanks {
		t.Fatalf("expected thanks, got %s", got.Topic)
	}
	if got.Content != kb.Thanks.Variants[3] {
		t.Fatalf("unexpected thanks content %q", got.Content)
	}
	if got.Suggestions != nil {
		t.Fatalf("expected no suggestions, got %v", got.Suggestions)
	}
}

func TestGeneratePriority(t *testing.T) {
	t.Parallel()

	d, _ := mustDispatcher(t, NewSource(1))

	tests := []struct {
		input string
		topic string
	}{
		// resume is checked before interview regardless of position or length
		{input: "resume or interview?", topic: "resume"},
		{input: "prepare me for an interview about my resume", topic: "resume"},
		{input: "cv and technical interview", topic: "resume"},
		// chitchat runs before any topic
		{input: "Hello, help me with my resume", topic: TopicGreeting},
		{input: "thanks for the resume help", topic: TopicThanks},
		{input: "can you help with salary?", topic: TopicHelp},
		// keywords match inside words
		{input: "Is this a good job?", topic: TopicGreeting},
		{input: "summer internship", topic: TopicGreeting},
		{input: "intern salary", topic: "salary"},
	}

	for _, tt := range tests {
		if got := d.Generate(tt.input); got.Topic != tt.topic {
			t.Fatalf("input %q: expected topic %s, got %s", tt.input, tt.topic, got.Topic)
		}
	}
}

func TestGenerateIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	d, _ := mustDispatcher(t, NewSource(1))

	want := d.Generate("resume tips")
	for _, input := range []string{"RESUME TIPS", "ReSuMe TiPs", "  resume tips  "} {
		if diff := cmp.Diff(want, d.Generate(input)); diff != "" {
			t.Fatalf("input %q resolved differently (-want +got):\n%s", input, diff)
		}
	}

	if want.Topic != "resume" || want.Variant != "general" {
		t.Fatalf("expected resume/general, got %s/%s", want.Topic, want.Variant)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	t.Parallel()

	d, _ := mustDispatcher(t, NewSource(1))

	for _, input := range []string{"career planning", "How do I get a referral?", "xyzzy plugh"} {
		first := d.Generate(input)
		second := d.Generate(input)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("input %q is not idempotent (-first +second):\n%s", input, diff)
		}
	}
}

func TestGenerateReturnsIsolatedSuggestions(t *testing.T) {
	t.Parallel()

	d, _ := mustDispatcher(t, NewSource(1))

	got := d.Generate("career planning")
	got.Suggestions[0] = "mutated"

	if again := d.Generate("career planning"); again.Suggestions[0] == "mutated" {
		t.Fatalf("mutating a response leaked into the table")
	}
}

func TestGenerateConcurrent(t *testing.T) {
	t.Parallel()

	d, _ := mustDispatcher(t, NewSource(42))

	inputs := []string{"hello", "resume format", "technical interview", "salary", "xyzzy", "thanks"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := d.Generate(inputs[(worker+j)%len(inputs)])
				if got.Content == "" {
					t.Errorf("worker %d: empty content", worker)
					return
				}
				_ = d.RandomSuggestions()
			}
		}(i)
	}
	wg.Wait()
}

func TestRandomSuggestions(t *testing.T) {
	t.Parallel()

	d, kb := mustDispatcher(t, NewSeededSource("suggestions"))
	pool := slices.Clone(kb.Prompts.Items)

	for i := 0; i < 100; i++ {
		got := d.RandomSuggestions()
		if len(got) != 4 {
			t.Fatalf("expected 4 suggestions, got %d", len(got))
		}

		seen := map[string]bool{}
		for _, s := range got {
			if !slices.Contains(pool, s) {
				t.Fatalf("suggestion %q is not from the pool", s)
			}
			if seen[s] {
				t.Fatalf("duplicate suggestion %q in %v", s, got)
			}
			seen[s] = true
		}
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	d, kb := mustDispatcher(t, NewSource(1))

	statuses := d.Describe()

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.Name)
	}

	expected := append([]string{TopicGreeting, TopicThanks, TopicHelp}, kb.TopicNames()...)
	if diff := cmp.Diff(expected, names); diff != "" {
		t.Fatalf("unexpected rule order (-want +got):\n%s", diff)
	}

	expectedTopics := []string{"resume", "interview", "jobSearch", "career", "placement", "skills", "networking", "salary", "internship"}
	if diff := cmp.Diff(expectedTopics, kb.TopicNames()); diff != "" {
		t.Fatalf("unexpected topic order (-want +got):\n%s", diff)
	}

	resume := statuses[3]
	if resume.Kind != KindTopic {
		t.Fatalf("expected topic kind, got %s", resume.Kind)
	}
	if diff := cmp.Diff([]string{"skills", "format", "general"}, resume.Variants); diff != "" {
		t.Fatalf("unexpected resume variants (-want +got):\n%s", diff)
	}
	if statuses[0].Kind != KindChitchat || statuses[2].Kind != KindReply {
		t.Fatalf("unexpected kinds: %s, %s", statuses[0].Kind, statuses[2].Kind)
	}
}

func TestNewWithCustomTable(t *testing.T) {
	t.Parallel()

	kb := testKnowledge()
	d, err := New(kb, &sequenceSource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		input   string
		topic   string
		variant string
		content string
	}{
		{input: "yo", topic: TopicGreeting, content: "hey you"},
		{input: "cheers", topic: TopicThanks, content: "any time"},
		{input: "menu", topic: TopicHelp, content: "help menu"},
		{input: "Go CONCURRENCY", topic: "golang", variant: "concurrency", content: "use channels"},
		{input: "go modules", topic: "golang", variant: "general", content: "read the docs"},
		{input: "rust", topic: TopicFallback, content: "no idea"},
	}

	for _, tt := range tests {
		got := d.Generate(tt.input)
		if got.Topic != tt.topic || got.Variant != tt.variant || got.Content != tt.content {
			t.Fatalf("input %q: unexpected response %+v", tt.input, got)
		}
	}
}

func TestNewRejectsInvalidTable(t *testing.T) {
	t.Parallel()

	kb := testKnowledge()
	kb.Topics[0].Keywords = nil

	if _, err := New(kb, nil); err == nil {
		t.Fatalf("expected error for topic without keywords")
	}
}

func testKnowledge() *KnowledgeBase {
	return &KnowledgeBase{
		Greeting: Chitchat{Keywords: []string{"yo"}, Variants: []string{"hey you"}},
		Thanks:   Chitchat{Keywords: []string{"cheers"}, Variants: []string{"any time"}},
		Help:     Reply{Keywords: []string{"menu"}, Content: "help menu"},
		Topics: []Topic{
			{
				Name:     "golang",
				Keywords: []string{"go"},
				Variants: []Variant{
					{Name: "concurrency", Keywords: []string{"Concurrency", "goroutine"}, Content: "use channels"},
					{Name: "general", Content: "read the docs"},
				},
			},
		},
		Fallback: Reply{Content: "no idea"},
		Prompts:  PromptPool{Size: 2, Items: []string{"a", "b", "c"}},
	}
}

func ExampleDispatcher_Generate() {
	kb, err := DefaultKnowledge()
	if err != nil {
		panic(err)
	}

	d, err := New(kb, NewSource(1))
	if err != nil {
		panic(err)
	}

	resp := d.Generate("What should I expect in a technical interview?")
	fmt.Println(resp.Topic, resp.Variant)
	fmt.Println(resp.Suggestions)
	// Output:
	// interview technical
	// [Behavioral interview tips How to handle interview nerves? Questions to ask interviewer]
}
