package chatbot

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// sequenceSource replays values modulo n.
type sequenceSource struct {
	values []int
	calls  int
}

func (s *sequenceSource) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.calls%len(s.values)] % n
	s.calls++
	return v
}

// lastSource always picks the highest allowed value.
type lastSource struct{}

func (lastSource) Intn(n int) int { return n - 1 }

func mustDefaultKnowledge(t *testing.T) *KnowledgeBase {
	t.Helper()

	kb, err := DefaultKnowledge()
	if err != nil {
		t.Fatalf("loading default knowledge: %v", err)
	}
	return kb
}

func mustDispatcher(t *testing.T, src Source) (*Dispatcher, *KnowledgeBase) {
	t.Helper()

	kb := mustDefaultKnowledge(t)
	d, err := New(kb, src)
	if err != nil {
		t.Fatalf("creating dispatcher: %v", err)
	}
	return d, kb
}

func findVariant(t *testing.T, kb *KnowledgeBase, topic, variant string) Variant {
	t.Helper()

	for _, tp := range kb.Topics {
		if tp.Name != topic {
			continue
		}
		for _, v := range tp.Variants {
			if v.Name == variant {
				return v
			}
		}
	}
	t.Fatalf("variant %s/%s not found", topic, variant)
	return Variant{}
}
