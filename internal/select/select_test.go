package selecter

import (
	"testing"

	"github.com/theodore-ai/theodore/internal/model"
)

func newSetFromURLs(urls []string) *model.CandidateSet {
	set := model.NewCandidateSet()
	for _, u := range urls {
		set.Add(u, model.SourceRecursive)
	}
	return set
}

func TestSelect_RanksKeywordMatchesFirst(t *testing.T) {
	set := newSetFromURLs([]string{
		"https://acme.example/blog/random-post",
		"https://acme.example/about",
		"https://acme.example/leadership",
		"https://acme.example/random",
	})
	out := Select(set)
	if len(out) == 0 {
		t.Fatalf("expected at least one selected URL")
	}
	if out[0] != "https://acme.example/about" && out[0] != "https://acme.example/leadership" {
		t.Fatalf("expected a keyword-matching URL to rank first, got %q", out[0])
	}
}

func TestSelect_CapsAtMaxSelected(t *testing.T) {
	urls := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		urls = append(urls, "https://acme.example/about/"+string(rune('a'+i%26)))
	}
	out := Select(newSetFromURLs(urls))
	if len(out) > MaxSelected {
		t.Fatalf("expected at most %d urls, got %d", MaxSelected, len(out))
	}
}

func TestSelect_PreservesSourcePriorityOnTies(t *testing.T) {
	set := model.NewCandidateSet()
	set.Add("https://acme.example/random-b", model.SourceRecursive)
	set.Add("https://acme.example/random-a", model.SourceRecursive)
	out := Select(set)
	if len(out) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(out))
	}
	if out[0] != "https://acme.example/random-b" {
		t.Fatalf("expected original add order preserved on score ties, got %v", out)
	}
}
