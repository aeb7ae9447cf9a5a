package model

import "testing"

func TestNormalizeURL_Idempotent(t *testing.T) {
	in := "https://Example.com:443/a//b/?x=1#frag"
	first, err := NormalizeURL(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	second, err := NormalizeURL(first)
	if err != nil {
		t.Fatalf("normalize twice: %v", err)
	}
	if first != second {
		t.Fatalf("not idempotent: %q != %q", first, second)
	}
}

func TestNormalizeURL_LowercasesHostAndDropsDefaultPort(t *testing.T) {
	got, err := NormalizeURL("HTTPS://Example.COM:443/path")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := "https://example.com/path"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNormalizeURL_CollapsesSlashesAndDropsFragment(t *testing.T) {
	got, err := NormalizeURL("https://example.com//a///b#section")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := "https://example.com/a/b"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSameRegistrableDomain(t *testing.T) {
	if !SameRegistrableDomain("www.example.com", "blog.example.com") {
		t.Fatalf("expected same registrable domain")
	}
	if SameRegistrableDomain("example.com", "example.org") {
		t.Fatalf("expected different registrable domains")
	}
}
