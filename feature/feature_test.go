package feature

import (
	"strings"
	"testing"
)

func TestIsNumber(t *testing.T) {
	testCases := map[string]bool{
		"75.54":  true,
		"1,000":  true,
		"0800-1": true,
		"$99.95": false,
		"75b":    false,
		"":       false,
	}
	for word, expected := range testCases {
		if got := IsNumber(word); got != expected {
			t.Errorf("IsNumber(%q) = %v, want %v", word, got, expected)
		}
	}
}

func TestIsMoney(t *testing.T) {
	testCases := map[string]bool{
		"$$$":     true,
		"£1000":   true,
		"75bucks": false,
		"":        false,
	}
	for word, expected := range testCases {
		if got := IsMoney(word); got != expected {
			t.Errorf("IsMoney(%q) = %v, want %v", word, got, expected)
		}
	}
}

func TestIsURL(t *testing.T) {
	testCases := map[string]bool{
		"cs.jhu.edu":  true,
		"www.win.com": true,
		"my...friend": false,
		"a..b":        false,
		"hello":       false,
	}
	for word, expected := range testCases {
		if got := IsURL(word); got != expected {
			t.Errorf("IsURL(%q) = %v, want %v", word, got, expected)
		}
	}
}

func TestHash(t *testing.T) {
	testCases := []struct {
		word     string
		expected int
	}{
		{"hello", 99162322},
		{"free", 3151468},
		// overflows int32 before masking
		{"winner", 17563711},
		{"£", 163},
		{"", 0},
	}
	for _, tc := range testCases {
		if got := Hash(tc.word); got != tc.expected {
			t.Errorf("Hash(%q) = %d, want %d", tc.word, got, tc.expected)
		}
	}
}

func TestBucket(t *testing.T) {
	testCases := []struct {
		word     string
		expected int
	}{
		{"75.54", NumberBucket},
		{"$99.95", MoneyBucket},
		{"cs.jhu.edu", URLBucket},
		{"hello", 705},
		{"Hello", 110},
		{"call", 150},
		{"winner", 562},
	}
	for _, tc := range testCases {
		if got := Bucket(tc.word); got != tc.expected {
			t.Errorf("Bucket(%q) = %d, want %d", tc.word, got, tc.expected)
		}
	}
}

func TestBucketRange(t *testing.T) {
	words := strings.Fields("a quick brown fox jumps over the lazy dog ÆØÅ 😀 zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")
	for _, w := range words {
		id := Bucket(w)
		if id < hashOffset || id >= Buckets {
			t.Errorf("Bucket(%q) = %d, out of hashed range", w, id)
		}
	}
}

type upperStemmer struct{ calls int }

func (s *upperStemmer) Stem(word string) string {
	s.calls++
	return strings.ToUpper(word)
}

func TestBucketer(t *testing.T) {
	stemmer := &upperStemmer{}
	b, err := NewBucketer(16, stemmer)
	if err != nil {
		t.Fatalf("NewBucketer() error = %v", err)
	}

	if got := b.Bucket("hello"); got != Bucket("HELLO") {
		t.Errorf("Bucket(hello) = %d, want stemmed bucket %d", got, Bucket("HELLO"))
	}
	b.Bucket("hello")
	if stemmer.calls != 1 {
		t.Errorf("stemmer called %d times, want 1", stemmer.calls)
	}

	if got := b.Bucket("$5"); got != MoneyBucket {
		t.Errorf("Bucket($5) = %d, want %d", got, MoneyBucket)
	}
	if stemmer.calls != 1 {
		t.Errorf("money word was stemmed")
	}
}

func TestBucketerWithoutCache(t *testing.T) {
	b, err := NewBucketer(0, nil)
	if err != nil {
		t.Fatalf("NewBucketer() error = %v", err)
	}
	if got := b.Bucket("hello"); got != 705 {
		t.Errorf("Bucket(hello) = %d, want 705", got)
	}

	var nilBucketer *Bucketer
	if got := nilBucketer.Bucket("cs.jhu.edu"); got != URLBucket {
		t.Errorf("nil Bucketer Bucket() = %d, want %d", got, URLBucket)
	}
}
