// Package feature maps sanitized words onto histogram buckets.
//
// Buckets 0, 1 and 2 are reserved for numbers, money and URLs. Every other
// word is hashed into one of the remaining 997 buckets.
package feature

import (
	"strings"
	"unicode"
	"unicode/utf16"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// Buckets is the number of histogram slots
	Buckets = 1000

	NumberBucket = 0
	MoneyBucket  = 1
	URLBucket    = 2

	hashBuckets = 997
	hashOffset  = 3
	hashMask    = 0xfffffff
)

// IsNumber reports whether word consists only of digits and . , - separators
func IsNumber(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '.' && r != ',' && r != '-' {
			return false
		}
	}
	return true
}

// IsMoney reports whether word contains a currency sign
func IsMoney(word string) bool {
	return strings.ContainsAny(word, "$£")
}

// IsURL reports whether word contains a dot and never two dots in a row
func IsURL(word string) bool {
	return strings.Contains(word, ".") && !strings.Contains(word, "..")
}

// Hash is the Java String.hashCode of word masked to 28 bits
func Hash(word string) int {
	var h int32
	for _, c := range utf16.Encode([]rune(word)) {
		h = 31*h + int32(c)
	}
	return int(h & hashMask)
}

// Bucket returns the histogram bucket for a sanitized word. The first
// matching rule wins.
func Bucket(word string) int {
	switch {
	case IsNumber(word):
		return NumberBucket
	case IsMoney(word):
		return MoneyBucket
	case IsURL(word):
		return URLBucket
	default:
		return hashBucket(word)
	}
}

func hashBucket(word string) int {
	return Hash(word)%hashBuckets + hashOffset
}

// Stemmer reduces a word to its stem
type Stemmer interface {
	Stem(word string) string
}

// Bucketer assigns buckets with an optional stemming step for hashed
// words, remembering recent assignments.
type Bucketer struct {
	stemmer Stemmer
	cache   *lru.Cache[string, int]
}

// NewBucketer creates a Bucketer. A cacheSize <= 0 disables the cache and a
// nil stemmer hashes words as they are.
func NewBucketer(cacheSize int, stemmer Stemmer) (*Bucketer, error) {
	b := &Bucketer{stemmer: stemmer}
	if cacheSize > 0 {
		cache, err := lru.New[string, int](cacheSize)
		if err != nil {
			return nil, err
		}
		b.cache = cache
	}
	return b, nil
}

// Bucket returns the bucket of word. Safe for concurrent use when the
// stemmer is.
func (b *Bucketer) Bucket(word string) int {
	if b == nil {
		return Bucket(word)
	}
	if b.cache != nil {
		if id, ok := b.cache.Get(word); ok {
			return id
		}
	}

	id := Bucket(word)
	if id >= hashOffset && b.stemmer != nil {
		id = hashBucket(b.stemmer.Stem(word))
	}

	if b.cache != nil {
		b.cache.Add(word, id)
	}
	return id
}
