package lexer

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/tebeka/snowball"
)

// ErrNoMoreTokens is returned by Next once every word has been consumed
var ErrNoMoreTokens = errors.New("no more tokens")

var (
	// LeftTrimChars are stripped from the start of every word
	LeftTrimChars = []rune{'.', '(', '"', '\''}
	// RightTrimChars are stripped from the end of every word
	RightTrimChars = []rune{',', '.', '"', '!', ':', ')', '\''}
)

// StopWords is a set of words excluded from scoring
type StopWords map[string]struct{}

// NewStopWords builds a stop-word set from a word list
func NewStopWords(words []string) StopWords {
	stops := make(StopWords, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		stops[w] = struct{}{}
	}
	return stops
}

// Contains reports whether word is a stop word
func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Lexer yields sanitized words from a raw word list
type Lexer struct {
	words []string
	stops StopWords
}

// NewLexer creates a new Lexer over words. stops may be nil.
func NewLexer(words []string, stops StopWords) *Lexer {
	return &Lexer{words: words, stops: stops}
}

// NewMessageLexer splits text on whitespace and returns a Lexer over the pieces
func NewMessageLexer(text string, stops StopWords) *Lexer {
	return NewLexer(Tokenize(text), stops)
}

// Next returns the next sanitized word, skipping empties and stop words
func (l *Lexer) Next() (string, error) {
	for len(l.words) > 0 {
		word := Sanitize(l.words[0])
		l.words = l.words[1:]
		if word == "" || l.stops.Contains(word) {
			continue
		}
		return word, nil
	}
	return "", ErrNoMoreTokens
}

// Words drains the lexer and returns all remaining sanitized words in order
func (l *Lexer) Words() []string {
	var out []string
	for {
		word, err := l.Next()
		if err != nil {
			return out
		}
		out = append(out, word)
	}
}

// Tokenize splits text on runs of whitespace
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Sanitize strips boundary punctuation from both ends of word
func Sanitize(word string) string {
	return TrimRight(TrimLeft(word, LeftTrimChars), RightTrimChars)
}

// TrimLeft removes leading runes found in trimChars until none remain
func TrimLeft(word string, trimChars []rune) string {
	runes := []rune(word)
	for len(runes) > 0 && containsRune(trimChars, runes[0]) {
		runes = runes[1:]
	}
	return string(runes)
}

// TrimRight removes trailing runes found in trimChars until none remain
func TrimRight(word string, trimChars []rune) string {
	return Reverse(TrimLeft(Reverse(word), trimChars))
}

// Reverse returns word with its runes in reverse order
func Reverse(word string) string {
	runes := []rune(word)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func containsRune(set []rune, r rune) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}

// Stemmer reduces English words to their stem. Safe for concurrent use.
type Stemmer struct {
	mu      sync.Mutex
	stemmer *snowball.Stemmer
}

// NewStemmer creates an English snowball stemmer. Close must be called when done.
func NewStemmer() (*Stemmer, error) {
	s, err := snowball.New("english")
	if err != nil {
		return nil, err
	}
	return &Stemmer{stemmer: s}, nil
}

// Stem lowercases and stems word
func (s *Stemmer) Stem(word string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stemmer.Stem(strings.ToLower(word))
}

// Close releases the underlying stemmer
func (s *Stemmer) Close() {
	s.stemmer.Close()
}

// ParseHtmlTextContent parses a html string and returns the text of the document
func ParseHtmlTextContent(htmlContent string) string {
	var content strings.Builder

	d := html.NewTokenizer(strings.NewReader(htmlContent))
	skip := false
	for {
		tt := d.Next()
		switch tt {
		case html.ErrorToken:
			return content.String()
		case html.StartTagToken:
			name, _ := d.TagName()
			skip = string(name) == "script" || string(name) == "style"
		case html.EndTagToken:
			skip = false
		case html.TextToken:
			if skip {
				continue
			}
			content.Write(d.Text())
			content.WriteByte(' ')
		}
	}
}
