package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/deanrtaylor1/gospam/feature"
	"github.com/deanrtaylor1/gospam/histogram"
	"github.com/deanrtaylor1/gospam/lexer"
)

// ErrUnknownClass is returned when a class name is neither spam nor ham
var ErrUnknownClass = errors.New("unknown class")

// Class is the label assigned to a message
type Class int

const (
	Spam Class = iota
	Ham
)

func (c Class) String() string {
	if c == Ham {
		return "HAM"
	}
	return "SPAM"
}

// ParseClass accepts "spam" or "ham" in any case
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spam":
		return Spam, nil
	case "ham":
		return Ham, nil
	}
	return Spam, errors.Wrapf(ErrUnknownClass, "%q", s)
}

// Result is the outcome of classifying one message
type Result struct {
	SMS   string
	Score float64
	Class Class
}

// Options tune how words are bucketed and where diagnostics go
type Options struct {
	// Bucketer assigns buckets; nil uses feature.Bucket directly
	Bucketer *feature.Bucketer
	// Stemmed records whether Bucketer stems words
	Stemmed bool
	Logger  *zap.Logger
}

// Model holds the spam and ham histograms. It is read-only after Train or
// Load and safe for concurrent use.
type Model struct {
	spam     histogram.Histogram
	ham      histogram.Histogram
	spamNorm histogram.Normalized
	hamNorm  histogram.Normalized
	stops    lexer.StopWords
	stemmed  bool
	bucketer *feature.Bucketer
	log      *zap.Logger
}

// Train sanitizes both corpora and builds their normalized histograms
func Train(spamWords, hamWords []string, stops lexer.StopWords, opts Options) (*Model, error) {
	m := newModel(stops, opts)

	m.spam = histogram.Build(lexer.NewLexer(spamWords, stops).Words(), m.bucketer.Bucket)
	m.ham = histogram.Build(lexer.NewLexer(hamWords, stops).Words(), m.bucketer.Bucket)
	if err := m.normalize(); err != nil {
		return nil, err
	}

	m.log.Info("model trained",
		zap.Int("spam_words", m.spam.Total()),
		zap.Int("ham_words", m.ham.Total()),
		zap.Int("stop_words", len(stops)),
		zap.Bool("stemmed", m.stemmed))
	return m, nil
}

func newModel(stops lexer.StopWords, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		stops:    stops,
		stemmed:  opts.Stemmed,
		bucketer: opts.Bucketer,
		log:      log,
	}
}

func (m *Model) normalize() error {
	var err error
	if m.spamNorm, err = histogram.Normalize(m.spam); err != nil {
		return errors.Wrap(err, "normalizing spam histogram")
	}
	if m.hamNorm, err = histogram.Normalize(m.ham); err != nil {
		return errors.Wrap(err, "normalizing ham histogram")
	}
	return nil
}

// Score sums log(ham/spam) bucket weights over the sanitized words of sms.
// Positive scores lean ham. A bucket that is zero in one class yields an
// infinite or NaN score.
func (m *Model) Score(sms string) float64 {
	total := 0.0
	for _, word := range lexer.NewMessageLexer(sms, m.stops).Words() {
		id := m.bucketer.Bucket(word)
		total += math.Log(m.hamNorm[id] / m.spamNorm[id])
	}
	if math.IsInf(total, 0) || math.IsNaN(total) {
		m.log.Warn("non-finite score", zap.String("sms", sms), zap.Float64("score", total))
	}
	return total
}

// Classify scores sms and labels it HAM when the score is positive
func (m *Model) Classify(sms string) Result {
	score := m.Score(sms)
	class := Spam
	if score > 0 {
		class = Ham
	}
	m.log.Debug("classified", zap.String("sms", sms), zap.Float64("score", score), zap.Stringer("class", class))
	return Result{SMS: sms, Score: score, Class: class}
}

// Histogram returns a copy of the smoothed counts for class c
func (m *Model) Histogram(c Class) histogram.Histogram {
	src := m.spam
	if c == Ham {
		src = m.ham
	}
	return append(histogram.Histogram(nil), src...)
}

// Weights returns a copy of the normalized histogram for class c
func (m *Model) Weights(c Class) histogram.Normalized {
	src := m.spamNorm
	if c == Ham {
		src = m.hamNorm
	}
	return append(histogram.Normalized(nil), src...)
}

// Stemmed reports whether the model was trained with stemming
func (m *Model) Stemmed() bool {
	return m.stemmed
}

func (r Result) String() string {
	return fmt.Sprintf("SMS: %s\nscore: %v\nclass: %s", r.SMS, r.Score, r.Class)
}
