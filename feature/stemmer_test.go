package feature

import (
	"testing"

	"github.com/deanrtaylor1/gospam/lexer"
)

func TestBucketerWithSnowballStemmer(t *testing.T) {
	stemmer, err := lexer.NewStemmer()
	if err != nil {
		t.Fatalf("NewStemmer() error = %v", err)
	}
	defer stemmer.Close()

	b, err := NewBucketer(16, stemmer)
	if err != nil {
		t.Fatalf("NewBucketer() error = %v", err)
	}

	if got, want := b.Bucket("claiming"), Bucket("claim"); got != want {
		t.Errorf("Bucket(claiming) = %d, want %d", got, want)
	}
	if got, want := b.Bucket("Winners"), Bucket("winner"); got != want {
		t.Errorf("Bucket(Winners) = %d, want %d", got, want)
	}
	if got := b.Bucket("www.claiming.com"); got != URLBucket {
		t.Errorf("Bucket(www.claiming.com) = %d, want %d", got, URLBucket)
	}
	if got := b.Bucket("1,000"); got != NumberBucket {
		t.Errorf("Bucket(1,000) = %d, want %d", got, NumberBucket)
	}
}
