// Package corpus loads word lists from plain text or HTML files.
package corpus

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/deanrtaylor1/gospam/lexer"
)

// LoadWords reads every whitespace separated word from filename, in file
// order. HTML files contribute only their text content.
func LoadWords(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "loading words from %s", filename)
	}
	defer f.Close()

	if isHTML(filename) {
		content, err := io.ReadAll(f)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", filename)
		}
		return ReadWords(strings.NewReader(lexer.ParseHtmlTextContent(string(content))))
	}

	words, err := ReadWords(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return words, nil
}

// ReadWords splits r into whitespace separated words, NFC-normalizing each
// one. Line length is unbounded; a single word may be at most 1 MiB.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words = append(words, norm.NFC.String(scanner.Text()))
	}
	return words, scanner.Err()
}

// LoadStopWords reads a stop-word file into a set
func LoadStopWords(filename string) (lexer.StopWords, error) {
	words, err := LoadWords(filename)
	if err != nil {
		return nil, err
	}
	return lexer.NewStopWords(words), nil
}

func isHTML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return true
	}
	return false
}
