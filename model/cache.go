package model

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/deanrtaylor1/gospam/feature"
	"github.com/deanrtaylor1/gospam/histogram"
	"github.com/deanrtaylor1/gospam/lexer"
)

var (
	// ErrMalformedModel is returned when a model file does not hold two
	// histograms of feature.Buckets non-negative counts
	ErrMalformedModel = errors.New("malformed model")
	// ErrStemMismatch is returned when a model was trained with a different
	// stemming setting than the one it is loaded with
	ErrStemMismatch = errors.New("model stemming differs from settings")
)

type FileOps interface {
	MkdirAll(dirName string, perm os.FileMode) error
	CompressAndWriteGzipFile(filename string, data interface{}, dirName string) error
}

type FileOpsImpl struct{}

func (f FileOpsImpl) MkdirAll(dirName string, perm os.FileMode) error {
	return os.MkdirAll(dirName, perm)
}

func (f FileOpsImpl) CompressAndWriteGzipFile(filename string, data interface{}, dirName string) error {
	return CompressAndWriteGzipFile(filename, data, dirName)
}

type FileOpsNoOp struct{}

func (f FileOpsNoOp) MkdirAll(dirName string, perm os.FileMode) error {
	return nil
}

func (f FileOpsNoOp) CompressAndWriteGzipFile(filename string, data interface{}, dirName string) error {
	return nil
}

// snapshot is the on-disk form of a Model
type snapshot struct {
	Spam      histogram.Histogram
	Ham       histogram.Histogram
	StopWords []string
	Stemmed   bool
}

// Save writes the model to path as gzip-compressed gob
func (m *Model) Save(path string, ops FileOps) error {
	snap := snapshot{
		Spam:    m.spam,
		Ham:     m.ham,
		Stemmed: m.stemmed,
	}
	for w := range m.stops {
		snap.StopWords = append(snap.StopWords, w)
	}

	dirName, fileName := filepath.Split(path)
	if dirName == "" {
		dirName = "."
	}
	if err := ops.MkdirAll(dirName, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dirName)
	}
	if err := ops.CompressAndWriteGzipFile(fileName, snap, dirName); err != nil {
		return errors.Wrapf(err, "saving model to %s", path)
	}
	m.log.Info("model saved", zap.String("path", path))
	return nil
}

// Load reads a model written by Save. The stop words stored with the model
// are used; opts supplies the bucketer and logger.
func Load(path string, opts Options) (*Model, error) {
	compressedData, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading model %s", path)
	}

	gzipReader, err := gzip.NewReader(bytes.NewReader(compressedData))
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing model %s", path)
	}
	defer gzipReader.Close()

	var snap snapshot
	if err := gob.NewDecoder(gzipReader).Decode(&snap); err != nil {
		return nil, errors.Wrapf(err, "decoding model %s", path)
	}

	if err := validHistogram(snap.Spam); err != nil {
		return nil, errors.Wrapf(err, "spam histogram in %s", path)
	}
	if err := validHistogram(snap.Ham); err != nil {
		return nil, errors.Wrapf(err, "ham histogram in %s", path)
	}
	if snap.Stemmed != opts.Stemmed {
		return nil, errors.Wrapf(ErrStemMismatch, "%s has stemmed=%t, settings have stemmed=%t",
			path, snap.Stemmed, opts.Stemmed)
	}

	m := newModel(lexer.NewStopWords(snap.StopWords), opts)
	m.spam = snap.Spam
	m.ham = snap.Ham
	if err := m.normalize(); err != nil {
		return nil, errors.Wrapf(err, "loading model %s", path)
	}
	m.log.Info("model loaded", zap.String("path", path))
	return m, nil
}

func validHistogram(h histogram.Histogram) error {
	if len(h) != feature.Buckets {
		return errors.Wrapf(ErrMalformedModel, "%d buckets, want %d", len(h), feature.Buckets)
	}
	for i, c := range h {
		if c < 0 {
			return errors.Wrapf(ErrMalformedModel, "bucket %d has negative count %d", i, c)
		}
	}
	return nil
}

// CompressAndWriteGzipFile gob-encodes data, compresses it and writes it to dirName/fileName
func CompressAndWriteGzipFile(fileName string, data interface{}, dirName string) error {
	var compressedData bytes.Buffer
	gzipWriter := gzip.NewWriter(&compressedData)

	encoder := gob.NewEncoder(gzipWriter)
	if err := encoder.Encode(data); err != nil {
		return errors.Wrap(err, "encoding model")
	}

	if err := gzipWriter.Close(); err != nil {
		return errors.Wrap(err, "closing gzip writer")
	}

	if err := os.WriteFile(filepath.Join(dirName, fileName), compressedData.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "writing compressed model to disk")
	}

	return nil
}
