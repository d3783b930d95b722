package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deanrtaylor1/gospam/feature"
	"github.com/deanrtaylor1/gospam/histogram"
	"github.com/deanrtaylor1/gospam/model"
)

const (
	maxBodyBytes = 64 * 1024
	defaultTop   = 10
)

type ClassifyResponse struct {
	Message string `json:"message"`
	SMS     string `json:"sms"`
	// Score is omitted when it is infinite or NaN; ScoreText always carries it
	Score     *float64 `json:"score,omitempty"`
	ScoreText string   `json:"score_text"`
	Class     string   `json:"class"`
}

type BucketStat struct {
	Bucket int     `json:"bucket"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

type BucketsResponse struct {
	Message string       `json:"message"`
	Class   string       `json:"class"`
	Data    []BucketStat `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// NewClassifyResponse converts a classification result into its JSON form
func NewClassifyResponse(r model.Result, elapsed time.Duration) ClassifyResponse {
	resp := ClassifyResponse{
		Message:   fmt.Sprintf("Classified in %d µs", elapsed.Microseconds()),
		SMS:       r.SMS,
		ScoreText: strconv.FormatFloat(r.Score, 'g', -1, 64),
		Class:     r.Class.String(),
	}
	if !math.IsInf(r.Score, 0) && !math.IsNaN(r.Score) {
		score := r.Score
		resp.Score = &score
	}
	return resp
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v interface{}) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		log.Error("unable to marshal json", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonBytes); err != nil {
		log.Warn("writing response", zap.Error(err))
	}
}

// Server route to classify the request body as one SMS
func handleApiClassify(w http.ResponseWriter, r *http.Request, m *model.Model, log *zap.Logger) {
	start := time.Now()
	requestBodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, log, http.StatusRequestEntityTooLarge, errorResponse{
				Message: fmt.Sprintf("Message larger than %d bytes", maxBodyBytes),
			})
			return
		}
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Message: "Unable to read body"})
		return
	}

	sms := strings.TrimSpace(string(requestBodyBytes))
	if sms == "" {
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Message: "Empty message"})
		return
	}

	result := m.Classify(sms)
	writeJSON(w, log, http.StatusOK, NewClassifyResponse(result, time.Since(start)))
}

// Server route to list the heaviest buckets of one class
func handleApiBuckets(w http.ResponseWriter, r *http.Request, m *model.Model, log *zap.Logger) {
	query := r.URL.Query()

	class := model.Spam
	if name := query.Get("class"); name != "" {
		c, err := model.ParseClass(name)
		if err != nil {
			writeJSON(w, log, http.StatusBadRequest, errorResponse{Message: err.Error()})
			return
		}
		class = c
	}

	top := defaultTop
	if raw := query.Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > feature.Buckets {
			writeJSON(w, log, http.StatusBadRequest, errorResponse{Message: "top must be between 1 and 1000"})
			return
		}
		top = n
	}

	weights := m.Weights(class)
	stats := histogram.Top(m.Histogram(class), top)
	data := make([]BucketStat, 0, len(stats))
	for _, s := range stats {
		data = append(data, BucketStat{Bucket: s.Bucket, Count: s.Count, Weight: weights[s.Bucket]})
	}

	writeJSON(w, log, http.StatusOK, BucketsResponse{
		Message: fmt.Sprintf("Top %d buckets", len(data)),
		Class:   class.String(),
		Data:    data,
	})
}

// Route handler
func handleRequests(m *model.Model, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/classify":
			handleApiClassify(w, r, m, log)
		case r.Method == http.MethodGet && r.URL.Path == "/api/buckets":
			handleApiBuckets(w, r, m, log)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "404 Not Found")
		}
	}
}

// Handler returns the HTTP API for m
func Handler(m *model.Model, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return handleRequests(m, log)
}

// Serve listens on addr until the server fails
func Serve(addr string, m *model.Model, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(m, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}
