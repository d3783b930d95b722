package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deanrtaylor1/gospam/lexer"
	"github.com/deanrtaylor1/gospam/model"
)

func testModel(t *testing.T) *model.Model {
	t.Helper()
	spam := strings.Fields("WINNER! Claim your FREE prize now. Call 09061701461 to claim £1000 cash prize")
	ham := strings.Fields("are we still on for lunch? I will call you when I get home, see you soon")
	m, err := model.Train(spam, ham, lexer.NewStopWords([]string{"to", "you", "I"}), model.Options{})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return m
}

func TestClassify(t *testing.T) {
	m := testModel(t)
	handler := Handler(m, nil)

	sms := "Claim your prize now"
	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(sms))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp ClassifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	expected := m.Classify(sms)
	if resp.Class != expected.Class.String() {
		t.Errorf("class = %s, want %s", resp.Class, expected.Class)
	}
	if resp.SMS != sms {
		t.Errorf("sms = %q, want %q", resp.SMS, sms)
	}
}

func TestClassifyEmptyBody(t *testing.T) {
	handler := Handler(testModel(t), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader("   "))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNewClassifyResponseNonFinite(t *testing.T) {
	resp := NewClassifyResponse(model.Result{SMS: "x", Score: math.Inf(1), Class: model.Ham}, time.Millisecond)
	if resp.Score != nil {
		t.Errorf("Score = %v, want nil", *resp.Score)
	}
	if resp.ScoreText != "+Inf" {
		t.Errorf("ScoreText = %q, want +Inf", resp.ScoreText)
	}
	if _, err := json.Marshal(resp); err != nil {
		t.Errorf("Marshal() error = %v", err)
	}

	resp = NewClassifyResponse(model.Result{SMS: "x", Score: -1.5, Class: model.Spam}, time.Millisecond)
	if resp.Score == nil || *resp.Score != -1.5 {
		t.Errorf("Score = %v, want -1.5", resp.Score)
	}
}

func TestBuckets(t *testing.T) {
	handler := Handler(testModel(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/buckets?class=ham&top=3", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp BucketsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Class != "HAM" {
		t.Errorf("class = %s, want HAM", resp.Class)
	}
	if len(resp.Data) != 3 {
		t.Fatalf("len(data) = %d, want 3", len(resp.Data))
	}
	for i := 1; i < len(resp.Data); i++ {
		if resp.Data[i].Count > resp.Data[i-1].Count {
			t.Errorf("data not sorted by count: %+v", resp.Data)
		}
	}
}

func TestBucketsBadParams(t *testing.T) {
	handler := Handler(testModel(t), nil)

	for _, target := range []string{"/api/buckets?class=eggs", "/api/buckets?top=0", "/api/buckets?top=abc"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestNotFound(t *testing.T) {
	handler := Handler(testModel(t), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestClassifyBodyTooLarge(t *testing.T) {
	handler := Handler(testModel(t), nil)

	body := strings.Repeat("a", maxBodyBytes-3) + "TAIL"
	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "TAIL") || strings.Contains(rec.Body.String(), `"class"`) {
		t.Errorf("oversized body was classified: %s", rec.Body.String())
	}
}

func TestClassifyBodyAtLimit(t *testing.T) {
	handler := Handler(testModel(t), nil)

	body := strings.Repeat("a", maxBodyBytes-4) + "TAIL"
	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp ClassifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.SMS != body {
		t.Errorf("len(sms) = %d, want %d", len(resp.SMS), len(body))
	}
}
