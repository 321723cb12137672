package tagger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestTagImage_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tagImage" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		gotPath = body["thumbnail_path"]
		_, _ = w.Write([]byte(`["cat","sofa"]`))
	}))
	defer srv.Close()

	tags, err := NewClient(srv.URL+"/", time.Second).TagImage(context.Background(), "owner/thumbnail/a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"cat", "sofa"}) {
		t.Errorf("tags = %v", tags)
	}
	if gotPath != "owner/thumbnail/a.jpg" {
		t.Errorf("thumbnail_path = %q", gotPath)
	}
}

func TestTagImage_EmptyListIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tags, err := NewClient(srv.URL, time.Second).TagImage(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tags == nil || len(tags) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", tags)
	}
}

func TestTagImage_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantBad bool
	}{
		{"server error", http.StatusInternalServerError, "model crashed", false},
		{"created is not ok", http.StatusCreated, `["cat"]`, false},
		{"null body", http.StatusOK, `null`, true},
		{"object body", http.StatusOK, `{"tags":["cat"]}`, true},
		{"truncated", http.StatusOK, `["cat"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tags, err := NewClient(srv.URL, time.Second).TagImage(context.Background(), "p")
			if err == nil {
				t.Fatalf("expected error, got tags %v", tags)
			}
			if got := errors.Is(err, ErrBadResponse); got != tt.wantBad {
				t.Errorf("errors.Is(ErrBadResponse) = %v; want %v (%v)", got, tt.wantBad, err)
			}
		})
	}
}

func TestTagImage_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, 50*time.Millisecond).TagImage(context.Background(), "p")
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	c := NewClient("http://ml", time.Second, WithHTTPClient(hc), WithHTTPClient(nil), nil)
	if c.httpClient != hc {
		t.Error("custom client not applied")
	}
}
