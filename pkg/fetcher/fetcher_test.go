package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/en/fantasy/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><main><h1>Fantasy</h1></main></body></html>`)
	})
	mux.HandleFunc("/old-fantasy/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/en/fantasy/", http.StatusMovedPermanently)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := New()
	res, err := f.GetDocument(context.Background(), srv.URL+"/en/fantasy/")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", res.StatusCode)
	}
	if got := res.Doc.Find("main h1").Text(); got != "Fantasy" {
		t.Errorf("main h1 text = %q, want Fantasy", got)
	}

	res, err = f.GetDocument(context.Background(), srv.URL+"/old-fantasy/")
	if err != nil {
		t.Fatalf("GetDocument() through redirect error = %v", err)
	}
	if want := srv.URL + "/en/fantasy/"; res.FinalURL != want {
		t.Errorf("FinalURL = %q, want %q", res.FinalURL, want)
	}
}

func TestGetDocument_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := New().GetDocument(context.Background(), srv.URL); err == nil {
		t.Fatal("GetDocument() on 404 returned nil error")
	}
}
