package beacon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKeepAlive_SendDeliversPayload(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := Payload{ViewEventID: 42, Duration: 17, Completed: true}
	if err := NewKeepAlive().Send(context.Background(), srv.URL, p); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got != p {
		t.Errorf("server received %+v, want %+v", got, p)
	}
}

func TestKeepAlive_SendErrorsOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewKeepAlive().Send(context.Background(), srv.URL, Payload{ViewEventID: 1, Duration: 5})
	if err == nil {
		t.Error("Send() error = nil, want error on 500 response")
	}
}

func TestFireAndForget_SendNeverErrorsOnDelivery(t *testing.T) {
	// Endpoint does not exist; the caller still must not see a failure.
	err := NewFireAndForget().Send(context.Background(), "http://127.0.0.1:1/progress", Payload{ViewEventID: 1, Duration: 5})
	if err != nil {
		t.Errorf("Send() error = %v, want nil for unreachable endpoint", err)
	}
}
