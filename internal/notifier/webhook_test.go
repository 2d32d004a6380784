package notifier

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/catcheck/catcheck/internal/config"
	"github.com/catcheck/catcheck/internal/suite"
)

func samplePayload() *Payload {
	return &Payload{
		Event: "run.completed",
		Summary: suite.Summary{
			RunID: "run-1", Total: 9, Passed: 7, Failed: 2,
			DurationMS: 1800,
			Failing:    []string{"breed listing conforms to breed schema", "unknown resource returns 404"},
		},
	}
}

func TestWebhookSenderSignsPayload(t *testing.T) {
	var receivedBody []byte
	var receivedSig string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedBody, _ = io.ReadAll(r.Body)
		receivedSig = r.Header.Get("X-Catcheck-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	secret := "test-secret"
	ch := &config.NotifyChannel{Name: "hook", Type: "webhook", URL: server.URL, Secret: secret}

	sender := &WebhookSender{}
	if err := sender.Send(context.Background(), ch, samplePayload()); err != nil {
		t.Fatal(err)
	}

	var got Payload
	if err := json.Unmarshal(receivedBody, &got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got.Summary.Failed != 2 || len(got.Summary.Failing) != 2 {
		t.Fatalf("summary not carried: %+v", got.Summary)
	}

	if !strings.HasPrefix(receivedSig, "sha256=") {
		t.Fatalf("signature should start with sha256=, got %q", receivedSig)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(receivedBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if receivedSig != want {
		t.Fatalf("signature mismatch: got %s, expected %s", receivedSig, want)
	}
}

func TestWebhookSenderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ch := &config.NotifyChannel{Name: "hook", Type: "webhook", URL: server.URL}
	if err := (&WebhookSender{}).Send(context.Background(), ch, samplePayload()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestSlackSenderPostsEscapedText(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := samplePayload()
	p.Summary.Failing = []string{"case <with> & markup"}
	ch := &config.NotifyChannel{Name: "team", Type: "slack", URL: server.URL, Channel: "#qa"}

	if err := (&SlackSender{}).Send(context.Background(), ch, p); err != nil {
		t.Fatal(err)
	}

	text, _ := received["text"].(string)
	if !strings.Contains(text, "7/9 passed") {
		t.Fatalf("summary missing from message: %q", text)
	}
	if strings.ContainsAny(text, "<>") {
		t.Fatalf("mrkdwn characters must be escaped: %q", text)
	}
	if received["channel"] != "#qa" {
		t.Fatalf("channel override not applied: %v", received["channel"])
	}
}

func TestDispatcherContainsDeliveryFailures(t *testing.T) {
	var delivered int
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered++
		w.WriteHeader(http.StatusOK)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	disabled := false
	channels := []config.NotifyChannel{
		{Name: "broken", Type: "webhook", URL: bad.URL},
		{Name: "working", Type: "webhook", URL: good.URL},
		{Name: "off", Type: "webhook", URL: good.URL, Enabled: &disabled},
		{Name: "unknown", Type: "carrier-pigeon", URL: good.URL},
	}

	// Must not panic, error out, or stop at the broken channel.
	NewDispatcher(nil).Notify(context.Background(), channels, samplePayload().Summary)

	if delivered != 1 {
		t.Fatalf("expected exactly the working channel to deliver, got %d", delivered)
	}
}
