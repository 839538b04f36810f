package assemblyai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"assemblyai-cli/internal/assemblyai"
	"assemblyai-cli/internal/transcript"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := assemblyai.New("", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestUploadSendsFileBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(path, []byte("fake-audio"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/upload" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "key" {
			t.Fatalf("missing authorization header: %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "fake-audio" {
			t.Fatalf("unexpected upload body: %q", body)
		}
		_, _ = w.Write([]byte(`{"upload_url":"https://cdn.example/clip"}`))
	}))
	t.Cleanup(server.Close)

	client, err := assemblyai.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	url, err := client.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "https://cdn.example/clip" {
		t.Fatalf("unexpected upload url: %q", url)
	}
}

func TestSubmitWireFormat(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/transcript" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"job-1","status":"queued"}`))
	}))
	t.Cleanup(server.Close)

	client, err := assemblyai.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	threshold := 0.25
	id, err := client.Submit(context.Background(), assemblyai.TranscriptParams{
		AudioURL:        "https://cdn.example/clip",
		SpeechModel:     "best",
		SpeakerLabels:   true,
		SpeechThreshold: &threshold,
		WordBoost:       []string{"Klod"},
		CustomSpelling:  assemblyai.SpellingRules([]transcript.SpellingRule{{From: "Klod", To: "Claude"}}),
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if id != "job-1" {
		t.Fatalf("unexpected job id: %q", id)
	}

	if got["audio_url"] != "https://cdn.example/clip" {
		t.Fatalf("unexpected audio_url: %v", got["audio_url"])
	}
	if got["speaker_labels"] != true {
		t.Fatalf("speaker_labels must be sent: %v", got["speaker_labels"])
	}
	if got["speech_threshold"] != 0.25 {
		t.Fatalf("speech_threshold must be sent: %v", got["speech_threshold"])
	}
	spelling, ok := got["custom_spelling"].([]any)
	if !ok || len(spelling) != 1 {
		t.Fatalf("custom_spelling must be a one-entry array: %v", got["custom_spelling"])
	}
	entry := spelling[0].(map[string]any)
	from, ok := entry["from"].([]any)
	if !ok || len(from) != 1 || from[0] != "Klod" {
		t.Fatalf("custom_spelling from must be an array of tokens: %v", entry["from"])
	}
	if entry["to"] != "Claude" {
		t.Fatalf("unexpected custom_spelling to: %v", entry["to"])
	}
}

func TestSubmitOmitsUnsetThreshold(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got map[string]any
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if _, present := got["speech_threshold"]; present {
			t.Fatal("speech_threshold must be omitted when unset")
		}
		_, _ = w.Write([]byte(`{"id":"job-1","status":"queued"}`))
	}))
	t.Cleanup(server.Close)

	client, err := assemblyai.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Submit(context.Background(), assemblyai.TranscriptParams{AudioURL: "https://cdn.example/clip"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
}

func TestGetTranscriptMapsWordsAndUtterances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/transcript/job-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": "job-1",
			"status": "completed",
			"words": [
				{"text":"hi","start":0,"end":400,"speaker":"A"},
				{"text":"there","start":400,"end":900,"speaker":"A"}
			],
			"utterances": [
				{"speaker":"A","words":[{"text":"hi","start":0,"end":400},{"text":"there","start":400,"end":900}]}
			]
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := assemblyai.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.GetTranscript(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetTranscript returned error: %v", err)
	}
	if result.Status != transcript.StatusCompleted {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if len(result.Words) != 2 || result.Words[1].Text != "there" || result.Words[1].StartMS != 400 {
		t.Fatalf("unexpected words: %#v", result.Words)
	}
	tr := result.Transcript()
	if !tr.Diarized() {
		t.Fatal("expected diarized transcript")
	}
	if tr.Utterances[0].Words[0].Speaker != "A" {
		t.Fatalf("utterance words must inherit the utterance speaker: %#v", tr.Utterances[0].Words[0])
	}
}

func TestGetTranscriptSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	t.Cleanup(server.Close)

	client, err := assemblyai.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.GetTranscript(context.Background(), "job-1")
	var apiErr *assemblyai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "invalid api key" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}
