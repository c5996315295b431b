package cache

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"
)

func newResponse(header http.Header, body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestResponseToEntry(t *testing.T) {
	lastMod := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	resp := newResponse(http.Header{
		"Expires":       {time.Now().Add(time.Hour).Format(http.TimeFormat)},
		"Last-Modified": {lastMod.Format(http.TimeFormat)},
		"Etag":          {`"abc123"`},
		"Content-Type":  {"application/json"},
	}, `{"id":1}`)

	entry, err := ResponseToEntry(resp)
	if err != nil {
		t.Fatalf("ResponseToEntry() error = %v", err)
	}

	if string(entry.Data) != `{"id":1}` {
		t.Errorf("Data = %s", entry.Data)
	}
	if entry.ETag != `"abc123"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if entry.ContentType != "application/json" {
		t.Errorf("ContentType = %q", entry.ContentType)
	}
	if !entry.LastModified.Equal(lastMod) {
		t.Errorf("LastModified = %v, want %v", entry.LastModified, lastMod)
	}

	restored, _ := io.ReadAll(resp.Body)
	if string(restored) != `{"id":1}` {
		t.Errorf("body not restored, got %q", restored)
	}
}

func TestResponseToEntry_Nil(t *testing.T) {
	if _, err := ResponseToEntry(nil); err == nil {
		t.Error("expected error for nil response")
	}
}

func TestExpiresFrom(t *testing.T) {
	tests := []struct {
		name    string
		header  http.Header
		wantTTL time.Duration
	}{
		{
			name:    "max-age wins over expires",
			header:  http.Header{"Cache-Control": {"public, max-age=86400"}, "Expires": {time.Now().Add(time.Minute).Format(http.TimeFormat)}},
			wantTTL: 24 * time.Hour,
		},
		{
			name:    "no-store expires now",
			header:  http.Header{"Cache-Control": {"no-store"}},
			wantTTL: 0,
		},
		{
			name:    "expires header",
			header:  http.Header{"Expires": {time.Now().Add(30 * time.Minute).Format(http.TimeFormat)}},
			wantTTL: 30 * time.Minute,
		},
		{
			name:    "past expires",
			header:  http.Header{"Expires": {time.Now().Add(-time.Hour).Format(http.TimeFormat)}},
			wantTTL: 0,
		},
		{
			name:    "invalid expires falls back",
			header:  http.Header{"Expires": {"not a date"}},
			wantTTL: DefaultTTL,
		},
		{
			name:    "no headers falls back",
			header:  http.Header{},
			wantTTL: DefaultTTL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := time.Until(ExpiresFrom(tt.header))
			if diff := got - tt.wantTTL; diff > 2*time.Second || diff < -2*time.Second {
				t.Errorf("ttl = %v, want ~%v", got, tt.wantTTL)
			}
		})
	}
}

func TestAddConditionalHeaders(t *testing.T) {
	lastMod := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		entry    *Entry
		wantETag string
		wantIMS  string
	}{
		{"etag preferred", &Entry{ETag: `"v2"`, LastModified: lastMod}, `"v2"`, ""},
		{"last modified only", &Entry{LastModified: lastMod}, "", lastMod.Format(http.TimeFormat)},
		{"no validators", &Entry{}, "", ""},
		{"nil entry", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "http://example.test/pokemon/1", nil)
			AddConditionalHeaders(req, tt.entry)

			if got := req.Header.Get("If-None-Match"); got != tt.wantETag {
				t.Errorf("If-None-Match = %q, want %q", got, tt.wantETag)
			}
			if got := req.Header.Get("If-Modified-Since"); got != tt.wantIMS {
				t.Errorf("If-Modified-Since = %q, want %q", got, tt.wantIMS)
			}
		})
	}
}

func TestEntryToResponse(t *testing.T) {
	entry := &Entry{Data: []byte(`{"name":"pikachu"}`), StatusCode: 200, ContentType: "application/json", ETag: `"x"`}
	resp := EntryToResponse(entry, nil)

	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Dex-Cache") != "HIT" {
		t.Error("missing cache marker header")
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"name":"pikachu"}` {
		t.Errorf("body = %q", body)
	}
}
