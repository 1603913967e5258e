package storage_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/service/storage"
)

func TestObjectName(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		suffix string
	}{
		{name: "plain", file: "report.pdf", suffix: "-report.pdf"},
		{name: "unix path", file: "/home/alice/diagram.png", suffix: "-diagram.png"},
		{name: "windows path", file: `C:\Users\alice\notes.txt`, suffix: "-notes.txt"},
		{name: "empty", file: "", suffix: "-file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storage.ObjectName(42, tt.file)
			gt.Bool(t, strings.HasPrefix(got, "attachments/42/")).True()
			gt.Bool(t, strings.HasSuffix(got, tt.suffix)).True()
		})
	}

	gt.Value(t, storage.ObjectName(1, "a.txt")).NotEqual(storage.ObjectName(1, "a.txt"))
}

func TestPublicURL(t *testing.T) {
	got := storage.PublicURL("juno-files", "attachments/1/abc-my file.png")
	gt.Value(t, got).Equal("https://storage.googleapis.com/juno-files/attachments/1/abc-my%20file.png")
}

type fakeGCS struct {
	mu      sync.Mutex
	uploads [][]byte
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/upload/storage/v1/b/juno-files/o") {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, body)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"bucket":"juno-files","name":"uploaded"}`)
}

func (f *fakeGCS) bodies() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

func TestUploader_Upload(t *testing.T) {
	fake := &fakeGCS{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	ctx := t.Context()
	u, err := storage.New(ctx, "juno-files", storage.EmulatorOptions(srv.URL)...)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = u.Close() })

	name := storage.ObjectName(7, "notes.txt")
	got, err := u.Upload(ctx, name, "text/plain", bytes.NewReader([]byte("hello juno")))
	gt.NoError(t, err).Required()
	gt.Value(t, got).Equal(storage.PublicURL("juno-files", name))

	bodies := fake.bodies()
	gt.Array(t, bodies).Length(1).Required()
	gt.String(t, string(bodies[0])).Contains("hello juno")
	gt.String(t, string(bodies[0])).Contains(name)
}
