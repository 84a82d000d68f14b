package syncer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"camsync/internal/camera"
	"camsync/internal/config"
	"camsync/internal/metadata"
	"camsync/internal/syncer"
	"camsync/internal/testsupport"
)

// fakeGateway implements camera.Gateway over a canned listing with call
// accounting, so tests can assert on session behavior. When filesByPort is
// set, each device serves its own listing keyed by Port().
type fakeGateway struct {
	devices     []camera.Device
	files       []camera.RemoteFile
	filesByPort map[string][]camera.RemoteFile
	content     map[string][]byte

	enumerateErr  error
	fetchErr      map[string]error
	listFilesCall int
	fetchCalls    int
}

func (f *fakeGateway) Enumerate(context.Context) ([]camera.Device, error) {
	if f.enumerateErr != nil {
		return nil, f.enumerateErr
	}
	return f.devices, nil
}

func (f *fakeGateway) ListFiles(_ context.Context, dev camera.Device) ([]camera.RemoteFile, error) {
	f.listFilesCall++
	if f.filesByPort != nil {
		return f.filesByPort[dev.Port()], nil
	}
	return f.files, nil
}

func (f *fakeGateway) Fetch(_ context.Context, _ camera.Device, rf camera.RemoteFile) ([]byte, error) {
	f.fetchCalls++
	if err, ok := f.fetchErr[rf.Path]; ok {
		return nil, err
	}
	data, ok := f.content[rf.Path]
	if !ok {
		return nil, &camera.TransportError{Op: "fetch", Path: rf.Path, Err: errors.New("missing")}
	}
	return data, nil
}

func noExtract(context.Context, string) (metadata.Record, error) {
	return metadata.Record{}, errors.New("extraction not expected in this test")
}

func newSyncer(t *testing.T, cfg *config.Config, gw *fakeGateway, extract func(context.Context, string) (metadata.Record, error)) *syncer.Syncer {
	t.Helper()
	store := testsupport.MustOpenCatalog(t, cfg)
	return syncer.New(cfg, gw, store, extract, nil)
}

func TestSyncRecentFiltersByRecency(t *testing.T) {
	now := time.Now().Unix()
	gw := &fakeGateway{
		devices: []camera.Device{{Bus: 1, Address: 4}},
		files: []camera.RemoteFile{
			{Path: "/IMG1.JPG", MTime: now - 86400},        // 1 day old
			{Path: "/DCIM/100/IMG2.JPG", MTime: now - 10*86400}, // 10 days old
			{Path: "/DCIM/100/IMG3.JPG", MTime: now - 3600},     // 1 hour old
		},
		content: map[string][]byte{
			"/IMG1.JPG":          []byte("one"),
			"/DCIM/100/IMG3.JPG": []byte("three"),
		},
	}
	cfg := testsupport.NewConfig(t)
	s := newSyncer(t, cfg, gw, noExtract)

	dest := filepath.Join(t.TempDir(), "staging")
	locals, err := s.SyncRecent(context.Background(), gw.devices[0], 2, dest)
	if err != nil {
		t.Fatalf("SyncRecent failed: %v", err)
	}

	want := []string{filepath.Join(dest, "IMG1.JPG"), filepath.Join(dest, "IMG3.JPG")}
	if len(locals) != 2 || locals[0] != want[0] || locals[1] != want[1] {
		t.Fatalf("expected %v in discovery order, got %v", want, locals)
	}

	for i, local := range locals {
		data, err := os.ReadFile(local)
		if err != nil {
			t.Fatalf("read %s: %v", local, err)
		}
		expected := []string{"one", "three"}[i]
		if string(data) != expected {
			t.Fatalf("unexpected content for %s: %q", local, data)
		}
	}
}

func TestSyncRecentEmptySetSkipsDestinationAndDevice(t *testing.T) {
	now := time.Now().Unix()
	gw := &fakeGateway{
		devices: []camera.Device{{Bus: 1, Address: 4}},
		files: []camera.RemoteFile{
			{Path: "/OLD.JPG", MTime: now - 30*86400},
		},
	}
	cfg := testsupport.NewConfig(t)
	s := newSyncer(t, cfg, gw, noExtract)

	dest := filepath.Join(t.TempDir(), "never-created")
	locals, err := s.SyncRecent(context.Background(), gw.devices[0], 2, dest)
	if err != nil {
		t.Fatalf("SyncRecent failed: %v", err)
	}
	if len(locals) != 0 {
		t.Fatalf("expected no files, got %v", locals)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("destination should not be created for an empty set")
	}
	if gw.fetchCalls != 0 {
		t.Fatalf("device should not be reopened, saw %d fetches", gw.fetchCalls)
	}
	if gw.listFilesCall != 1 {
		t.Fatalf("expected exactly one listing, saw %d", gw.listFilesCall)
	}
}

func TestSyncRecentFetchFailureAborts(t *testing.T) {
	now := time.Now().Unix()
	gw := &fakeGateway{
		devices: []camera.Device{{Bus: 1, Address: 4}},
		files: []camera.RemoteFile{
			{Path: "/IMG1.JPG", MTime: now},
			{Path: "/IMG2.JPG", MTime: now},
			{Path: "/IMG3.JPG", MTime: now},
		},
		content: map[string][]byte{
			"/IMG1.JPG": []byte("one"),
			"/IMG3.JPG": []byte("three"),
		},
		fetchErr: map[string]error{
			"/IMG2.JPG": &camera.TransportError{Op: "fetch", Path: "/IMG2.JPG", Err: errors.New("io error")},
		},
	}
	cfg := testsupport.NewConfig(t)
	s := newSyncer(t, cfg, gw, noExtract)

	dest := filepath.Join(t.TempDir(), "staging")
	_, err := s.SyncRecent(context.Background(), gw.devices[0], 2, dest)
	var transportErr *camera.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if gw.fetchCalls != 2 {
		t.Fatalf("sync should stop at the failed fetch, saw %d fetches", gw.fetchCalls)
	}
}

func TestSyncRecentCollisionOverwrite(t *testing.T) {
	now := time.Now().Unix()
	gw := &fakeGateway{
		devices: []camera.Device{{Bus: 1, Address: 4}},
		files: []camera.RemoteFile{
			{Path: "/DCIM/100/IMG1.JPG", MTime: now},
			{Path: "/DCIM/101/IMG1.JPG", MTime: now},
		},
		content: map[string][]byte{
			"/DCIM/100/IMG1.JPG": []byte("first"),
			"/DCIM/101/IMG1.JPG": []byte("second"),
		},
	}
	cfg := testsupport.NewConfig(t)
	s := newSyncer(t, cfg, gw, noExtract)

	dest := filepath.Join(t.TempDir(), "staging")
	locals, err := s.SyncRecent(context.Background(), gw.devices[0], 2, dest)
	if err != nil {
		t.Fatalf("SyncRecent failed: %v", err)
	}
	if len(locals) != 2 {
		t.Fatalf("expected 2 paths, got %v", locals)
	}
	if locals[0] != locals[1] {
		t.Fatalf("overwrite policy should reuse the basename: %v", locals)
	}
	data, _ := os.ReadFile(locals[1])
	if string(data) != "second" {
		t.Fatalf("expected the later file to win, got %q", data)
	}
}

func TestSyncRecentCollisionRename(t *testing.T) {
	now := time.Now().Unix()
	gw := &fakeGateway{
		devices: []camera.Device{{Bus: 1, Address: 4}},
		files: []camera.RemoteFile{
			{Path: "/DCIM/100/IMG1.JPG", MTime: now},
			{Path: "/DCIM/101/IMG1.JPG", MTime: now},
		},
		content: map[string][]byte{
			"/DCIM/100/IMG1.JPG": []byte("first"),
			"/DCIM/101/IMG1.JPG": []byte("second"),
		},
	}
	cfg := testsupport.NewConfig(t, testsupport.WithCollisionPolicy(config.CollisionRename))
	s := newSyncer(t, cfg, gw, noExtract)

	dest := filepath.Join(t.TempDir(), "staging")
	locals, err := s.SyncRecent(context.Background(), gw.devices[0], 2, dest)
	if err != nil {
		t.Fatalf("SyncRecent failed: %v", err)
	}
	if locals[0] == locals[1] {
		t.Fatalf("rename policy should disambiguate: %v", locals)
	}
	if locals[1] != filepath.Join(dest, "IMG1-1.JPG") {
		t.Fatalf("unexpected disambiguated name: %s", locals[1])
	}

	first, _ := os.ReadFile(locals[0])
	second, _ := os.ReadFile(locals[1])
	if string(first) != "first" || string(second) != "second" {
		t.Fatalf("both files should survive: %q %q", first, second)
	}
}
