package camera

import (
	"context"
	"errors"
	"testing"
)

// fakeTransport serves a canned folder tree and counts detections so tests
// can assert on session behavior.
type fakeTransport struct {
	ports   []Port
	tree    map[string]fakeFolder
	content map[string][]byte

	detectCalls int
	detectErr   error
}

type fakeFolder struct {
	files   []Entry
	folders []string
}

func (f *fakeTransport) Detect(context.Context) ([]Port, error) {
	f.detectCalls++
	if f.detectErr != nil {
		return nil, f.detectErr
	}
	return f.ports, nil
}

func (f *fakeTransport) ListFolder(_ context.Context, _ string, folder string) ([]Entry, []string, error) {
	node, ok := f.tree[folder]
	if !ok {
		return nil, nil, &TransportError{Op: "list files", Path: folder, Err: errors.New("no such folder")}
	}
	return node.files, node.folders, nil
}

func (f *fakeTransport) ReadFile(_ context.Context, _ string, folder, name string) ([]byte, error) {
	data, ok := f.content[folder+"/"+name]
	if !ok {
		return nil, &TransportError{Op: "fetch", Path: folder + "/" + name, Err: errors.New("no such file")}
	}
	return data, nil
}

type staticIdentity struct {
	manufacturer string
	product      string
	err          error
}

func (s staticIdentity) Resolve(int, int) (string, string, error) {
	return s.manufacturer, s.product, s.err
}

func newTestGateway(transport Transport, identity IdentityResolver) *USBGateway {
	return NewUSBGateway(transport, identity, nil)
}

func TestEnumerateAssignsOrdinalIndexes(t *testing.T) {
	transport := &fakeTransport{ports: []Port{
		{Bus: 1, Address: 4, Model: "Canon EOS R5"},
		{Bus: 2, Address: 7, Model: "Nikon Z6"},
	}}
	gw := newTestGateway(transport, staticIdentity{manufacturer: "Canon", product: "EOS R5"})

	devices, err := gw.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	for i, dev := range devices {
		if dev.Index != i {
			t.Fatalf("device %d has index %d", i, dev.Index)
		}
	}
	if devices[0].Port() != "usb:001,004" {
		t.Fatalf("unexpected port: %s", devices[0].Port())
	}
}

func TestEnumerateIdentityFailureDegradesToPlaceholder(t *testing.T) {
	transport := &fakeTransport{ports: []Port{{Bus: 1, Address: 4}}}
	gw := newTestGateway(transport, staticIdentity{err: errors.New("sysfs unavailable")})

	devices, err := gw.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if devices[0].Manufacturer != UnknownIdentity || devices[0].Product != UnknownIdentity {
		t.Fatalf("expected placeholder identity, got %+v", devices[0])
	}
}

func TestListFilesWalksDepthFirstFilesBeforeFolders(t *testing.T) {
	transport := &fakeTransport{
		ports: []Port{{Bus: 1, Address: 4}},
		tree: map[string]fakeFolder{
			"/": {
				files:   []Entry{{Name: "IMG1.JPG", MTime: 100}},
				folders: []string{"DCIM"},
			},
			"/DCIM": {
				folders: []string{"100", "101"},
			},
			"/DCIM/100": {
				files: []Entry{{Name: "IMG2.JPG", MTime: 200}, {Name: "IMG3.NEF", MTime: 300}},
			},
			"/DCIM/101": {
				files: []Entry{{Name: "IMG4.JPG", MTime: 400}},
			},
		},
	}
	gw := newTestGateway(transport, staticIdentity{})

	devices, err := gw.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	files, err := gw.ListFiles(context.Background(), devices[0])
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	want := []string{"/IMG1.JPG", "/DCIM/100/IMG2.JPG", "/DCIM/100/IMG3.NEF", "/DCIM/101/IMG4.JPG"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %+v", len(want), len(files), files)
	}
	for i, rf := range files {
		if rf.Path != want[i] {
			t.Fatalf("file %d: expected %s, got %s", i, want[i], rf.Path)
		}
	}
	if files[1].MTime != 200 {
		t.Fatalf("mtime not carried through walk: %+v", files[1])
	}
}

func TestListFilesStaleHandle(t *testing.T) {
	transport := &fakeTransport{ports: []Port{{Bus: 1, Address: 4}}}
	gw := newTestGateway(transport, staticIdentity{})

	devices, err := gw.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	// Device detaches between enumeration and listing.
	transport.ports = nil

	_, err = gw.ListFiles(context.Background(), devices[0])
	var stale *StaleHandleError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleHandleError, got %v", err)
	}
	if stale.Known != 0 || stale.Bus != 1 {
		t.Fatalf("unexpected stale error detail: %+v", stale)
	}
}

func TestFetchResolvesPortByBusAddress(t *testing.T) {
	transport := &fakeTransport{
		ports:   []Port{{Bus: 1, Address: 4}},
		content: map[string][]byte{"/DCIM/100/IMG2.JPG": []byte("jpeg-bytes")},
	}
	gw := newTestGateway(transport, staticIdentity{})

	devices, err := gw.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	// The device re-enumerates at a different address; the handle goes stale
	// rather than silently fetching from whatever occupies the old index.
	transport.ports = []Port{{Bus: 1, Address: 9}}
	_, err = gw.Fetch(context.Background(), devices[0], RemoteFile{Path: "/DCIM/100/IMG2.JPG"})
	var stale *StaleHandleError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleHandleError after address change, got %v", err)
	}

	transport.ports = []Port{{Bus: 1, Address: 4}}
	data, err := gw.Fetch(context.Background(), devices[0], RemoteFile{Path: "/DCIM/100/IMG2.JPG"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestFetchRootFile(t *testing.T) {
	transport := &fakeTransport{
		ports:   []Port{{Bus: 1, Address: 4}},
		content: map[string][]byte{"//IMG1.JPG": []byte("root")},
	}
	gw := newTestGateway(transport, staticIdentity{})

	devices, err := gw.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	data, err := gw.Fetch(context.Background(), devices[0], RemoteFile{Path: "/IMG1.JPG"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "root" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestGatewayReleasedAfterTransportError(t *testing.T) {
	transport := &fakeTransport{
		ports: []Port{{Bus: 1, Address: 4}},
		tree:  map[string]fakeFolder{},
	}
	gw := newTestGateway(transport, staticIdentity{})

	devices, err := gw.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	var transportErr *TransportError
	if _, err := gw.ListFiles(context.Background(), devices[0]); !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}

	// A failed listing must release the device; a subsequent enumeration
	// would deadlock if the session leaked.
	if _, err := gw.Enumerate(context.Background()); err != nil {
		t.Fatalf("Enumerate after failure: %v", err)
	}
}
