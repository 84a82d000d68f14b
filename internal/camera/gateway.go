package camera

import (
	"context"
	"log/slog"
	"path"
	"sync"

	"camsync/internal/logging"
)

// Gateway abstracts a physical capture device: enumerate attached devices,
// walk a device's folder tree, and fetch file content. The sync pipeline
// depends only on this interface.
type Gateway interface {
	Enumerate(ctx context.Context) ([]Device, error)
	ListFiles(ctx context.Context, dev Device) ([]RemoteFile, error)
	Fetch(ctx context.Context, dev Device, rf RemoteFile) ([]byte, error)
}

// USBGateway implements Gateway over a Transport. Stateful operations
// re-resolve the handle against a fresh detection before touching the device,
// and the gateway mutex keeps device access single-threaded; metadata
// extraction may fan out, device I/O never does.
type USBGateway struct {
	transport Transport
	identity  IdentityResolver
	logger    *slog.Logger

	mu sync.Mutex
}

// NewUSBGateway constructs a gateway over the provided transport. A nil
// identity resolver falls back to sysfs; a nil logger logs nothing.
func NewUSBGateway(transport Transport, identity IdentityResolver, logger *slog.Logger) *USBGateway {
	if identity == nil {
		identity = NewSysfsResolver()
	}
	return &USBGateway{
		transport: transport,
		identity:  identity,
		logger:    logging.NewComponentLogger(logger, "camera"),
	}
}

// Enumerate re-scans attached devices and returns a fresh ordinal-indexed
// list. Handles from earlier enumerations are invalidated by this call.
// Identity lookups that fail degrade to UnknownIdentity rather than erroring
// the enumeration.
func (g *USBGateway) Enumerate(ctx context.Context) ([]Device, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enumerateLocked(ctx)
}

func (g *USBGateway) enumerateLocked(ctx context.Context) ([]Device, error) {
	ports, err := g.transport.Detect(ctx)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(ports))
	for idx, port := range ports {
		manufacturer, product, err := g.identity.Resolve(port.Bus, port.Address)
		if err != nil {
			g.logger.Warn("device identity lookup failed",
				logging.String("port", port.String()),
				logging.Error(err),
			)
		}
		if manufacturer == "" {
			manufacturer = UnknownIdentity
		}
		if product == "" {
			product = UnknownIdentity
		}
		devices = append(devices, Device{
			Index:        idx,
			Bus:          port.Bus,
			Address:      port.Address,
			Manufacturer: manufacturer,
			Product:      product,
		})
	}
	return devices, nil
}

// ListFiles walks the device's folder tree depth-first starting at root,
// visiting a folder's files before descending into its subfolders. Every
// reachable file is returned exactly once, in walk order.
func (g *USBGateway) ListFiles(ctx context.Context, dev Device) ([]RemoteFile, error) {
	sess, err := g.open(ctx, dev)
	if err != nil {
		return nil, err
	}
	defer sess.close()

	var files []RemoteFile
	if err := g.walk(ctx, sess.port, "/", &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (g *USBGateway) walk(ctx context.Context, port, folder string, out *[]RemoteFile) error {
	entries, folders, err := g.transport.ListFolder(ctx, port, folder)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		*out = append(*out, RemoteFile{
			Path:  path.Join(folder, entry.Name),
			MTime: entry.MTime,
		})
	}
	for _, sub := range folders {
		if err := g.walk(ctx, port, path.Join(folder, sub), out); err != nil {
			return err
		}
	}
	return nil
}

// Fetch retrieves one file's content from the device.
func (g *USBGateway) Fetch(ctx context.Context, dev Device, rf RemoteFile) ([]byte, error) {
	sess, err := g.open(ctx, dev)
	if err != nil {
		return nil, err
	}
	defer sess.close()

	folder, name := path.Split(rf.Path)
	folder = path.Clean(folder)
	if folder == "" || folder == "." {
		folder = "/"
	}
	return g.transport.ReadFile(ctx, sess.port, folder, name)
}

// session represents one scoped device acquisition. open validates the handle
// against a fresh detection while holding the gateway mutex; close releases
// the mutex. Callers must defer close immediately so the device is released
// on every exit path.
type session struct {
	port    string
	release func()
}

func (s *session) close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

func (g *USBGateway) open(ctx context.Context, dev Device) (*session, error) {
	g.mu.Lock()

	ports, err := g.transport.Detect(ctx)
	if err != nil {
		g.mu.Unlock()
		return nil, err
	}

	for _, port := range ports {
		if port.Bus == dev.Bus && port.Address == dev.Address {
			return &session{port: port.String(), release: g.mu.Unlock}, nil
		}
	}

	g.mu.Unlock()
	return nil, &StaleHandleError{
		Index:   dev.Index,
		Bus:     dev.Bus,
		Address: dev.Address,
		Known:   len(ports),
	}
}
