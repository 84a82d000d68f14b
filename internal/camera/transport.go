package camera

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Port is one transport address reported by device detection.
type Port struct {
	Bus     int
	Address int
	Model   string
}

// Address renders the port in gphoto2 notation.
func (p Port) String() string {
	return fmt.Sprintf("usb:%03d,%03d", p.Bus, p.Address)
}

// Entry is one file inside a device folder, with the device-reported
// modification time in seconds since the Unix epoch.
type Entry struct {
	Name  string
	MTime int64
}

// Transport performs raw device I/O. The gateway relies only on these
// operations; everything below them (protocol, locking quirks, retries the
// tool performs internally) is opaque.
type Transport interface {
	// Detect re-scans attached devices and returns their ports in a stable
	// detection order.
	Detect(ctx context.Context) ([]Port, error)
	// ListFolder returns the files and subfolders directly inside folder.
	ListFolder(ctx context.Context, port, folder string) (files []Entry, folders []string, err error)
	// ReadFile retrieves one file's content.
	ReadFile(ctx context.Context, port, folder, name string) ([]byte, error)
}

// Executor abstracts command execution for the transport.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.Output()
}

// gphoto2Transport drives a camera through the gphoto2 CLI. Each call spawns
// one short-lived process, so a device session never outlives the operation
// that opened it.
type gphoto2Transport struct {
	binary string
	exec   Executor
}

// NewGPhoto2Transport constructs a Transport backed by the gphoto2 binary.
func NewGPhoto2Transport(binary string) Transport {
	return newGPhoto2Transport(binary, commandExecutor{})
}

// NewGPhoto2TransportWithExecutor allows injecting a custom executor for testing.
func NewGPhoto2TransportWithExecutor(binary string, exec Executor) Transport {
	if exec == nil {
		exec = commandExecutor{}
	}
	return newGPhoto2Transport(binary, exec)
}

func newGPhoto2Transport(binary string, exec Executor) *gphoto2Transport {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "gphoto2"
	}
	return &gphoto2Transport{binary: binary, exec: exec}
}

func (t *gphoto2Transport) Detect(ctx context.Context) ([]Port, error) {
	output, err := t.exec.Run(ctx, t.binary, []string{"--auto-detect", "--quiet"})
	if err != nil {
		return nil, &TransportError{Op: "detect", Err: err}
	}
	return parseDetectOutput(output), nil
}

func (t *gphoto2Transport) ListFolder(ctx context.Context, port, folder string) ([]Entry, []string, error) {
	fileOut, err := t.exec.Run(ctx, t.binary, []string{"--quiet", "--port", port, "--folder", folder, "--list-files"})
	if err != nil {
		return nil, nil, &TransportError{Op: "list files", Port: port, Path: folder, Err: err}
	}
	names := parseFileList(fileOut)

	files := make([]Entry, 0, len(names))
	for _, name := range names {
		infoOut, err := t.exec.Run(ctx, t.binary, []string{"--quiet", "--port", port, "--folder", folder, "--show-info", name})
		if err != nil {
			return nil, nil, &TransportError{Op: "file info", Port: port, Path: folder + "/" + name, Err: err}
		}
		files = append(files, Entry{Name: name, MTime: parseFileTime(infoOut)})
	}

	folderOut, err := t.exec.Run(ctx, t.binary, []string{"--quiet", "--port", port, "--folder", folder, "--list-folders"})
	if err != nil {
		return nil, nil, &TransportError{Op: "list folders", Port: port, Path: folder, Err: err}
	}

	return files, parseFolderList(folderOut), nil
}

func (t *gphoto2Transport) ReadFile(ctx context.Context, port, folder, name string) ([]byte, error) {
	data, err := t.exec.Run(ctx, t.binary, []string{"--quiet", "--port", port, "--folder", folder, "--get-file", name, "--stdout"})
	if err != nil {
		return nil, &TransportError{Op: "fetch", Port: port, Path: folder + "/" + name, Err: err}
	}
	return data, nil
}
