package camera

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IdentityResolver maps a usb bus/address pair to human-readable manufacturer
// and product strings.
type IdentityResolver interface {
	Resolve(bus, address int) (manufacturer, product string, err error)
}

// sysfsResolver reads identity strings from the kernel's usb device tree.
// Each device directory under /sys/bus/usb/devices carries busnum, devnum,
// manufacturer, and product attribute files.
type sysfsResolver struct {
	root string
}

// NewSysfsResolver constructs an IdentityResolver over /sys/bus/usb/devices.
func NewSysfsResolver() IdentityResolver {
	return sysfsResolver{root: "/sys/bus/usb/devices"}
}

// NewSysfsResolverAt constructs a resolver rooted at an alternate directory,
// used by tests to point at a fabricated device tree.
func NewSysfsResolverAt(root string) IdentityResolver {
	return sysfsResolver{root: root}
}

func (r sysfsResolver) Resolve(bus, address int) (string, string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return "", "", err
	}

	for _, entry := range entries {
		dir := filepath.Join(r.root, entry.Name())
		if readSysfsInt(filepath.Join(dir, "busnum")) != bus {
			continue
		}
		if readSysfsInt(filepath.Join(dir, "devnum")) != address {
			continue
		}
		manufacturer := readSysfsString(filepath.Join(dir, "manufacturer"))
		product := readSysfsString(filepath.Join(dir, "product"))
		return manufacturer, product, nil
	}
	return "", "", os.ErrNotExist
}

func readSysfsInt(path string) int {
	value, err := strconv.Atoi(readSysfsString(path))
	if err != nil {
		return -1
	}
	return value
}

func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
