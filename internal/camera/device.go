package camera

import "fmt"

// UnknownIdentity is substituted when a device's manufacturer or product
// string cannot be resolved. Identity failures never abort an enumeration.
const UnknownIdentity = "Unknown"

// Device identifies one connected capture device. Index is the position in
// the enumeration that produced the handle and is only stable until the next
// enumeration; Bus and Address form the stable identity used to re-resolve
// the device before each session.
type Device struct {
	Index        int
	Bus          int
	Address      int
	Manufacturer string
	Product      string
}

// Port renders the device's transport address in gphoto2 notation.
func (d Device) Port() string {
	return fmt.Sprintf("usb:%03d,%03d", d.Bus, d.Address)
}

// RemoteFile is a file on the device: a posix path rooted at "/" plus the
// device-reported modification time in seconds since the Unix epoch. Remote
// files exist only transiently during a listing and are never persisted.
type RemoteFile struct {
	Path  string
	MTime int64
}
