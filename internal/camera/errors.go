package camera

import "fmt"

// StaleHandleError reports a device handle that no longer resolves against a
// fresh enumeration. Callers must re-enumerate and retry with a new handle;
// substituting a different device silently is never correct.
type StaleHandleError struct {
	Index   int
	Bus     int
	Address int
	Known   int
}

func (e *StaleHandleError) Error() string {
	return fmt.Sprintf("stale device handle: index %d (usb:%03d,%03d) not found among %d connected devices",
		e.Index, e.Bus, e.Address, e.Known)
}

// TransportError wraps a device I/O failure with enough context to diagnose
// without blind retries. The core does not retry; retry policy belongs to the
// caller.
type TransportError struct {
	Op   string
	Port string
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("device %s: %s %s: %v", e.Port, e.Op, e.Path, e.Err)
	}
	if e.Port != "" {
		return fmt.Sprintf("device %s: %s: %v", e.Port, e.Op, e.Err)
	}
	return fmt.Sprintf("device transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
