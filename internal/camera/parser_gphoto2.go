package camera

import (
	"strconv"
	"strings"
	"time"
)

// parseDetectOutput reads `gphoto2 --auto-detect --quiet` lines of the form
//
//	Canon EOS R5                    usb:001,004
//
// Entries whose port is not a usb bus,address pair are skipped; detection of
// other transports is not an error, they are simply outside our scope.
func parseDetectOutput(data []byte) []Port {
	var ports []Port
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		idx := strings.LastIndex(trimmed, "usb:")
		if idx < 0 {
			continue
		}
		bus, address, ok := parseUSBAddress(trimmed[idx:])
		if !ok {
			continue
		}
		ports = append(ports, Port{
			Bus:     bus,
			Address: address,
			Model:   strings.TrimSpace(trimmed[:idx]),
		})
	}
	return ports
}

func parseUSBAddress(port string) (bus, address int, ok bool) {
	payload := strings.TrimPrefix(strings.TrimSpace(port), "usb:")
	parts := strings.SplitN(payload, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	bus, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	address, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return bus, address, true
}

// parseFileList reads `--list-files` output. Each file renders as a numbered
// line:
//
//	#1     IMG_0001.JPG               rd  4016 KB 6000x4000 image/jpeg
func parseFileList(data []byte) []string {
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		names = append(names, fields[1])
	}
	return names
}

// parseFolderList reads `--list-folders` output. Folders render as dashed
// entries below a summary line:
//
//	There are 2 folders in folder '/DCIM'.
//	 - 100CANON
//	 - 101CANON
func parseFolderList(data []byte) []string {
	var folders []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		if name != "" {
			folders = append(folders, name)
		}
	}
	return folders
}

// parseFileTime extracts the modification time from `--show-info` output.
// gphoto2 prints a ctime-style stamp:
//
//	Time:        Sat Aug 29 10:00:00 2026
//
// A bare integer is also accepted and treated as Unix seconds. Missing or
// unparsable times yield zero, which the recency filter treats as old.
func parseFileTime(data []byte) int64 {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "Time:") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(trimmed, "Time:"))
		if value == "" {
			return 0
		}
		if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
			return secs
		}
		if ts, err := time.ParseInLocation(time.ANSIC, value, time.Local); err == nil {
			return ts.Unix()
		}
		return 0
	}
	return 0
}
