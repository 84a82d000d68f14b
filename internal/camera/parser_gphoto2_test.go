package camera

import (
	"testing"
	"time"
)

func TestParseDetectOutputSkipsNonUSBPorts(t *testing.T) {
	output := []byte(`Canon EOS R5                   usb:001,004
Nikon Z6                       usb:002,011
PTP/IP Camera                  ptpip:192.168.1.5
`)
	ports := parseDetectOutput(output)
	if len(ports) != 2 {
		t.Fatalf("expected 2 usb ports, got %d", len(ports))
	}
	if ports[0].Bus != 1 || ports[0].Address != 4 || ports[0].Model != "Canon EOS R5" {
		t.Fatalf("unexpected first port: %+v", ports[0])
	}
	if ports[1].String() != "usb:002,011" {
		t.Fatalf("unexpected port rendering: %s", ports[1])
	}
}

func TestParseDetectOutputMalformedAddress(t *testing.T) {
	ports := parseDetectOutput([]byte("Mystery Cam usb:abc,def\n"))
	if len(ports) != 0 {
		t.Fatalf("expected malformed address to be skipped, got %+v", ports)
	}
}

func TestParseFileList(t *testing.T) {
	output := []byte(`#1     IMG_0001.JPG               rd  4016 KB 6000x4000 image/jpeg
#2     IMG_0002.NEF               rd 45812 KB 8256x5504 image/x-nikon-nef
junk line
`)
	names := parseFileList(output)
	if len(names) != 2 || names[0] != "IMG_0001.JPG" || names[1] != "IMG_0002.NEF" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestParseFolderList(t *testing.T) {
	output := []byte(`There are 2 folders in folder '/DCIM'.
 - 100CANON
 - 101CANON
`)
	folders := parseFolderList(output)
	if len(folders) != 2 || folders[0] != "100CANON" || folders[1] != "101CANON" {
		t.Fatalf("unexpected folders: %v", folders)
	}
}

func TestParseFileTimeUnixSeconds(t *testing.T) {
	if got := parseFileTime([]byte("  Time: 1700000000\n")); got != 1700000000 {
		t.Fatalf("expected unix seconds passthrough, got %d", got)
	}
}

func TestParseFileTimeCtimeFormat(t *testing.T) {
	stamp := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.Local)
	got := parseFileTime([]byte("Information on file 'IMG_0001.JPG':\n  Time:        " + stamp.Format(time.ANSIC) + "\n"))
	if got != stamp.Unix() {
		t.Fatalf("expected %d, got %d", stamp.Unix(), got)
	}
}

func TestParseFileTimeMissing(t *testing.T) {
	if got := parseFileTime([]byte("no time here\n")); got != 0 {
		t.Fatalf("expected zero for missing time, got %d", got)
	}
}
