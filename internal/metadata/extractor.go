package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Tag names exiftool reports with grouped (-G) numeric (-n) output.
const (
	tagRating           = "XMP:Rating"
	tagAperture         = "EXIF:FNumber"
	tagLensID           = "Composite:LensSpec"
	tagCaptureTime      = "EXIF:DateTimeOriginal"
	tagFocalLength      = "EXIF:FocalLength"
	tagExposureTime     = "EXIF:ExposureTime"
	tagColorTemperature = "EXIF:WhiteBalance"
)

// Executor abstracts command execution for the extractor.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.Output()
}

// Extractor reads embedded metadata through exiftool. Timeout bounds each
// Extract call; expiry is reported as an extraction failure for that file so
// a hung tool cannot hold a rebuild worker hostage.
type Extractor struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// NewExtractor constructs an Extractor for the provided exiftool binary.
func NewExtractor(binary string, timeout time.Duration) *Extractor {
	return newExtractor(binary, timeout, commandExecutor{})
}

// NewExtractorWithExecutor allows injecting a custom executor for testing.
func NewExtractorWithExecutor(binary string, timeout time.Duration, exec Executor) *Extractor {
	if exec == nil {
		exec = commandExecutor{}
	}
	return newExtractor(binary, timeout, exec)
}

func newExtractor(binary string, timeout time.Duration, exec Executor) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "exiftool"
	}
	return &Extractor{binary: binary, timeout: timeout, exec: exec}
}

// Extract derives a Record from the file at localPath. The record's FileName
// is always the base name of localPath, independent of metadata content.
// Absent tags map to explicit zero defaults; malformed tag values fail the
// whole extraction.
func (e *Extractor) Extract(ctx context.Context, localPath string) (Record, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	output, err := e.exec.Run(ctx, e.binary, []string{"-j", "-G", "-n", localPath})
	if err != nil {
		return Record{}, &ExtractionError{Path: localPath, Err: fmt.Errorf("run exiftool: %w", err)}
	}

	var entries []map[string]any
	if err := json.Unmarshal(output, &entries); err != nil {
		return Record{}, &ExtractionError{Path: localPath, Err: fmt.Errorf("parse exiftool output: %w", err)}
	}
	if len(entries) == 0 {
		return Record{}, &ExtractionError{Path: localPath, Err: errors.New("exiftool reported no entries")}
	}
	tags := entries[0]

	record := Record{FileName: filepath.Base(localPath)}
	if record.Rating, err = intTag(tags, tagRating); err != nil {
		return Record{}, &ExtractionError{Path: localPath, Tag: tagRating, Err: err}
	}
	if record.Aperture, err = floatTag(tags, tagAperture); err != nil {
		return Record{}, &ExtractionError{Path: localPath, Tag: tagAperture, Err: err}
	}
	record.LensID = stringTag(tags, tagLensID)
	record.CaptureTime = stringTag(tags, tagCaptureTime)
	if record.FocalLength, err = floatTag(tags, tagFocalLength); err != nil {
		return Record{}, &ExtractionError{Path: localPath, Tag: tagFocalLength, Err: err}
	}
	if record.ExposureTime, err = floatTag(tags, tagExposureTime); err != nil {
		return Record{}, &ExtractionError{Path: localPath, Tag: tagExposureTime, Err: err}
	}
	if record.ColorTemperature, err = intTag(tags, tagColorTemperature); err != nil {
		return Record{}, &ExtractionError{Path: localPath, Tag: tagColorTemperature, Err: err}
	}
	return record, nil
}

func intTag(tags map[string]any, name string) (int, error) {
	value, ok := tags[name]
	if !ok || value == nil {
		return 0, nil
	}
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("malformed integer %q", v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unexpected value type %T", value)
	}
}

func floatTag(tags map[string]any, name string) (float64, error) {
	value, ok := tags[name]
	if !ok || value == nil {
		return 0, nil
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("malformed number %q", v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unexpected value type %T", value)
	}
}

func stringTag(tags map[string]any, name string) string {
	value, ok := tags[name]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
