package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"camsync/internal/selection"
)

// terminalSelector presents synced captures as a table and reads the
// operator's choice from the input stream. When the input is not an
// interactive terminal, or acceptDefault is set, the rating-based
// preselection is returned unchanged.
type terminalSelector struct {
	out           io.Writer
	in            io.Reader
	acceptDefault bool
}

func newTerminalSelector(out io.Writer, in io.Reader, acceptDefault bool) *terminalSelector {
	return &terminalSelector{out: out, in: in, acceptDefault: acceptDefault}
}

var _ selection.Selector = (*terminalSelector)(nil)

func (s *terminalSelector) Select(ctx context.Context, candidates selection.Candidates) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	fmt.Fprintln(s.out, renderCandidates(candidates))

	if s.acceptDefault || !interactiveInput(s.in) {
		return candidates.Preselected(), nil
	}

	fmt.Fprint(s.out, "Select captures (numbers, comma separated; `all`, `none`, Enter = rated): ")
	line, err := readLine(s.in)
	if err != nil {
		return nil, err
	}
	return applyChoice(candidates, line)
}

func renderCandidates(candidates selection.Candidates) string {
	rows := make([][]string, 0, len(candidates))
	for i, candidate := range candidates {
		marks := ""
		if candidate.Preselected {
			marks = "*"
		}
		if candidate.Duplicate {
			marks += " dup"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			filepath.Base(candidate.Path),
			strconv.Itoa(candidate.Record.Rating),
			candidate.Record.CaptureTime,
			strings.TrimSpace(marks),
		})
	}
	return renderTable([]string{"#", "File", "Rating", "Captured", ""}, rows, 1, 3)
}

func applyChoice(candidates selection.Candidates, line string) ([]string, error) {
	line = strings.TrimSpace(strings.ToLower(line))
	switch line {
	case "":
		return candidates.Preselected(), nil
	case "all":
		return candidates.Paths(), nil
	case "none":
		return nil, nil
	}

	var paths []string
	seen := make(map[int]bool)
	for _, field := range strings.Split(line, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		number, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", field)
		}
		if number < 1 || number > len(candidates) {
			return nil, fmt.Errorf("selection %d out of range (1-%d)", number, len(candidates))
		}
		if seen[number] {
			continue
		}
		seen[number] = true
		paths = append(paths, candidates[number-1].Path)
	}
	return paths, nil
}

func readLine(in io.Reader) (string, error) {
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return scanner.Text(), nil
}

func interactiveInput(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
