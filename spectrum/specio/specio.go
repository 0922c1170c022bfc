// Package specio reads and writes two-column spectrum files.
//
// Files are delimited text with the independent variable in the first column
// and the dependent variable in the second. Commas, semicolons, tabs and runs
// of spaces are accepted as separators. Non-numeric lines before the first
// sample are treated as headers; blank lines are ignored. Files ending in .gz
// or .zst are decompressed transparently.
package specio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/cwbudde/avoplot/spectrum"
)

// ErrMalformed is returned for lines that cannot be parsed as two numbers.
var ErrMalformed = errors.New("specio: malformed spectrum file")

// Load opens path and parses it with [Read].
func Load(path string) (*spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closeFn, err := decompress(path, f)
	if err != nil {
		return nil, fmt.Errorf("specio: %s: %w", path, err)
	}
	defer closeFn()

	s, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

func decompress(path string, r io.Reader) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	default:
		return r, func() {}, nil
	}
}

// Read parses a two-column spectrum from r.
func Read(r io.Reader) (*spectrum.Spectrum, error) {
	var x, y []float64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		fields := splitFields(text)
		if len(fields) < 2 {
			if len(x) == 0 && !isNumeric(fields[0]) {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: expected two columns", ErrMalformed, line)
		}

		xv, errX := strconv.ParseFloat(fields[0], 64)
		yv, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			if len(x) == 0 {
				continue // header
			}
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformed, line, text)
		}

		x = append(x, xv)
		y = append(y, yv)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrMalformed)
	}

	return spectrum.New(x, y)
}

func splitFields(line string) []string {
	var fields []string
	switch {
	case strings.ContainsRune(line, ','):
		fields = strings.Split(line, ",")
	case strings.ContainsRune(line, ';'):
		fields = strings.Split(line, ";")
	default:
		fields = strings.Fields(line)
	}
	for i := range fields {
		fields[i] = strings.Trim(strings.TrimSpace(fields[i]), `"`)
	}
	return fields
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Write emits s as comma-separated lines.
func Write(w io.Writer, s *spectrum.Spectrum) error {
	bw := bufio.NewWriter(w)
	for i := range s.Len() {
		x, y := s.At(i)
		bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		bw.WriteByte(',')
		bw.WriteString(strconv.FormatFloat(y, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
