// Package coilio reads and writes the wire-geometry text format: one
// vertex per line as "x,y,z,current" (centimeters and amperes), with
// blank lines and #-comments skipped.
package coilio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vuthalab/biot-savart/internal/geometry"
)

// Parse reads a coil from r. The solver validates vertex counts; Parse
// only rejects malformed lines.
func Parse(r io.Reader) (geometry.Coil, error) {
	coil := geometry.Coil{}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("coilio: line %d: expected 4 comma-separated values, got %d", lineNo, len(fields))
		}

		vals := [4]float64{}
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("coilio: line %d: %w", lineNo, err)
			}
			vals[i] = v
		}

		coil = append(coil, geometry.Vertex{
			Pos:     geometry.Vec3{X: vals[0], Y: vals[1], Z: vals[2]},
			Current: vals[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("coilio: %w", err)
	}
	return coil, nil
}

// ParseFile reads a coil from a file.
func ParseFile(path string) (geometry.Coil, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Write emits a coil in the same format Parse reads.
func Write(w io.Writer, coil geometry.Coil) error {
	for _, v := range coil {
		_, err := fmt.Fprintf(w, "%s,%s,%s,%s\n",
			formatFloat(v.Pos.X), formatFloat(v.Pos.Y), formatFloat(v.Pos.Z),
			formatFloat(v.Current))
		if err != nil {
			return fmt.Errorf("coilio: %w", err)
		}
	}
	return nil
}

// WriteFile writes a coil to a file.
func WriteFile(path string, coil geometry.Coil) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Write(w, coil); err != nil {
		return err
	}
	return w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
