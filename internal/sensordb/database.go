// Package sensordb loads the camera sensor width database and resolves
// make/model metadata pairs to physical sensor widths. The database is
// curated free text: one record per line, `Make;Model;SensorWidthMM`.
package sensordb

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Datasheet is one immutable reference record of the sensor database.
type Datasheet struct {
	Make          string
	Model         string
	SensorWidthMM float64
}

// Parse reads the full sensor database. Blank lines and '#' comments are
// skipped; any malformed record fails the whole load, since the database
// must be trusted before view processing begins.
func Parse(path string) ([]Datasheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sensor database: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sheets []Datasheet
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) < 3 {
			return nil, fmt.Errorf("sensor database line %d: expected 'Make;Model;SensorWidth', got %q", lineNo, line)
		}
		width, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil || width <= 0 {
			return nil, fmt.Errorf("sensor database line %d: invalid sensor width %q", lineNo, fields[2])
		}

		sheets = append(sheets, Datasheet{
			Make:          strings.TrimSpace(fields[0]),
			Model:         strings.TrimSpace(fields[1]),
			SensorWidthMM: width,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sensor database: %w", err)
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("sensor database %s contains no records", path)
	}
	return sheets, nil
}
