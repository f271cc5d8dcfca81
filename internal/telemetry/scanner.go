package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Scanner iterates over the images in a directory that carry a same-stem JSON
// sidecar, in raw directory enumeration order. Images without a sidecar are
// silently excluded; a sidecar that exists but fails to decode stops the
// iteration with a ParseError.
type Scanner struct {
	dir      string
	images   []string
	sidecars map[string]string

	pos     int
	current Record
	err     error
}

// Scan enumerates dir and returns a Scanner over its images. Image and
// sidecar extensions are matched case-insensitively (.JPG and .jpg are the
// same format). The enumeration order is whatever the filesystem returns,
// deliberately not sorted, so image indices reflect discovery order.
func Scan(dir string) (*Scanner, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening image directory: %w", err)
	}
	defer f.Close()

	// os.ReadDir sorts by name; File.ReadDir preserves the raw order.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("reading image directory: %w", err)
	}

	s := Scanner{
		dir:      dir,
		sidecars: make(map[string]string),
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))

		if ext == ".json" {
			s.sidecars[stem] = name
			continue
		}
		if _, ok := imageExtensions[ext]; ok {
			s.images = append(s.images, name)
		}
	}

	return &s, nil
}

// Next advances to the next image with a valid sidecar. It returns false when
// the images are exhausted or a sidecar fails to decode; check Err after the
// loop.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	for s.pos < len(s.images) {
		name := s.images[s.pos]
		s.pos++

		stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		sidecarName, ok := s.sidecars[stem]
		if !ok {
			continue // no sidecar, image excluded
		}

		path := filepath.Join(s.dir, sidecarName)
		data, err := os.ReadFile(path)
		if err != nil {
			s.err = &ParseError{Path: path, Err: err}
			return false
		}

		var sc Sidecar
		if err := json.Unmarshal(data, &sc); err != nil {
			s.err = &ParseError{Path: path, Err: err}
			return false
		}

		s.current = newRecord(name, &sc)
		return true
	}

	return false
}

// Record returns the record produced by the last successful Next.
func (s *Scanner) Record() Record { return s.current }

// Err returns the first error encountered during iteration, if any.
func (s *Scanner) Err() error { return s.err }

// Records drains a full scan of dir into a slice, in discovery order.
func Records(dir string) ([]Record, error) {
	s, err := Scan(dir)
	if err != nil {
		return nil, err
	}

	var records []Record
	for s.Next() {
		records = append(records, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// defaultFocalLength mirrors the vendor fraction form of the field.
const defaultFocalLength = 3700.0 / 1000.0

func newRecord(imageName string, sc *Sidecar) Record {
	return Record{
		ImageName:   imageName,
		Latitude:    float64(sc.Latitude),
		Longitude:   float64(sc.Longitude),
		Altitude:    float64(sc.AbsoluteAltitude),
		Yaw:         float64(sc.CameraOrientationNED.Yaw),
		Pitch:       float64(sc.CameraOrientationNED.Pitch),
		Roll:        float64(sc.CameraOrientationNED.Roll),
		FocalLength: sc.FocalLength.Float(defaultFocalLength),
		Sidecar:     sc,
	}
}
