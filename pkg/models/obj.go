package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/orbitview/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return ParseOBJ(f, filepath.Base(path))
}

// ParseOBJ reads vertex positions and faces from an OBJ stream.
// Texture coordinates, normals, materials and groups are skipped; polygons
// are fan-triangulated keeping their winding.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	var poly []int

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			var xyz [3]float64
			for i := range xyz {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid %c coordinate: %w", lineNum, "xyz"[i], err)
				}
				xyz[i] = v
			}
			mesh.Vertices = append(mesh.Vertices, math3d.V3(xyz[0], xyz[1], xyz[2]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			poly = poly[:0]
			for _, tok := range fields[1:] {
				idx, err := parseFaceIndex(tok, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				poly = append(poly, idx)
			}
			mesh.fan(poly)

		case "o":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// parseFaceIndex resolves the position part of a face token (v, v/vt,
// v/vt/vn or v//vn) to a 0-based index. Negative indices count back from
// the last vertex read so far.
func parseFaceIndex(tok string, count int) (int, error) {
	pos, _, _ := strings.Cut(tok, "/")
	idx, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("invalid vertex index %q", tok)
	}

	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += count
	default:
		return 0, fmt.Errorf("vertex index 0 in %q", tok)
	}

	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("vertex index %s out of range (%d vertices)", pos, count)
	}
	return idx, nil
}
