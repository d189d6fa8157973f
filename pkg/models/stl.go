package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/orbitview/pkg/math3d"
)

const (
	stlHeaderSize   = 84 // 80-byte header + uint32 triangle count
	stlTriangleSize = 50 // normal + 3 vertices as float32, uint16 attribute
)

// LoadSTL loads an ASCII or binary STL file from disk.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	return ParseSTL(data, filepath.Base(path))
}

// ParseSTL decodes STL data, detecting the binary or ASCII form.
// Facet normals are ignored; shared corners are merged into one vertex.
func ParseSTL(data []byte, name string) (*Mesh, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data, name)
	}
	return parseASCIISTL(data, name)
}

// isBinarySTL reports whether data is binary STL. ASCII files start with
// "solid", but so do some binary headers, so the size must also not match.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	sizeMatches := uint64(len(data)) == stlHeaderSize+uint64(count)*stlTriangleSize

	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return sizeMatches
	}
	return true
}

// vertexIndex merges identical positions.
type vertexIndex struct {
	mesh  *Mesh
	index map[math3d.Vec3]int
}

func newVertexIndex(mesh *Mesh) *vertexIndex {
	return &vertexIndex{mesh: mesh, index: make(map[math3d.Vec3]int)}
}

func (vi *vertexIndex) add(p math3d.Vec3) int {
	if idx, ok := vi.index[p]; ok {
		return idx
	}
	idx := len(vi.mesh.Vertices)
	vi.mesh.Vertices = append(vi.mesh.Vertices, p)
	vi.index[p] = idx
	return idx
}

func parseBinarySTL(data []byte, name string) (*Mesh, error) {
	count := binary.LittleEndian.Uint32(data[80:84])
	want := stlHeaderSize + uint64(count)*stlTriangleSize
	if uint64(len(data)) < want {
		return nil, fmt.Errorf("binary stl truncated: need %d bytes, have %d", want, len(data))
	}

	mesh := NewMesh(name)
	vi := newVertexIndex(mesh)

	readVec := func(b []byte) math3d.Vec3 {
		f := func(o int) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[o:])))
		}
		return math3d.V3(f(0), f(4), f(8))
	}

	for i := range int(count) {
		tri := data[stlHeaderSize+i*stlTriangleSize:]
		// Skip the 12-byte normal
		var face [3]int
		for v := range face {
			face[v] = vi.add(readVec(tri[12+v*12:]))
		}
		mesh.Faces = append(mesh.Faces, face)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func parseASCIISTL(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	vi := newVertexIndex(mesh)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	inLoop := false
	var poly []int

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		case "outer":
			inLoop = true
			poly = poly[:0]

		case "vertex":
			if !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside loop", lineNum)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			var xyz [3]float64
			for i := range xyz {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid vertex %c: %w", lineNum, "xyz"[i], err)
				}
				xyz[i] = v
			}
			poly = append(poly, vi.add(math3d.V3(xyz[0], xyz[1], xyz[2])))

		case "endloop":
			inLoop = false
			mesh.fan(poly)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}

	mesh.CalculateBounds()
	return mesh, nil
}
