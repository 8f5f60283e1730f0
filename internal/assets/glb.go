package assets

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Binary glTF constants.
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbHeaderLen = 12
	chunkJSON    = 0x4E4F534A // "JSON"
	chunkBIN     = 0x004E4942 // "BIN\0"
)

var (
	ErrInvalidGLBMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedGLBVersion = errors.New("unsupported GLB version")
	ErrTruncatedGLBData      = errors.New("truncated GLB data")
	ErrMissingJSONChunk      = errors.New("GLB has no JSON chunk")
	ErrNoPositions           = errors.New("model has no POSITION bounds")
	ErrExternalBuffer        = errors.New("external glTF buffers are not supported")
	ErrBadAccessor           = errors.New("accessor out of range")
)

// Document is the subset of a glTF 2.0 JSON document needed to place and
// size the model.
type Document struct {
	Asset struct {
		Version   string `json:"version"`
		Generator string `json:"generator"`
	} `json:"asset"`
	Scene       *int         `json:"scene"`
	Scenes      []Scene      `json:"scenes"`
	Nodes       []Node       `json:"nodes"`
	Meshes      []Mesh       `json:"meshes"`
	Accessors   []Accessor   `json:"accessors"`
	BufferViews []BufferView `json:"bufferViews"`
	Buffers     []Buffer     `json:"buffers"`
}

// Scene lists root nodes.
type Scene struct {
	Name  string `json:"name"`
	Nodes []int  `json:"nodes"`
}

// Node is a scene graph node. Either Matrix or the TRS triple is set.
type Node struct {
	Name        string    `json:"name"`
	Mesh        *int      `json:"mesh"`
	Children    []int     `json:"children"`
	Matrix      []float32 `json:"matrix"`
	Translation []float32 `json:"translation"`
	Rotation    []float32 `json:"rotation"`
	Scale       []float32 `json:"scale"`
}

// Mesh is a set of primitives.
type Mesh struct {
	Name       string      `json:"name"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive maps attribute names to accessor indices.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
	Mode       *int           `json:"mode"`
}

// Accessor describes a typed view into a buffer. The format requires min
// and max for POSITION data.
type Accessor struct {
	BufferView    *int      `json:"bufferView"`
	ByteOffset    int       `json:"byteOffset"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min"`
	Max           []float32 `json:"max"`
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

// Buffer is a binary blob. In a GLB the first buffer has no URI and lives
// in the BIN chunk.
type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri"`
}

// ParseGLB parses a binary glTF container, or a plain .gltf JSON document
// when data starts with '{'. The BIN chunk is returned untouched.
func ParseGLB(data []byte) (*Document, []byte, error) {
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		doc, err := parseDocument(trimmed)
		return doc, nil, err
	}

	if len(data) < glbHeaderLen {
		return nil, nil, ErrTruncatedGLBData
	}
	if binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return nil, nil, ErrInvalidGLBMagic
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != glbVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedGLBVersion, v)
	}
	total := int(binary.LittleEndian.Uint32(data[8:12]))
	if total > len(data) {
		return nil, nil, fmt.Errorf("%w: header says %d bytes, have %d", ErrTruncatedGLBData, total, len(data))
	}

	var jsonChunk, binChunk []byte
	offset := glbHeaderLen
	for offset+8 <= total {
		length := int(binary.LittleEndian.Uint32(data[offset:]))
		kind := binary.LittleEndian.Uint32(data[offset+4:])
		offset += 8
		if length < 0 || offset+length > total {
			return nil, nil, fmt.Errorf("%w: chunk of %d bytes at offset %d", ErrTruncatedGLBData, length, offset)
		}
		chunk := data[offset : offset+length]
		switch kind {
		case chunkJSON:
			if jsonChunk == nil {
				jsonChunk = chunk
			}
		case chunkBIN:
			if binChunk == nil {
				binChunk = chunk
			}
		}
		offset += length
	}

	if jsonChunk == nil {
		return nil, nil, ErrMissingJSONChunk
	}
	doc, err := parseDocument(jsonChunk)
	if err != nil {
		return nil, nil, err
	}
	return doc, binChunk, nil
}

func parseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(bytes.TrimRight(data, " \x00"), &doc); err != nil {
		return nil, fmt.Errorf("decoding glTF JSON: %w", err)
	}
	return &doc, nil
}
