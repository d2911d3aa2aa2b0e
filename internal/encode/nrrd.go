package encode

import (
	"bufio"
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// NRRD is a "nearly raw raster data" volume header plus payload,
// grounded on original_source/third-party/mininrrd.h's nrrd_t. Only the
// fields the pipeline needs round-trip; space directions/origin are kept
// for fidelity but not interpreted.
type NRRD struct {
	Type            string
	Sizes           []int
	Space           string
	SpaceDirections [][3]float32
	SpaceOrigin     [3]float32
	Encoding        string
	Endian          string
	Data            []byte
}

// nrrdTypeSize mirrors mininrrd.h's get_type_size.
func nrrdTypeSize(t string) int {
	switch t {
	case "uint8", "uchar":
		return 1
	case "uint16":
		return 2
	case "uint32":
		return 4
	case "float":
		return 4
	case "double":
		return 8
	default:
		return 0
	}
}

// ReadNRRD parses a detached-header-less NRRD file (text header, blank
// line, then raw or raw-deflate-compressed payload), grounded on
// mininrrd.h's nrrd_read.
func ReadNRRD(path string) (*NRRD, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("encode: nrrd magic: %w", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(magic), "NRRD") {
		return nil, fmt.Errorf("encode: not an nrrd file: %q", strings.TrimSpace(magic))
	}

	n := &NRRD{}
	dimension := 0
	for {
		line, err := r.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}
		if strings.HasPrefix(trimmed, "#") {
			if err != nil {
				break
			}
			continue
		}
		key, value, ok := strings.Cut(trimmed, ":")
		if ok {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			switch key {
			case "type":
				n.Type = value
			case "dimension":
				dimension, _ = strconv.Atoi(value)
				if dimension <= 0 || dimension > 16 {
					return nil, fmt.Errorf("encode: nrrd invalid dimension %d", dimension)
				}
			case "space":
				n.Space = value
			case "sizes":
				sizes, err := parseNRRDSizes(value, dimension)
				if err != nil {
					return nil, err
				}
				n.Sizes = sizes
			case "space directions":
				dirs, err := parseNRRDSpaceDirections(value, dimension)
				if err != nil {
					return nil, err
				}
				n.SpaceDirections = dirs
			case "space origin":
				origin, err := parseNRRDSpaceOrigin(value)
				if err != nil {
					return nil, err
				}
				n.SpaceOrigin = origin
			case "endian":
				n.Endian = value
			case "encoding":
				n.Encoding = value
			}
		}
		if err != nil {
			break
		}
	}

	typeSize := nrrdTypeSize(n.Type)
	if typeSize == 0 {
		return nil, fmt.Errorf("encode: nrrd unsupported type %q", n.Type)
	}
	dataSize := typeSize
	for _, s := range n.Sizes {
		dataSize *= s
	}

	switch n.Encoding {
	case "raw":
		buf := make([]byte, dataSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("encode: nrrd raw payload: %w", err)
		}
		n.Data = buf
	case "gzip":
		// mininrrd.h's read_gzip_data calls inflateInit2 with a negative
		// window bits, i.e. a raw DEFLATE stream without the gzip/zlib
		// wrapper, despite the header field being named "gzip".
		fr := flate.NewReader(r)
		defer fr.Close()
		buf := make([]byte, dataSize)
		if _, err := io.ReadFull(fr, buf); err != nil {
			return nil, fmt.Errorf("encode: nrrd deflate payload: %w", err)
		}
		n.Data = buf
	default:
		return nil, fmt.Errorf("encode: nrrd unsupported encoding %q", n.Encoding)
	}

	return n, nil
}

func parseNRRDSizes(value string, dimension int) ([]int, error) {
	fields := strings.Fields(value)
	if len(fields) < dimension {
		return nil, fmt.Errorf("encode: nrrd sizes has %d fields, want %d", len(fields), dimension)
	}
	sizes := make([]int, dimension)
	for i := 0; i < dimension; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("encode: nrrd invalid size %q", fields[i])
		}
		sizes[i] = v
	}
	return sizes, nil
}

func parseNRRDSpaceDirections(value string, dimension int) ([][3]float32, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ' ' })
	dirs := make([][3]float32, 0, dimension)
	for _, tok := range fields {
		tok = strings.Trim(tok, "()")
		if len(dirs) >= dimension {
			break
		}
		if tok == "none" {
			dirs = append(dirs, [3]float32{})
			continue
		}
		parts := strings.Split(tok, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("encode: nrrd invalid space direction %q", tok)
		}
		var d [3]float32
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
			if err != nil {
				return nil, fmt.Errorf("encode: nrrd invalid space direction %q", tok)
			}
			d[i] = float32(v)
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

func parseNRRDSpaceOrigin(value string) ([3]float32, error) {
	value = strings.TrimPrefix(value, "(")
	value = strings.TrimSuffix(value, ")")
	parts := strings.Split(value, ",")
	var origin [3]float32
	if len(parts) != 3 {
		return origin, fmt.Errorf("encode: nrrd invalid space origin %q", value)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return origin, fmt.Errorf("encode: nrrd invalid space origin %q", value)
		}
		origin[i] = float32(v)
	}
	return origin, nil
}

// WriteNRRD writes a text header followed by a raw (uncompressed)
// payload, grounded on mininrrd.h's header field set. The "gzip"
// encoding is read-only here; this pipeline only ever produces raw
// volumes, matching internal/encode's other writers (see vcps.go).
func WriteNRRD(path string, n *NRRD) error {
	if nrrdTypeSize(n.Type) == 0 {
		return fmt.Errorf("encode: nrrd unsupported type %q", n.Type)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "NRRD0004\n")
	fmt.Fprintf(&buf, "type: %s\n", n.Type)
	fmt.Fprintf(&buf, "dimension: %d\n", len(n.Sizes))
	if n.Space != "" {
		fmt.Fprintf(&buf, "space: %s\n", n.Space)
	}
	sizeStrs := make([]string, len(n.Sizes))
	for i, s := range n.Sizes {
		sizeStrs[i] = strconv.Itoa(s)
	}
	fmt.Fprintf(&buf, "sizes: %s\n", strings.Join(sizeStrs, " "))
	if len(n.SpaceDirections) > 0 {
		dirStrs := make([]string, len(n.SpaceDirections))
		for i, d := range n.SpaceDirections {
			if d == ([3]float32{}) {
				dirStrs[i] = "none"
				continue
			}
			dirStrs[i] = fmt.Sprintf("(%s,%s,%s)",
				trimFloat(d[0]), trimFloat(d[1]), trimFloat(d[2]))
		}
		fmt.Fprintf(&buf, "space directions: %s\n", strings.Join(dirStrs, " "))
	}
	if n.SpaceOrigin != ([3]float32{}) {
		fmt.Fprintf(&buf, "space origin: (%s,%s,%s)\n",
			trimFloat(n.SpaceOrigin[0]), trimFloat(n.SpaceOrigin[1]), trimFloat(n.SpaceOrigin[2]))
	}
	fmt.Fprintf(&buf, "endian: little\n")
	fmt.Fprintf(&buf, "encoding: raw\n")
	fmt.Fprintf(&buf, "\n")

	if _, err := f.Write(buf.Bytes()); err != nil {
		return err
	}
	_, err = f.Write(n.Data)
	return err
}

func trimFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
