// Package pngmeta reads the image size and the generation parameters embedded in a PNG.
package pngmeta

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"io"
	"strings"
)

var (
	ErrInvalidSignature = errors.New("pngmeta: invalid signature")
	ErrMissingIHDR      = errors.New("pngmeta: missing IHDR")
	ErrTruncated        = errors.New("pngmeta: truncated chunk")
)

const (
	parametersKeyword = "parameters"
	negativePrefix    = "Negative prompt: "
)

var signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Metadata is what the viewer keeps about an image.
type Metadata struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Positive []string `json:"positive,omitempty"`
	Negative []string `json:"negative,omitempty"`
	Param    []string `json:"param,omitempty"`
	Text     []string `json:"text,omitempty"`
}

type chunk struct {
	typ     string
	payload []byte
}

// Parse reads the header and the first text chunk of a PNG. Prompt fields stay empty when
// that chunk is not a "parameters" entry.
func Parse(data []byte) (*Metadata, error) {
	chunks, err := readChunks(data)
	if err != nil {
		return nil, err
	}

	md := &Metadata{}
	var text *chunk
	for i := range chunks {
		switch c := &chunks[i]; c.typ {
		case "IHDR":
			if len(c.payload) < 8 {
				return nil, ErrTruncated
			}
			md.Width = int(binary.BigEndian.Uint32(c.payload[0:4]))
			md.Height = int(binary.BigEndian.Uint32(c.payload[4:8]))
		case "tEXt", "iTXt":
			if text == nil {
				text = c
			}
		}
	}

	if text == nil {
		return md, nil
	}
	raw, ok := textOf(*text)
	if !ok {
		return md, nil
	}
	md.fillPrompt(raw)
	return md, nil
}

func readChunks(data []byte) ([]chunk, error) {
	if !bytes.HasPrefix(data, signature) {
		return nil, ErrInvalidSignature
	}

	var out []chunk
	ptr := len(signature)
	for ptr < len(data) {
		if ptr+8 > len(data) {
			return nil, ErrTruncated
		}
		length := int(binary.BigEndian.Uint32(data[ptr : ptr+4]))
		typ := string(data[ptr+4 : ptr+8])
		ptr += 8

		if len(out) == 0 && typ != "IHDR" {
			return nil, ErrMissingIHDR
		}
		if typ == "IEND" {
			break
		}
		if length < 0 || ptr+length+4 > len(data) {
			return nil, ErrTruncated
		}

		switch typ {
		case "IHDR", "tEXt", "iTXt":
			out = append(out, chunk{typ: typ, payload: data[ptr : ptr+length]})
		}
		// payload and CRC
		ptr += length + 4
	}

	if len(out) == 0 {
		return nil, ErrMissingIHDR
	}
	return out, nil
}

// textOf returns "keyword\x00text" for a parameters chunk.
func textOf(c chunk) (string, bool) {
	keyword, rest, found := bytes.Cut(c.payload, []byte{0})
	if !found || string(keyword) != parametersKeyword {
		return "", false
	}
	if c.typ == "tEXt" {
		return parametersKeyword + "\x00" + string(rest), true
	}

	// iTXt: compression flag, compression method, language tag, translated keyword, text
	if len(rest) < 2 {
		return "", false
	}
	compressed := rest[0] == 1
	rest = rest[2:]
	_, rest, _ = bytes.Cut(rest, []byte{0})
	_, rest, _ = bytes.Cut(rest, []byte{0})

	if compressed {
		zr, err := zlib.NewReader(bytes.NewReader(rest))
		if err != nil {
			return "", false
		}
		defer zr.Close()
		inflated, err := io.ReadAll(zr)
		if err != nil {
			return "", false
		}
		rest = inflated
	}
	return parametersKeyword + "\x00" + string(rest), true
}

// fillPrompt splits the parameters text. The first line is the keyword, the last line holds
// the comma separated generation settings, and lines from "Negative prompt: " on belong to
// the negative prompt.
func (md *Metadata) fillPrompt(raw string) {
	md.Positive = []string{}
	md.Negative = []string{}
	md.Param = []string{}
	md.Text = nil
	for _, part := range strings.Split(raw, "\x00") {
		for _, line := range strings.Split(part, "\n") {
			if line != "" {
				md.Text = append(md.Text, line)
			}
		}
	}

	negative := false
	for i, line := range md.Text {
		switch {
		case i == 0:
			continue
		case i == len(md.Text)-1:
			md.Param = append(md.Param, strings.Split(line, ", ")...)
		case strings.HasPrefix(line, negativePrefix):
			negative = true
			md.Negative = append(md.Negative, strings.TrimPrefix(line, negativePrefix))
		case negative:
			md.Negative = append(md.Negative, line)
		default:
			md.Positive = append(md.Positive, line)
		}
	}
}
