package net

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the hard cap on a single frame, compressed or not.
const MaxFrameSize = 1 << 21 // 2 MiB

var (
	// ErrTruncated reports a frame that ended before its declared length.
	ErrTruncated = errors.New("truncated frame")
	// ErrOversizedFrame reports a frame above MaxFrameSize.
	ErrOversizedFrame = errors.New("oversized frame")
	// ErrCompression reports a zlib failure in either direction.
	ErrCompression = errors.New("compression error")
)

// Packet is a serverbound packet that knows its phase-scoped ID.
type Packet interface {
	PacketID() int32
}

// Frame is a pre-built packet body awaiting framing: the bare packet ID and
// payload. The framer owns the ID encoding.
type Frame struct {
	ID      int32
	Payload []byte
}

// Framer reads and writes length-prefixed frames on a stream. Once
// compression is enabled, frames at or above the threshold carry a
// zlib-compressed body; smaller frames carry an uncompressed body with a
// zero data-length marker. The framer owns the packet-ID encoding: builders
// hand it a bare ID and payload, never pre-encoded ID bytes.
type Framer struct {
	threshold int32 // -1 = compression off
}

// NewFramer returns a framer with compression disabled.
func NewFramer() *Framer {
	return &Framer{threshold: -1}
}

// EnableCompression turns on compression for frames >= threshold bytes.
func (f *Framer) EnableCompression(threshold int32) {
	f.threshold = threshold
}

// CompressionEnabled reports whether the framer compresses frames.
func (f *Framer) CompressionEnabled() bool {
	return f.threshold >= 0
}

// WriteFrame writes `VarInt length || VarInt packetId || payload`, switching
// to the compressed layout when compression is on.
func (f *Framer) WriteFrame(w io.Writer, packetID int32, data []byte) error {
	body := make([]byte, 0, VarIntSize(packetID)+len(data))
	var idBuf [5]byte
	body = append(body, idBuf[:PutVarInt(idBuf[:], packetID)]...)
	body = append(body, data...)

	var buf bytes.Buffer
	if f.threshold < 0 {
		if _, err := WriteVarInt(&buf, int32(len(body))); err != nil {
			return fmt.Errorf("write frame length: %w", err)
		}
		buf.Write(body)
	} else if int32(len(body)) < f.threshold {
		// Below threshold: data length 0 means "not compressed".
		if _, err := WriteVarInt(&buf, int32(len(body)+1)); err != nil {
			return fmt.Errorf("write frame length: %w", err)
		}
		buf.WriteByte(0)
		buf.Write(body)
	} else {
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(body); err != nil {
			return fmt.Errorf("%w: %v", ErrCompression, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("%w: %v", ErrCompression, err)
		}

		uncompressedLen := int32(len(body))
		totalLen := int32(VarIntSize(uncompressedLen) + compressed.Len())
		if _, err := WriteVarInt(&buf, totalLen); err != nil {
			return fmt.Errorf("write frame length: %w", err)
		}
		if _, err := WriteVarInt(&buf, uncompressedLen); err != nil {
			return fmt.Errorf("write data length: %w", err)
		}
		buf.Write(compressed.Bytes())
	}

	if buf.Len() > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrOversizedFrame, buf.Len())
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("flush frame: %w", err)
	}
	return nil
}

// ReadFrame reads one complete frame and returns its packet ID and payload.
func (f *Framer) ReadFrame(r io.Reader) (packetID int32, data []byte, err error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("read frame length: %w", err)
	}
	if length < 1 {
		return 0, nil, fmt.Errorf("%w: frame length %d", ErrMalformed, length)
	}
	if length > MaxFrameSize {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrOversizedFrame, length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	if f.threshold >= 0 {
		br := bytes.NewReader(body)
		uncompressedLen, _, err := ReadVarInt(br)
		if err != nil {
			return 0, nil, fmt.Errorf("read data length: %w", err)
		}
		if uncompressedLen > 0 {
			if uncompressedLen > MaxFrameSize {
				return 0, nil, fmt.Errorf("%w: %d bytes uncompressed", ErrOversizedFrame, uncompressedLen)
			}
			zr, err := zlib.NewReader(br)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: %v", ErrCompression, err)
			}
			inflated := make([]byte, uncompressedLen)
			if _, err := io.ReadFull(zr, inflated); err != nil {
				return 0, nil, fmt.Errorf("%w: %v", ErrCompression, err)
			}
			zr.Close()
			body = inflated
		} else {
			body = body[len(body)-br.Len():]
		}
	}

	br := bytes.NewReader(body)
	packetID, _, err = ReadVarInt(br)
	if err != nil {
		return 0, nil, fmt.Errorf("read packet ID: %w", err)
	}
	data = body[len(body)-br.Len():]
	return packetID, data, nil
}

// WritePacket marshals a tagged packet struct and frames it.
func (f *Framer) WritePacket(w io.Writer, p Packet) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal packet 0x%02X: %w", p.PacketID(), err)
	}
	return f.WriteFrame(w, p.PacketID(), data)
}
