package net

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxStringChars is the protocol limit on decoded string length in characters.
const MaxStringChars = 32767

func ReadString(r io.Reader) (string, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	if length < 0 || length > MaxStringChars*4 {
		return "", fmt.Errorf("%w: string length out of range: %d", ErrMalformed, length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string data: %w", err)
	}
	s := string(buf)
	if utf8.RuneCountInString(s) > MaxStringChars {
		return "", fmt.Errorf("%w: string too long: %d chars", ErrMalformed, utf8.RuneCountInString(s))
	}
	return s, nil
}

func WriteString(w io.Writer, s string) (int, error) {
	n1, err := WriteVarInt(w, int32(len(s)))
	if err != nil {
		return n1, err
	}
	n2, err := io.WriteString(w, s)
	return n1 + n2, err
}

func ReadByteArray(r io.Reader) ([]byte, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("read byte array length: %w", err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative byte array length: %d", ErrMalformed, length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read byte array data: %w", err)
	}
	return buf, nil
}

func WriteByteArray(w io.Writer, data []byte) (int, error) {
	n1, err := WriteVarInt(w, int32(len(data)))
	if err != nil {
		return n1, err
	}
	n2, err := w.Write(data)
	return n1 + n2, err
}

// ReadUUID reads 16 raw bytes in network order.
func ReadUUID(r io.Reader) (uuid.UUID, error) {
	var id uuid.UUID
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return id, err
	}
	return id, nil
}

func WriteUUID(w io.Writer, id uuid.UUID) (int, error) {
	return w.Write(id[:])
}

func ReadI8(r io.Reader) (int8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int8(buf[0]), nil
}

func ReadU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func ReadI16(r io.Reader) (int16, error) {
	var val int16
	err := binary.Read(r, binary.BigEndian, &val)
	return val, err
}

func ReadU16(r io.Reader) (uint16, error) {
	var val uint16
	err := binary.Read(r, binary.BigEndian, &val)
	return val, err
}

func ReadI32(r io.Reader) (int32, error) {
	var val int32
	err := binary.Read(r, binary.BigEndian, &val)
	return val, err
}

func ReadI64(r io.Reader) (int64, error) {
	var val int64
	err := binary.Read(r, binary.BigEndian, &val)
	return val, err
}

func ReadF32(r io.Reader) (float32, error) {
	var val float32
	err := binary.Read(r, binary.BigEndian, &val)
	return val, err
}

func ReadF64(r io.Reader) (float64, error) {
	var val float64
	err := binary.Read(r, binary.BigEndian, &val)
	return val, err
}

func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadU8(r)
	return b != 0, err
}

func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func WriteI8(w io.Writer, v int8) error {
	return WriteU8(w, uint8(v))
}

func WriteI16(w io.Writer, v int16) error {
	return binary.Write(w, binary.BigEndian, v)
}

func WriteU16(w io.Writer, v uint16) error {
	return binary.Write(w, binary.BigEndian, v)
}

func WriteI32(w io.Writer, v int32) error {
	return binary.Write(w, binary.BigEndian, v)
}

func WriteI64(w io.Writer, v int64) error {
	return binary.Write(w, binary.BigEndian, v)
}

func WriteF32(w io.Writer, v float32) error {
	return binary.Write(w, binary.BigEndian, v)
}

func WriteF64(w io.Writer, v float64) error {
	return binary.Write(w, binary.BigEndian, v)
}

func WriteBool(w io.Writer, v bool) error {
	if v {
		return WriteU8(w, 1)
	}
	return WriteU8(w, 0)
}

// WritePosition writes block coordinates as a packed 64-bit word.
func WritePosition(w io.Writer, x, y, z int) error {
	return WriteI64(w, EncodePosition(x, y, z))
}

// ReadPosition reads a packed 64-bit position word.
func ReadPosition(r io.Reader) (x, y, z int, err error) {
	val, err := ReadI64(r)
	if err != nil {
		return 0, 0, 0, err
	}
	x, y, z = DecodePosition(val)
	return
}
