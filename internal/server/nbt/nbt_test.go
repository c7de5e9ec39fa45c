package nbt

import (
	"bytes"
	"testing"
)

func TestMarshalNetworkFlavor(t *testing.T) {
	c := NewCompound().Put("text", String("hi"))

	got := Marshal(c, true)
	want := []byte{
		TagCompound,
		TagString, 0x00, 0x04, 't', 'e', 'x', 't', 0x00, 0x02, 'h', 'i',
		TagEnd,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("network marshal = % X, want % X", got, want)
	}
}

func TestMarshalNamedFlavor(t *testing.T) {
	c := NewCompound().Put("v", Byte(1))

	got := Marshal(c, false)
	// Named root carries an empty name length.
	want := []byte{
		TagCompound, 0x00, 0x00,
		TagByte, 0x00, 0x01, 'v', 0x01,
		TagEnd,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("named marshal = % X, want % X", got, want)
	}
}

func TestCompoundInsertionOrder(t *testing.T) {
	c := NewCompound().
		Put("zulu", Int(1)).
		Put("alpha", Int(2)).
		Put("zulu", Int(3)) // overwrite keeps first position

	got := Marshal(c, true)

	zulu := bytes.Index(got, []byte("zulu"))
	alpha := bytes.Index(got, []byte("alpha"))
	if zulu < 0 || alpha < 0 || zulu > alpha {
		t.Errorf("insertion order lost: zulu at %d, alpha at %d", zulu, alpha)
	}
	if v, _ := c.Get("zulu"); v != Int(3) {
		t.Errorf("overwrite lost: zulu = %v", v)
	}
}

func TestScalarPayloads(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		want []byte
	}{
		{"byte", Byte(-1), []byte{0xFF}},
		{"short", Short(0x1234), []byte{0x12, 0x34}},
		{"int", Int(0x01020304), []byte{0x01, 0x02, 0x03, 0x04}},
		{"long", Long(1), []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{"float_one", Float(1.0), []byte{0x3F, 0x80, 0x00, 0x00}},
		{"double_one", Double(1.0), []byte{0x3F, 0xF0, 0, 0, 0, 0, 0, 0}},
		{"byte_array", ByteArray{0xAA, 0xBB}, []byte{0, 0, 0, 2, 0xAA, 0xBB}},
		{"int_array", IntArray{1}, []byte{0, 0, 0, 1, 0, 0, 0, 1}},
		{"long_array", LongArray{1}, []byte{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.tag.writePayload(&buf)
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("payload = % X, want % X", buf.Bytes(), tt.want)
			}
		})
	}
}

func TestListPayload(t *testing.T) {
	var buf bytes.Buffer
	List{String("a"), String("b")}.writePayload(&buf)
	want := []byte{TagString, 0, 0, 0, 2, 0, 1, 'a', 0, 1, 'b'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("list payload = % X, want % X", buf.Bytes(), want)
	}

	buf.Reset()
	List{}.writePayload(&buf)
	want = []byte{TagEnd, 0, 0, 0, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("empty list payload = % X, want % X", buf.Bytes(), want)
	}
}

func TestNestedCompound(t *testing.T) {
	inner := NewCompound().Put("depth", Int(1))
	outer := NewCompound().Put("inner", inner)

	got := Marshal(outer, true)
	want := []byte{
		TagCompound,
		TagCompound, 0x00, 0x05, 'i', 'n', 'n', 'e', 'r',
		TagInt, 0x00, 0x05, 'd', 'e', 'p', 't', 'h', 0, 0, 0, 1,
		TagEnd,
		TagEnd,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("nested marshal = % X, want % X", got, want)
	}
}

func TestTextComponent(t *testing.T) {
	c := TextComponent("A", "white")
	if v, _ := c.Get("text"); v != String("A") {
		t.Errorf("text = %v", v)
	}
	if v, _ := c.Get("color"); v != String("white") {
		t.Errorf("color = %v", v)
	}
	if TextComponent("B", "").Len() != 1 {
		t.Error("empty color should omit the color field")
	}
}
