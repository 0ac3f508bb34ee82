package text_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wnxd/psxhook/internal/test"
	"github.com/wnxd/psxhook/text"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, ""},
		{"terminated", []byte{0x2D, 0x4C, 0x49, 0x42, 0x52, 0xFF, 0x21}, "Mlibr"},
		{"unterminated", []byte{0x21, 0x22}, "AB"},
		{"space", []byte{0x00, 0x5E, 0xFF}, " ~"},
		{"unmapped", []byte{0x80, 0xFF}, "\ufffd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.ExpectEquality(t, text.Decode(tt.in), tt.want)
		})
	}
}

func TestEncode(t *testing.T) {
	got := text.Encode("Cloud", 8)
	want := []byte{0x23, 0x4C, 0x4F, 0x55, 0x44, 0xFF, 0xFF, 0xFF}
	test.ExpectSuccess(t, bytes.Equal(got, want))

	got = text.Encode("Barret Wallace", 6)
	test.ExpectEquality(t, len(got), 6)
	test.ExpectEquality(t, text.Decode(got), "Barret")

	got = text.Encode("é!", 3)
	test.ExpectEquality(t, text.Decode(got), "?!")

	got = text.Encode("Aeris\xff", 4)
	test.ExpectSuccess(t, bytes.Equal(got, []byte{0xFF, 0xFF, 0xFF, 0xFF}))

	got = text.Encode("\ufffd", 2)
	test.ExpectEquality(t, text.Decode(got), "?")
}

func TestInvalidUTF8(t *testing.T) {
	_, err := text.Codec.NewEncoder().String("Aeris\xff")
	test.ExpectSuccess(t, errors.Is(err, text.ErrInvalidUTF8))
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"Tifa", "Red XIII", "Cait Sith", "~{}|"} {
		test.ExpectEquality(t, text.Decode(text.Encode(s, 16)), s)
	}
}
