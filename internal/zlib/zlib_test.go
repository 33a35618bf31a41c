package zlib

import (
	"bytes"
	"testing"
)

func TestDecodeAbc(t *testing.T) {
	// Known zlib-wrapped payload decompressing to "abc".
	compressed := []byte{0x78, 0x9C, 0x4B, 0x4C, 0x4A, 0x06, 0x00, 0x02, 0x4D, 0x01, 0x27}
	out, err := Decode(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, []byte("abc")) {
		t.Errorf("got %q want %q", out, "abc")
	}
}

func TestInvalidHeaderCheckBits(t *testing.T) {
	_, err := Decode([]byte{0x78, 0x00, 0, 0, 0, 0})
	if err == nil {
		t.Fatal("expected header validation error")
	}
}

func TestPresetDictionaryRejected(t *testing.T) {
	// FLG with FDICT bit (0x20) set; CMF|FLG must still satisfy mod-31.
	cmf := byte(0x78)
	// find an flg with FDICT set that divides by 31; 0x78*256=30720,
	// need (30720+flg)%31==0 and flg&0x20!=0. 30720%31 = 30, so flg must
	// be 1 mod 31; the loop below searches for the first such flg, which
	// is 0x20 (32).
	var flg byte
	for f := 0; f < 256; f++ {
		if f&0x20 != 0 && (int(cmf)*256+f)%31 == 0 {
			flg = byte(f)
			break
		}
	}
	_, err := Decode([]byte{cmf, flg, 0, 0, 0, 0, 0, 0, 0, 0})
	if err == nil {
		t.Fatal("expected preset-dictionary rejection")
	}
}
