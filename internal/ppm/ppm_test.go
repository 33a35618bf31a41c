package ppm

import "testing"

func TestEncodeHeader(t *testing.T) {
	img, err := New(2, 1, []byte{255, 0, 0, 0, 255, 0})
	if err != nil {
		t.Fatal(err)
	}
	got := img.Encode()
	want := "P6\n2 1\n255\n"
	if string(got[:len(want)]) != want {
		t.Errorf("got header %q want %q", got[:len(want)], want)
	}
	if got[len(got)-1] != '\n' {
		t.Error("expected trailing newline")
	}
}

func TestEncodePixelBytesInOrder(t *testing.T) {
	pixels := []byte{1, 2, 3, 4, 5, 6}
	img, err := New(2, 1, pixels)
	if err != nil {
		t.Fatal(err)
	}
	got := img.Encode()
	headerLen := len("P6\n2 1\n255\n")
	body := got[headerLen : headerLen+len(pixels)]
	for i, b := range pixels {
		if body[i] != b {
			t.Errorf("byte %d: got %d want %d", i, body[i], b)
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	_, err := New(2, 2, []byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}
