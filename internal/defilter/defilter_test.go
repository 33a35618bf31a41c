package defilter

import "testing"

func row(b ...byte) []byte { return b }

func TestReconstructNoneFilter(t *testing.T) {
	// Two 1-pixel (bpp=3) rows, both filter type None.
	filtered := append(append([]byte{filterNone}, row(10, 20, 30)...),
		append([]byte{filterNone}, row(40, 50, 60)...)...)

	out, err := Reconstruct(filtered, 2, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 20, 30, 40, 50, 60}
	if string(out) != string(want) {
		t.Errorf("got %v want %v", out, want)
	}
}

func TestReconstructSubFilter(t *testing.T) {
	// One row, bpp=1, filter Sub: raw = [10, 5] encoded as deltas from the
	// pixel to the left (0 for the first).
	filtered := []byte{filterSub, 10, 5}
	out, err := Reconstruct(filtered, 1, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 15}
	if string(out) != string(want) {
		t.Errorf("got %v want %v", out, want)
	}
}

func TestReconstructUpFilter(t *testing.T) {
	rowA := append([]byte{filterNone}, 10, 20)
	rowB := append([]byte{filterUp}, 5, 5)
	filtered := append(rowA, rowB...)

	out, err := Reconstruct(filtered, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 20, 15, 25}
	if string(out) != string(want) {
		t.Errorf("got %v want %v", out, want)
	}
}

func TestReconstructAverageFilter(t *testing.T) {
	// bpp=1, row0 raw = [10, 20]; row1 average-filtered.
	rowA := append([]byte{filterNone}, 10, 20)
	// raw target for row1 = [20, 30]
	// pos0: a=0, b=10(above) -> avg=5 -> filt = 20-5=15
	// pos1: a=20(left, reconstructed), b=20(above) -> avg=20 -> filt=30-20=10
	rowB := append([]byte{filterAverage}, 15, 10)
	filtered := append(rowA, rowB...)

	out, err := Reconstruct(filtered, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 20, 20, 30}
	if string(out) != string(want) {
		t.Errorf("got %v want %v", out, want)
	}
}

func TestReconstructPaethFilter(t *testing.T) {
	// First row, first pixel: a=b=c=0 always, Paeth predictor picks 0.
	filtered := []byte{filterPaeth, 42}
	out, err := Reconstruct(filtered, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 42 {
		t.Errorf("got %d want 42", out[0])
	}
}

func TestPaethPredictorTieBreaksTowardA(t *testing.T) {
	// a=6, b=0, c=2: p=4, |p-a|=2, |p-b|=4, |p-c|=2; a and c tie, must pick a.
	if got := paethPredictor(6, 0, 2); got != 6 {
		t.Errorf("got %d want 6 (a)", got)
	}
}

func TestInvalidFilterType(t *testing.T) {
	filtered := []byte{9, 0, 0, 0}
	_, err := Reconstruct(filtered, 1, 3, 3)
	if err == nil {
		t.Fatal("expected invalid filter type error")
	}
}

func TestTruncatedScanlineData(t *testing.T) {
	filtered := []byte{filterNone, 1, 2} // missing third byte of stride 3
	_, err := Reconstruct(filtered, 1, 3, 3)
	if err == nil {
		t.Fatal("expected truncation error")
	}
}
