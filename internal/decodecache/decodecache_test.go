package decodecache

import "testing"

func TestKeyOfIsStableAndContentAddressed(t *testing.T) {
	a := KeyOf([]byte("hello"))
	b := KeyOf([]byte("hello"))
	c := KeyOf([]byte("world"))
	if a != b {
		t.Error("same content should hash to the same key")
	}
	if a == c {
		t.Error("different content should not collide in this test")
	}
}

func TestHotTierOnlyRoundtrip(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := KeyOf([]byte("file-contents"))
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss before Put")
	}
	c.Put(key, []byte{1, 2, 3})
	v, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if string(v) != string([]byte{1, 2, 3}) {
		t.Errorf("got %v want [1 2 3]", v)
	}
}

func TestWarmTierOutlivesProcessRestart(t *testing.T) {
	dir := t.TempDir()
	key := KeyOf([]byte("persisted"))

	func() {
		c, err := Open(dir)
		if err != nil {
			t.Fatal(err)
		}
		defer c.Close()
		c.Put(key, []byte{9, 9, 9})
	}()

	// A fresh Cache over the same directory, standing in for a new
	// process invocation with an empty hot tier, must still find the
	// value pebble persisted to disk.
	c2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()

	v, ok := c2.Get(key)
	if !ok {
		t.Fatal("expected hit from warm tier after reopening")
	}
	if string(v) != string([]byte{9, 9, 9}) {
		t.Errorf("got %v want [9 9 9]", v)
	}
}
