package media

import (
	"encoding/binary"
	"testing"
)

func TestEncodeSolidClipIsMP4(t *testing.T) {
	data := EncodeSolidClip(16, 16, 1, [3]byte{0, 0, 0})
	if len(data) == 0 {
		t.Fatal("empty clip")
	}
	if !IsMP4(data) {
		t.Fatal("clip does not sniff as an MP4 container")
	}
	if got := string(data[4:8]); got != "ftyp" {
		t.Fatalf("first box is %q, want ftyp", got)
	}
}

func TestEncodeSolidClipDefaults(t *testing.T) {
	data := EncodeSolidClip(0, -1, 0, [3]byte{10, 20, 30})
	if !IsMP4(data) {
		t.Fatal("clip with defaulted dimensions should still be an MP4 container")
	}
}

func TestEncodeSolidClipBoxSizes(t *testing.T) {
	data := EncodeSolidClip(8, 8, 2, [3]byte{1, 2, 3})
	offset := 0
	var kinds []string
	for offset+8 <= len(data) {
		size := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		if size < 8 || offset+size > len(data) {
			t.Fatalf("box at offset %d has bad size %d", offset, size)
		}
		kinds = append(kinds, string(data[offset+4:offset+8]))
		offset += size
	}
	if offset != len(data) {
		t.Fatalf("trailing bytes after last box: %d", len(data)-offset)
	}
	want := []string{"ftyp", "mdat", "moov"}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected boxes: %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("box %d is %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestIsMP4RejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("short"), []byte("definitely not a video file")} {
		if IsMP4(data) {
			t.Fatalf("%q should not sniff as MP4", data)
		}
	}
}
