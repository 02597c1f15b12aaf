package source

import "testing"

func TestSpanContains(t *testing.T) {
	sp := Span{Start: 4, End: 8}
	for off, want := range map[uint32]bool{3: false, 4: true, 7: true, 8: false} {
		if got := sp.Contains(off); got != want {
			t.Errorf("Contains(%d) = %v, want %v", off, got, want)
		}
	}
	empty := Span{Start: 5, End: 5}
	if !empty.Contains(5) || empty.Contains(6) {
		t.Fatalf("empty span containment is wrong")
	}
}

func TestSpanCover(t *testing.T) {
	got := Span{Start: 4, End: 8}.Cover(Span{Start: 2, End: 6})
	if got != (Span{Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if got.Len() != 6 {
		t.Fatalf("Len = %d, want 6", got.Len())
	}
}
