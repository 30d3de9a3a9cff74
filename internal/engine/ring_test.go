package engine

import (
	"testing"
)

func TestRing_FillAndEvict(t *testing.T) {
	r := NewRing[int](3)

	if r.Len() != 0 || r.Cap() != 3 {
		t.Fatalf("fresh ring: len=%d cap=%d", r.Len(), r.Cap())
	}

	// T1..T5 into capacity 3 leaves [T3, T4, T5]
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}

	if r.Len() != 3 {
		t.Fatalf("len = %d, want 3", r.Len())
	}

	got := r.Items()
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Items()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRing_LenIsMinOfInsertedAndCapacity(t *testing.T) {
	const capacity = 4
	r := NewRing[int](capacity)

	for inserted := 1; inserted <= 10; inserted++ {
		r.Push(inserted)

		wantLen := inserted
		if wantLen > capacity {
			wantLen = capacity
		}
		if r.Len() != wantLen {
			t.Fatalf("after %d inserts len = %d, want %d", inserted, r.Len(), wantLen)
		}

		// Retained entries are the most recent, in arrival order
		items := r.Items()
		for i, v := range items {
			want := inserted - wantLen + 1 + i
			if v != want {
				t.Fatalf("after %d inserts Items()[%d] = %d, want %d", inserted, i, v, want)
			}
		}
	}
}

func TestRing_NewestFirst(t *testing.T) {
	r := NewRing[string](3)
	r.Push("a")
	r.Push("b")
	r.Push("c")
	r.Push("d")

	got := r.ItemsNewestFirst()
	want := []string{"d", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ItemsNewestFirst()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRing_ItemsDoNotAliasStorage(t *testing.T) {
	r := NewRing[int](2)
	r.Push(1)
	r.Push(2)

	items := r.Items()
	items[0] = 99

	if r.Items()[0] != 1 {
		t.Error("mutating a returned slice must not touch ring storage")
	}
}
