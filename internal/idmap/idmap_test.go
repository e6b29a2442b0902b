package idmap

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/protocol"
)

func TestSetFillsGapsWithPlaceholder(t *testing.T) {
	m := New(0)
	if err := m.Set(3, 30); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", m.Len())
	}

	for id := protocol.ElementID(0); id < 3; id++ {
		if _, err := m.Get(id); !errors.Is(err, ErrUnassigned) {
			t.Errorf("Get(%d) should fail with ErrUnassigned, got %v", id, err)
		}
	}

	e, err := m.Get(3)
	if err != nil || e != 30 {
		t.Errorf("Get(3) = %v, %v", e, err)
	}

	if _, err := m.Get(99); !errors.Is(err, ErrUnassigned) {
		t.Errorf("Get beyond length should fail, got %v", err)
	}
}

func TestSetOverwrites(t *testing.T) {
	m := New(4)
	_ = m.Set(1, 10)
	_ = m.Set(1, 11)
	if e, _ := m.Get(1); e != 11 {
		t.Errorf("Get(1) = %v, want 11", e)
	}
	if m.Assigned() != 1 {
		t.Errorf("Assigned() = %d", m.Assigned())
	}
}

func TestSetRejectsHugeIDs(t *testing.T) {
	m := New(0)
	if err := m.Set(MaxID+1, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("rejected Set grew the table to %d", m.Len())
	}
}

// Every slot up to the highest id is either a real entity or the sentinel,
// and exactly the ids that were set resolve.
func TestDensityInvariant(t *testing.T) {
	faker := gofakeit.New(42)

	for round := 0; round < 20; round++ {
		m := New(0)
		want := make(map[protocol.ElementID]host.Entity)
		highest := -1

		for i := 0; i < 50; i++ {
			id := protocol.ElementID(faker.IntRange(0, 200))
			e := host.Entity(faker.Uint32() % 1_000_000)
			if err := m.Set(id, e); err != nil {
				t.Fatal(err)
			}
			want[id] = e
			highest = max(highest, int(id))
		}

		if m.Len() != highest+1 {
			t.Fatalf("Len() = %d, want %d", m.Len(), highest+1)
		}
		for id := 0; id <= highest; id++ {
			got, err := m.Get(protocol.ElementID(id))
			if e, ok := want[protocol.ElementID(id)]; ok {
				if err != nil || got != e {
					t.Fatalf("Get(%d) = %v, %v; want %v", id, got, err, e)
				}
			} else if !errors.Is(err, ErrUnassigned) {
				t.Fatalf("Get(%d) on gap = %v, %v", id, got, err)
			}
		}
		if m.Assigned() != len(want) {
			t.Fatalf("Assigned() = %d, want %d", m.Assigned(), len(want))
		}
	}
}
