package sim

import (
	"testing"
)

func TestPool_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a pool with applications [1, 2]
	p := &Pool{}
	apps := appsWithCycles(t, 1, 1)
	p.Add(apps[0])
	p.Add(apps[1])

	// WHEN Peek() is called
	got := p.Peek()

	// THEN it returns the front element without removing it
	if got != apps[0] {
		t.Errorf("Peek: got application %d, want %d", got.ID, apps[0].ID)
	}
	if p.Len() != 2 {
		t.Errorf("Peek modified pool length: got %d, want 2", p.Len())
	}
}

func TestPool_Peek_Empty_ReturnsNil(t *testing.T) {
	p := &Pool{}
	if got := p.Peek(); got != nil {
		t.Errorf("Peek on empty pool: got %v, want nil", got)
	}
	if got := p.PopFront(); got != nil {
		t.Errorf("PopFront on empty pool: got %v, want nil", got)
	}
}

func TestPool_PopFront_FIFO(t *testing.T) {
	p := &Pool{}
	for _, a := range appsWithCycles(t, 1, 2, 3) {
		p.Add(a)
	}

	for want := 1; want <= 3; want++ {
		if got := p.PopFront(); got.ID != want {
			t.Errorf("PopFront: got %d, want %d", got.ID, want)
		}
	}
	if p.Len() != 0 {
		t.Errorf("Len after draining: got %d, want 0", p.Len())
	}
}

func TestPool_Reorder_LengthChange_Panics(t *testing.T) {
	p := &Pool{}
	for _, a := range appsWithCycles(t, 1, 2) {
		p.Add(a)
	}

	defer func() {
		if recover() == nil {
			t.Error("Reorder: expected panic when fn changes the length")
		}
	}()
	p.Reorder(func(apps []*Application) {
		p.apps = apps[:1]
	})
}

func TestPool_Reorder_SortsInPlace(t *testing.T) {
	p := &Pool{}
	for _, a := range appsWithCycles(t, 5, 1, 3) {
		p.Add(a)
	}

	p.Reorder(sortByRemainingTime)

	got := appIDs(p.Items())
	want := []int{2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Reorder: got %v, want %v", got, want)
		}
	}
	if s := p.String(); s != "[2:2ms 3:6ms 1:10ms]" {
		t.Errorf("String: got %q", s)
	}
}

func TestPool_RemoveDone_ShiftsCursor(t *testing.T) {
	// GIVEN [1, 2, 3, 4] where 1 and 3 have no work left
	env, _, _ := newTestEnv()
	p := &Pool{}
	for id := 1; id <= 4; id++ {
		if id%2 == 1 {
			p.Add(NewApplication(env, id, nil))
			continue
		}
		p.Add(newTestApp(t, env, testConfig(PolicyRR, 1), id, proc(1)))
	}

	// WHEN removed with the cursor at index 3
	removed, before := p.RemoveDone(3)

	// THEN both are removed, both sat before the cursor, and order is kept
	if len(removed) != 2 || removed[0].ID != 1 || removed[1].ID != 3 {
		t.Errorf("removed: got %v, want [1 3]", appIDs(removed))
	}
	if before != 2 {
		t.Errorf("beforeCursor: got %d, want 2", before)
	}
	if got := appIDs(p.Items()); len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("remaining: got %v, want [2 4]", got)
	}
}
