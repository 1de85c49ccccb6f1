package rrtos

import "testing"

func tcbWithPriority(p uint8) *TCB {
	return &TCB{effectivePriority: p}
}

func collect(q *taskQueue) []*TCB {
	var out []*TCB
	for t := q.head; t != nil; t = t.next {
		out = append(out, t)
	}
	return out
}

func TestQueueInsertOrdersByPriorityAscending(t *testing.T) {
	var q taskQueue
	a := tcbWithPriority(200)
	b := tcbWithPriority(100)
	c := tcbWithPriority(150)

	q.insert(a)
	q.insert(b)
	q.insert(c)

	got := collect(&q)
	if len(got) != 3 || got[0] != b || got[1] != c || got[2] != a {
		t.Fatalf("expected [b,c,a] priority order, got %v", got)
	}
	if !q.sorted() {
		t.Fatalf("queue reports unsorted after insert")
	}
}

func TestQueueInsertFIFOWithinEqualPriority(t *testing.T) {
	var q taskQueue
	first := tcbWithPriority(128)
	second := tcbWithPriority(128)
	third := tcbWithPriority(128)

	q.insert(first)
	q.insert(second)
	q.insert(third)

	got := collect(&q)
	if len(got) != 3 || got[0] != first || got[1] != second || got[2] != third {
		t.Fatalf("expected FIFO order among equal priorities, got %v", got)
	}
}

func TestQueueInsertNewArrivalGoesAfterEqualPriorityPeers(t *testing.T) {
	var q taskQueue
	lower := tcbWithPriority(100) // higher priority (smaller number)
	equalA := tcbWithPriority(150)
	higher := tcbWithPriority(200) // lower priority

	q.insert(equalA)
	q.insert(lower)
	q.insert(higher)

	equalB := tcbWithPriority(150)
	q.insert(equalB)

	got := collect(&q)
	if len(got) != 4 || got[0] != lower || got[1] != equalA || got[2] != equalB || got[3] != higher {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestQueueRemoveUnlinksAndDetaches(t *testing.T) {
	var q taskQueue
	a := tcbWithPriority(1)
	b := tcbWithPriority(2)
	c := tcbWithPriority(3)
	q.insert(a)
	q.insert(b)
	q.insert(c)

	q.remove(b)
	if b.next != nil {
		t.Fatalf("removed tcb must be detached, got next=%v", b.next)
	}
	got := collect(&q)
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("expected [a,c] after removing b, got %v", got)
	}
}

func TestQueueRemoveHead(t *testing.T) {
	var q taskQueue
	a := tcbWithPriority(1)
	b := tcbWithPriority(2)
	q.insert(a)
	q.insert(b)

	q.remove(a)
	if q.head != b {
		t.Fatalf("expected b to become head, got %v", q.head)
	}
}

func TestQueueRemoveNotFoundIsNoOp(t *testing.T) {
	var q taskQueue
	a := tcbWithPriority(1)
	q.insert(a)

	stray := tcbWithPriority(5)
	q.remove(stray) // not enqueued anywhere; must not panic or mutate q

	if q.len() != 1 || q.head != a {
		t.Fatalf("remove of a non-member must be a no-op")
	}
}

func TestQueueInsertRequiresDetachedTCB(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected insert of an already-linked tcb to panic")
		}
	}()
	var q taskQueue
	a := tcbWithPriority(1)
	a.next = a // simulate an already-linked (and self-referential) tcb
	q.insert(a)
}

func TestQueueLenAndEmpty(t *testing.T) {
	var q taskQueue
	if q.len() != 0 || !q.sorted() {
		t.Fatalf("empty queue must report len 0 and sorted")
	}
}
