package rrtos

// taskQueue is a priority-ordered, singly-linked, null-terminated list of
// TCBs: the scheduler's queue manager. insert and remove both assume the
// caller already holds the scheduler's critical section; neither blocks.
type taskQueue struct {
	head *TCB
}

// insert places tcb immediately before the first existing element whose
// effectivePriority is strictly greater than tcb's, i.e. after all
// equal-priority elements. This gives strict priority order with FIFO
// tie-breaking. tcb must be detached (tcb.next == nil and it is on no
// queue) before calling insert; this precondition is the caller's
// responsibility, asserted here in debug builds.
func (q *taskQueue) insert(tcb *TCB) {
	assert(tcb.next == nil, "insert requires a detached tcb")

	if q.head == nil || q.head.effectivePriority > tcb.effectivePriority {
		tcb.next = q.head
		q.head = tcb
		return
	}

	prev := q.head
	for prev.next != nil && prev.next.effectivePriority <= tcb.effectivePriority {
		prev = prev.next
	}
	tcb.next = prev.next
	prev.next = tcb
}

// remove scans from the head for pointer equality and unlinks tcb. It is
// a no-op if tcb is not found on q (defensive; mirrors the guest-facing
// operations' "not found is a no-op" policy).
func (q *taskQueue) remove(tcb *TCB) {
	if q.head == tcb {
		q.head = tcb.next
		tcb.next = nil
		return
	}
	prev := q.head
	for prev != nil && prev.next != tcb {
		prev = prev.next
	}
	if prev == nil {
		return
	}
	prev.next = tcb.next
	tcb.next = nil
}

// len counts the queue's elements. It is O(n), used only by tests and
// invariant checks, never on the dispatch hot path.
func (q *taskQueue) len() int {
	n := 0
	for t := q.head; t != nil; t = t.next {
		n++
	}
	return n
}

// sorted reports whether q is non-decreasing by effectivePriority, the
// invariant checked by the scenario tests.
func (q *taskQueue) sorted() bool {
	for t := q.head; t != nil && t.next != nil; t = t.next {
		if t.effectivePriority > t.next.effectivePriority {
			return false
		}
	}
	return true
}
