package aptos

import "sync"

// SequenceTracker hands out sequence numbers per sender. A number is reserved when it is handed
// out, so back to back publishes never share a number the node has not indexed yet.
type SequenceTracker struct {
	lock sync.Mutex
	// next number to hand out
	next map[AccountAddress]uint64
	// one past the highest number the node accepted
	accepted map[AccountAddress]uint64
}

func NewSequenceTracker() *SequenceTracker {
	return &SequenceTracker{
		next:     map[AccountAddress]uint64{},
		accepted: map[AccountAddress]uint64{},
	}
}

// Next reserves and returns the sequence number to use given the one reported on chain.
func (t *SequenceTracker) Next(sender AccountAddress, onChain uint64) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()
	sequence := onChain
	if next := t.next[sender]; next > sequence {
		sequence = next
	}
	t.next[sender] = sequence + 1
	return sequence
}

// Used records that a transaction with this sequence number was accepted by the node.
func (t *SequenceTracker) Used(sender AccountAddress, sequence uint64) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if sequence >= t.accepted[sender] {
		t.accepted[sender] = sequence + 1
	}
	if sequence >= t.next[sender] {
		t.next[sender] = sequence + 1
	}
}

// Release gives back a reserved number that never reached the node. Only the latest
// reservation can be given back; an earlier one stays consumed.
func (t *SequenceTracker) Release(sender AccountAddress, sequence uint64) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.next[sender] == sequence+1 && sequence >= t.accepted[sender] {
		t.next[sender] = sequence
	}
}
