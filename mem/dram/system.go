// Package dram provides a detailed timing engine that splits each access into
// the transfers of a DRAM memory system.
package dram

// A MemorySystem is a cycle-level DRAM model that moves TransferBytes bytes
// per transaction.
type MemorySystem interface {
	// TransferBytes returns the number of bytes that one transaction moves.
	TransferBytes() int

	// CanAdd returns true if the system can accept the transaction in this
	// cycle.
	CanAdd(address uint64, isWrite bool) bool

	// Add sends a transaction to the system. It returns false if the
	// transaction is not accepted.
	Add(address uint64, isWrite bool) bool

	// Tick advances the system by one cycle. Transactions that complete in
	// the cycle are reported to the sink before Tick returns.
	Tick(sink CompletionSink)
}

// A CompletionSink receives the transactions that a MemorySystem completes.
type CompletionSink interface {
	Complete(address uint64, isWrite bool)
}
