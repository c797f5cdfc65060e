package akka

import "iter"

// Journal is the Transaction Log: the ordered history of completed
// transactions, newest first. It is owned and mutated only by the Ledger.
//
// Entries are stored oldest first and read backwards, so that recording is
// an append while every reader observes newest-first order.
type Journal struct {
	entries []Transaction
}

// record inserts tx at the head of the journal.
func (j *Journal) record(tx Transaction) {
	j.entries = append(j.entries, tx)
}

// Len returns the number of recorded transactions.
func (j *Journal) Len() int { return len(j.entries) }

// Newest returns the most recent transaction.
func (j *Journal) Newest() (Transaction, bool) {
	if len(j.entries) == 0 {
		return Transaction{}, false
	}
	return j.entries[len(j.entries)-1], true
}

// Matching returns a lazy sequence over the transactions accepted by all
// filters, newest first. With no filter, every transaction is yielded.
// The sequence can be ranged over any number of times.
func (j *Journal) Matching(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for i := len(j.entries) - 1; i >= 0; i-- {
			tx := j.entries[i]
			if !accept(tx, filters) {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

func accept(tx Transaction, filters []func(Transaction) bool) bool {
	for _, filter := range filters {
		if !filter(tx) {
			return false
		}
	}
	return true
}

// clone returns a view of the journal as it is now. Entries are never
// modified once recorded, so the view shares them; its capacity is clipped
// so a later record on either side reallocates instead of writing into it.
func (j *Journal) clone() *Journal {
	n := len(j.entries)
	return &Journal{entries: j.entries[:n:n]}
}
