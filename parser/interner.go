package parser

// Interner keeps one canonical copy of strings that repeat throughout a
// journal, such as account names and commodity symbols. A ledger with a few
// thousand postings typically references only a few dozen distinct accounts.
type Interner struct {
	pool map[string]string
}

// NewInterner creates an interner with room for capacity distinct strings.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical instance of s.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// Size returns the number of distinct strings seen.
func (i *Interner) Size() int {
	return len(i.pool)
}
