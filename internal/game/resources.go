package game

import "sync"

// Ledger tracks mined resources, gas and fuel.
// Every method is atomic; the feed reads it from other goroutines.
type Ledger struct {
	mu        sync.RWMutex
	order     []string // rarity names in table order, for stable output
	resources map[string]int
	gas       int
	fuel      int
}

// LedgerSnapshot is a point-in-time copy of the ledger.
type LedgerSnapshot struct {
	Resources map[string]int `json:"resources"`
	Order     []string       `json:"order"`
	Gas       int            `json:"gas"`
	Fuel      int            `json:"fuel"`
}

// NewLedger creates a ledger with a zero counter for each rarity.
func NewLedger(rarities ...string) *Ledger {
	l := &Ledger{resources: make(map[string]int, len(rarities))}
	for _, r := range rarities {
		if _, ok := l.resources[r]; ok {
			continue
		}
		l.resources[r] = 0
		l.order = append(l.order, r)
	}
	return l
}

// RecordDelivery credits one unit of the given rarity.
func (l *Ledger) RecordDelivery(rarity string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.resources[rarity]; !ok {
		l.order = append(l.order, rarity)
	}
	l.resources[rarity]++
}

// AddGas credits n gas. Non-positive amounts are ignored.
func (l *Ledger) AddGas(n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	l.gas += n
	l.mu.Unlock()
}

// AddFuel credits n fuel. Non-positive amounts are ignored.
func (l *Ledger) AddFuel(n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	l.fuel += n
	l.mu.Unlock()
}

// RemoveGas debits n gas if that much is available.
func (l *Ledger) RemoveGas(n int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return debit(&l.gas, n)
}

// RemoveFuel debits n fuel if that much is available.
func (l *Ledger) RemoveFuel(n int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return debit(&l.fuel, n)
}

func debit(pool *int, n int) bool {
	if n <= 0 || *pool < n {
		return false
	}
	*pool -= n
	return true
}

// Count returns the units delivered of one rarity.
func (l *Ledger) Count(rarity string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.resources[rarity]
}

// Total returns all rarity units delivered.
func (l *Ledger) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, c := range l.resources {
		n += c
	}
	return n
}

func (l *Ledger) Gas() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.gas
}

func (l *Ledger) Fuel() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fuel
}

// Snapshot copies every counter under one lock.
func (l *Ledger) Snapshot() LedgerSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := LedgerSnapshot{
		Resources: make(map[string]int, len(l.resources)),
		Order:     append([]string(nil), l.order...),
		Gas:       l.gas,
		Fuel:      l.fuel,
	}
	for k, v := range l.resources {
		s.Resources[k] = v
	}
	return s
}
