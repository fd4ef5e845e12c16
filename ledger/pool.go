package ledger

import (
	"sync"

	"github.com/shopspring/decimal"
)

// balanceMapPool provides the per-commodity maps used by the zero-sum check,
// which runs once for every transaction of a journal.
var balanceMapPool = sync.Pool{
	New: func() any {
		return make(map[string]decimal.Decimal, 4)
	},
}

func getBalanceMap() map[string]decimal.Decimal {
	return balanceMapPool.Get().(map[string]decimal.Decimal)
}

// putBalanceMap clears m and returns it to the pool.
func putBalanceMap(m map[string]decimal.Decimal) {
	for k := range m {
		delete(m, k)
	}
	balanceMapPool.Put(m)
}
