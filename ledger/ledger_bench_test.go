package ledger

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/robinvdvleuten/journal/parser"
)

func benchmarkProcess(b *testing.B, input string) {
	ctx := context.Background()
	data := []byte(input)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Balancing fills in postings, so every run needs fresh transactions.
		b.StopTimer()
		journal, err := parser.ParseBytes(ctx, data)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		if err := New().Process(ctx, journal.Transactions); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProcessTransaction benchmarks a simple 2-posting transaction
func BenchmarkProcessTransaction(b *testing.B) {
	benchmarkProcess(b, `2021-01-02 * Simple transaction
	Assets:Cash      -50.00 USD
	Expenses:Food     50.00 USD
`)
}

// BenchmarkProcessTransactionWithCost benchmarks a conversion at a unit cost
func BenchmarkProcessTransactionWithCost(b *testing.B) {
	benchmarkProcess(b, `2021-01-02 * Buy stock
	Assets:Stock             10 AAPL @ 100.00 USD
	Assets:Cash         -1005.00 USD
	Expenses:Commission       5.00 USD
`)
}

// BenchmarkProcessTransactionWithInference benchmarks amount inference
func BenchmarkProcessTransactionWithInference(b *testing.B) {
	benchmarkProcess(b, `2021-01-02 * Inferred amount
	Assets:Cash      -50.00 USD
	Expenses:Food
`)
}

func BenchmarkProcessLargeJournal(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, "2021-%02d-%02d * Purchase %d\n", i%12+1, i%28+1, i)
		fmt.Fprintf(&sb, "\tExpenses:Category%d  %d.%02d USD\n", i%20, i%500, i%100)
		sb.WriteString("\tAssets:Checking\n")
	}
	benchmarkProcess(b, sb.String())
}
