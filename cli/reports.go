package cli

import (
	"fmt"
	"io"

	"github.com/robinvdvleuten/journal/ledger"
	"github.com/robinvdvleuten/journal/report"
)

type BalanceCmd struct {
	JournalFlags
	Flat bool `help:"Show full account names without hierarchy." xor:"layout"`
	Tree bool `help:"Show accounts as a hierarchy (default)." xor:"layout"`
}

func (cmd *BalanceCmd) Run(app *App) error {
	return app.runReport("balance", cmd.JournalFlags, func(w io.Writer, r *report.Renderer, l *ledger.Ledger) error {
		if cmd.Flat {
			return r.BalanceFlat(w, l.BalanceByAccount())
		}
		return r.BalanceTree(w, l.BalanceTree())
	})
}

type RegisterCmd struct {
	JournalFlags
}

func (cmd *RegisterCmd) Run(app *App) error {
	return app.runReport("register", cmd.JournalFlags, func(w io.Writer, r *report.Renderer, l *ledger.Ledger) error {
		return r.Register(w, l.Transactions())
	})
}

type PrintCmd struct {
	JournalFlags
	Raw      bool `help:"Print postings as written (default)." xor:"amounts"`
	Explicit bool `help:"Print the balanced amount of every posting, including equity conversions." short:"x" xor:"amounts"`
}

func (cmd *PrintCmd) Run(app *App) error {
	mode := report.PrintRaw
	if cmd.Explicit {
		mode = report.PrintExplicit
	}
	return app.runReport("print", cmd.JournalFlags, func(w io.Writer, r *report.Renderer, l *ledger.Ledger) error {
		return r.Print(w, l.Transactions(), mode)
	})
}

type AccountsCmd struct {
	JournalFlags
	Flat bool `help:"Show full account names." xor:"layout"`
	Tree bool `help:"Show accounts as a hierarchy (default)." xor:"layout"`
}

func (cmd *AccountsCmd) Run(app *App) error {
	return app.runReport("accounts", cmd.JournalFlags, func(w io.Writer, r *report.Renderer, l *ledger.Ledger) error {
		if cmd.Flat {
			return r.AccountsFlat(w, l.Accounts())
		}
		return r.AccountsTree(w, l.BalanceTree())
	})
}

type CodesCmd struct {
	JournalFlags
}

func (cmd *CodesCmd) Run(app *App) error {
	return app.runReport("codes", cmd.JournalFlags, func(w io.Writer, r *report.Renderer, l *ledger.Ledger) error {
		return r.Codes(w, l.Codes())
	})
}

type CheckCmd struct {
	JournalFlags
}

func (cmd *CheckCmd) Run(app *App) error {
	return app.runReport("check", cmd.JournalFlags, func(w io.Writer, r *report.Renderer, l *ledger.Ledger) error {
		app.printSuccess(fmt.Sprintf("Check passed (%d transactions, %d accounts)", len(l.Transactions()), len(l.Accounts())))
		return nil
	})
}
