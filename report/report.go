/*
Package report builds presentation-layer balance sheets from ledgers.

PURPOSE:
  The accounting core works in float64 and never rounds. Reporting is
  where numbers become presentation: balances are quantized to two
  decimal places with shopspring/decimal so a statement shown to a
  human (or serialized by the API) carries exact money strings, not
  0.30000000000000004.

SEE ALSO:
  - accounting/ledger.go: the valuation sources
  - api: serves these statements over HTTP
*/
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/settlement-engine/accounting"
)

// Line is one account on a statement, quantized for presentation.
type Line struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// Statement is a point-in-time balance sheet for one ledger. The
// account lines carry booked balances; the breakdown lines carry the
// live per-contract-type valuations, which drift apart from the booked
// balances between revaluations.
type Statement struct {
	Owner              string          `json:"owner"`
	Assets             []Line          `json:"assets"`
	AssetBreakdown     []Line          `json:"asset_breakdown"`
	Liabilities        []Line          `json:"liabilities"`
	LiabilityBreakdown []Line          `json:"liability_breakdown"`
	Goods              []Line          `json:"goods"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	Equity             decimal.Decimal `json:"equity"`
	Cash               decimal.Decimal `json:"cash"`
}

// money quantizes a raw float64 balance to two decimal places,
// round-half-even, matching the booking journal's audit expectations.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).RoundBank(2)
}

func lines(balances map[string]float64) []Line {
	names := make([]string, 0, len(balances))
	for name := range balances {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Line, 0, len(names))
	for _, name := range names {
		out = append(out, Line{Account: name, Balance: money(balances[name])})
	}
	return out
}

// breakdown evaluates the live valuation of every contract type that
// has an account on the given side.
func breakdown(accounts map[string]float64, valuationOf func(string) float64) []Line {
	byKind := make(map[string]float64, len(accounts))
	for kind := range accounts {
		byKind[kind] = valuationOf(kind)
	}
	return lines(byKind)
}

// BalanceSheet snapshots a ledger into a Statement.
func BalanceSheet(owner string, l *accounting.Ledger) Statement {
	return Statement{
		Owner:              owner,
		Assets:             lines(l.AssetAccountBalances()),
		AssetBreakdown:     breakdown(l.AssetAccountBalances(), l.AssetValuationOf),
		Liabilities:        lines(l.LiabilityAccountBalances()),
		LiabilityBreakdown: breakdown(l.LiabilityAccountBalances(), l.LiabilityValuationOf),
		Goods:              lines(l.GoodsAccountBalances()),
		TotalAssets:        money(l.AssetValuation()),
		TotalLiabilities:   money(l.LiabilityValuation()),
		Equity:             money(l.EquityValuation()),
		Cash:               money(l.Cash()),
	}
}

// Fprint renders a statement as text, one section per side.
func (s Statement) Fprint(w io.Writer) {
	fmt.Fprintln(w, "Asset accounts:")
	fmt.Fprintln(w, "---------------")
	for _, line := range s.Assets {
		fmt.Fprintf(w, "%s -> %s\n", line.Account, line.Balance.StringFixed(2))
	}
	for _, line := range s.Goods {
		fmt.Fprintf(w, "%s -> %s\n", line.Account, line.Balance.StringFixed(2))
	}
	if len(s.AssetBreakdown) > 0 {
		fmt.Fprintln(w, "Breakdown:")
		for _, line := range s.AssetBreakdown {
			fmt.Fprintf(w, "\t%s > %s\n", line.Account, line.Balance.StringFixed(2))
		}
	}
	fmt.Fprintf(w, "TOTAL ASSETS: %s\n", s.TotalAssets.StringFixed(2))

	fmt.Fprintln(w, "\nLiability accounts:")
	fmt.Fprintln(w, "---------------")
	for _, line := range s.Liabilities {
		fmt.Fprintf(w, "%s -> %s\n", line.Account, line.Balance.StringFixed(2))
	}
	if len(s.LiabilityBreakdown) > 0 {
		fmt.Fprintln(w, "Breakdown:")
		for _, line := range s.LiabilityBreakdown {
			fmt.Fprintf(w, "\t%s > %s\n", line.Account, line.Balance.StringFixed(2))
		}
	}
	fmt.Fprintf(w, "TOTAL LIABILITIES: %s\n", s.TotalLiabilities.StringFixed(2))

	fmt.Fprintf(w, "\nTOTAL EQUITY: %s\n", s.Equity.StringFixed(2))
	fmt.Fprintf(w, "\nTotal cash: %s\n", s.Cash.StringFixed(2))
}
