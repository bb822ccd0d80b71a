/*
Package accounting provides the double-entry core of the settlement engine.

PURPOSE:
  Every agent in a simulation owns one Ledger. The Ledger records physical
  goods (through an Inventory), financial contracts (grouped by contract
  type), and one Account per distinct contract type or good. All public
  mutations are double-entry: a debit on one account paired with a credit
  on another, or a single-sided booking against implicit equity.

KEY CONCEPTS IN THIS FILE (types.go):
  - AccountKind: ASSET, LIABILITY, INCOME, EXPENSES, GOOD
  - Account: a named balance with a polarity cached at construction
  - Side: which side of a contract is being valued ("A" or "L")
  - Contract: the bilateral claim abstraction implemented by models
  - Party: the minimal view of an agent the accounting layer needs

DESIGN PRINCIPLES:
  1. Equity is derived, never stored. assets - liabilities == equity holds
     at every observation point because there is no third number to drift.
  2. Amounts are float64 with an epsilon tolerance (see inventory.go).
     Simulations run many additive operations per tick; the eps snap is
     what keeps repeated float arithmetic from producing phantom shortfalls.
  3. Contracts are shared by reference between the two parties' ledgers.
     Neither ledger owns the contract; removal on one side must not
     invalidate the other side's handle.

SEE ALSO:
  - ledger.go: the Ledger itself
  - inventory.go: stock tracking with the eps policy
  - errors.go: error taxonomy
*/
package accounting

// eps is the tolerance for float comparisons on quantities and cash.
const eps = 5e-9

// Eps exposes the epsilon tolerance for callers that need to reproduce
// the engine's comparisons (e.g. tests, solvency checks in models).
func Eps() float64 { return eps }

// =============================================================================
// ACCOUNT KINDS AND SIDES
// =============================================================================

// AccountKind classifies an account for debit/credit polarity.
type AccountKind int

const (
	Asset AccountKind = iota + 1
	Liability
	Income
	Expenses
	Good
)

func (k AccountKind) String() string {
	switch k {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Income:
		return "income"
	case Expenses:
		return "expenses"
	case Good:
		return "good"
	}
	return "unknown"
}

// Side selects which party's view of a contract is being valued.
type Side string

const (
	AssetSide     Side = "A"
	LiabilitySide Side = "L"
)

// =============================================================================
// ACCOUNT - Named balance with a polarity rule
// =============================================================================

// Account is a single named balance. A debit increases the balance of
// ASSET and EXPENSES accounts and decreases all others; a credit is the
// mirror. The polarity is cached at construction so Debit/Credit are pure
// sign arithmetic.
type Account struct {
	name          string
	kind          AccountKind
	balance       float64
	debitPositive bool
}

func NewAccount(name string, kind AccountKind) *Account {
	return &Account{
		name:          name,
		kind:          kind,
		debitPositive: kind == Asset || kind == Expenses || kind == Good,
	}
}

func (a *Account) Name() string      { return a.name }
func (a *Account) Kind() AccountKind { return a.kind }
func (a *Account) Balance() float64  { return a.balance }

// Debit applies a debit. Positive for ASSET/EXPENSES/GOOD accounts,
// negative for the rest.
func (a *Account) Debit(amount float64) {
	if a.debitPositive {
		a.balance += amount
	} else {
		a.balance -= amount
	}
}

// Credit applies a credit, the mirror of Debit.
func (a *Account) Credit(amount float64) {
	if a.debitPositive {
		a.balance -= amount
	} else {
		a.balance += amount
	}
}

// =============================================================================
// PARTY AND CONTRACT - What the accounting layer knows about the outside
// =============================================================================

// Party is the minimal view of an agent that contracts expose. The
// messaging layer extends it; the accounting layer only needs identity
// and liveness.
type Party interface {
	Name() string
	IsAlive() bool
}

// Contract is a bilateral claim: an asset for one party, a liability for
// the other. Concrete contract kinds (loans, repos, ...) live in model
// code; the engine only relies on this interface.
//
// Kind() is the grouping key used by Ledger collections. Two contracts
// with the same Kind() share an account; valuation differences between
// them are expressed through Valuation(side).
type Contract interface {
	AssetParty() Party
	LiabilityParty() Party

	// Valuation returns the current booked worth of the contract as seen
	// from the given side.
	Valuation(side Side) float64

	// Name is the human-readable label used when an account is lazily
	// created for this contract's kind.
	Name() string

	// Kind is the contract-type tag grouping contracts in a ledger.
	Kind() string
}
