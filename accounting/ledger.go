/*
ledger.go - Double-entry ledger owned by one agent

PURPOSE:
  The Ledger is the interface between an agent and its accounts. Agents
  never touch an Account directly. Every public operation is booked as a
  double entry - a (debit, credit) pair - or as a single-sided booking
  against implicit equity.

STRUCTURE:
  - One Inventory for physical goods ("cash" is a good at unit value 1).
  - One asset account and one liability account per contract type,
    created lazily. Separate maps are required: the same contract type
    (such as a loan) is an asset for one party and a liability for the
    other.
  - One GOOD account per good name, created lazily.
  - Active contracts grouped by contract type, asset side and liability
    side separately.

CRITICAL INVARIANT:
  AssetValuation() - LiabilityValuation() == EquityValuation() at every
  observation point. Equity is derived, never stored, so there is no
  third number that can drift from the other two.

JOURNAL:
  Every booking is optionally emitted to a Recorder (see journal.go).
  The journal is an append-only audit trail, not engine state.

SEE ALSO:
  - inventory.go: the eps policy on quantities
  - journal.go: Recorder interface
  - accounting/journal: in-memory recorder
  - store/sqlite: durable recorder
*/
package accounting

// CashName is the reserved good representing cash at unit value 1.0.
const CashName = "cash"

// Ledger implements double-entry accounting for a single agent.
type Ledger struct {
	inventory *Inventory

	assetAccounts     map[string]*Account
	liabilityAccounts map[string]*Account
	goodsAccounts     map[string]*Account

	assets      map[string][]Contract
	liabilities map[string][]Contract

	initialEquity float64

	recorder Recorder
	clock    Clock
}

func NewLedger() *Ledger {
	return &Ledger{
		inventory:         NewInventory(),
		assetAccounts:     make(map[string]*Account),
		liabilityAccounts: make(map[string]*Account),
		goodsAccounts:     make(map[string]*Account),
		assets:            make(map[string][]Contract),
		liabilities:       make(map[string][]Contract),
	}
}

// SetRecorder attaches a journal recorder. Pass nil to detach.
func (l *Ledger) SetRecorder(r Recorder) { l.recorder = r }

// SetClock attaches the clock used to stamp journal entries.
func (l *Ledger) SetClock(c Clock) { l.clock = c }

func (l *Ledger) Inventory() *Inventory { return l.inventory }

// Cash returns the cash holding.
func (l *Ledger) Cash() float64 { return l.inventory.Cash() }

// =============================================================================
// CONTRACTS
// =============================================================================

// AddAsset books a contract on the asset side: debit the account for its
// contract type (created lazily) and append the contract to the asset
// group. The contract object is appended unconditionally; callers must
// not add the same contract twice.
func (l *Ledger) AddAsset(c Contract) {
	acct := l.assetAccounts[c.Kind()]
	if acct == nil {
		acct = NewAccount(c.Name(), Asset)
		l.assetAccounts[c.Kind()] = acct
	}
	amount := c.Valuation(AssetSide)
	acct.Debit(amount)
	l.record(acct.Name(), "", amount, "add asset "+c.Kind())

	l.assets[c.Kind()] = append(l.assets[c.Kind()], c)
}

// AddLiability books a contract on the liability side: credit the account
// for its contract type and append the contract to the liability group.
func (l *Ledger) AddLiability(c Contract) {
	acct := l.liabilityAccounts[c.Kind()]
	if acct == nil {
		acct = NewAccount(c.Name(), Liability)
		l.liabilityAccounts[c.Kind()] = acct
	}
	amount := c.Valuation(LiabilitySide)
	acct.Credit(amount)
	l.record("", acct.Name(), amount, "add liability "+c.Kind())

	l.liabilities[c.Kind()] = append(l.liabilities[c.Kind()], c)
}

// RemoveAsset drops a settled contract from the asset group. The account
// balance is untouched; settlement bookings are the caller's job
// (SellAsset, PullFunding). Removal on this side leaves the counterparty's
// reference valid.
func (l *Ledger) RemoveAsset(c Contract) {
	l.assets[c.Kind()] = removeContract(l.assets[c.Kind()], c)
}

// RemoveLiability drops a settled contract from the liability group.
func (l *Ledger) RemoveLiability(c Contract) {
	l.liabilities[c.Kind()] = removeContract(l.liabilities[c.Kind()], c)
}

func removeContract(group []Contract, c Contract) []Contract {
	for i, held := range group {
		if held == c {
			return append(group[:i], group[i+1:]...)
		}
	}
	return group
}

// AllAssets returns every held asset contract across all types.
func (l *Ledger) AllAssets() []Contract {
	var out []Contract
	for _, group := range l.assets {
		out = append(out, group...)
	}
	return out
}

// AllLiabilities returns every held liability contract across all types.
func (l *Ledger) AllLiabilities() []Contract {
	var out []Contract
	for _, group := range l.liabilities {
		out = append(out, group...)
	}
	return out
}

// AssetsOfType returns the held asset contracts for one contract type.
func (l *Ledger) AssetsOfType(kind string) []Contract { return l.assets[kind] }

// LiabilitiesOfType returns the held liability contracts for one type.
func (l *Ledger) LiabilitiesOfType(kind string) []Contract { return l.liabilities[kind] }

// =============================================================================
// GOODS
// =============================================================================

// Create adds amount of a good to the inventory and debits the good's
// account by amount * unitValue.
func (l *Ledger) Create(name string, amount, unitValue float64) error {
	if err := l.inventory.Create(name, amount); err != nil {
		return err
	}
	acct := l.goodsAccount(name)
	acct.Debit(amount * unitValue)
	l.record(acct.Name(), "", amount*unitValue, "create "+name)
	return nil
}

// Destroy removes amount of a good and credits the good's account by
// amount * unitValue.
func (l *Ledger) Destroy(name string, amount, unitValue float64) error {
	if err := l.inventory.Destroy(name, amount); err != nil {
		return err
	}
	acct := l.goodsAccount(name)
	acct.Credit(amount * unitValue)
	l.record("", acct.Name(), amount*unitValue, "destroy "+name)
	return nil
}

// DestroyAtBookValue destroys a good at its current booked unit value.
// If the valuation is undefined (no stock), it fails with
// NotEnoughGoods(name, 0, amount).
func (l *Ledger) DestroyAtBookValue(name string, amount float64) error {
	unitValue := l.GoodValuation(name)
	if unitValue == 0 {
		return &NotEnoughGoodsError{Name: name, Available: 0, Required: amount}
	}
	return l.Destroy(name, amount, unitValue)
}

// GoodValuation returns the booked unit value of a good: account balance
// divided by held quantity. Returns 0 when the division is undefined;
// this is a defined default, not a suppressed error.
func (l *Ledger) GoodValuation(name string) float64 {
	qty := l.inventory.Quantity(name)
	if qty == 0 {
		return 0
	}
	return l.goodsAccount(name).Balance() / qty
}

// RevalueGoods rebooks the held quantity of a good at a new unit value,
// booking only the delta. No-op when the valuation is unchanged.
func (l *Ledger) RevalueGoods(name string, unitValue float64) {
	acct := l.goodsAccount(name)
	oldTotal := acct.Balance()
	newTotal := l.inventory.Quantity(name) * unitValue
	switch {
	case newTotal > oldTotal:
		acct.Debit(newTotal - oldTotal)
		l.record(acct.Name(), "", newTotal-oldTotal, "revalue "+name)
	case newTotal < oldTotal:
		acct.Credit(oldTotal - newTotal)
		l.record("", acct.Name(), oldTotal-newTotal, "revalue "+name)
	}
}

// AddCash books cash in: (dr cash, cr equity).
func (l *Ledger) AddCash(amount float64) error {
	return l.Create(CashName, amount, 1.0)
}

// SubtractCash books cash out: (dr equity, cr cash).
func (l *Ledger) SubtractCash(amount float64) error {
	return l.Destroy(CashName, amount, 1.0)
}

func (l *Ledger) goodsAccount(name string) *Account {
	acct := l.goodsAccounts[name]
	if acct == nil {
		acct = NewAccount(name, Good)
		l.goodsAccounts[name] = acct
	}
	return acct
}

// CashAccount returns the account for the reserved good "cash".
func (l *Ledger) CashAccount() *Account { return l.goodsAccount(CashName) }

// =============================================================================
// VALUATION AGGREGATES
// =============================================================================

// AssetValuation sums the asset-side valuation of all held asset
// contracts plus cash.
func (l *Ledger) AssetValuation() float64 {
	out := 0.0
	for _, group := range l.assets {
		for _, c := range group {
			out += c.Valuation(AssetSide)
		}
	}
	return out + l.inventory.Cash()
}

// LiabilityValuation sums the liability-side valuation of all held
// liability contracts.
func (l *Ledger) LiabilityValuation() float64 {
	out := 0.0
	for _, group := range l.liabilities {
		for _, c := range group {
			out += c.Valuation(LiabilitySide)
		}
	}
	return out
}

// EquityValuation is always the difference of the other two aggregates.
func (l *Ledger) EquityValuation() float64 {
	return l.AssetValuation() - l.LiabilityValuation()
}

// AssetValuationOf sums the asset-side valuation of one contract type.
func (l *Ledger) AssetValuationOf(kind string) float64 {
	out := 0.0
	for _, c := range l.assets[kind] {
		out += c.Valuation(AssetSide)
	}
	return out
}

// LiabilityValuationOf sums the liability-side valuation of one type.
func (l *Ledger) LiabilityValuationOf(kind string) float64 {
	out := 0.0
	for _, c := range l.liabilities[kind] {
		out += c.Valuation(LiabilitySide)
	}
	return out
}

// SetInitialValuations snapshots the current equity as the baseline for
// later performance comparisons.
func (l *Ledger) SetInitialValuations() { l.initialEquity = l.EquityValuation() }

func (l *Ledger) InitialEquity() float64 { return l.initialEquity }

// =============================================================================
// SETTLEMENT PRIMITIVES - paired debit/credit
// =============================================================================

// Book is the double-entry primitive: debit one account, credit another,
// same amount.
func (l *Ledger) Book(debit, credit *Account, amount float64) {
	debit.Debit(amount)
	credit.Credit(amount)
	l.record(debit.Name(), credit.Name(), amount, "book")
}

// PayLiability pays down a liability: (dr liability, cr cash).
//
// Pre-condition: liquidity has been raised. Paying more cash than held
// means the caller's liquidity-raising logic is broken, so the violation
// panics instead of returning an error.
func (l *Ledger) PayLiability(amount float64, loan Contract) error {
	acct := l.liabilityAccounts[loan.Kind()]
	if acct == nil {
		return &MissingAccountError{Kind: Liability, ContractType: loan.Kind()}
	}
	if l.inventory.Cash()-amount < -eps {
		panic(&LiquidityViolation{Cash: l.inventory.Cash(), Amount: amount})
	}
	if err := l.inventory.Destroy(CashName, amount); err != nil {
		return err
	}
	l.Book(acct, l.CashAccount(), amount)
	return nil
}

// SellAsset books the sale of an asset: (dr cash, cr asset). amount is
// the valuation of the asset sold.
func (l *Ledger) SellAsset(amount float64, kind string) error {
	acct := l.assetAccounts[kind]
	if acct == nil {
		return &MissingAccountError{Kind: Asset, ContractType: kind}
	}
	if err := l.inventory.Create(CashName, amount); err != nil {
		return err
	}
	l.Book(l.CashAccount(), acct, amount)
	return nil
}

// PullFunding cancels part of a loan held as an asset, cashing it in:
// (dr cash, cr asset). Equivalent to selling the asset.
func (l *Ledger) PullFunding(amount float64, loan Contract) error {
	acct := l.assetAccounts[loan.Kind()]
	if acct == nil {
		return &MissingAccountError{Kind: Asset, ContractType: loan.Kind()}
	}
	if err := l.inventory.Create(CashName, amount); err != nil {
		return err
	}
	l.Book(l.CashAccount(), acct, amount)
	return nil
}

// LiquidityViolation is the panic payload for the PayLiability
// pre-condition. It is deliberately not an error: it indicates an
// upstream bug, not a recoverable runtime condition.
type LiquidityViolation struct {
	Cash   float64
	Amount float64
}

func (v *LiquidityViolation) String() string {
	return "liquidity violation: paying more cash than held"
}

// =============================================================================
// REVALUATION - single-sided bookings per contract type
// =============================================================================

// DevalueAsset books a valuation loss on an asset type: credit the asset
// account.
func (l *Ledger) DevalueAsset(asset Contract, valuationLost float64) error {
	acct := l.assetAccounts[asset.Kind()]
	if acct == nil {
		return &MissingAccountError{Kind: Asset, ContractType: asset.Kind()}
	}
	acct.Credit(valuationLost)
	l.record("", acct.Name(), valuationLost, "devalue asset "+asset.Kind())
	return nil
}

// AppreciateAsset books a valuation gain on an asset type.
func (l *Ledger) AppreciateAsset(asset Contract, valuationGained float64) error {
	acct := l.assetAccounts[asset.Kind()]
	if acct == nil {
		return &MissingAccountError{Kind: Asset, ContractType: asset.Kind()}
	}
	acct.Debit(valuationGained)
	l.record(acct.Name(), "", valuationGained, "appreciate asset "+asset.Kind())
	return nil
}

// DevalueLiability books a valuation loss on a liability type: debit the
// liability account.
func (l *Ledger) DevalueLiability(liability Contract, valuationLost float64) error {
	acct := l.liabilityAccounts[liability.Kind()]
	if acct == nil {
		return &MissingAccountError{Kind: Liability, ContractType: liability.Kind()}
	}
	acct.Debit(valuationLost)
	l.record(acct.Name(), "", valuationLost, "devalue liability "+liability.Kind())
	return nil
}

// AppreciateLiability books a valuation gain on a liability type.
func (l *Ledger) AppreciateLiability(liability Contract, valuationGained float64) error {
	acct := l.liabilityAccounts[liability.Kind()]
	if acct == nil {
		return &MissingAccountError{Kind: Liability, ContractType: liability.Kind()}
	}
	acct.Credit(valuationGained)
	l.record("", acct.Name(), valuationGained, "appreciate liability "+liability.Kind())
	return nil
}

// =============================================================================
// ACCOUNT SNAPSHOTS - read-only views for reporting
// =============================================================================

// AssetAccountBalances returns contract-type -> balance for the asset side.
func (l *Ledger) AssetAccountBalances() map[string]float64 {
	return balances(l.assetAccounts)
}

// LiabilityAccountBalances returns contract-type -> balance for the
// liability side.
func (l *Ledger) LiabilityAccountBalances() map[string]float64 {
	return balances(l.liabilityAccounts)
}

// GoodsAccountBalances returns good-name -> booked total value.
func (l *Ledger) GoodsAccountBalances() map[string]float64 {
	return balances(l.goodsAccounts)
}

func balances(accounts map[string]*Account) map[string]float64 {
	out := make(map[string]float64, len(accounts))
	for key, acct := range accounts {
		out[key] = acct.Balance()
	}
	return out
}

// =============================================================================
// JOURNAL HOOK
// =============================================================================

func (l *Ledger) record(debit, credit string, amount float64, memo string) {
	if l.recorder == nil {
		return
	}
	tick := 0
	if l.clock != nil {
		tick = l.clock.Time()
	}
	l.recorder.Record(JournalEntry{
		Tick:   tick,
		Debit:  debit,
		Credit: credit,
		Amount: amount,
		Memo:   memo,
	})
}
