/*
inventory.go - Physical stock tracking with epsilon tolerance

PURPOSE:
  Tracks quantities of physical goods (including the reserved good "cash")
  for one ledger. The invariant: no quantity is ever negative beyond eps.

THE EPS POLICY:
  Quantities are float64 and a simulation performs many additive
  operations on them per tick. Creating 0.1 three times and destroying
  0.3 must leave exactly zero, not -5.5e-17 or a spurious shortfall.
  Destroy therefore snaps amounts within 2*eps of the holding to the
  holding itself, and only rejects when the shortfall exceeds eps.
*/
package accounting

// Inventory maps good name to non-negative quantity. Absent goods read
// as zero. Created empty with a Ledger; mutated only through Create and
// Destroy.
type Inventory struct {
	stock map[string]float64
}

func NewInventory() *Inventory {
	return &Inventory{stock: make(map[string]float64)}
}

// Quantity returns the current holding of a good (0 if never seen).
func (inv *Inventory) Quantity(name string) float64 {
	return inv.stock[name]
}

// Cash returns the holding of the reserved good "cash".
func (inv *Inventory) Cash() float64 {
	return inv.stock[CashName]
}

// Goods returns a copy of the current holdings.
func (inv *Inventory) Goods() map[string]float64 {
	out := make(map[string]float64, len(inv.stock))
	for name, qty := range inv.stock {
		out[name] = qty
	}
	return out
}

// Create adds amount of a good. The amount must be non-negative.
func (inv *Inventory) Create(name string, amount float64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	inv.stock[name] += amount
	return nil
}

// Destroy removes amount of a good. Amounts within 2*eps of the holding
// are treated as exactly the holding (float snap); shortfalls beyond eps
// fail with NotEnoughGoodsError.
func (inv *Inventory) Destroy(name string, amount float64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	have := inv.stock[name]
	if diff := have - amount; diff <= 2*eps && diff >= -2*eps {
		amount = have
	}
	if amount-have > eps {
		return &NotEnoughGoodsError{Name: name, Available: have, Required: amount}
	}
	inv.stock[name] = have - amount
	return nil
}
