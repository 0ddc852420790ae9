package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Ledger is an in-process token backend. It keeps plain per-token balance
// tables with no allowance layer; the protocol is assumed approved for the
// amounts it pulls, matching the approve-then-call usage on chain.
type Ledger struct {
	protocol common.Address
	balances map[common.Address]map[common.Address]*big.Int
}

// NewLedger inits a Ledger. The protocol address holds the escrowed funds.
func NewLedger(protocol common.Address) *Ledger {
	return &Ledger{
		protocol: protocol,
		balances: map[common.Address]map[common.Address]*big.Int{},
	}
}

// Mint credits an account out of thin air, for tests and simulations
func (l *Ledger) Mint(token common.Address, account common.Address, amount *big.Int) {
	l.credit(token, account, amount)
}

// BalanceOf returns the balance of an account for a token
func (l *Ledger) BalanceOf(token common.Address, account common.Address) (*big.Int, error) {
	if accounts, ok := l.balances[token]; ok {
		if amount, ok := accounts[account]; ok {
			return new(big.Int).Set(amount), nil
		}
	}
	return big.NewInt(0), nil
}

// Transfer moves amount from the protocol's holdings to an account
func (l *Ledger) Transfer(token common.Address, to common.Address, amount *big.Int) error {
	return l.TransferFrom(token, l.protocol, to, amount)
}

// TransferFrom moves amount between two accounts
func (l *Ledger) TransferFrom(token common.Address, from common.Address, to common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	balance, _ := l.BalanceOf(token, from)
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.balances[token][from] = balance.Sub(balance, amount)
	l.credit(token, to, amount)
	return nil
}

func (l *Ledger) credit(token common.Address, account common.Address, amount *big.Int) {
	accounts, ok := l.balances[token]
	if !ok {
		accounts = map[common.Address]*big.Int{}
		l.balances[token] = accounts
	}
	current, ok := accounts[account]
	if !ok {
		current = big.NewInt(0)
	}
	accounts[account] = new(big.Int).Add(current, amount)
}

// Snapshot captures the current balances
func (l *Ledger) Snapshot() interface{} {
	cp := make(map[common.Address]map[common.Address]*big.Int, len(l.balances))
	for token, accounts := range l.balances {
		inner := make(map[common.Address]*big.Int, len(accounts))
		for account, amount := range accounts {
			inner[account] = new(big.Int).Set(amount)
		}
		cp[token] = inner
	}
	return cp
}

// Restore reinstates a previously captured snapshot
func (l *Ledger) Restore(snapshot interface{}) {
	balances, ok := snapshot.(map[common.Address]map[common.Address]*big.Int)
	if !ok {
		return
	}
	l.balances = balances
}
