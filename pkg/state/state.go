// Package state holds the shared persistent key space every protocol module
// operates on. One DiamondState aggregate is owned by the router and passed
// into every module call; nothing here is ambient or global.
package state // import "github.com/ylide/ylide-protocol-go/pkg/state"

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/model"
)

// Uint256Key converts a uint256 value (recipient, feed id, content id) into
// a comparable map key.
func Uint256Key(v *big.Int) common.Hash {
	return common.BigToHash(v)
}

// AddressToUint256 returns the uint256 form of an address, used for
// recipient-keyed maps.
func AddressToUint256(addr common.Address) *big.Int {
	return new(big.Int).SetBytes(addr.Bytes())
}

// DiamondState is the single shared storage aggregate. Storage layout
// discipline across module upgrades is append-only: fields are added, never
// re-shaped.
type DiamondState struct {
	// ContractOwner gates diamond cuts and global configuration
	ContractOwner common.Address

	// Feeds maps feedId to its metadata
	Feeds map[common.Hash]*model.MailingFeed

	// Keys is the public-key directory, one entry per account
	Keys map[common.Address]*model.RegistryEntry

	// DefaultPaywall maps token to the global default paywall amount
	DefaultPaywall map[common.Address]*big.Int

	// RecipientPaywall maps recipient (uint256) to per-token overrides; an
	// explicit zero entry overrides the default
	RecipientPaywall map[common.Hash]map[common.Address]*big.Int

	// AllowedTokens gates which tokens participate in paywalls
	AllowedTokens *AddressSet

	// Whitelist maps recipient (uint256) to senders that bypass the paywall
	Whitelist map[common.Hash]map[common.Address]bool

	// IsYlide is the allow-list of relayers permitted to submit
	// signature-authorized calls
	IsYlide map[common.Address]bool

	// Nonces holds the per-sender meta-transaction counters
	Nonces map[common.Address]*big.Int

	// StakeLockUpPeriod is the escrow lock-up, in seconds
	StakeLockUpPeriod int64

	// YlideCommissionBps is the protocol cut in basis points
	YlideCommissionBps uint32

	// YlideBeneficiary collects the protocol cut
	YlideBeneficiary common.Address

	// RegistrarCommissionBps maps registrar to its self-set cut in basis
	// points
	RegistrarCommissionBps map[common.Address]uint32

	// StakeSenders maps contentId to the sender-side escrow record
	StakeSenders map[common.Hash]*model.StakeInfoSender

	// StakeRecipients maps contentId to recipient (uint256) to the
	// recipient-side escrow record
	StakeRecipients map[common.Hash]map[common.Hash]*model.StakeInfoRecipient

	// Balances maps beneficiary to token to its withdrawable amount
	Balances map[common.Address]map[common.Address]*big.Int

	// PartsSent maps contentId to the number of parts already sent for a
	// multi-part message
	PartsSent map[common.Hash]uint16

	pending []model.Event
}

// NewDiamondState inits an empty DiamondState owned by the given account
func NewDiamondState(owner common.Address) *DiamondState {
	return &DiamondState{
		ContractOwner:          owner,
		YlideBeneficiary:       owner,
		Feeds:                  map[common.Hash]*model.MailingFeed{},
		Keys:                   map[common.Address]*model.RegistryEntry{},
		DefaultPaywall:         map[common.Address]*big.Int{},
		RecipientPaywall:       map[common.Hash]map[common.Address]*big.Int{},
		AllowedTokens:          NewAddressSet(),
		Whitelist:              map[common.Hash]map[common.Address]bool{},
		IsYlide:                map[common.Address]bool{},
		Nonces:                 map[common.Address]*big.Int{},
		RegistrarCommissionBps: map[common.Address]uint32{},
		StakeSenders:           map[common.Hash]*model.StakeInfoSender{},
		StakeRecipients:        map[common.Hash]map[common.Hash]*model.StakeInfoRecipient{},
		Balances:               map[common.Address]map[common.Address]*big.Int{},
		PartsSent:              map[common.Hash]uint16{},
	}
}

// Emit buffers an event until the surrounding call commits
func (s *DiamondState) Emit(event model.Event) {
	s.pending = append(s.pending, event)
}

// TakeEvents returns the buffered events and clears the buffer
func (s *DiamondState) TakeEvents() []model.Event {
	events := s.pending
	s.pending = nil
	return events
}

// Nonce returns the current meta-transaction nonce of an account
func (s *DiamondState) Nonce(account common.Address) *big.Int {
	if n, ok := s.Nonces[account]; ok {
		return new(big.Int).Set(n)
	}
	return big.NewInt(0)
}

// BumpNonce increments an account's nonce by exactly one
func (s *DiamondState) BumpNonce(account common.Address) {
	next := s.Nonce(account)
	next.Add(next, big.NewInt(1))
	s.Nonces[account] = next
}

// SetWhitelistedSender toggles the paywall bypass for sends from sender to
// the uint256-keyed recipient
func (s *DiamondState) SetWhitelistedSender(recipient *big.Int, sender common.Address, status bool) {
	key := Uint256Key(recipient)
	senders, ok := s.Whitelist[key]
	if !ok {
		senders = map[common.Address]bool{}
		s.Whitelist[key] = senders
	}
	senders[sender] = status
}

// IsWhitelistedSender reports whether sender bypasses the recipient's paywall
func (s *DiamondState) IsWhitelistedSender(recipient *big.Int, sender common.Address) bool {
	senders, ok := s.Whitelist[Uint256Key(recipient)]
	if !ok {
		return false
	}
	return senders[sender]
}

// SetRecipientPaywall records a recipient-scoped paywall override. A zero
// amount is stored as an explicit zero, shadowing the default.
func (s *DiamondState) SetRecipientPaywall(recipient *big.Int, token common.Address, amount *big.Int) {
	key := Uint256Key(recipient)
	overrides, ok := s.RecipientPaywall[key]
	if !ok {
		overrides = map[common.Address]*big.Int{}
		s.RecipientPaywall[key] = overrides
	}
	overrides[token] = new(big.Int).Set(amount)
}

// PaywallBase resolves the effective base paywall amount for a
// (recipient, token) pair: the override if one was ever set, including an
// explicit zero, otherwise the global default, otherwise zero.
func (s *DiamondState) PaywallBase(recipient *big.Int, token common.Address) *big.Int {
	if overrides, ok := s.RecipientPaywall[Uint256Key(recipient)]; ok {
		if amount, ok := overrides[token]; ok {
			return new(big.Int).Set(amount)
		}
	}
	if amount, ok := s.DefaultPaywall[token]; ok {
		return new(big.Int).Set(amount)
	}
	return big.NewInt(0)
}

// CreditBalance adds amount to a beneficiary's withdrawable balance
func (s *DiamondState) CreditBalance(account common.Address, token common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	tokens, ok := s.Balances[account]
	if !ok {
		tokens = map[common.Address]*big.Int{}
		s.Balances[account] = tokens
	}
	current, ok := tokens[token]
	if !ok {
		current = big.NewInt(0)
	}
	tokens[token] = new(big.Int).Add(current, amount)
}

// Balance returns an account's withdrawable balance for a token
func (s *DiamondState) Balance(account common.Address, token common.Address) *big.Int {
	if tokens, ok := s.Balances[account]; ok {
		if amount, ok := tokens[token]; ok {
			return new(big.Int).Set(amount)
		}
	}
	return big.NewInt(0)
}

// DrainBalance zeroes and returns an account's withdrawable balance for a
// token
func (s *DiamondState) DrainBalance(account common.Address, token common.Address) *big.Int {
	amount := s.Balance(account, token)
	if tokens, ok := s.Balances[account]; ok {
		delete(tokens, token)
	}
	return amount
}

// RecipientStake returns the recipient-side escrow record for a
// (contentId, recipient) pair, or nil
func (s *DiamondState) RecipientStake(contentID *big.Int, recipient *big.Int) *model.StakeInfoRecipient {
	recipients, ok := s.StakeRecipients[Uint256Key(contentID)]
	if !ok {
		return nil
	}
	return recipients[Uint256Key(recipient)]
}

// PutRecipientStake stores the recipient-side escrow record for a
// (contentId, recipient) pair
func (s *DiamondState) PutRecipientStake(contentID *big.Int, recipient *big.Int, info *model.StakeInfoRecipient) {
	key := Uint256Key(contentID)
	recipients, ok := s.StakeRecipients[key]
	if !ok {
		recipients = map[common.Hash]*model.StakeInfoRecipient{}
		s.StakeRecipients[key] = recipients
	}
	recipients[Uint256Key(recipient)] = info
}

// Copy returns a deep copy of the whole aggregate. The router snapshots the
// state before each call and restores the copy on failure.
func (s *DiamondState) Copy() *DiamondState {
	cp := &DiamondState{
		ContractOwner:          s.ContractOwner,
		YlideBeneficiary:       s.YlideBeneficiary,
		StakeLockUpPeriod:      s.StakeLockUpPeriod,
		YlideCommissionBps:     s.YlideCommissionBps,
		Feeds:                  make(map[common.Hash]*model.MailingFeed, len(s.Feeds)),
		Keys:                   make(map[common.Address]*model.RegistryEntry, len(s.Keys)),
		DefaultPaywall:         make(map[common.Address]*big.Int, len(s.DefaultPaywall)),
		RecipientPaywall:       make(map[common.Hash]map[common.Address]*big.Int, len(s.RecipientPaywall)),
		AllowedTokens:          s.AllowedTokens.Copy(),
		Whitelist:              make(map[common.Hash]map[common.Address]bool, len(s.Whitelist)),
		IsYlide:                make(map[common.Address]bool, len(s.IsYlide)),
		Nonces:                 make(map[common.Address]*big.Int, len(s.Nonces)),
		RegistrarCommissionBps: make(map[common.Address]uint32, len(s.RegistrarCommissionBps)),
		StakeSenders:           make(map[common.Hash]*model.StakeInfoSender, len(s.StakeSenders)),
		StakeRecipients:        make(map[common.Hash]map[common.Hash]*model.StakeInfoRecipient, len(s.StakeRecipients)),
		Balances:               make(map[common.Address]map[common.Address]*big.Int, len(s.Balances)),
		PartsSent:              make(map[common.Hash]uint16, len(s.PartsSent)),
	}
	for k, v := range s.Feeds {
		cp.Feeds[k] = v.Copy()
	}
	for k, v := range s.Keys {
		cp.Keys[k] = v.Copy()
	}
	for k, v := range s.DefaultPaywall {
		cp.DefaultPaywall[k] = new(big.Int).Set(v)
	}
	for k, overrides := range s.RecipientPaywall {
		inner := make(map[common.Address]*big.Int, len(overrides))
		for t, v := range overrides {
			inner[t] = new(big.Int).Set(v)
		}
		cp.RecipientPaywall[k] = inner
	}
	for k, senders := range s.Whitelist {
		inner := make(map[common.Address]bool, len(senders))
		for a, v := range senders {
			inner[a] = v
		}
		cp.Whitelist[k] = inner
	}
	for k, v := range s.IsYlide {
		cp.IsYlide[k] = v
	}
	for k, v := range s.Nonces {
		cp.Nonces[k] = new(big.Int).Set(v)
	}
	for k, v := range s.RegistrarCommissionBps {
		cp.RegistrarCommissionBps[k] = v
	}
	for k, v := range s.StakeSenders {
		cp.StakeSenders[k] = v.Copy()
	}
	for k, recipients := range s.StakeRecipients {
		inner := make(map[common.Hash]*model.StakeInfoRecipient, len(recipients))
		for r, v := range recipients {
			inner[r] = v.Copy()
		}
		cp.StakeRecipients[k] = inner
	}
	for k, tokens := range s.Balances {
		inner := make(map[common.Address]*big.Int, len(tokens))
		for t, v := range tokens {
			inner[t] = new(big.Int).Set(v)
		}
		cp.Balances[k] = inner
	}
	for k, v := range s.PartsSent {
		cp.PartsSent[k] = v
	}
	if len(s.pending) > 0 {
		cp.pending = make([]model.Event, len(s.pending))
		copy(cp.pending, s.pending)
	}
	return cp
}
