package state

import (
	"github.com/ethereum/go-ethereum/common"
)

// AddressSet is an enumerable set of addresses with O(1) membership.
// Removal swaps the last element into the removed slot, so list order is not
// stable across removals.
type AddressSet struct {
	items []common.Address
	index map[common.Address]int
}

// NewAddressSet inits an empty AddressSet
func NewAddressSet() *AddressSet {
	return &AddressSet{
		index: map[common.Address]int{},
	}
}

// Add inserts an address; adding an existing address is a no-op
func (s *AddressSet) Add(addr common.Address) {
	if _, ok := s.index[addr]; ok {
		return
	}
	s.index[addr] = len(s.items)
	s.items = append(s.items, addr)
}

// Remove deletes an address via swap-and-pop; removing an absent address is
// a no-op
func (s *AddressSet) Remove(addr common.Address) {
	pos, ok := s.index[addr]
	if !ok {
		return
	}
	last := len(s.items) - 1
	if pos != last {
		moved := s.items[last]
		s.items[pos] = moved
		s.index[moved] = pos
	}
	s.items = s.items[:last]
	delete(s.index, addr)
}

// Contains reports membership
func (s *AddressSet) Contains(addr common.Address) bool {
	_, ok := s.index[addr]
	return ok
}

// List returns the current enumeration order
func (s *AddressSet) List() []common.Address {
	out := make([]common.Address, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of members
func (s *AddressSet) Len() int {
	return len(s.items)
}

// Copy returns a deep copy of the set
func (s *AddressSet) Copy() *AddressSet {
	cp := &AddressSet{
		items: make([]common.Address, len(s.items)),
		index: make(map[common.Address]int, len(s.index)),
	}
	copy(cp.items, s.items)
	for k, v := range s.index {
		cp.index[k] = v
	}
	return cp
}
