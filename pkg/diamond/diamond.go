// Package diamond is the dispatch layer of the protocol: it routes
// selector-addressed calls to the module that implements them, applies
// owner-gated routing table cuts, and gives every call transactional
// semantics over the shared state.
package diamond // import "github.com/ylide/ylide-protocol-go/pkg/diamond"

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
	"github.com/ylide/ylide-protocol-go/pkg/token"
)

// Selector is the 4-byte function identifier calls are addressed by
type Selector [4]byte

// SelectorOf derives the selector of a canonical signature string
func SelectorOf(signature string) Selector {
	var sel Selector
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// Handler executes one protocol function against the shared state
type Handler func(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error)

// FacetFunction binds one canonical signature to its handler
type FacetFunction struct {
	Signature string
	Handler   Handler
}

// Facet is a deployed logic module: an address plus the functions it
// implements. Registering a facet does not route any calls to it; only a
// cut does.
type Facet interface {
	Address() common.Address
	Functions() []FacetFunction
}

// FacetCutAction selects what a cut does to each listed selector
type FacetCutAction int

const (
	// Add maps currently unmapped selectors to a facet
	Add FacetCutAction = iota

	// Replace remaps already mapped selectors to a different facet
	Replace

	// Remove clears the mapping of selectors
	Remove
)

// FacetCut is one routing table change
type FacetCut struct {
	FacetAddress common.Address
	Action       FacetCutAction
	Selectors    []Selector
}

// FacetInfo is one loupe row: a facet and the selectors routed to it
type FacetInfo struct {
	FacetAddress common.Address
	Selectors    []Selector
}

// InitFunc optionally runs once after a cut applies, for migration
// bootstrapping
type InitFunc func(st *state.DiamondState) error

// Diamond is the shared protocol address: one routing table, one state
// aggregate, many independently versioned facets.
type Diamond struct {
	mu sync.Mutex

	address common.Address
	st      *state.DiamondState

	routes     map[Selector]common.Address
	handlers   map[common.Address]map[Selector]Handler
	signatures map[Selector]string

	sink   model.EventSink
	tokens token.Snapshotter
}

// Option configures a Diamond
type Option func(*Diamond)

// WithEventSink directs committed events to the given sink
func WithEventSink(sink model.EventSink) Option {
	return func(d *Diamond) {
		d.sink = sink
	}
}

// WithTokenRollback includes an in-process token backend in the per-call
// snapshot, so reverted calls undo token movement too
func WithTokenRollback(tokens token.Snapshotter) Option {
	return func(d *Diamond) {
		d.tokens = tokens
	}
}

// NewDiamond inits a Diamond at the given address over the given state
func NewDiamond(address common.Address, st *state.DiamondState, opts ...Option) *Diamond {
	d := &Diamond{
		address:    address,
		st:         st,
		routes:     map[Selector]common.Address{},
		handlers:   map[common.Address]map[Selector]Handler{},
		signatures: map[Selector]string{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Address returns the shared protocol address
func (d *Diamond) Address() common.Address {
	return d.address
}

// State exposes the live state aggregate for read access. Mutation outside
// a dispatched call breaks the transactional guarantees.
func (d *Diamond) State() *state.DiamondState {
	return d.st
}

// RegisterFacet makes a facet's handlers available for cuts. It corresponds
// to deploying the facet; no selector is routed until a cut names it.
func (d *Diamond) RegisterFacet(f Facet) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.handlers[f.Address()]; ok {
		return errors.Errorf("facet already registered at %v", f.Address().Hex())
	}
	byaddr := map[Selector]Handler{}
	for _, fn := range f.Functions() {
		sel := SelectorOf(fn.Signature)
		if _, ok := byaddr[sel]; ok {
			return errors.Errorf("duplicate selector in facet %v: %v", f.Address().Hex(), fn.Signature)
		}
		byaddr[sel] = fn.Handler
		d.signatures[sel] = fn.Signature
	}
	d.handlers[f.Address()] = byaddr
	return nil
}

// Cut applies a batch of routing changes atomically, then optionally runs
// the init target once. Only the contract owner may cut.
func (d *Diamond) Cut(env *model.Env, cuts []FacetCut, init InitFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if env.Caller != d.st.ContractOwner {
		return model.ErrMustBeContractOwner
	}

	// Stage on a copy so a failing change leaves the table untouched.
	staged := make(map[Selector]common.Address, len(d.routes))
	for sel, addr := range d.routes {
		staged[sel] = addr
	}

	for _, cut := range cuts {
		for _, sel := range cut.Selectors {
			current, mapped := staged[sel]
			switch cut.Action {
			case Add:
				if mapped {
					return errors.Errorf("selector %x already mapped to %v", sel, current.Hex())
				}
				if !d.facetImplements(cut.FacetAddress, sel) {
					return errors.Errorf("facet %v does not implement selector %x", cut.FacetAddress.Hex(), sel)
				}
				staged[sel] = cut.FacetAddress
			case Replace:
				if !mapped {
					return errors.Errorf("selector %x is not mapped, cannot replace", sel)
				}
				if current == cut.FacetAddress {
					return errors.Errorf("selector %x already mapped to facet %v", sel, current.Hex())
				}
				if !d.facetImplements(cut.FacetAddress, sel) {
					return errors.Errorf("facet %v does not implement selector %x", cut.FacetAddress.Hex(), sel)
				}
				staged[sel] = cut.FacetAddress
			case Remove:
				if cut.FacetAddress != (common.Address{}) {
					return errors.New("remove cut must use the zero facet address")
				}
				if !mapped {
					return errors.Errorf("selector %x is not mapped, cannot remove", sel)
				}
				delete(staged, sel)
			default:
				return errors.Errorf("unknown cut action %d", cut.Action)
			}
		}
	}

	if init != nil {
		snapshot := d.st.Copy()
		if err := init(d.st); err != nil {
			*d.st = *snapshot
			return errors.Wrap(err, "cut init target failed")
		}
	}

	d.routes = staged
	return nil
}

func (d *Diamond) facetImplements(addr common.Address, sel Selector) bool {
	byaddr, ok := d.handlers[addr]
	if !ok {
		return false
	}
	_, ok = byaddr[sel]
	return ok
}

// Call dispatches one selector-addressed call. Either the whole call
// commits, including its buffered events, or every state and in-process
// token change is rolled back.
func (d *Diamond) Call(env *model.Env, sel Selector, args ...interface{}) ([]interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	facetAddr, ok := d.routes[sel]
	if !ok {
		return nil, errors.Errorf("no facet for selector %x", sel)
	}
	handler := d.handlers[facetAddr][sel]

	snapshot := d.st.Copy()
	var tokenSnapshot interface{}
	if d.tokens != nil {
		tokenSnapshot = d.tokens.Snapshot()
	}

	out, err := handler(d.st, env, args)
	if err != nil {
		*d.st = *snapshot
		if d.tokens != nil {
			d.tokens.Restore(tokenSnapshot)
		}
		return nil, err
	}

	for _, event := range d.st.TakeEvents() {
		if d.sink == nil {
			continue
		}
		if sinkErr := d.sink.PublishEvent(event); sinkErr != nil {
			log.Errorf("Error publishing %v event: err: %v", event.EventName(), sinkErr)
		}
	}
	return out, nil
}

// CallSignature dispatches by canonical signature string
func (d *Diamond) CallSignature(env *model.Env, signature string, args ...interface{}) ([]interface{}, error) {
	return d.Call(env, SelectorOf(signature), args...)
}

// TransferOwnership hands the diamond to a new owner
func (d *Diamond) TransferOwnership(env *model.Env, newOwner common.Address) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if env.Caller != d.st.ContractOwner {
		return model.ErrMustBeContractOwner
	}
	if newOwner == (common.Address{}) {
		return model.ErrInvalidArguments
	}
	d.st.ContractOwner = newOwner
	return nil
}

// Owner returns the current contract owner
func (d *Diamond) Owner() common.Address {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.st.ContractOwner
}

// FacetAddress returns the facet a selector routes to, or the zero address
func (d *Diamond) FacetAddress(sel Selector) common.Address {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.routes[sel]
}

// FacetFunctionSelectors returns the selectors routed to one facet
func (d *Diamond) FacetFunctionSelectors(addr common.Address) []Selector {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Selector
	for sel, facetAddr := range d.routes {
		if facetAddr == addr {
			out = append(out, sel)
		}
	}
	return out
}

// FacetAddresses returns every facet with at least one routed selector
func (d *Diamond) FacetAddresses() []common.Address {
	d.mu.Lock()
	defer d.mu.Unlock()
	seen := map[common.Address]bool{}
	var out []common.Address
	for _, addr := range d.routes {
		if !seen[addr] {
			seen[addr] = true
			out = append(out, addr)
		}
	}
	return out
}

// Facets returns the full routing table grouped by facet
func (d *Diamond) Facets() []FacetInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	grouped := map[common.Address][]Selector{}
	for sel, addr := range d.routes {
		grouped[addr] = append(grouped[addr], sel)
	}
	out := make([]FacetInfo, 0, len(grouped))
	for addr, sels := range grouped {
		out = append(out, FacetInfo{FacetAddress: addr, Selectors: sels})
	}
	return out
}
