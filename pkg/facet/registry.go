package facet

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/diamond"
	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
)

// Canonical signatures of the registry surface
const (
	SigAttachPublicKey = "attachPublicKey(uint256,uint16,address)"
	SigGetPublicKey    = "getPublicKey(address)"
)

// RegistryFacet is the public-key directory. Any account may (re)attach its
// own key; attaching also whitelists the account as a sender to its own
// mailbox, under both the raw and the hashed address key.
type RegistryFacet struct {
	address common.Address
}

// NewRegistryFacet inits a RegistryFacet at the given facet address
func NewRegistryFacet(address common.Address) *RegistryFacet {
	return &RegistryFacet{address: address}
}

// Address returns the facet address
func (f *RegistryFacet) Address() common.Address {
	return f.address
}

// Functions returns the selector-addressed surface of the facet
func (f *RegistryFacet) Functions() []diamond.FacetFunction {
	return []diamond.FacetFunction{
		{Signature: SigAttachPublicKey, Handler: f.attachPublicKey},
		{Signature: SigGetPublicKey, Handler: f.getPublicKey},
	}
}

func (f *RegistryFacet) attachPublicKey(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	publicKey, err := argBig(args, 0)
	if err != nil {
		return nil, err
	}
	keyVersion, err := argUint16(args, 1)
	if err != nil {
		return nil, err
	}
	registrar, err := argAddress(args, 2)
	if err != nil {
		return nil, err
	}

	st.Keys[env.Caller] = model.NewRegistryEntry(&model.RegistryEntryParams{
		PublicKey:      publicKey,
		KeyVersion:     keyVersion,
		Registrar:      registrar,
		AttachedDateTs: env.Timestamp,
	})

	// Self-whitelist so the account can always mail itself, addressed either
	// by its plain address or by the hashed variant.
	st.SetWhitelistedSender(state.AddressToUint256(env.Caller), env.Caller, true)
	st.SetWhitelistedSender(hashedAddressKey(env.Caller), env.Caller, true)

	st.Emit(&model.PublicKeyAttached{
		Account:    env.Caller,
		PublicKey:  publicKey,
		KeyVersion: keyVersion,
		Registrar:  registrar,
	})
	return nil, nil
}

func (f *RegistryFacet) getPublicKey(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	account, err := argAddress(args, 0)
	if err != nil {
		return nil, err
	}
	entry, ok := st.Keys[account]
	if !ok {
		return []interface{}{(*model.RegistryEntry)(nil)}, nil
	}
	return []interface{}{entry.Copy()}, nil
}
