// Package facet contains the protocol's logic modules. Each facet is a set
// of selector-addressed functions over the shared diamond state; the router
// owns dispatch, atomicity, and event flushing, so the handlers here mutate
// state freely and return an error to revert.
package facet // import "github.com/ylide/ylide-protocol-go/pkg/facet"

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
	"github.com/ylide/ylide-protocol-go/pkg/token"
)

const bpsDenominator = 10000

// bpsCut returns amount*bps/10000 with truncating division
func bpsCut(amount *big.Int, bps uint32) *big.Int {
	cut := new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	return cut.Div(cut, big.NewInt(bpsDenominator))
}

// senderRegistrar returns the registrar named by the sender's attached key,
// or the zero address when the sender has no key or the key names none.
func senderRegistrar(st *state.DiamondState, sender common.Address) common.Address {
	entry, ok := st.Keys[sender]
	if !ok {
		return common.Address{}
	}
	return entry.Registrar()
}

// paywallAmount resolves the full amount a sender must escrow for one
// recipient: the effective base plus the ylide and registrar surcharges.
// Zero when the sender is whitelisted, the token is the native coin, or the
// token is not allowed.
func paywallAmount(st *state.DiamondState, recipient *big.Int, sender common.Address, payToken common.Address) *big.Int {
	if st.IsWhitelistedSender(recipient, sender) {
		return big.NewInt(0)
	}
	if payToken == token.NativeToken || !st.AllowedTokens.Contains(payToken) {
		return big.NewInt(0)
	}
	base := st.PaywallBase(recipient, payToken)
	if base.Sign() == 0 {
		return base
	}
	total := new(big.Int).Set(base)
	total.Add(total, bpsCut(base, st.YlideCommissionBps))
	if registrar := senderRegistrar(st, sender); registrar != (common.Address{}) {
		total.Add(total, bpsCut(base, st.RegistrarCommissionBps[registrar]))
	}
	return total
}

// buildContentID derives the protocol-wide unique id of a logical message
// from its replay window parameters. Stable for identical inputs, collision
// resistant across distinct tuples.
func buildContentID(sender common.Address, uniqueID *big.Int, firstBlockNumber uint64, partsCount uint16, blockCountLock uint16) *big.Int {
	digest := crypto.Keccak256(
		common.LeftPadBytes(sender.Bytes(), 32),
		common.BigToHash(uniqueID).Bytes(),
		common.BigToHash(new(big.Int).SetUint64(firstBlockNumber)).Bytes(),
		common.BigToHash(big.NewInt(int64(partsCount))).Bytes(),
		common.BigToHash(big.NewInt(int64(blockCountLock))).Bytes(),
	)
	return new(big.Int).SetBytes(digest)
}

// buildFeedID derives a feed id from the creator and a caller-chosen unique
// value
func buildFeedID(creator common.Address, uniqueID *big.Int) *big.Int {
	digest := crypto.Keccak256(
		common.LeftPadBytes(creator.Bytes(), 32),
		common.BigToHash(uniqueID).Bytes(),
	)
	return new(big.Int).SetBytes(digest)
}

// hashedAddressKey is the privacy-preserving recipient key of an address
func hashedAddressKey(addr common.Address) *big.Int {
	return new(big.Int).SetBytes(crypto.Keccak256(addr.Bytes()))
}

func argBig(args []interface{}, i int) (*big.Int, error) {
	if i >= len(args) {
		return nil, model.ErrInvalidArguments
	}
	v, ok := args[i].(*big.Int)
	if !ok || v == nil {
		return nil, model.ErrInvalidArguments
	}
	return v, nil
}

func argAddress(args []interface{}, i int) (common.Address, error) {
	if i >= len(args) {
		return common.Address{}, model.ErrInvalidArguments
	}
	v, ok := args[i].(common.Address)
	if !ok {
		return common.Address{}, model.ErrInvalidArguments
	}
	return v, nil
}

func argUint16(args []interface{}, i int) (uint16, error) {
	if i >= len(args) {
		return 0, model.ErrInvalidArguments
	}
	v, ok := args[i].(uint16)
	if !ok {
		return 0, model.ErrInvalidArguments
	}
	return v, nil
}

func argUint32(args []interface{}, i int) (uint32, error) {
	if i >= len(args) {
		return 0, model.ErrInvalidArguments
	}
	v, ok := args[i].(uint32)
	if !ok {
		return 0, model.ErrInvalidArguments
	}
	return v, nil
}

func argInt64(args []interface{}, i int) (int64, error) {
	if i >= len(args) {
		return 0, model.ErrInvalidArguments
	}
	v, ok := args[i].(int64)
	if !ok {
		return 0, model.ErrInvalidArguments
	}
	return v, nil
}
