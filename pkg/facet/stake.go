package facet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/diamond"
	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
	"github.com/ylide/ylide-protocol-go/pkg/token"
)

// Canonical signatures of the stake surface
const (
	SigCancel   = "cancel((uint256,uint256)[])"
	SigClaim    = "claim(uint256[],(address,uint256))"
	SigWithdraw = "withdraw(address)"
)

// StakeFacetParams are the params to initialize a new StakeFacet
type StakeFacetParams struct {
	Address common.Address

	// Tokens pays out refunds, claims, and withdrawals
	Tokens token.Backend
}

// StakeFacet settles the escrow entries the mailer creates: sender-side
// cancellation after lock-up, recipient-side claim with the three-way
// commission split, and balance withdrawal.
type StakeFacet struct {
	address common.Address
	tokens  token.Backend
}

// NewStakeFacet is a convenience method to init a StakeFacet
func NewStakeFacet(params *StakeFacetParams) *StakeFacet {
	return &StakeFacet{
		address: params.Address,
		tokens:  params.Tokens,
	}
}

// Address returns the facet address
func (f *StakeFacet) Address() common.Address {
	return f.address
}

// Functions returns the selector-addressed surface of the facet
func (f *StakeFacet) Functions() []diamond.FacetFunction {
	return []diamond.FacetFunction{
		{Signature: SigCancel, Handler: f.cancel},
		{Signature: SigClaim, Handler: f.claim},
		{Signature: SigWithdraw, Handler: f.withdraw},
	}
}

func (f *StakeFacet) cancel(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if len(args) != 1 {
		return nil, model.ErrInvalidArguments
	}
	requests, ok := args[0].([]model.CancelRequest)
	if !ok || len(requests) == 0 {
		return nil, model.ErrInvalidArguments
	}
	for _, req := range requests {
		if err := f.cancelOne(st, env, req); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (f *StakeFacet) cancelOne(st *state.DiamondState, env *model.Env, req model.CancelRequest) error {
	if req.ContentID == nil || req.Recipient == nil {
		return model.ErrInvalidArguments
	}
	senderInfo, ok := st.StakeSenders[state.Uint256Key(req.ContentID)]
	if !ok {
		return model.ErrNothingToWithdraw
	}
	if senderInfo.Sender() != env.Caller {
		return model.ErrNotSender
	}
	if env.Timestamp < senderInfo.StakeBlockedUntil() {
		return model.ErrStakeLockUp
	}
	entry := st.RecipientStake(req.ContentID, req.Recipient)
	if entry == nil || !entry.Payable() {
		return model.ErrNothingToWithdraw
	}

	if err := f.tokens.Transfer(senderInfo.Token(), senderInfo.Sender(), entry.Amount()); err != nil {
		return err
	}
	entry.MarkCanceled()
	senderInfo.SetCanceled(true)

	st.Emit(&model.StakeCancelled{
		ContentID: req.ContentID,
		Recipient: req.Recipient,
		Token:     senderInfo.Token(),
		Amount:    entry.Amount(),
	})
	return nil
}

func (f *StakeFacet) claim(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if len(args) != 2 {
		return nil, model.ErrInvalidArguments
	}
	contentIDs, cok := args[0].([]*big.Int)
	iface, iok := args[1].(*model.ClaimInterface)
	if !cok || !iok || len(contentIDs) == 0 || iface == nil {
		return nil, model.ErrInvalidArguments
	}
	if iface.InterfaceAddress == (common.Address{}) {
		return nil, model.ErrNoInterface
	}
	for _, contentID := range contentIDs {
		if err := f.claimOne(st, env, contentID, iface); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (f *StakeFacet) claimOne(st *state.DiamondState, env *model.Env, contentID *big.Int, iface *model.ClaimInterface) error {
	if contentID == nil {
		return model.ErrInvalidArguments
	}
	senderInfo, ok := st.StakeSenders[state.Uint256Key(contentID)]
	if !ok {
		return model.ErrNothingToWithdraw
	}
	recipient := state.AddressToUint256(env.Caller)
	entry := st.RecipientStake(contentID, recipient)
	if entry == nil || !entry.Payable() {
		return model.ErrNothingToWithdraw
	}
	registrar := senderRegistrar(st, senderInfo.Sender())
	if registrar == (common.Address{}) {
		return model.ErrNoRegistrar
	}

	// All cuts are taken from the full escrowed amount; truncation remainders
	// accrue to the recipient.
	amount := entry.Amount()
	interfaceCut := bpsCut(amount, iface.InterfaceCommissionBps)
	ylideCut := bpsCut(amount, st.YlideCommissionBps)
	registrarCut := bpsCut(amount, st.RegistrarCommissionBps[registrar])
	recipientAmount := new(big.Int).Set(amount)
	recipientAmount.Sub(recipientAmount, interfaceCut)
	recipientAmount.Sub(recipientAmount, ylideCut)
	recipientAmount.Sub(recipientAmount, registrarCut)
	if recipientAmount.Sign() < 0 {
		return model.ErrInvalidArguments
	}

	if err := f.tokens.Transfer(senderInfo.Token(), env.Caller, recipientAmount); err != nil {
		return err
	}
	st.CreditBalance(iface.InterfaceAddress, senderInfo.Token(), interfaceCut)
	st.CreditBalance(st.YlideBeneficiary, senderInfo.Token(), ylideCut)
	st.CreditBalance(registrar, senderInfo.Token(), registrarCut)
	entry.MarkClaimed()

	st.Emit(&model.StakeClaimed{
		ContentID:       contentID,
		Recipient:       recipient,
		Token:           senderInfo.Token(),
		Amount:          amount,
		InterfaceCut:    interfaceCut,
		YlideCut:        ylideCut,
		RegistrarCut:    registrarCut,
		RecipientAmount: recipientAmount,
	})
	return nil
}

func (f *StakeFacet) withdraw(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	payToken, err := argAddress(args, 0)
	if err != nil {
		return nil, err
	}
	amount := st.Balance(env.Caller, payToken)
	if amount.Sign() == 0 {
		return nil, model.ErrNothingToWithdraw
	}
	if err := f.tokens.Transfer(payToken, env.Caller, amount); err != nil {
		return nil, err
	}
	st.DrainBalance(env.Caller, payToken)

	st.Emit(&model.WithdrawnRewards{
		Account: env.Caller,
		Token:   payToken,
		Amount:  amount,
	})
	return []interface{}{amount}, nil
}
