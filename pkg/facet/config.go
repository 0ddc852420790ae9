package facet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/diamond"
	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
)

// Canonical signatures of the config surface
const (
	SigCreateMailingFeed            = "createMailingFeed(uint256)"
	SigTransferMailingFeedOwnership = "transferMailingFeedOwnership(uint256,address)"
	SigSetMailingFeedBeneficiary    = "setMailingFeedBeneficiary(uint256,address)"
	SigSetMailingFeedFees           = "setMailingFeedFees(uint256,uint256)"
	SigAddAllowedTokens             = "addAllowedTokens(address[])"
	SigRemoveAllowedTokens          = "removeAllowedTokens(address[])"
	SigSetPaywallDefault            = "setPaywallDefault((address,uint256)[])"
	SigSetPaywall                   = "setPaywall((address,uint256)[])"
	SigWhitelistSenders             = "whitelistSenders((address,bool)[])"
	SigSetStakeLockUpPeriod         = "setStakeLockUpPeriod(uint256)"
	SigSetYlideCommissionPercentage = "setYlideCommissionPercentage(uint256)"
	SigSetRegistrarToCommission     = "setRegistrarToCommissionPercentage(uint256)"
	SigSetIsYlide                   = "setIsYlide(address[],bool[])"
	SigSetYlideBeneficiary          = "setYlideBeneficiary(address)"
	SigGetRecipientPaywallInfo      = "getRecipientPaywallInfo(uint256,address)"
)

// ConfigFacet owns feed metadata, the allowed-token set, paywall amounts,
// sender whitelisting, commission percentages, and the relayer allow-list.
type ConfigFacet struct {
	address common.Address
}

// NewConfigFacet inits a ConfigFacet at the given facet address
func NewConfigFacet(address common.Address) *ConfigFacet {
	return &ConfigFacet{address: address}
}

// Address returns the facet address
func (f *ConfigFacet) Address() common.Address {
	return f.address
}

// Functions returns the selector-addressed surface of the facet
func (f *ConfigFacet) Functions() []diamond.FacetFunction {
	return []diamond.FacetFunction{
		{Signature: SigCreateMailingFeed, Handler: f.createMailingFeed},
		{Signature: SigTransferMailingFeedOwnership, Handler: f.transferMailingFeedOwnership},
		{Signature: SigSetMailingFeedBeneficiary, Handler: f.setMailingFeedBeneficiary},
		{Signature: SigSetMailingFeedFees, Handler: f.setMailingFeedFees},
		{Signature: SigAddAllowedTokens, Handler: f.addAllowedTokens},
		{Signature: SigRemoveAllowedTokens, Handler: f.removeAllowedTokens},
		{Signature: SigSetPaywallDefault, Handler: f.setPaywallDefault},
		{Signature: SigSetPaywall, Handler: f.setPaywall},
		{Signature: SigWhitelistSenders, Handler: f.whitelistSenders},
		{Signature: SigSetStakeLockUpPeriod, Handler: f.setStakeLockUpPeriod},
		{Signature: SigSetYlideCommissionPercentage, Handler: f.setYlideCommissionPercentage},
		{Signature: SigSetRegistrarToCommission, Handler: f.setRegistrarToCommissionPercentage},
		{Signature: SigSetIsYlide, Handler: f.setIsYlide},
		{Signature: SigSetYlideBeneficiary, Handler: f.setYlideBeneficiary},
		{Signature: SigGetRecipientPaywallInfo, Handler: f.getRecipientPaywallInfo},
	}
}

func (f *ConfigFacet) createMailingFeed(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	uniqueID, err := argBig(args, 0)
	if err != nil {
		return nil, err
	}
	feedID := buildFeedID(env.Caller, uniqueID)
	key := state.Uint256Key(feedID)
	if _, ok := st.Feeds[key]; ok {
		return nil, model.ErrInvalidArguments
	}
	st.Feeds[key] = model.NewMailingFeed(&model.MailingFeedParams{
		FeedID:        feedID,
		Owner:         env.Caller,
		Beneficiary:   env.Caller,
		RecipientFee:  big.NewInt(0),
		CreatedDateTs: env.Timestamp,
	})
	st.Emit(&model.MailingFeedCreated{FeedID: feedID, Creator: env.Caller})
	return []interface{}{feedID}, nil
}

func (f *ConfigFacet) ownedFeed(st *state.DiamondState, env *model.Env, feedID *big.Int) (*model.MailingFeed, error) {
	feed, ok := st.Feeds[state.Uint256Key(feedID)]
	if !ok {
		return nil, model.ErrInvalidArguments
	}
	if feed.Owner() != env.Caller {
		return nil, model.ErrNotFeedOwner
	}
	return feed, nil
}

func (f *ConfigFacet) transferMailingFeedOwnership(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	feedID, err := argBig(args, 0)
	if err != nil {
		return nil, err
	}
	newOwner, err := argAddress(args, 1)
	if err != nil {
		return nil, err
	}
	feed, err := f.ownedFeed(st, env, feedID)
	if err != nil {
		return nil, err
	}
	feed.SetOwner(newOwner)
	return nil, nil
}

func (f *ConfigFacet) setMailingFeedBeneficiary(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	feedID, err := argBig(args, 0)
	if err != nil {
		return nil, err
	}
	beneficiary, err := argAddress(args, 1)
	if err != nil {
		return nil, err
	}
	feed, err := f.ownedFeed(st, env, feedID)
	if err != nil {
		return nil, err
	}
	feed.SetBeneficiary(beneficiary)
	return nil, nil
}

func (f *ConfigFacet) setMailingFeedFees(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	feedID, err := argBig(args, 0)
	if err != nil {
		return nil, err
	}
	fee, err := argBig(args, 1)
	if err != nil {
		return nil, err
	}
	feed, err := f.ownedFeed(st, env, feedID)
	if err != nil {
		return nil, err
	}
	feed.SetRecipientFee(fee)
	return nil, nil
}

func (f *ConfigFacet) addAllowedTokens(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if env.Caller != st.ContractOwner {
		return nil, model.ErrMustBeContractOwner
	}
	if len(args) != 1 {
		return nil, model.ErrInvalidArguments
	}
	tokens, ok := args[0].([]common.Address)
	if !ok {
		return nil, model.ErrInvalidArguments
	}
	for _, t := range tokens {
		st.AllowedTokens.Add(t)
	}
	return nil, nil
}

func (f *ConfigFacet) removeAllowedTokens(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if env.Caller != st.ContractOwner {
		return nil, model.ErrMustBeContractOwner
	}
	if len(args) != 1 {
		return nil, model.ErrInvalidArguments
	}
	tokens, ok := args[0].([]common.Address)
	if !ok {
		return nil, model.ErrInvalidArguments
	}
	for _, t := range tokens {
		st.AllowedTokens.Remove(t)
	}
	return nil, nil
}

func (f *ConfigFacet) setPaywallDefault(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if env.Caller != st.ContractOwner {
		return nil, model.ErrMustBeContractOwner
	}
	if len(args) != 1 {
		return nil, model.ErrInvalidArguments
	}
	updates, ok := args[0].([]model.PaywallUpdate)
	if !ok {
		return nil, model.ErrInvalidArguments
	}
	for _, u := range updates {
		if u.Amount.Sign() == 0 {
			// A zero default clears the entry entirely, unlike a recipient
			// override where zero is a stored value.
			delete(st.DefaultPaywall, u.Token)
			continue
		}
		st.DefaultPaywall[u.Token] = new(big.Int).Set(u.Amount)
	}
	return nil, nil
}

func (f *ConfigFacet) setPaywall(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if len(args) != 1 {
		return nil, model.ErrInvalidArguments
	}
	updates, ok := args[0].([]model.PaywallUpdate)
	if !ok {
		return nil, model.ErrInvalidArguments
	}
	recipient := state.AddressToUint256(env.Caller)
	for _, u := range updates {
		st.SetRecipientPaywall(recipient, u.Token, u.Amount)
	}
	return nil, nil
}

func (f *ConfigFacet) whitelistSenders(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if len(args) != 1 {
		return nil, model.ErrInvalidArguments
	}
	updates, ok := args[0].([]model.WhitelistUpdate)
	if !ok {
		return nil, model.ErrInvalidArguments
	}
	recipient := state.AddressToUint256(env.Caller)
	for _, u := range updates {
		st.SetWhitelistedSender(recipient, u.Sender, u.Status)
	}
	return nil, nil
}

func (f *ConfigFacet) setStakeLockUpPeriod(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if env.Caller != st.ContractOwner {
		return nil, model.ErrMustBeContractOwner
	}
	period, err := argInt64(args, 0)
	if err != nil {
		return nil, err
	}
	st.StakeLockUpPeriod = period
	return nil, nil
}

func (f *ConfigFacet) setYlideCommissionPercentage(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if env.Caller != st.ContractOwner {
		return nil, model.ErrMustBeContractOwner
	}
	bps, err := argUint32(args, 0)
	if err != nil {
		return nil, err
	}
	st.YlideCommissionBps = bps
	return nil, nil
}

func (f *ConfigFacet) setRegistrarToCommissionPercentage(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	bps, err := argUint32(args, 0)
	if err != nil {
		return nil, err
	}
	st.RegistrarCommissionBps[env.Caller] = bps
	return nil, nil
}

func (f *ConfigFacet) setIsYlide(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if env.Caller != st.ContractOwner {
		return nil, model.ErrMustBeContractOwner
	}
	if len(args) != 2 {
		return nil, model.ErrInvalidArguments
	}
	relayers, ok := args[0].([]common.Address)
	if !ok {
		return nil, model.ErrInvalidArguments
	}
	statuses, ok := args[1].([]bool)
	if !ok || len(relayers) != len(statuses) {
		return nil, model.ErrInvalidArguments
	}
	for i, relayer := range relayers {
		st.IsYlide[relayer] = statuses[i]
	}
	return nil, nil
}

func (f *ConfigFacet) setYlideBeneficiary(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if env.Caller != st.ContractOwner {
		return nil, model.ErrMustBeContractOwner
	}
	beneficiary, err := argAddress(args, 0)
	if err != nil {
		return nil, err
	}
	st.YlideBeneficiary = beneficiary
	return nil, nil
}

func (f *ConfigFacet) getRecipientPaywallInfo(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	recipient, err := argBig(args, 0)
	if err != nil {
		return nil, err
	}
	sender, err := argAddress(args, 1)
	if err != nil {
		return nil, err
	}
	tokens := st.AllowedTokens.List()
	info := make([]model.PaywallTokenInfo, len(tokens))
	for i, t := range tokens {
		info[i] = model.PaywallTokenInfo{
			Token:  t,
			Amount: paywallAmount(st, recipient, sender, t),
		}
	}
	return []interface{}{info}, nil
}
