package facet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/diamond"
	"github.com/ylide/ylide-protocol-go/pkg/eip712"
	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
	"github.com/ylide/ylide-protocol-go/pkg/token"
)

// Canonical signatures of the mailer surface
const (
	SigSendBulkMail      = "sendBulkMail(uint256,uint256,(uint256,bytes,bytes)[],address,bytes)"
	SigAddMailRecipients = "addMailRecipients(uint256,uint256,(uint256,bytes,bytes)[],address,uint256,uint16,uint16)"

	SigSendBulkMailSigned      = "sendBulkMail((uint256,uint256,(uint256,bytes,bytes)[],address,bytes),(bytes,address,uint256,uint256),(address,uint8))"
	SigAddMailRecipientsSigned = "addMailRecipients((uint256,uint256,(uint256,bytes,bytes)[],address,uint256,uint16,uint16),(bytes,address,uint256,uint256),(address,uint8))"

	SigNonces         = "nonces(address)"
	SigBuildContentID = "buildContentId(address,uint256,uint256,uint16,uint16)"
)

// MailerFacetParams are the params to initialize a new MailerFacet
type MailerFacetParams struct {
	Address common.Address

	// Tokens moves paywall and fee amounts
	Tokens token.Backend

	// Escrow is the protocol address that holds escrowed funds, normally the
	// diamond address
	Escrow common.Address

	// Domain separates the signed payloads of this protocol instance
	Domain eip712.Domain
}

// MailerFacet is the message-send state machine: direct bulk sends,
// multi-part incremental sends bounded by a block window, and the
// signature-authorized overloads of both. Sends to paywalled recipients
// escrow funds that the stake module later settles.
type MailerFacet struct {
	address common.Address
	tokens  token.Backend
	escrow  common.Address
	domain  eip712.Domain
}

// NewMailerFacet is a convenience method to init a MailerFacet
func NewMailerFacet(params *MailerFacetParams) *MailerFacet {
	return &MailerFacet{
		address: params.Address,
		tokens:  params.Tokens,
		escrow:  params.Escrow,
		domain:  params.Domain,
	}
}

// Address returns the facet address
func (f *MailerFacet) Address() common.Address {
	return f.address
}

// Functions returns the selector-addressed surface of the facet
func (f *MailerFacet) Functions() []diamond.FacetFunction {
	return []diamond.FacetFunction{
		{Signature: SigSendBulkMail, Handler: f.sendBulkMail},
		{Signature: SigAddMailRecipients, Handler: f.addMailRecipients},
		{Signature: SigSendBulkMailSigned, Handler: f.sendBulkMailSigned},
		{Signature: SigAddMailRecipientsSigned, Handler: f.addMailRecipientsSigned},
		{Signature: SigNonces, Handler: f.nonces},
		{Signature: SigBuildContentID, Handler: f.buildContentID},
	}
}

func (f *MailerFacet) sendBulkMail(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if len(args) != 1 {
		return nil, model.ErrInvalidArguments
	}
	a, ok := args[0].(*model.SendBulkMailArgs)
	if !ok || a == nil {
		return nil, model.ErrInvalidArguments
	}
	contentID, err := f.doSendBulkMail(st, env, env.Caller, a)
	if err != nil {
		return nil, err
	}
	return []interface{}{contentID}, nil
}

func (f *MailerFacet) sendBulkMailSigned(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if len(args) != 3 {
		return nil, model.ErrInvalidArguments
	}
	a, aok := args[0].(*model.SendBulkMailArgs)
	sig, sok := args[1].(*model.SignatureArgs)
	ctx, cok := args[2].(*model.ContractContext)
	if !aok || !sok || !cok || a == nil || sig == nil || ctx == nil {
		return nil, model.ErrInvalidArguments
	}

	digest, err := eip712.SendBulkMailDigest(f.domain, &eip712.SendBulkMailMessage{
		FeedID:          a.FeedID,
		UniqueID:        a.UniqueID,
		Nonce:           sig.Nonce,
		Deadline:        sig.Deadline,
		Recipients:      recipientsOf(a.RecKeySups),
		Keys:            concatKeys(a.RecKeySups),
		Content:         a.Content,
		ContractAddress: ctx.ContractAddress,
		ContractType:    ctx.ContractType,
	})
	if err != nil {
		return nil, err
	}
	if err := f.verifySignature(st, env, digest, sig); err != nil {
		return nil, err
	}

	contentID, err := f.doSendBulkMail(st, env, sig.Sender, a)
	if err != nil {
		return nil, err
	}
	return []interface{}{contentID}, nil
}

func (f *MailerFacet) addMailRecipients(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if len(args) != 1 {
		return nil, model.ErrInvalidArguments
	}
	a, ok := args[0].(*model.AddMailRecipientsArgs)
	if !ok || a == nil {
		return nil, model.ErrInvalidArguments
	}
	contentID, err := f.doAddMailRecipients(st, env, env.Caller, a)
	if err != nil {
		return nil, err
	}
	return []interface{}{contentID}, nil
}

func (f *MailerFacet) addMailRecipientsSigned(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	if len(args) != 3 {
		return nil, model.ErrInvalidArguments
	}
	a, aok := args[0].(*model.AddMailRecipientsArgs)
	sig, sok := args[1].(*model.SignatureArgs)
	ctx, cok := args[2].(*model.ContractContext)
	if !aok || !sok || !cok || a == nil || sig == nil || ctx == nil {
		return nil, model.ErrInvalidArguments
	}

	digest, err := eip712.AddMailRecipientsDigest(f.domain, &eip712.AddMailRecipientsMessage{
		FeedID:           a.FeedID,
		UniqueID:         a.UniqueID,
		FirstBlockNumber: a.FirstBlockNumber,
		Nonce:            sig.Nonce,
		Deadline:         sig.Deadline,
		PartsCount:       a.PartsCount,
		BlockCountLock:   a.BlockCountLock,
		Recipients:       recipientsOf(a.RecKeySups),
		Keys:             concatKeys(a.RecKeySups),
		ContractAddress:  ctx.ContractAddress,
		ContractType:     ctx.ContractType,
	})
	if err != nil {
		return nil, err
	}
	if err := f.verifySignature(st, env, digest, sig); err != nil {
		return nil, err
	}

	contentID, err := f.doAddMailRecipients(st, env, sig.Sender, a)
	if err != nil {
		return nil, err
	}
	return []interface{}{contentID}, nil
}

// verifySignature runs the meta-transaction checks in their fixed order and
// advances the sender's nonce on success. The relayer check comes first so a
// stray relayer learns nothing about signature validity.
func (f *MailerFacet) verifySignature(st *state.DiamondState, env *model.Env, digest []byte, sig *model.SignatureArgs) error {
	if !st.IsYlide[env.Caller] {
		return model.ErrIsNotYlide
	}
	signer, err := eip712.RecoverSigner(digest, sig.Signature)
	if err != nil || signer != sig.Sender {
		return model.ErrInvalidSignature
	}
	if sig.Sender == (common.Address{}) {
		return model.ErrInvalidSender
	}
	if sig.Nonce == nil || sig.Nonce.Cmp(st.Nonce(sig.Sender)) != 0 {
		return model.ErrInvalidNonce
	}
	if env.Timestamp > sig.Deadline {
		return model.ErrSignatureExpired
	}
	st.BumpNonce(sig.Sender)
	return nil
}

func (f *MailerFacet) doSendBulkMail(st *state.DiamondState, env *model.Env, sender common.Address, a *model.SendBulkMailArgs) (*big.Int, error) {
	if len(a.RecKeySups) == 0 || a.FeedID == nil || a.UniqueID == nil {
		return nil, model.ErrInvalidArguments
	}

	// A direct send is a complete single-part message; the block window
	// degenerates to the sending block.
	contentID := buildContentID(sender, a.UniqueID, env.BlockNumber, 1, 0)

	if err := f.chargeFeedFee(st, sender, a.FeedID, len(a.RecKeySups)); err != nil {
		return nil, err
	}
	for _, r := range a.RecKeySups {
		if err := f.escrowPaywall(st, env, sender, contentID, a.PaymentToken, r.Recipient); err != nil {
			return nil, err
		}
		st.Emit(&model.MailPush{
			FeedID:      a.FeedID,
			Sender:      sender,
			Recipient:   r.Recipient,
			Key:         r.Key,
			Supplement:  r.Supplement,
			ContentID:   contentID,
			Content:     a.Content,
			BlockNumber: env.BlockNumber,
			Timestamp:   env.Timestamp,
		})
	}
	return contentID, nil
}

func (f *MailerFacet) doAddMailRecipients(st *state.DiamondState, env *model.Env, sender common.Address, a *model.AddMailRecipientsArgs) (*big.Int, error) {
	if len(a.RecKeySups) == 0 || a.FeedID == nil || a.UniqueID == nil || a.PartsCount == 0 {
		return nil, model.ErrInvalidArguments
	}
	if env.BlockNumber < a.FirstBlockNumber || env.BlockNumber > a.FirstBlockNumber+uint64(a.BlockCountLock) {
		return nil, model.ErrInvalidArguments
	}

	contentID := buildContentID(sender, a.UniqueID, a.FirstBlockNumber, a.PartsCount, a.BlockCountLock)
	contentKey := state.Uint256Key(contentID)
	if st.PartsSent[contentKey] >= a.PartsCount {
		return nil, model.ErrInvalidArguments
	}
	st.PartsSent[contentKey]++

	if err := f.chargeFeedFee(st, sender, a.FeedID, len(a.RecKeySups)); err != nil {
		return nil, err
	}
	for _, r := range a.RecKeySups {
		if err := f.escrowPaywall(st, env, sender, contentID, a.PaymentToken, r.Recipient); err != nil {
			return nil, err
		}
		// Content travels separately for multi-part messages; the push only
		// correlates the recipient with the content id.
		st.Emit(&model.MailPush{
			FeedID:      a.FeedID,
			Sender:      sender,
			Recipient:   r.Recipient,
			Key:         r.Key,
			Supplement:  r.Supplement,
			ContentID:   contentID,
			BlockNumber: env.BlockNumber,
			Timestamp:   env.Timestamp,
		})
	}
	return contentID, nil
}

// chargeFeedFee pulls the feed's per-recipient fee in the native coin and
// credits it to the feed beneficiary's withdrawable balance. Sends to an
// unknown feed carry no fee.
func (f *MailerFacet) chargeFeedFee(st *state.DiamondState, sender common.Address, feedID *big.Int, recipients int) error {
	feed, ok := st.Feeds[state.Uint256Key(feedID)]
	if !ok || feed.RecipientFee().Sign() == 0 {
		return nil
	}
	total := new(big.Int).Mul(feed.RecipientFee(), big.NewInt(int64(recipients)))
	if err := f.tokens.TransferFrom(token.NativeToken, sender, f.escrow, total); err != nil {
		return err
	}
	st.CreditBalance(feed.Beneficiary(), token.NativeToken, total)
	return nil
}

// escrowPaywall resolves the recipient's effective paywall and, when
// non-zero, pulls the full amount into escrow and records the stake pair.
func (f *MailerFacet) escrowPaywall(st *state.DiamondState, env *model.Env, sender common.Address, contentID *big.Int, payToken common.Address, recipient *big.Int) error {
	if recipient == nil {
		return model.ErrInvalidArguments
	}
	amount := paywallAmount(st, recipient, sender, payToken)
	if amount.Sign() == 0 {
		return nil
	}
	if st.RecipientStake(contentID, recipient) != nil {
		return model.ErrInvalidArguments
	}
	if err := f.tokens.TransferFrom(payToken, sender, f.escrow, amount); err != nil {
		return err
	}

	contentKey := state.Uint256Key(contentID)
	senderInfo, ok := st.StakeSenders[contentKey]
	if !ok {
		senderInfo = model.NewStakeInfoSender(&model.StakeInfoSenderParams{
			Token:             payToken,
			Sender:            sender,
			StakeBlockedUntil: env.Timestamp + st.StakeLockUpPeriod,
		})
		st.StakeSenders[contentKey] = senderInfo
	}
	st.PutRecipientStake(contentID, recipient, model.NewStakeInfoRecipient(amount))

	st.Emit(&model.StakeCreated{
		ContentID:         contentID,
		Recipient:         recipient,
		Token:             payToken,
		Amount:            amount,
		StakeBlockedUntil: senderInfo.StakeBlockedUntil(),
	})
	return nil
}

func (f *MailerFacet) nonces(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	account, err := argAddress(args, 0)
	if err != nil {
		return nil, err
	}
	return []interface{}{st.Nonce(account)}, nil
}

func (f *MailerFacet) buildContentID(st *state.DiamondState, env *model.Env, args []interface{}) ([]interface{}, error) {
	sender, err := argAddress(args, 0)
	if err != nil {
		return nil, err
	}
	uniqueID, err := argBig(args, 1)
	if err != nil {
		return nil, err
	}
	firstBlockNumber, err := argBig(args, 2)
	if err != nil {
		return nil, err
	}
	partsCount, err := argUint16(args, 3)
	if err != nil {
		return nil, err
	}
	blockCountLock, err := argUint16(args, 4)
	if err != nil {
		return nil, err
	}
	return []interface{}{buildContentID(sender, uniqueID, firstBlockNumber.Uint64(), partsCount, blockCountLock)}, nil
}

func recipientsOf(recKeySups []model.RecKeySup) []*big.Int {
	out := make([]*big.Int, len(recKeySups))
	for i, r := range recKeySups {
		out[i] = r.Recipient
	}
	return out
}

func concatKeys(recKeySups []model.RecKeySup) []byte {
	var out []byte
	for _, r := range recKeySups {
		out = append(out, r.Key...)
	}
	return out
}
