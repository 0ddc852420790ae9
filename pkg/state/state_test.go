package state_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
)

var (
	testOwner     = common.HexToAddress("0x98C8CF45BD844627E84E1C506Ca87cC9436317D0")
	testToken     = common.HexToAddress("0x2652515f4f0A19240A5eFA71d19e6Fa2cC8f03c7")
	testSender    = common.HexToAddress("0x39eB50A04dAf4a3A92065BC4Cb1F346c6a87b5C1")
	testRecipient = big.NewInt(777)
)

func TestPaywallBaseDefault(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	st.DefaultPaywall[testToken] = big.NewInt(100)

	amount := st.PaywallBase(testRecipient, testToken)
	if amount.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("Should have fallen back to the default, got %v", amount)
	}
}

func TestPaywallBaseOverride(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	st.DefaultPaywall[testToken] = big.NewInt(100)
	st.SetRecipientPaywall(testRecipient, testToken, big.NewInt(200))

	amount := st.PaywallBase(testRecipient, testToken)
	if amount.Cmp(big.NewInt(200)) != 0 {
		t.Errorf("Should have used the override, got %v", amount)
	}
}

func TestPaywallBaseExplicitZeroOverride(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	st.DefaultPaywall[testToken] = big.NewInt(100)
	st.SetRecipientPaywall(testRecipient, testToken, big.NewInt(0))

	amount := st.PaywallBase(testRecipient, testToken)
	if amount.Sign() != 0 {
		t.Errorf("Should have treated explicit zero as zero, not fallen back to default, got %v", amount)
	}
}

func TestPaywallBaseUnset(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	amount := st.PaywallBase(testRecipient, testToken)
	if amount.Sign() != 0 {
		t.Errorf("Should have been zero with nothing configured, got %v", amount)
	}
}

func TestNonceBump(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	if st.Nonce(testSender).Sign() != 0 {
		t.Errorf("Should have started with a zero nonce")
	}
	st.BumpNonce(testSender)
	st.BumpNonce(testSender)
	if st.Nonce(testSender).Cmp(big.NewInt(2)) != 0 {
		t.Errorf("Should have bumped the nonce to 2, got %v", st.Nonce(testSender))
	}
}

func TestWhitelistedSender(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	if st.IsWhitelistedSender(testRecipient, testSender) {
		t.Errorf("Should not have been whitelisted by default")
	}
	st.SetWhitelistedSender(testRecipient, testSender, true)
	if !st.IsWhitelistedSender(testRecipient, testSender) {
		t.Errorf("Should have been whitelisted after set")
	}
	st.SetWhitelistedSender(testRecipient, testSender, false)
	if st.IsWhitelistedSender(testRecipient, testSender) {
		t.Errorf("Should not have been whitelisted after unset")
	}
}

func TestBalancesCreditAndDrain(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	st.CreditBalance(testSender, testToken, big.NewInt(40))
	st.CreditBalance(testSender, testToken, big.NewInt(60))

	if st.Balance(testSender, testToken).Cmp(big.NewInt(100)) != 0 {
		t.Errorf("Should have accumulated 100, got %v", st.Balance(testSender, testToken))
	}
	drained := st.DrainBalance(testSender, testToken)
	if drained.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("Should have drained 100, got %v", drained)
	}
	if st.Balance(testSender, testToken).Sign() != 0 {
		t.Errorf("Should have had a zero balance after drain")
	}
}

func TestCopyIndependence(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	st.DefaultPaywall[testToken] = big.NewInt(100)
	st.Feeds[state.Uint256Key(big.NewInt(1))] = model.NewMailingFeed(&model.MailingFeedParams{
		FeedID:        big.NewInt(1),
		Owner:         testOwner,
		Beneficiary:   testOwner,
		RecipientFee:  big.NewInt(0),
		CreatedDateTs: 1257894000,
	})
	st.AllowedTokens.Add(testToken)
	st.CreditBalance(testSender, testToken, big.NewInt(5))
	st.PutRecipientStake(big.NewInt(9), testRecipient, model.NewStakeInfoRecipient(big.NewInt(110)))

	snapshot := st.Copy()

	st.DefaultPaywall[testToken] = big.NewInt(999)
	st.Feeds[state.Uint256Key(big.NewInt(1))].SetRecipientFee(big.NewInt(7))
	st.AllowedTokens.Remove(testToken)
	st.CreditBalance(testSender, testToken, big.NewInt(5))
	st.RecipientStake(big.NewInt(9), testRecipient).MarkClaimed()

	if snapshot.DefaultPaywall[testToken].Cmp(big.NewInt(100)) != 0 {
		t.Errorf("Should have kept the snapshot paywall at 100")
	}
	if snapshot.Feeds[state.Uint256Key(big.NewInt(1))].RecipientFee().Sign() != 0 {
		t.Errorf("Should have kept the snapshot feed fee at zero")
	}
	if !snapshot.AllowedTokens.Contains(testToken) {
		t.Errorf("Should have kept the token in the snapshot allow-list")
	}
	if snapshot.Balance(testSender, testToken).Cmp(big.NewInt(5)) != 0 {
		t.Errorf("Should have kept the snapshot balance at 5")
	}
	if !snapshot.RecipientStake(big.NewInt(9), testRecipient).Payable() {
		t.Errorf("Should have kept the snapshot stake payable")
	}
}

func TestTakeEventsClearsBuffer(t *testing.T) {
	st := state.NewDiamondState(testOwner)
	st.Emit(&model.MailingFeedCreated{FeedID: big.NewInt(1), Creator: testOwner})
	st.Emit(&model.MailingFeedCreated{FeedID: big.NewInt(2), Creator: testOwner})

	events := st.TakeEvents()
	if len(events) != 2 {
		t.Errorf("Should have returned 2 buffered events, got %v", len(events))
	}
	if len(st.TakeEvents()) != 0 {
		t.Errorf("Should have cleared the buffer after take")
	}
}
