package facet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
	"github.com/ylide/ylide-protocol-go/pkg/token"
)

var testClaimerAddr = common.HexToAddress("0x07B3b23B5A1c5E61ec1a035920f294B7325b8Df2")

// newEscrowState seeds one escrow of 1000: the paywall-configured sender
// staked for the claimer's address key, lock-up running from the test
// timestamp.
func newEscrowState() (*state.DiamondState, *big.Int) {
	st := newPaywallState()
	contentID := big.NewInt(9999)
	st.StakeSenders[state.Uint256Key(contentID)] = model.NewStakeInfoSender(&model.StakeInfoSenderParams{
		Token:             testTokenAddr,
		Sender:            testSenderAddr,
		StakeBlockedUntil: testTimestamp + testLockUp,
	})
	st.PutRecipientStake(contentID, state.AddressToUint256(testClaimerAddr),
		model.NewStakeInfoRecipient(big.NewInt(1000)))
	return st, contentID
}

func fundedLedger() *token.Ledger {
	ledger := token.NewLedger(testProtocolAddr)
	ledger.Mint(testTokenAddr, testProtocolAddr, big.NewInt(1000))
	return ledger
}

func TestClaimSplit(t *testing.T) {
	st, contentID := newEscrowState()
	ledger := fundedLedger()
	f := newTestStake(ledger)

	iface := &model.ClaimInterface{InterfaceAddress: testInterfaceAddr, InterfaceCommissionBps: 4000}
	_, err := f.claim(st, testEnv(testClaimerAddr), []interface{}{[]*big.Int{contentID}, iface})
	if err != nil {
		t.Fatalf("Should have claimed the escrow: err: %v", err)
	}

	// 1000 splits into 400 interface, 40 protocol, 60 registrar, 500 recipient.
	claimed, _ := ledger.BalanceOf(testTokenAddr, testClaimerAddr)
	if claimed.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("Should have paid the recipient 500, got %v", claimed)
	}
	if st.Balance(testInterfaceAddr, testTokenAddr).Cmp(big.NewInt(400)) != 0 {
		t.Errorf("Should have credited the interface 400")
	}
	if st.Balance(st.YlideBeneficiary, testTokenAddr).Cmp(big.NewInt(40)) != 0 {
		t.Errorf("Should have credited the protocol beneficiary 40")
	}
	if st.Balance(testRegistrarAddr, testTokenAddr).Cmp(big.NewInt(60)) != 0 {
		t.Errorf("Should have credited the registrar 60")
	}

	events := st.TakeEvents()
	if len(events) != 1 {
		t.Fatalf("Should have emitted 1 event, got %v", len(events))
	}
	e, ok := events[0].(*model.StakeClaimed)
	if !ok {
		t.Fatalf("Should have emitted StakeClaimed, got %v", events[0].EventName())
	}
	total := new(big.Int).Add(e.InterfaceCut, e.YlideCut)
	total.Add(total, e.RegistrarCut)
	total.Add(total, e.RecipientAmount)
	if total.Cmp(e.Amount) != 0 {
		t.Errorf("Should have conserved the full amount across the cuts")
	}

	if st.RecipientStake(contentID, state.AddressToUint256(testClaimerAddr)).Payable() {
		t.Errorf("Should have marked the entry claimed")
	}
}

func TestClaimTwice(t *testing.T) {
	st, contentID := newEscrowState()
	f := newTestStake(fundedLedger())
	iface := &model.ClaimInterface{InterfaceAddress: testInterfaceAddr, InterfaceCommissionBps: 4000}

	_, err := f.claim(st, testEnv(testClaimerAddr), []interface{}{[]*big.Int{contentID}, iface})
	if err != nil {
		t.Fatalf("Should have claimed the escrow: err: %v", err)
	}
	_, err = f.claim(st, testEnv(testClaimerAddr), []interface{}{[]*big.Int{contentID}, iface})
	if err != model.ErrNothingToWithdraw {
		t.Errorf("Should have rejected the second claim, got: %v", err)
	}
}

func TestClaimNoInterface(t *testing.T) {
	st, contentID := newEscrowState()
	f := newTestStake(fundedLedger())

	iface := &model.ClaimInterface{InterfaceCommissionBps: 4000}
	_, err := f.claim(st, testEnv(testClaimerAddr), []interface{}{[]*big.Int{contentID}, iface})
	if err != model.ErrNoInterface {
		t.Errorf("Should have required a claiming interface, got: %v", err)
	}
}

func TestClaimNoRegistrar(t *testing.T) {
	st, contentID := newEscrowState()
	delete(st.Keys, testSenderAddr)
	f := newTestStake(fundedLedger())

	iface := &model.ClaimInterface{InterfaceAddress: testInterfaceAddr, InterfaceCommissionBps: 4000}
	_, err := f.claim(st, testEnv(testClaimerAddr), []interface{}{[]*big.Int{contentID}, iface})
	if err != model.ErrNoRegistrar {
		t.Errorf("Should have required a registrar on the sender's key, got: %v", err)
	}
}

func TestClaimUnknownContent(t *testing.T) {
	st, _ := newEscrowState()
	f := newTestStake(fundedLedger())

	iface := &model.ClaimInterface{InterfaceAddress: testInterfaceAddr, InterfaceCommissionBps: 4000}
	_, err := f.claim(st, testEnv(testClaimerAddr), []interface{}{[]*big.Int{big.NewInt(404)}, iface})
	if err != model.ErrNothingToWithdraw {
		t.Errorf("Should have rejected an unknown content id, got: %v", err)
	}
}

func TestCancelLockUp(t *testing.T) {
	st, contentID := newEscrowState()
	ledger := fundedLedger()
	f := newTestStake(ledger)
	requests := []model.CancelRequest{
		{ContentID: contentID, Recipient: state.AddressToUint256(testClaimerAddr)},
	}

	// Still within the lock-up.
	_, err := f.cancel(st, testEnv(testSenderAddr), []interface{}{requests})
	if err != model.ErrStakeLockUp {
		t.Errorf("Should have rejected a cancel during lock-up, got: %v", err)
	}

	// Exactly at the lock-up boundary the cancel goes through.
	unlocked := &model.Env{Caller: testSenderAddr, Timestamp: testTimestamp + testLockUp, BlockNumber: testBlockNumber}
	_, err = f.cancel(st, unlocked, []interface{}{requests})
	if err != nil {
		t.Fatalf("Should have canceled at the boundary: err: %v", err)
	}

	refunded, _ := ledger.BalanceOf(testTokenAddr, testSenderAddr)
	if refunded.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("Should have refunded the full 1000, got %v", refunded)
	}
	if !st.StakeSenders[state.Uint256Key(contentID)].Canceled() {
		t.Errorf("Should have marked the sender record canceled")
	}
	events := st.TakeEvents()
	if len(events) != 1 || events[0].EventName() != "StakeCancelled" {
		t.Errorf("Should have emitted StakeCancelled")
	}

	// A canceled entry cannot be canceled or claimed again.
	_, err = f.cancel(st, unlocked, []interface{}{requests})
	if err != model.ErrNothingToWithdraw {
		t.Errorf("Should have rejected the second cancel, got: %v", err)
	}
	iface := &model.ClaimInterface{InterfaceAddress: testInterfaceAddr, InterfaceCommissionBps: 4000}
	_, err = f.claim(st, testEnv(testClaimerAddr), []interface{}{[]*big.Int{contentID}, iface})
	if err != model.ErrNothingToWithdraw {
		t.Errorf("Should have rejected a claim after cancel, got: %v", err)
	}
}

func TestCancelWrongCaller(t *testing.T) {
	st, contentID := newEscrowState()
	f := newTestStake(fundedLedger())

	requests := []model.CancelRequest{
		{ContentID: contentID, Recipient: state.AddressToUint256(testClaimerAddr)},
	}
	env := &model.Env{Caller: testClaimerAddr, Timestamp: testTimestamp + testLockUp, BlockNumber: testBlockNumber}
	_, err := f.cancel(st, env, []interface{}{requests})
	if err != model.ErrNotSender {
		t.Errorf("Should have rejected a cancel by a non-sender, got: %v", err)
	}
}

func TestCancelAfterClaim(t *testing.T) {
	st, contentID := newEscrowState()
	f := newTestStake(fundedLedger())

	iface := &model.ClaimInterface{InterfaceAddress: testInterfaceAddr, InterfaceCommissionBps: 4000}
	_, err := f.claim(st, testEnv(testClaimerAddr), []interface{}{[]*big.Int{contentID}, iface})
	if err != nil {
		t.Fatalf("Should have claimed the escrow: err: %v", err)
	}

	requests := []model.CancelRequest{
		{ContentID: contentID, Recipient: state.AddressToUint256(testClaimerAddr)},
	}
	env := &model.Env{Caller: testSenderAddr, Timestamp: testTimestamp + testLockUp, BlockNumber: testBlockNumber}
	_, err = f.cancel(st, env, []interface{}{requests})
	if err != model.ErrNothingToWithdraw {
		t.Errorf("Should have rejected a cancel after claim, got: %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	st := newTestState()
	st.CreditBalance(testRegistrarAddr, testTokenAddr, big.NewInt(60))
	ledger := token.NewLedger(testProtocolAddr)
	ledger.Mint(testTokenAddr, testProtocolAddr, big.NewInt(60))
	f := newTestStake(ledger)

	ret, err := f.withdraw(st, testEnv(testRegistrarAddr), []interface{}{testTokenAddr})
	if err != nil {
		t.Fatalf("Should have withdrawn the balance: err: %v", err)
	}
	if ret[0].(*big.Int).Cmp(big.NewInt(60)) != 0 {
		t.Errorf("Should have returned the withdrawn amount")
	}
	paid, _ := ledger.BalanceOf(testTokenAddr, testRegistrarAddr)
	if paid.Cmp(big.NewInt(60)) != 0 {
		t.Errorf("Should have paid out 60, got %v", paid)
	}
	if st.Balance(testRegistrarAddr, testTokenAddr).Sign() != 0 {
		t.Errorf("Should have drained the withdrawable balance")
	}
	events := st.TakeEvents()
	if len(events) != 1 || events[0].EventName() != "WithdrawnRewards" {
		t.Errorf("Should have emitted WithdrawnRewards")
	}

	_, err = f.withdraw(st, testEnv(testRegistrarAddr), []interface{}{testTokenAddr})
	if err != model.ErrNothingToWithdraw {
		t.Errorf("Should have rejected an empty withdrawal, got: %v", err)
	}
}
