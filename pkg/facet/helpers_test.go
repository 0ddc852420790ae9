package facet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/eip712"
	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
	"github.com/ylide/ylide-protocol-go/pkg/token"
)

var (
	testOwnerAddr     = common.HexToAddress("0x98C8CF45BD844627E84E1C506Ca87cC9436317D0")
	testSenderAddr    = common.HexToAddress("0x39eB50A04dAf4a3A92065BC4Cb1F346c6a87b5C1")
	testRelayerAddr   = common.HexToAddress("0x85A275a0f3100937a5Eb48E6a7Ce7c33A5913d32")
	testRegistrarAddr = common.HexToAddress("0x631Bc68fFf9D56019f4cc473C29AC48E8F8E66d5")
	testInterfaceAddr = common.HexToAddress("0xc4Bb1cBd1577828d7c1B0d8D86df5b501Cc89622")
	testTokenAddr     = common.HexToAddress("0x5a3C9A1725AA82690eE0959c89ABE96fD1b527ee")
	testProtocolAddr  = common.HexToAddress("0x2652515f4f0A19240A5eFA71d19e6Fa2cC8f03c7")

	testRecipientID = big.NewInt(777)
	testFeedID      = big.NewInt(1)
)

const (
	testTimestamp   = int64(1600000000)
	testBlockNumber = uint64(500)
	testLockUp      = int64(3600)
)

func testEnv(caller common.Address) *model.Env {
	return &model.Env{
		Caller:      caller,
		Timestamp:   testTimestamp,
		BlockNumber: testBlockNumber,
	}
}

func newTestState() *state.DiamondState {
	return state.NewDiamondState(testOwnerAddr)
}

// newPaywallState wires the full commission setup: the test token is allowed
// with a default paywall of 100, the protocol takes 400 bps, and the sender's
// key names a registrar that takes 600 bps. The effective escrow for an
// unconfigured recipient is therefore 110.
func newPaywallState() *state.DiamondState {
	st := newTestState()
	st.AllowedTokens.Add(testTokenAddr)
	st.DefaultPaywall[testTokenAddr] = big.NewInt(100)
	st.YlideCommissionBps = 400
	st.RegistrarCommissionBps[testRegistrarAddr] = 600
	st.StakeLockUpPeriod = testLockUp
	st.Keys[testSenderAddr] = model.NewRegistryEntry(&model.RegistryEntryParams{
		PublicKey:      big.NewInt(42),
		KeyVersion:     2,
		Registrar:      testRegistrarAddr,
		AttachedDateTs: testTimestamp,
	})
	return st
}

func newTestMailer(ledger *token.Ledger) *MailerFacet {
	return NewMailerFacet(&MailerFacetParams{
		Address: common.HexToAddress("0x0000000000000000000000000000000000000103"),
		Tokens:  ledger,
		Escrow:  testProtocolAddr,
		Domain:  eip712.Domain{ChainID: 31337, VerifyingContract: testProtocolAddr},
	})
}

func newTestStake(ledger *token.Ledger) *StakeFacet {
	return NewStakeFacet(&StakeFacetParams{
		Address: common.HexToAddress("0x0000000000000000000000000000000000000104"),
		Tokens:  ledger,
	})
}

func sampleSendArgs() *model.SendBulkMailArgs {
	return &model.SendBulkMailArgs{
		FeedID:   testFeedID,
		UniqueID: big.NewInt(123),
		RecKeySups: []model.RecKeySup{
			{Recipient: new(big.Int).Set(testRecipientID), Key: []byte{0x01, 0x02}, Supplement: []byte{0x03}},
		},
		PaymentToken: testTokenAddr,
		Content:      []byte("content"),
	}
}
