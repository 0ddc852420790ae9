package postgres_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/persistence/postgres"
)

func setupSampleFeed() *model.MailingFeed {
	feedID := new(big.Int)
	feedID.SetString("89477152217924674838424037953991966239322087453347756267410168184682657981552", 10)
	return model.NewMailingFeed(&model.MailingFeedParams{
		FeedID:        feedID,
		Owner:         common.HexToAddress("0x98C8CF45BD844627E84E1C506Ca87cC9436317D0"),
		Beneficiary:   common.HexToAddress("0x39eB50A04dAf4a3A92065BC4Cb1F346c6a87b5C1"),
		RecipientFee:  big.NewInt(5),
		CreatedDateTs: 1257894000,
	})
}

func TestNewDBMailingFeed(t *testing.T) {
	modelFeed := setupSampleFeed()
	dbFeed := postgres.NewMailingFeed(modelFeed)
	feedCheck := dbFeed.DbToMailingFeedData()

	if feedCheck.FeedID().Cmp(modelFeed.FeedID()) != 0 {
		t.Errorf("Should have roundtripped the feed id, got %v", feedCheck.FeedID())
	}
	if feedCheck.Owner() != modelFeed.Owner() {
		t.Errorf("Should have roundtripped the owner")
	}
	if feedCheck.Beneficiary() != modelFeed.Beneficiary() {
		t.Errorf("Should have roundtripped the beneficiary")
	}
	if feedCheck.RecipientFee().Cmp(modelFeed.RecipientFee()) != 0 {
		t.Errorf("Should have roundtripped the fee")
	}
	if feedCheck.CreatedDateTs() != modelFeed.CreatedDateTs() {
		t.Errorf("Should have roundtripped the creation timestamp")
	}
}

func TestNewDBMailPush(t *testing.T) {
	push := &model.MailPush{
		FeedID:      big.NewInt(1),
		Sender:      common.HexToAddress("0x98C8CF45BD844627E84E1C506Ca87cC9436317D0"),
		Recipient:   big.NewInt(777),
		Key:         []byte{0x01, 0x02},
		Supplement:  []byte{0x03},
		ContentID:   big.NewInt(9999),
		Content:     []byte("content"),
		BlockNumber: 500,
		Timestamp:   1257894000,
	}
	dbPush := postgres.NewMailPush(push)
	pushCheck := dbPush.DbToMailPushData()

	if pushCheck.Recipient.Cmp(push.Recipient) != 0 {
		t.Errorf("Should have roundtripped the recipient")
	}
	if string(pushCheck.Key) != string(push.Key) {
		t.Errorf("Should have roundtripped the encryption key")
	}
	if string(pushCheck.Content) != string(push.Content) {
		t.Errorf("Should have roundtripped the content")
	}
	if pushCheck.BlockNumber != push.BlockNumber {
		t.Errorf("Should have roundtripped the block number")
	}
}

func TestNewDBEscrow(t *testing.T) {
	sender := model.NewStakeInfoSender(&model.StakeInfoSenderParams{
		Token:             common.HexToAddress("0x5a3C9A1725AA82690eE0959c89ABE96fD1b527ee"),
		Sender:            common.HexToAddress("0x98C8CF45BD844627E84E1C506Ca87cC9436317D0"),
		StakeBlockedUntil: 1257897600,
	})
	info := model.NewStakeInfoRecipient(big.NewInt(110))
	info.MarkClaimed()

	dbEscrow := postgres.NewEscrow(big.NewInt(9999), big.NewInt(777), sender, info)

	senderCheck := dbEscrow.DbToStakeInfoSenderData()
	if senderCheck.Token() != sender.Token() || senderCheck.Sender() != sender.Sender() {
		t.Errorf("Should have roundtripped the sender record")
	}
	if senderCheck.StakeBlockedUntil() != sender.StakeBlockedUntil() {
		t.Errorf("Should have roundtripped the lock-up")
	}

	infoCheck := dbEscrow.DbToStakeInfoRecipientData()
	if infoCheck.Amount().Cmp(info.Amount()) != 0 {
		t.Errorf("Should have roundtripped the amount")
	}
	if infoCheck.Status() != model.StakeClaimedStatus {
		t.Errorf("Should have roundtripped the claimed status, got %v", infoCheck.Status())
	}
}
