package postgres // import "github.com/ylide/ylide-protocol-go/pkg/persistence/postgres"

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/model"
)

// EscrowSchema returns the query to create the escrow table
func EscrowSchema() string {
	return EscrowSchemaString("escrow")
}

// EscrowSchemaString returns the query to create this table
func EscrowSchemaString(tableName string) string {
	schema := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s(
            id SERIAL PRIMARY KEY,
            content_id NUMERIC(78,0),
            recipient NUMERIC(78,0),
            token_address TEXT,
            sender_address TEXT,
            amount NUMERIC(78,0),
            stake_blocked_until BIGINT,
            status INT,
            canceled BOOL,
            UNIQUE(content_id, recipient)
        );
    `, tableName)
	return schema
}

// Escrow is the model definition for the escrow table. One row per
// (contentId, recipient) pair, merging the sender and recipient sides of the
// stake record.
type Escrow struct {
	ContentID string `db:"content_id"`

	Recipient string `db:"recipient"`

	TokenAddress string `db:"token_address"`

	SenderAddress string `db:"sender_address"`

	Amount string `db:"amount"`

	StakeBlockedUntil int64 `db:"stake_blocked_until"`

	Status int `db:"status"`

	Canceled bool `db:"canceled"`
}

// NewEscrow constructs an escrow row for DB from the stake record pair
func NewEscrow(contentID *big.Int, recipient *big.Int, sender *model.StakeInfoSender,
	info *model.StakeInfoRecipient) *Escrow {
	return &Escrow{
		ContentID:         BigIntToString(contentID),
		Recipient:         BigIntToString(recipient),
		TokenAddress:      sender.Token().Hex(),
		SenderAddress:     sender.Sender().Hex(),
		Amount:            BigIntToString(info.Amount()),
		StakeBlockedUntil: sender.StakeBlockedUntil(),
		Status:            int(info.Status()),
		Canceled:          sender.Canceled(),
	}
}

// DbToStakeInfoSenderData creates a model.StakeInfoSender from an escrow row
func (e *Escrow) DbToStakeInfoSenderData() *model.StakeInfoSender {
	sender := model.NewStakeInfoSender(&model.StakeInfoSenderParams{
		Token:             common.HexToAddress(e.TokenAddress),
		Sender:            common.HexToAddress(e.SenderAddress),
		StakeBlockedUntil: e.StakeBlockedUntil,
	})
	sender.SetCanceled(e.Canceled)
	return sender
}

// DbToStakeInfoRecipientData creates a model.StakeInfoRecipient from an
// escrow row
func (e *Escrow) DbToStakeInfoRecipientData() *model.StakeInfoRecipient {
	info := model.NewStakeInfoRecipient(StringToBigInt(e.Amount))
	switch model.StakeStatus(e.Status) {
	case model.StakeClaimedStatus:
		info.MarkClaimed()
	case model.StakeCanceledStatus:
		info.MarkCanceled()
	}
	return info
}
