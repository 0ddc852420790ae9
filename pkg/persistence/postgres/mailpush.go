package postgres // import "github.com/ylide/ylide-protocol-go/pkg/persistence/postgres"

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/model"
)

// MailPushSchema returns the query to create the mail_push table
func MailPushSchema() string {
	return MailPushSchemaString("mail_push")
}

// MailPushSchemaString returns the query to create this table
func MailPushSchemaString(tableName string) string {
	schema := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s(
            id SERIAL PRIMARY KEY,
            feed_id NUMERIC(78,0),
            sender_address TEXT,
            recipient NUMERIC(78,0),
            encryption_key TEXT,
            supplement TEXT,
            content_id NUMERIC(78,0),
            content TEXT,
            block_number BIGINT,
            timestamp BIGINT
        );
    `, tableName)
	return schema
}

// MailPush is the model definition for the mail_push table. One row per
// recipient per committed send; indexers rebuild mailboxes from this log.
type MailPush struct {
	FeedID string `db:"feed_id"`

	SenderAddress string `db:"sender_address"`

	Recipient string `db:"recipient"`

	EncryptionKey string `db:"encryption_key"`

	Supplement string `db:"supplement"`

	ContentID string `db:"content_id"`

	Content string `db:"content"`

	BlockNumber int64 `db:"block_number"`

	Timestamp int64 `db:"timestamp"`
}

// NewMailPush constructs a mail push row for DB from a model.MailPush event
func NewMailPush(push *model.MailPush) *MailPush {
	return &MailPush{
		FeedID:        BigIntToString(push.FeedID),
		SenderAddress: push.Sender.Hex(),
		Recipient:     BigIntToString(push.Recipient),
		EncryptionKey: BytesToHexString(push.Key),
		Supplement:    BytesToHexString(push.Supplement),
		ContentID:     BigIntToString(push.ContentID),
		Content:       BytesToHexString(push.Content),
		BlockNumber:   int64(push.BlockNumber),
		Timestamp:     push.Timestamp,
	}
}

// DbToMailPushData creates a model.MailPush from a postgres MailPush
func (m *MailPush) DbToMailPushData() *model.MailPush {
	return &model.MailPush{
		FeedID:      StringToBigInt(m.FeedID),
		Sender:      common.HexToAddress(m.SenderAddress),
		Recipient:   StringToBigInt(m.Recipient),
		Key:         HexStringToBytes(m.EncryptionKey),
		Supplement:  HexStringToBytes(m.Supplement),
		ContentID:   StringToBigInt(m.ContentID),
		Content:     HexStringToBytes(m.Content),
		BlockNumber: uint64(m.BlockNumber),
		Timestamp:   m.Timestamp,
	}
}
