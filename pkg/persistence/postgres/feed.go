package postgres // import "github.com/ylide/ylide-protocol-go/pkg/persistence/postgres"

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/model"
)

// MailingFeedSchema returns the query to create the mailing_feed table
func MailingFeedSchema() string {
	return MailingFeedSchemaString("mailing_feed")
}

// MailingFeedSchemaString returns the query to create this table
func MailingFeedSchemaString(tableName string) string {
	schema := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s(
            id SERIAL PRIMARY KEY,
            feed_id NUMERIC(78,0) UNIQUE,
            owner_address TEXT,
            beneficiary_address TEXT,
            recipient_fee NUMERIC(78,0),
            creation_timestamp BIGINT
        );
    `, tableName)
	return schema
}

// MailingFeed is the model definition for the mailing_feed table
// NOTE: uint256 values are stored as NUMERIC(78,0) and carried as decimal
// strings on the Go side
type MailingFeed struct {
	FeedID string `db:"feed_id"`

	OwnerAddress string `db:"owner_address"`

	BeneficiaryAddress string `db:"beneficiary_address"`

	RecipientFee string `db:"recipient_fee"`

	CreatedDateTs int64 `db:"creation_timestamp"`
}

// NewMailingFeed constructs a mailing feed for DB from a model.MailingFeed
func NewMailingFeed(feed *model.MailingFeed) *MailingFeed {
	return &MailingFeed{
		FeedID:             BigIntToString(feed.FeedID()),
		OwnerAddress:       feed.Owner().Hex(),
		BeneficiaryAddress: feed.Beneficiary().Hex(),
		RecipientFee:       BigIntToString(feed.RecipientFee()),
		CreatedDateTs:      feed.CreatedDateTs(),
	}
}

// DbToMailingFeedData creates a model.MailingFeed from a postgres MailingFeed
func (f *MailingFeed) DbToMailingFeedData() *model.MailingFeed {
	return model.NewMailingFeed(&model.MailingFeedParams{
		FeedID:        StringToBigInt(f.FeedID),
		Owner:         common.HexToAddress(f.OwnerAddress),
		Beneficiary:   common.HexToAddress(f.BeneficiaryAddress),
		RecipientFee:  StringToBigInt(f.RecipientFee),
		CreatedDateTs: f.CreatedDateTs,
	})
}
