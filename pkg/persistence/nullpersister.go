// Package persistence contains components to interact with the DB
package persistence // import "github.com/ylide/ylide-protocol-go/pkg/persistence"

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/model"
)

// NullPersister is a persister that does not save any values and always
// returns empty objects. Used when running without a backing store.
type NullPersister struct{}

// FeedByID returns an empty feed
func (np *NullPersister) FeedByID(feedID *big.Int) (*model.MailingFeed, error) {
	return nil, model.ErrPersisterNoResults
}

// Feeds returns an empty list of feeds
func (np *NullPersister) Feeds() ([]*model.MailingFeed, error) {
	return []*model.MailingFeed{}, nil
}

// CreateFeed does nothing
func (np *NullPersister) CreateFeed(feed *model.MailingFeed) error {
	return nil
}

// UpdateFeed does nothing
func (np *NullPersister) UpdateFeed(feed *model.MailingFeed, updatedFields []string) error {
	return nil
}

// CreateMailPush does nothing
func (np *NullPersister) CreateMailPush(push *model.MailPush) error {
	return nil
}

// MailPushesByFeed returns an empty log
func (np *NullPersister) MailPushesByFeed(feedID *big.Int) ([]*model.MailPush, error) {
	return []*model.MailPush{}, nil
}

// SaveEscrow does nothing
func (np *NullPersister) SaveEscrow(contentID *big.Int, recipient *big.Int,
	sender *model.StakeInfoSender, info *model.StakeInfoRecipient) error {
	return nil
}

// EscrowsByContentID returns an empty map
func (np *NullPersister) EscrowsByContentID(contentID *big.Int) (map[common.Hash]*model.StakeInfoRecipient, error) {
	return map[common.Hash]*model.StakeInfoRecipient{}, nil
}

// TimestampOfLastCheckpoint returns 0
func (np *NullPersister) TimestampOfLastCheckpoint() (int64, error) {
	return 0, nil
}

// UpdateTimestampForCheckpoint does nothing
func (np *NullPersister) UpdateTimestampForCheckpoint(timestamp int64) error {
	return nil
}
