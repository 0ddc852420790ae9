// Package model contains the general data models and interfaces for the
// Ylide protocol core.
package model // import "github.com/ylide/ylide-protocol-go/pkg/model"

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FeedPersister is the interface to store mailing feeds
type FeedPersister interface {
	// FeedByID retrieves a feed by its id
	FeedByID(feedID *big.Int) (*MailingFeed, error)
	// Feeds returns all known feeds
	Feeds() ([]*MailingFeed, error)
	// CreateFeed creates a new feed
	CreateFeed(feed *MailingFeed) error
	// UpdateFeed updates fields on an existing feed
	UpdateFeed(feed *MailingFeed, updatedFields []string) error
}

// MailEventPersister is the interface to store the committed MailPush log
type MailEventPersister interface {
	// CreateMailPush appends one push event to the log
	CreateMailPush(push *MailPush) error
	// MailPushesByFeed returns the push log of one feed
	MailPushesByFeed(feedID *big.Int) ([]*MailPush, error)
}

// EscrowPersister is the interface to checkpoint escrow entries
type EscrowPersister interface {
	// SaveEscrow upserts one (contentId, recipient) escrow entry
	SaveEscrow(contentID *big.Int, recipient *big.Int, sender *StakeInfoSender,
		info *StakeInfoRecipient) error
	// EscrowsByContentID returns the recipient entries of one contentId
	EscrowsByContentID(contentID *big.Int) (map[common.Hash]*StakeInfoRecipient, error)
}

// CheckpointPersister is the interface to store checkpoint bookkeeping for
// the daemon loop
type CheckpointPersister interface {
	// TimestampOfLastCheckpoint returns the timestamp of the latest checkpoint
	TimestampOfLastCheckpoint() (int64, error)
	// UpdateTimestampForCheckpoint saves the latest checkpoint timestamp
	UpdateTimestampForCheckpoint(timestamp int64) error
}
