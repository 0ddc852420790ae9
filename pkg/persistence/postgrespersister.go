// Package persistence contains components to interact with the DB
package persistence // import "github.com/ylide/ylide-protocol-go/pkg/persistence"

import (
	"database/sql"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"

	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/persistence/postgres"
	// driver for postgresql
	_ "github.com/lib/pq"
)

// NewPostgresPersister creates a new postgres persister
func NewPostgresPersister(host string, port int, user string, password string, dbname string) (*PostgresPersister, error) {
	pgPersister := &PostgresPersister{}
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbname)
	db, err := sqlx.Connect("postgres", psqlInfo)
	if err != nil {
		return pgPersister, fmt.Errorf("Error connecting to sqlx: %v", err)
	}
	pgPersister.db = db
	return pgPersister, nil
}

// PostgresPersister holds the DB connection and persistence
type PostgresPersister struct {
	db *sqlx.DB
}

// CreateTables creates the protocol tables if they don't exist
func (p *PostgresPersister) CreateTables() error {
	mailingFeedSchema := postgres.MailingFeedSchema()
	mailPushSchema := postgres.MailPushSchema()
	escrowSchema := postgres.EscrowSchema()
	cronSchema := postgres.CreateCronTableQuery()

	_, err := p.db.Exec(mailingFeedSchema)
	if err != nil {
		return fmt.Errorf("Error creating mailing_feed table in postgres: %v", err)
	}
	_, err = p.db.Exec(mailPushSchema)
	if err != nil {
		return fmt.Errorf("Error creating mail_push table in postgres: %v", err)
	}
	_, err = p.db.Exec(escrowSchema)
	if err != nil {
		return fmt.Errorf("Error creating escrow table in postgres: %v", err)
	}
	_, err = p.db.Exec(cronSchema)
	if err != nil {
		return fmt.Errorf("Error creating cron table in postgres: %v", err)
	}
	return err
}

// FeedByID retrieves a feed by its id
func (p *PostgresPersister) FeedByID(feedID *big.Int) (*model.MailingFeed, error) {
	queryString := p.feedByIDQuery("mailing_feed")
	dbFeed := postgres.MailingFeed{}
	err := p.db.Get(&dbFeed, queryString, postgres.BigIntToString(feedID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPersisterNoResults
		}
		return nil, fmt.Errorf("Wasn't able to get feed from postgres table: %v", err)
	}
	return dbFeed.DbToMailingFeedData(), nil
}

// Feeds returns all known feeds
func (p *PostgresPersister) Feeds() ([]*model.MailingFeed, error) {
	queryString := fmt.Sprintf( // nolint: gosec
		"SELECT feed_id, owner_address, beneficiary_address, recipient_fee, creation_timestamp FROM %s;",
		"mailing_feed")
	dbFeeds := []postgres.MailingFeed{}
	err := p.db.Select(&dbFeeds, queryString)
	if err != nil {
		return nil, fmt.Errorf("Wasn't able to get feeds from postgres table: %v", err)
	}
	feeds := make([]*model.MailingFeed, len(dbFeeds))
	for i, dbFeed := range dbFeeds {
		feeds[i] = dbFeed.DbToMailingFeedData()
	}
	return feeds, nil
}

// CreateFeed creates a new feed
func (p *PostgresPersister) CreateFeed(feed *model.MailingFeed) error {
	queryString := p.createFeedQueryString("mailing_feed")
	dbFeed := postgres.NewMailingFeed(feed)
	_, err := p.db.NamedExec(queryString, dbFeed)
	if err != nil {
		return fmt.Errorf("Error saving feed to table: %v", err)
	}
	return nil
}

// UpdateFeed updates fields on an existing feed
func (p *PostgresPersister) UpdateFeed(feed *model.MailingFeed, updatedFields []string) error {
	queryString, err := p.updateFeedQuery("mailing_feed", updatedFields)
	if err != nil {
		return err
	}
	dbFeed := postgres.NewMailingFeed(feed)
	_, err = p.db.NamedExec(queryString, dbFeed)
	if err != nil {
		return fmt.Errorf("Error updating feed in table: %v", err)
	}
	return nil
}

// CreateMailPush appends one push event to the log
func (p *PostgresPersister) CreateMailPush(push *model.MailPush) error {
	queryString := p.createMailPushQueryString("mail_push")
	dbPush := postgres.NewMailPush(push)
	_, err := p.db.NamedExec(queryString, dbPush)
	if err != nil {
		return fmt.Errorf("Error saving mail push to table: %v", err)
	}
	return nil
}

// MailPushesByFeed returns the push log of one feed
func (p *PostgresPersister) MailPushesByFeed(feedID *big.Int) ([]*model.MailPush, error) {
	queryString := p.mailPushesByFeedQuery("mail_push")
	dbPushes := []postgres.MailPush{}
	err := p.db.Select(&dbPushes, queryString, postgres.BigIntToString(feedID))
	if err != nil {
		return nil, fmt.Errorf("Wasn't able to get mail pushes from postgres table: %v", err)
	}
	pushes := make([]*model.MailPush, len(dbPushes))
	for i, dbPush := range dbPushes {
		pushes[i] = dbPush.DbToMailPushData()
	}
	return pushes, nil
}

// SaveEscrow upserts one (contentId, recipient) escrow entry
func (p *PostgresPersister) SaveEscrow(contentID *big.Int, recipient *big.Int,
	sender *model.StakeInfoSender, info *model.StakeInfoRecipient) error {
	queryString := p.saveEscrowQueryString("escrow")
	dbEscrow := postgres.NewEscrow(contentID, recipient, sender, info)
	_, err := p.db.NamedExec(queryString, dbEscrow)
	if err != nil {
		return fmt.Errorf("Error saving escrow to table: %v", err)
	}
	return nil
}

// EscrowsByContentID returns the recipient entries of one contentId
func (p *PostgresPersister) EscrowsByContentID(contentID *big.Int) (map[common.Hash]*model.StakeInfoRecipient, error) {
	queryString := p.escrowsByContentIDQuery("escrow")
	dbEscrows := []postgres.Escrow{}
	err := p.db.Select(&dbEscrows, queryString, postgres.BigIntToString(contentID))
	if err != nil {
		return nil, fmt.Errorf("Wasn't able to get escrows from postgres table: %v", err)
	}
	escrows := map[common.Hash]*model.StakeInfoRecipient{}
	for _, dbEscrow := range dbEscrows {
		recipient := postgres.StringToBigInt(dbEscrow.Recipient)
		escrows[common.BigToHash(recipient)] = dbEscrow.DbToStakeInfoRecipientData()
	}
	return escrows, nil
}

// TimestampOfLastCheckpoint returns the timestamp of the latest checkpoint
func (p *PostgresPersister) TimestampOfLastCheckpoint() (int64, error) {
	cronData := []postgres.CronData{}
	queryString := fmt.Sprintf("SELECT timestamp FROM %s;", "cron") // nolint: gosec
	err := p.db.Select(&cronData, queryString)
	if err != nil {
		return 0, fmt.Errorf("Wasn't able to get timestamp from cron table: %v", err)
	}
	if len(cronData) == 0 {
		return 0, nil
	}
	return cronData[0].Timestamp, nil
}

// UpdateTimestampForCheckpoint saves the latest checkpoint timestamp
func (p *PostgresPersister) UpdateTimestampForCheckpoint(timestamp int64) error {
	existing, err := p.TimestampOfLastCheckpoint()
	if err != nil {
		return err
	}
	dbCron := postgres.NewCron(timestamp)
	var queryString string
	if existing == 0 {
		queryString = fmt.Sprintf("INSERT INTO %s (timestamp) VALUES (:timestamp);", "cron") // nolint: gosec
	} else {
		queryString = fmt.Sprintf("UPDATE %s SET timestamp = :timestamp;", "cron") // nolint: gosec
	}
	_, err = p.db.NamedExec(queryString, dbCron)
	if err != nil {
		return fmt.Errorf("Error updating timestamp in cron table: %v", err)
	}
	return nil
}

func (p *PostgresPersister) feedByIDQuery(tableName string) string {
	queryString := fmt.Sprintf( // nolint: gosec
		"SELECT feed_id, owner_address, beneficiary_address, recipient_fee, creation_timestamp "+
			"FROM %s WHERE feed_id=$1;", tableName)
	return queryString
}

func (p *PostgresPersister) createFeedQueryString(tableName string) string {
	queryString := fmt.Sprintf( // nolint: gosec
		"INSERT INTO %s (feed_id, owner_address, beneficiary_address, recipient_fee, creation_timestamp) "+
			"VALUES (:feed_id, :owner_address, :beneficiary_address, :recipient_fee, :creation_timestamp);", tableName)
	return queryString
}

var feedFieldToColumn = map[string]string{
	"Owner":        "owner_address",
	"Beneficiary":  "beneficiary_address",
	"RecipientFee": "recipient_fee",
}

func (p *PostgresPersister) updateFeedQuery(tableName string, updatedFields []string) (string, error) {
	setClauses := make([]string, len(updatedFields))
	for i, field := range updatedFields {
		column, ok := feedFieldToColumn[field]
		if !ok {
			return "", fmt.Errorf("Error building feed update query, unknown field: %v", field)
		}
		setClauses[i] = fmt.Sprintf("%s=:%s", column, column)
	}
	queryString := fmt.Sprintf("UPDATE %s SET %s WHERE feed_id=:feed_id;", // nolint: gosec
		tableName, strings.Join(setClauses, ", "))
	return queryString, nil
}

func (p *PostgresPersister) createMailPushQueryString(tableName string) string {
	queryString := fmt.Sprintf( // nolint: gosec
		"INSERT INTO %s (feed_id, sender_address, recipient, encryption_key, supplement, content_id, content, "+
			"block_number, timestamp) VALUES (:feed_id, :sender_address, :recipient, :encryption_key, :supplement, "+
			":content_id, :content, :block_number, :timestamp);", tableName)
	return queryString
}

func (p *PostgresPersister) mailPushesByFeedQuery(tableName string) string {
	queryString := fmt.Sprintf( // nolint: gosec
		"SELECT feed_id, sender_address, recipient, encryption_key, supplement, content_id, content, "+
			"block_number, timestamp FROM %s WHERE feed_id=$1 ORDER BY id;", tableName)
	return queryString
}

func (p *PostgresPersister) saveEscrowQueryString(tableName string) string {
	queryString := fmt.Sprintf( // nolint: gosec
		"INSERT INTO %s (content_id, recipient, token_address, sender_address, amount, stake_blocked_until, "+
			"status, canceled) VALUES (:content_id, :recipient, :token_address, :sender_address, :amount, "+
			":stake_blocked_until, :status, :canceled) ON CONFLICT (content_id, recipient) DO UPDATE SET "+
			"amount=EXCLUDED.amount, status=EXCLUDED.status, canceled=EXCLUDED.canceled;", tableName)
	return queryString
}

func (p *PostgresPersister) escrowsByContentIDQuery(tableName string) string {
	queryString := fmt.Sprintf( // nolint: gosec
		"SELECT content_id, recipient, token_address, sender_address, amount, stake_blocked_until, status, canceled "+
			"FROM %s WHERE content_id=$1;", tableName)
	return queryString
}
