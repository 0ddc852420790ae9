// Package persistence contains components to interact with the DB
package persistence // import "github.com/ylide/ylide-protocol-go/pkg/persistence"

// CronPersister stores checkpoint bookkeeping in memory, for runs where the
// checkpoint does not need to survive a restart
type CronPersister struct {
	lastTimestamp int64
}

// NewCronPersister creates a cron persister
func NewCronPersister() *CronPersister {
	return &CronPersister{}
}

// TimestampOfLastCheckpoint returns the timestamp of the latest checkpoint
func (cp *CronPersister) TimestampOfLastCheckpoint() (int64, error) {
	return cp.lastTimestamp, nil
}

// UpdateTimestampForCheckpoint saves the latest checkpoint timestamp
func (cp *CronPersister) UpdateTimestampForCheckpoint(timestamp int64) error {
	cp.lastTimestamp = timestamp
	return nil
}
