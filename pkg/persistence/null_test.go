package persistence_test

import (
	"testing"

	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/persistence"
)

func testFeedPersister(p model.FeedPersister) {
}

func testMailEventPersister(p model.MailEventPersister) {
}

func testEscrowPersister(p model.EscrowPersister) {
}

func testCheckpointPersister(p model.CheckpointPersister) {
}

func TestNullInterface(t *testing.T) {
	p := &persistence.NullPersister{}

	testFeedPersister(p)
	testMailEventPersister(p)
	testEscrowPersister(p)
	testCheckpointPersister(p)
}
