// Package helpers contains various common helper functions.
// Normally they are shared functions used by the cmds.
package helpers

import (
	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/persistence"
	"github.com/ylide/ylide-protocol-go/pkg/utils"
)

// Persister is a helper function to return an interface{} that is a initialized
// persister type
func Persister(config *utils.NodeConfig) (interface{}, error) {
	if config.PersisterType == utils.PersisterTypePostgresql {
		return postgresPersister(config)
	}
	// Default to the NullPersister
	return &persistence.NullPersister{}, nil
}

// FeedPersister is a helper function to return the correct feed persister based on
// the given configuration
func FeedPersister(config *utils.NodeConfig) (model.FeedPersister, error) {
	p, err := Persister(config)
	if err != nil {
		return nil, err
	}
	return p.(model.FeedPersister), nil
}

// MailEventPersister is a helper function to return the correct mail event persister based on
// the given configuration
func MailEventPersister(config *utils.NodeConfig) (model.MailEventPersister, error) {
	p, err := Persister(config)
	if err != nil {
		return nil, err
	}
	return p.(model.MailEventPersister), nil
}

// EscrowPersister is a helper function to return the correct escrow persister based on
// the given configuration
func EscrowPersister(config *utils.NodeConfig) (model.EscrowPersister, error) {
	p, err := Persister(config)
	if err != nil {
		return nil, err
	}
	return p.(model.EscrowPersister), nil
}

// CheckpointPersister is a helper function to return the correct checkpoint persister based on
// the given configuration
func CheckpointPersister(config *utils.NodeConfig) (model.CheckpointPersister, error) {
	p, err := Persister(config)
	if err != nil {
		return nil, err
	}
	return p.(model.CheckpointPersister), nil
}

func postgresPersister(config *utils.NodeConfig) (*persistence.PostgresPersister, error) {
	persister, err := persistence.NewPostgresPersister(
		config.PersisterPostgresAddress,
		config.PersisterPostgresPort,
		config.PersisterPostgresUser,
		config.PersisterPostgresPw,
		config.PersisterPostgresDbname,
	)
	if err != nil {
		return nil, err
	}
	// Attempts to create all the necessary tables here
	err = persister.CreateTables()
	if err != nil {
		return nil, err
	}
	return persister, nil
}
