// Package nodemain contains the shared logic to assemble and run the mailer
// node: persister setup, diamond assembly, and state checkpointing.
package nodemain

import (
	"fmt"
	"math/big"

	log "github.com/golang/glog"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/ylide/ylide-protocol-go/pkg/diamond"
	"github.com/ylide/ylide-protocol-go/pkg/eip712"
	"github.com/ylide/ylide-protocol-go/pkg/facet"
	"github.com/ylide/ylide-protocol-go/pkg/helpers"
	"github.com/ylide/ylide-protocol-go/pkg/model"
	"github.com/ylide/ylide-protocol-go/pkg/state"
	"github.com/ylide/ylide-protocol-go/pkg/token"
	"github.com/ylide/ylide-protocol-go/pkg/utils"
)

// InitializedPersisters contains initialized persisters needed to run the node
type InitializedPersisters struct {
	Checkpoint model.CheckpointPersister
	Feed       model.FeedPersister
	MailEvent  model.MailEventPersister
	Escrow     model.EscrowPersister
}

// InitPersisters inits the persisters from the config
func InitPersisters(config *utils.NodeConfig) (*InitializedPersisters, error) {
	checkpointPersister, err := helpers.CheckpointPersister(config)
	if err != nil {
		log.Errorf("Error getting the checkpoint persister: %v", err)
		return nil, err
	}
	feedPersister, err := helpers.FeedPersister(config)
	if err != nil {
		log.Errorf("Error w feedPersister: err: %v", err)
		return nil, err
	}
	mailEventPersister, err := helpers.MailEventPersister(config)
	if err != nil {
		log.Errorf("Error w mailEventPersister: err: %v", err)
		return nil, err
	}
	escrowPersister, err := helpers.EscrowPersister(config)
	if err != nil {
		log.Errorf("Error w escrowPersister: err: %v", err)
		return nil, err
	}
	return &InitializedPersisters{
		Checkpoint: checkpointPersister,
		Feed:       feedPersister,
		MailEvent:  mailEventPersister,
		Escrow:     escrowPersister,
	}, nil
}

// PersistingSink is an EventSink that appends committed mail pushes to the
// persistent event log. Other event kinds are only logged; their effects are
// covered by the state checkpoint.
type PersistingSink struct {
	mailEvents model.MailEventPersister
}

// NewPersistingSink creates a PersistingSink over the given persister
func NewPersistingSink(mailEvents model.MailEventPersister) *PersistingSink {
	return &PersistingSink{mailEvents: mailEvents}
}

// PublishEvent receives one committed event
func (s *PersistingSink) PublishEvent(event model.Event) error {
	switch e := event.(type) {
	case *model.MailPush:
		return s.mailEvents.CreateMailPush(e)
	default:
		log.Infof("Committed %v event", event.EventName())
	}
	return nil
}

// AssembledNode is the fully wired protocol instance the daemon runs.
// Ledger is nil when token transfers go to a real chain.
type AssembledNode struct {
	Diamond *diamond.Diamond
	Ledger  *token.Ledger
}

// tokenBackend selects the token boundary for the node. Without an eth API
// endpoint the balances live in the returned in-process ledger, which the
// diamond snapshots for rollback. With an endpoint the backend calls the
// real ERC-20 contracts, signing with the configured key; on-chain balances
// cannot be snapshotted, so no ledger is returned.
func tokenBackend(config *utils.NodeConfig, protocol common.Address) (token.Backend, *token.Ledger, error) {
	if config.EthAPIURL == "" {
		ledger := token.NewLedger(protocol)
		return ledger, ledger, nil
	}
	key, err := crypto.HexToECDSA(config.EthPrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("Error parsing the eth private key: err: %v", err)
	}
	transactor, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(config.ChainID))
	if err != nil {
		return nil, nil, fmt.Errorf("Error building the transactor: err: %v", err)
	}
	client, err := ethclient.Dial(config.EthAPIURL)
	if err != nil {
		return nil, nil, fmt.Errorf("Error connecting to eth API: err: %v", err)
	}
	backend, err := token.NewERC20Backend(client, transactor)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Token transfers go through %v", config.EthAPIURL)
	return backend, nil, nil
}

// facetAddress derives a stable pseudo-address for a logic module from the
// protocol address and a module index
func facetAddress(protocol common.Address, index byte) common.Address {
	return common.BytesToAddress(crypto.Keccak256(protocol.Bytes(), []byte{index})[12:])
}

func addCut(f diamond.Facet) diamond.FacetCut {
	functions := f.Functions()
	selectors := make([]diamond.Selector, len(functions))
	for i, fn := range functions {
		selectors[i] = diamond.SelectorOf(fn.Signature)
	}
	return diamond.FacetCut{
		FacetAddress: f.Address(),
		Action:       diamond.Add,
		Selectors:    selectors,
	}
}

// AssembleNode builds the diamond with the registry, config, mailer, and
// stake facets routed, the token backend selected from the config, and
// committed events flowing into the given sink.
func AssembleNode(config *utils.NodeConfig, sink model.EventSink) (*AssembledNode, error) {
	owner := common.HexToAddress(config.OwnerAddress)
	protocol := common.HexToAddress(config.ContractAddress)

	st := state.NewDiamondState(owner)
	tokens, ledger, err := tokenBackend(config, protocol)
	if err != nil {
		return nil, err
	}
	opts := []diamond.Option{diamond.WithEventSink(sink)}
	if ledger != nil {
		opts = append(opts, diamond.WithTokenRollback(ledger))
	}
	d := diamond.NewDiamond(protocol, st, opts...)

	registryFacet := facet.NewRegistryFacet(facetAddress(protocol, 1))
	configFacet := facet.NewConfigFacet(facetAddress(protocol, 2))
	mailerFacet := facet.NewMailerFacet(&facet.MailerFacetParams{
		Address: facetAddress(protocol, 3),
		Tokens:  tokens,
		Escrow:  protocol,
		Domain: eip712.Domain{
			ChainID:           config.ChainID,
			VerifyingContract: protocol,
		},
	})
	stakeFacet := facet.NewStakeFacet(&facet.StakeFacetParams{
		Address: facetAddress(protocol, 4),
		Tokens:  tokens,
	})

	facets := []diamond.Facet{registryFacet, configFacet, mailerFacet, stakeFacet}
	cuts := make([]diamond.FacetCut, len(facets))
	for i, f := range facets {
		if err := d.RegisterFacet(f); err != nil {
			return nil, err
		}
		cuts[i] = addCut(f)
	}
	if err := d.Cut(&model.Env{Caller: owner, Timestamp: utils.CurrentEpochSecsInInt64()}, cuts, nil); err != nil {
		return nil, err
	}

	return &AssembledNode{Diamond: d, Ledger: ledger}, nil
}

// RestoreState loads persisted feeds back into the live state after a
// restart. The event log and escrow tables are write-only from the node's
// perspective and are not replayed.
func RestoreState(node *AssembledNode, persisters *InitializedPersisters) error {
	feeds, err := persisters.Feed.Feeds()
	if err != nil {
		return err
	}
	st := node.Diamond.State()
	for _, feed := range feeds {
		st.Feeds[state.Uint256Key(feed.FeedID())] = feed
	}
	log.Infof("Restored %v feeds from persistence", len(feeds))
	return nil
}

// CheckpointState writes the current feeds and escrow entries through the
// persisters and advances the checkpoint timestamp.
func CheckpointState(node *AssembledNode, persisters *InitializedPersisters) error {
	st := node.Diamond.State()

	for _, feed := range st.Feeds {
		_, err := persisters.Feed.FeedByID(feed.FeedID())
		if err == model.ErrPersisterNoResults {
			err = persisters.Feed.CreateFeed(feed)
		} else if err == nil {
			err = persisters.Feed.UpdateFeed(feed, []string{"Owner", "Beneficiary", "RecipientFee"})
		}
		if err != nil {
			return err
		}
	}

	for contentKey, senderInfo := range st.StakeSenders {
		contentID := contentKey.Big()
		recipients := st.StakeRecipients[contentKey]
		for recipientKey, info := range recipients {
			err := persisters.Escrow.SaveEscrow(contentID, recipientKey.Big(), senderInfo, info)
			if err != nil {
				return err
			}
		}
	}

	return persisters.Checkpoint.UpdateTimestampForCheckpoint(utils.CurrentEpochSecsInInt64())
}
