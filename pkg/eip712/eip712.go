// Package eip712 implements the domain-separated struct hashing and signer
// recovery for the protocol's signature-authorized entry points. The two
// schemas are part of the wire contract and versioned with the mailer.
package eip712 // import "github.com/ylide/ylide-protocol-go/pkg/eip712"

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

const (
	// DomainName is the EIP-712 domain name of the mailer
	DomainName = "YlideMailerV9"

	// DomainVersion is the EIP-712 domain version of the mailer
	DomainVersion = "9"

	sendBulkMailPrimaryType      = "SendBulkMail"
	addMailRecipientsPrimaryType = "AddMailRecipients"
)

// Domain identifies the verifying protocol instance. Signatures are bound to
// the chain and the protocol address.
type Domain struct {
	ChainID           int64
	VerifyingContract common.Address
}

// SendBulkMailMessage is the signed payload schema of the direct bulk send
type SendBulkMailMessage struct {
	FeedID          *big.Int
	UniqueID        *big.Int
	Nonce           *big.Int
	Deadline        int64
	Recipients      []*big.Int
	Keys            []byte
	Content         []byte
	ContractAddress common.Address
	ContractType    uint8
}

// AddMailRecipientsMessage is the signed payload schema of the multi-part
// send
type AddMailRecipientsMessage struct {
	FeedID           *big.Int
	UniqueID         *big.Int
	FirstBlockNumber uint64
	Nonce            *big.Int
	Deadline         int64
	PartsCount       uint16
	BlockCountLock   uint16
	Recipients       []*big.Int
	Keys             []byte
	ContractAddress  common.Address
	ContractType     uint8
}

var domainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var sendBulkMailTypes = apitypes.Types{
	"EIP712Domain": domainType,
	sendBulkMailPrimaryType: []apitypes.Type{
		{Name: "feedId", Type: "uint256"},
		{Name: "uniqueId", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
		{Name: "recipients", Type: "uint256[]"},
		{Name: "keys", Type: "bytes"},
		{Name: "content", Type: "bytes"},
		{Name: "contractAddress", Type: "address"},
		{Name: "contractType", Type: "uint8"},
	},
}

var addMailRecipientsTypes = apitypes.Types{
	"EIP712Domain": domainType,
	addMailRecipientsPrimaryType: []apitypes.Type{
		{Name: "feedId", Type: "uint256"},
		{Name: "uniqueId", Type: "uint256"},
		{Name: "firstBlockNumber", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
		{Name: "partsCount", Type: "uint16"},
		{Name: "blockCountLock", Type: "uint16"},
		{Name: "recipients", Type: "uint256[]"},
		{Name: "keys", Type: "bytes"},
		{Name: "contractAddress", Type: "address"},
		{Name: "contractType", Type: "uint8"},
	},
}

func uint256Value(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = big.NewInt(0)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func uint256Array(values []*big.Int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = uint256Value(v)
	}
	return out
}

func typedDataDomain(d Domain) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              DomainName,
		Version:           DomainVersion,
		ChainId:           math.NewHexOrDecimal256(d.ChainID),
		VerifyingContract: d.VerifyingContract.Hex(),
	}
}

// SendBulkMailDigest computes the signable digest of a SendBulkMail payload
func SendBulkMailDigest(d Domain, m *SendBulkMailMessage) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       sendBulkMailTypes,
		PrimaryType: sendBulkMailPrimaryType,
		Domain:      typedDataDomain(d),
		Message: apitypes.TypedDataMessage{
			"feedId":          uint256Value(m.FeedID),
			"uniqueId":        uint256Value(m.UniqueID),
			"nonce":           uint256Value(m.Nonce),
			"deadline":        uint256Value(big.NewInt(m.Deadline)),
			"recipients":      uint256Array(m.Recipients),
			"keys":            m.Keys,
			"content":         m.Content,
			"contractAddress": m.ContractAddress.Hex(),
			"contractType":    math.NewHexOrDecimal256(int64(m.ContractType)),
		},
	}
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, errors.Wrap(err, "hashing SendBulkMail typed data")
	}
	return digest, nil
}

// AddMailRecipientsDigest computes the signable digest of an
// AddMailRecipients payload
func AddMailRecipientsDigest(d Domain, m *AddMailRecipientsMessage) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       addMailRecipientsTypes,
		PrimaryType: addMailRecipientsPrimaryType,
		Domain:      typedDataDomain(d),
		Message: apitypes.TypedDataMessage{
			"feedId":           uint256Value(m.FeedID),
			"uniqueId":         uint256Value(m.UniqueID),
			"firstBlockNumber": uint256Value(new(big.Int).SetUint64(m.FirstBlockNumber)),
			"nonce":            uint256Value(m.Nonce),
			"deadline":         uint256Value(big.NewInt(m.Deadline)),
			"partsCount":       math.NewHexOrDecimal256(int64(m.PartsCount)),
			"blockCountLock":   math.NewHexOrDecimal256(int64(m.BlockCountLock)),
			"recipients":       uint256Array(m.Recipients),
			"keys":             m.Keys,
			"contractAddress":  m.ContractAddress.Hex(),
			"contractType":     math.NewHexOrDecimal256(int64(m.ContractType)),
		},
	}
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, errors.Wrap(err, "hashing AddMailRecipients typed data")
	}
	return digest, nil
}

// RecoverSigner returns the address that produced the 65-byte signature over
// the given digest. Both the 0/1 and the legacy 27/28 recovery id forms are
// accepted.
func RecoverSigner(digest []byte, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, errors.Errorf("signature must be %d bytes long", crypto.SignatureLength)
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pubkey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "recovering signer")
	}
	return crypto.PubkeyToAddress(*pubkey), nil
}
