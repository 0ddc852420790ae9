package eip712_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ylide/ylide-protocol-go/pkg/eip712"
)

var testDomain = eip712.Domain{
	ChainID:           31337,
	VerifyingContract: common.HexToAddress("0x2652515f4f0A19240A5eFA71d19e6Fa2cC8f03c7"),
}

func sampleSendBulkMail() *eip712.SendBulkMailMessage {
	return &eip712.SendBulkMailMessage{
		FeedID:          big.NewInt(1),
		UniqueID:        big.NewInt(123),
		Nonce:           big.NewInt(0),
		Deadline:        2000000000,
		Recipients:      []*big.Int{big.NewInt(777), big.NewInt(888)},
		Keys:            []byte{0x01, 0x02, 0x03},
		Content:         []byte("content"),
		ContractAddress: common.Address{},
		ContractType:    0,
	}
}

func TestSendBulkMailSignAndRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("Should have generated a key: err: %v", err)
	}
	signer := crypto.PubkeyToAddress(key.PublicKey)

	digest, err := eip712.SendBulkMailDigest(testDomain, sampleSendBulkMail())
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}
	signature, err := crypto.Sign(digest, key)
	if err != nil {
		t.Fatalf("Should have signed the digest: err: %v", err)
	}

	recovered, err := eip712.RecoverSigner(digest, signature)
	if err != nil {
		t.Errorf("Should have recovered the signer: err: %v", err)
	}
	if recovered != signer {
		t.Errorf("Should have recovered %v, got %v", signer.Hex(), recovered.Hex())
	}
}

func TestRecoverSignerLegacyRecoveryID(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("Should have generated a key: err: %v", err)
	}
	signer := crypto.PubkeyToAddress(key.PublicKey)

	digest, err := eip712.SendBulkMailDigest(testDomain, sampleSendBulkMail())
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}
	signature, err := crypto.Sign(digest, key)
	if err != nil {
		t.Fatalf("Should have signed the digest: err: %v", err)
	}
	// Wallets commonly emit the 27/28 form of the recovery id.
	signature[crypto.RecoveryIDOffset] += 27

	recovered, err := eip712.RecoverSigner(digest, signature)
	if err != nil {
		t.Errorf("Should have recovered the signer: err: %v", err)
	}
	if recovered != signer {
		t.Errorf("Should have recovered %v, got %v", signer.Hex(), recovered.Hex())
	}
}

func TestSendBulkMailDigestBoundToContext(t *testing.T) {
	base := sampleSendBulkMail()
	baseDigest, err := eip712.SendBulkMailDigest(testDomain, base)
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}

	other := sampleSendBulkMail()
	other.ContractAddress = common.HexToAddress("0x39eB50A04dAf4a3A92065BC4Cb1F346c6a87b5C1")
	otherDigest, err := eip712.SendBulkMailDigest(testDomain, other)
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}
	if bytes.Equal(baseDigest, otherDigest) {
		t.Errorf("Should have produced a different digest for a different contract context")
	}

	typed := sampleSendBulkMail()
	typed.ContractType = 1
	typedDigest, err := eip712.SendBulkMailDigest(testDomain, typed)
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}
	if bytes.Equal(baseDigest, typedDigest) {
		t.Errorf("Should have produced a different digest for a different contract type")
	}
}

func TestSendBulkMailDigestBoundToDomain(t *testing.T) {
	baseDigest, err := eip712.SendBulkMailDigest(testDomain, sampleSendBulkMail())
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}

	otherChain := eip712.Domain{ChainID: 1, VerifyingContract: testDomain.VerifyingContract}
	otherDigest, err := eip712.SendBulkMailDigest(otherChain, sampleSendBulkMail())
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}
	if bytes.Equal(baseDigest, otherDigest) {
		t.Errorf("Should have produced a different digest on a different chain")
	}
}

func TestAddMailRecipientsDigestBoundToWindow(t *testing.T) {
	base := &eip712.AddMailRecipientsMessage{
		FeedID:           big.NewInt(1),
		UniqueID:         big.NewInt(123),
		FirstBlockNumber: 100,
		Nonce:            big.NewInt(0),
		Deadline:         2000000000,
		PartsCount:       4,
		BlockCountLock:   20,
		Recipients:       []*big.Int{big.NewInt(777)},
		Keys:             []byte{0x01},
	}
	baseDigest, err := eip712.AddMailRecipientsDigest(testDomain, base)
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}

	other := *base
	other.FirstBlockNumber = 101
	otherDigest, err := eip712.AddMailRecipientsDigest(testDomain, &other)
	if err != nil {
		t.Fatalf("Should have computed the digest: err: %v", err)
	}
	if bytes.Equal(baseDigest, otherDigest) {
		t.Errorf("Should have produced a different digest for a different block window")
	}
}
