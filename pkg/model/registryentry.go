package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RegistryEntryParams are the params to initialize a new RegistryEntry
type RegistryEntryParams struct {
	PublicKey      *big.Int
	KeyVersion     uint16
	Registrar      common.Address
	AttachedDateTs int64
}

// NewRegistryEntry is a convenience method to init a RegistryEntry struct
func NewRegistryEntry(params *RegistryEntryParams) *RegistryEntry {
	return &RegistryEntry{
		publicKey:      new(big.Int).Set(params.PublicKey),
		keyVersion:     params.KeyVersion,
		registrar:      params.Registrar,
		attachedDateTs: params.AttachedDateTs,
	}
}

// RegistryEntry is one account's published encryption key. Re-attaching
// overwrites the previous entry.
type RegistryEntry struct {
	publicKey *big.Int

	keyVersion uint16

	// registrar is the party that attested this key and is entitled to a
	// commission on the account's claimed paywalls
	registrar common.Address

	attachedDateTs int64
}

// PublicKey returns the published key material
func (r *RegistryEntry) PublicKey() *big.Int {
	return r.publicKey
}

// KeyVersion returns the key schema version
func (r *RegistryEntry) KeyVersion() uint16 {
	return r.keyVersion
}

// Registrar returns the attesting registrar
func (r *RegistryEntry) Registrar() common.Address {
	return r.registrar
}

// AttachedDateTs is the timestamp of the latest attach
func (r *RegistryEntry) AttachedDateTs() int64 {
	return r.attachedDateTs
}

// Copy returns a deep copy of the entry
func (r *RegistryEntry) Copy() *RegistryEntry {
	return &RegistryEntry{
		publicKey:      new(big.Int).Set(r.publicKey),
		keyVersion:     r.keyVersion,
		registrar:      r.registrar,
		attachedDateTs: r.attachedDateTs,
	}
}
