package postgres // import "github.com/ylide/ylide-protocol-go/pkg/persistence/postgres"

import (
	"encoding/hex"
	"math/big"
)

// BigIntToString converts a uint256 value to its decimal string for a
// NUMERIC(78,0) column. nil is stored as zero.
func BigIntToString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}

// StringToBigInt converts a NUMERIC column value back to a big int
func StringToBigInt(value string) *big.Int {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return big.NewInt(0)
	}
	return parsed
}

// BytesToHexString converts raw bytes to a hex string for a TEXT column
func BytesToHexString(value []byte) string {
	return hex.EncodeToString(value)
}

// HexStringToBytes converts a TEXT column value back to raw bytes
func HexStringToBytes(value string) []byte {
	decoded, err := hex.DecodeString(value)
	if err != nil {
		return nil
	}
	return decoded
}
