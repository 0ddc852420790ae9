package token_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ylide/ylide-protocol-go/pkg/token"
)

var (
	protocolAddr = common.HexToAddress("0x2652515f4f0A19240A5eFA71d19e6Fa2cC8f03c7")
	accountA     = common.HexToAddress("0x98C8CF45BD844627E84E1C506Ca87cC9436317D0")
	accountB     = common.HexToAddress("0x39eB50A04dAf4a3A92065BC4Cb1F346c6a87b5C1")
	erc20Addr    = common.HexToAddress("0x5a3C9A1725AA82690eE0959c89ABE96fD1b527ee")
)

func TestLedgerTransferFrom(t *testing.T) {
	ledger := token.NewLedger(protocolAddr)
	ledger.Mint(erc20Addr, accountA, big.NewInt(1000))

	err := ledger.TransferFrom(erc20Addr, accountA, protocolAddr, big.NewInt(110))
	if err != nil {
		t.Errorf("Should have transferred into escrow: err: %v", err)
	}

	balance, _ := ledger.BalanceOf(erc20Addr, accountA)
	if balance.Cmp(big.NewInt(890)) != 0 {
		t.Errorf("Should have left 890 with the sender, got %v", balance)
	}
	escrowed, _ := ledger.BalanceOf(erc20Addr, protocolAddr)
	if escrowed.Cmp(big.NewInt(110)) != 0 {
		t.Errorf("Should have escrowed 110, got %v", escrowed)
	}
}

func TestLedgerInsufficientBalance(t *testing.T) {
	ledger := token.NewLedger(protocolAddr)
	ledger.Mint(erc20Addr, accountA, big.NewInt(50))

	err := ledger.TransferFrom(erc20Addr, accountA, protocolAddr, big.NewInt(110))
	if err != token.ErrInsufficientBalance {
		t.Errorf("Should have failed with insufficient balance, got: %v", err)
	}
}

func TestLedgerTransferFromProtocol(t *testing.T) {
	ledger := token.NewLedger(protocolAddr)
	ledger.Mint(erc20Addr, protocolAddr, big.NewInt(500))

	err := ledger.Transfer(erc20Addr, accountB, big.NewInt(200))
	if err != nil {
		t.Errorf("Should have paid out of protocol holdings: err: %v", err)
	}
	balance, _ := ledger.BalanceOf(erc20Addr, accountB)
	if balance.Cmp(big.NewInt(200)) != 0 {
		t.Errorf("Should have credited 200, got %v", balance)
	}
}

func TestLedgerZeroAmountNoop(t *testing.T) {
	ledger := token.NewLedger(protocolAddr)
	err := ledger.TransferFrom(erc20Addr, accountA, accountB, big.NewInt(0))
	if err != nil {
		t.Errorf("Should have treated a zero transfer as a no-op: err: %v", err)
	}
}

func TestLedgerSnapshotRestore(t *testing.T) {
	ledger := token.NewLedger(protocolAddr)
	ledger.Mint(erc20Addr, accountA, big.NewInt(1000))

	snapshot := ledger.Snapshot()

	err := ledger.TransferFrom(erc20Addr, accountA, protocolAddr, big.NewInt(400))
	if err != nil {
		t.Fatalf("Should have transferred: err: %v", err)
	}
	ledger.Restore(snapshot)

	balance, _ := ledger.BalanceOf(erc20Addr, accountA)
	if balance.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("Should have restored the sender balance to 1000, got %v", balance)
	}
	escrowed, _ := ledger.BalanceOf(erc20Addr, protocolAddr)
	if escrowed.Sign() != 0 {
		t.Errorf("Should have restored the escrow balance to zero, got %v", escrowed)
	}
}

func TestLedgerNativeToken(t *testing.T) {
	ledger := token.NewLedger(protocolAddr)
	ledger.Mint(token.NativeToken, accountA, big.NewInt(10))

	err := ledger.TransferFrom(token.NativeToken, accountA, protocolAddr, big.NewInt(10))
	if err != nil {
		t.Errorf("Should have moved native coin through the ledger: err: %v", err)
	}
}
