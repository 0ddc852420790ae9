package token

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// ERC20Backend is a Backend over real ERC-20 contracts reached through a
// bind.ContractBackend. Native-coin movement is outside the ERC-20 surface
// and rejected.
type ERC20Backend struct {
	backend    bind.ContractBackend
	transactor *bind.TransactOpts
	erc20ABI   abi.ABI
}

// NewERC20Backend inits an ERC20Backend. The transactor signs the transfer
// transactions the protocol issues.
func NewERC20Backend(backend bind.ContractBackend, transactor *bind.TransactOpts) (*ERC20Backend, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "parsing erc20 abi")
	}
	return &ERC20Backend{
		backend:    backend,
		transactor: transactor,
		erc20ABI:   parsed,
	}, nil
}

func (e *ERC20Backend) bound(token common.Address) *bind.BoundContract {
	return bind.NewBoundContract(token, e.erc20ABI, e.backend, e.backend, e.backend)
}

// BalanceOf returns the balance of an account for a token
func (e *ERC20Backend) BalanceOf(token common.Address, account common.Address) (*big.Int, error) {
	if token == NativeToken {
		return nil, errors.New("native coin has no erc20 balance")
	}
	var out []interface{}
	err := e.bound(token).Call(&bind.CallOpts{}, &out, "balanceOf", account)
	if err != nil {
		return nil, errors.Wrapf(err, "calling balanceOf on %v", token.Hex())
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Transfer moves amount from the protocol's holdings to an account
func (e *ERC20Backend) Transfer(token common.Address, to common.Address, amount *big.Int) error {
	if token == NativeToken {
		return errors.New("native coin transfer is not an erc20 call")
	}
	_, err := e.bound(token).Transact(e.transactor, "transfer", to, amount)
	if err != nil {
		return errors.Wrapf(err, "calling transfer on %v", token.Hex())
	}
	return nil
}

// TransferFrom moves amount between two accounts
func (e *ERC20Backend) TransferFrom(token common.Address, from common.Address, to common.Address, amount *big.Int) error {
	if token == NativeToken {
		return errors.New("native coin transfer is not an erc20 call")
	}
	_, err := e.bound(token).Transact(e.transactor, "transferFrom", from, to, amount)
	if err != nil {
		return errors.Wrapf(err, "calling transferFrom on %v", token.Hex())
	}
	return nil
}
