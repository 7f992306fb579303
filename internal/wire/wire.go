// Package wire defines the peer-to-peer envelope (spec §6): a closed,
// tagged union of message variants, deterministically binary-encoded.
// The encoding is RLP (github.com/ethereum/go-ethereum/rlp), the public
// counterpart of the teacher's own internal ser/rlp fork that
// node/cn/protocol.go builds its status/block/body messages on top of —
// same idiom (a message code plus a typed payload, decoded by a switch
// on the code), different, module-path-reachable package.
package wire

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
)

// Code identifies which of the closed set of message variants an
// Envelope carries. Decode does not check it; internal/netsrv's
// dispatcher drops any other value with a log (spec §6: "All other tags
// are rejected").
type Code uint64

const (
	PingCode Code = iota
	PongCode
	NewBlockHashesCode
	GetBlocksCode
	BlocksCode
	NewTransactionHashesCode
	GetTransactionsCode
	TransactionsCode
)

func (c Code) String() string {
	switch c {
	case PingCode:
		return "Ping"
	case PongCode:
		return "Pong"
	case NewBlockHashesCode:
		return "NewBlockHashes"
	case GetBlocksCode:
		return "GetBlocks"
	case BlocksCode:
		return "Blocks"
	case NewTransactionHashesCode:
		return "NewTransactionHashes"
	case GetTransactionsCode:
		return "GetTransactions"
	case TransactionsCode:
		return "Transactions"
	default:
		return "Unknown"
	}
}

// Envelope is the framed unit placed on the wire: a code and its
// RLP-encoded payload.
type Envelope struct {
	Code    Code
	Payload []byte
}

// Text carries Ping/Pong's single string field.
type Text struct {
	Value string
}

// Hashes carries NewBlockHashes, GetBlocks, NewTransactionHashes and
// GetTransactions, each of which is spec'd as "[H256]" — a bare
// length-prefixed hash sequence.
type Hashes struct {
	Hashes []common.Hash
}

// Blocks carries the Blocks message: an ordered sequence of full blocks.
type Blocks struct {
	Blocks []chaintypes.Block
}

// Transactions carries the Transactions message: an ordered sequence of
// signed transactions.
type Transactions struct {
	Transactions []chaintypes.SignedTransaction
}

// Encode frames payload under code into bytes ready for transport.
func Encode(code Code, payload interface{}) ([]byte, error) {
	p, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "wire: encode payload for %s", code)
	}
	b, err := rlp.EncodeToBytes(Envelope{Code: code, Payload: p})
	if err != nil {
		return nil, errors.Wrapf(err, "wire: encode envelope for %s", code)
	}
	return b, nil
}

// Decode parses the outer envelope out of b. Callers then decode
// env.Payload into the struct matching env.Code via DecodePayload.
func Decode(b []byte) (Envelope, error) {
	var env Envelope
	if err := rlp.DecodeBytes(b, &env); err != nil {
		return Envelope{}, errors.Wrap(err, "wire: decode envelope")
	}
	return env, nil
}

// DecodePayload decodes env.Payload into out, which must be a pointer to
// one of Text, Hashes, Blocks or Transactions matching env.Code.
func DecodePayload(env Envelope, out interface{}) error {
	return errors.Wrap(rlp.DecodeBytes(env.Payload, out), "wire: decode payload")
}

// ErrUnknownCode is the error for an envelope whose Code is outside the
// closed set above. Nothing in this package returns it, and
// internal/netsrv's dispatcher logs and drops such messages without it.
var ErrUnknownCode = errors.New("wire: unknown message code")
