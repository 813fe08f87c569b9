// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/utils/formatting"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/bridgevm/ethbridge"
	"github.com/ava-labs/bridgevm/ledger"
	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/proto"
	"github.com/ava-labs/bridgevm/types"
)

var errNoData = errors.New("no transaction data")

// Service is the API service for the ledger
type Service struct {
	ledger *ledger.Ledger
	log    log.Logger
}

// NewService returns a service over [l].
func NewService(l *ledger.Ledger, logger log.Logger) *Service {
	return &Service{
		ledger: l,
		log:    logging.OrDiscard(logger),
	}
}

// NewHandler returns the JSON-RPC handler serving [s] under [ledger.Name].
func NewHandler(s *Service) (http.Handler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server, server.RegisterService(s, ledger.Name)
}

// SubmitTxArgs are the arguments to SubmitTx
type SubmitTxArgs struct {
	Kind ledger.TxKind `json:"kind"`
	// Signed transaction data, hex encoded with checksum
	Data string `json:"data"`
}

// SubmitTxReply is the reply from SubmitTx
type SubmitTxReply struct {
	Accepted bool `json:"accepted"`
}

// SubmitTx executes a transaction and reports whether it was committed
func (s *Service) SubmitTx(_ *http.Request, args *SubmitTxArgs, reply *SubmitTxReply) error {
	s.log.Debug("bridgevm: SubmitTx called", "kind", args.Kind)

	if args.Data == "" {
		return errNoData
	}
	txData, err := formatting.Decode(formatting.Hex, args.Data)
	if err != nil {
		return fmt.Errorf("problem decoding transaction data: %w", err)
	}

	reply.Accepted, err = s.ledger.Execute(args.Kind, txData)
	return err
}

// GetQueueReply is the reply from GetQueue
type GetQueueReply struct {
	Transfers []ethbridge.TransferFromEthereum `json:"transfers"`
}

// GetQueue returns the pending transfers from Ethereum
func (s *Service) GetQueue(_ *http.Request, _ *struct{}, reply *GetQueueReply) error {
	queue, err := s.ledger.Queue()
	switch {
	case errors.Is(err, ledger.ErrQueueNotInitialized):
		reply.Transfers = []ethbridge.TransferFromEthereum{}
		return nil
	case err != nil:
		return err
	}
	reply.Transfers = queue.Transfers
	if reply.Transfers == nil {
		reply.Transfers = []ethbridge.TransferFromEthereum{}
	}
	return nil
}

// GetBalanceArgs are the arguments to GetBalance
type GetBalanceArgs struct {
	Token types.Address `json:"token"`
	Owner types.Address `json:"owner"`
}

// GetBalanceReply is the reply from GetBalance
type GetBalanceReply struct {
	Balance cjson.Uint64 `json:"balance"`
}

// GetBalance returns the committed balance of an owner
func (s *Service) GetBalance(_ *http.Request, args *GetBalanceArgs, reply *GetBalanceReply) error {
	balance, err := s.ledger.Balance(args.Token, args.Owner)
	if err != nil {
		return err
	}
	reply.Balance = cjson.Uint64(balance)
	return nil
}

// EpochReply is the reply from Epoch
type EpochReply struct {
	Epoch cjson.Uint64 `json:"epoch"`
}

// Epoch returns the current epoch
func (s *Service) Epoch(_ *http.Request, _ *struct{}, reply *EpochReply) error {
	epoch, err := s.ledger.Epoch()
	if err != nil {
		return err
	}
	reply.Epoch = cjson.Uint64(epoch)
	return nil
}

// EncodeUpdateQueueArgs are the arguments to EncodeUpdateQueue
type EncodeUpdateQueueArgs struct {
	Enqueue []ethbridge.TransferFromEthereum `json:"enqueue"`
}

// EncodeUpdateQueueReply is the reply from EncodeUpdateQueue
type EncodeUpdateQueueReply struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// EncodeUpdateQueue returns the bytes a validator signs to enqueue transfers
func (s *Service) EncodeUpdateQueue(_ *http.Request, args *EncodeUpdateQueueArgs, reply *EncodeUpdateQueueReply) error {
	update := ethbridge.NewUpdateQueue(args.Enqueue...)
	if err := update.Verify(); err != nil {
		return err
	}
	b, err := update.Bytes()
	if err != nil {
		return fmt.Errorf("couldn't encode update: %w", err)
	}
	reply.Bytes, err = formatting.EncodeWithChecksum(formatting.Hex, b)
	if err != nil {
		return fmt.Errorf("couldn't encode data as string: %w", err)
	}
	reply.Encoding = formatting.Hex
	return nil
}

// DecodeSignedArgs are the arguments to DecodeSigned
type DecodeSignedArgs struct {
	Bytes string `json:"bytes"`
}

// DecodeSignedReply is the reply from DecodeSigned
type DecodeSignedReply struct {
	Data      string `json:"data"`
	Signature string `json:"signature"`
}

// DecodeSigned splits a signed envelope into its data and signature
func (s *Service) DecodeSigned(_ *http.Request, args *DecodeSignedArgs, reply *DecodeSignedReply) error {
	b, err := formatting.Decode(formatting.Hex, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode data as string: %w", err)
	}
	signed, err := proto.DecodeSigned(b)
	if err != nil {
		return err
	}
	if reply.Data, err = formatting.EncodeWithChecksum(formatting.Hex, signed.Data); err != nil {
		return err
	}
	reply.Signature, err = formatting.EncodeWithChecksum(formatting.Hex, signed.Sig)
	return err
}
