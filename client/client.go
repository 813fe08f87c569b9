// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/ava-labs/avalanchego/utils/formatting"

	"github.com/ava-labs/bridgevm/ethbridge"
	"github.com/ava-labs/bridgevm/ledger"
	"github.com/ava-labs/bridgevm/service"
	"github.com/ava-labs/bridgevm/types"
)

// Client defines bridgevm client operations.
type Client interface {
	// SubmitTx executes a signed transaction and reports whether it was
	// committed
	SubmitTx(ctx context.Context, kind ledger.TxKind, txData []byte) (bool, error)

	// GetQueue fetches the pending transfers from Ethereum
	GetQueue(ctx context.Context) ([]ethbridge.TransferFromEthereum, error)

	// GetBalance fetches the committed balance of [owner]
	GetBalance(ctx context.Context, token, owner types.Address) (types.Amount, error)

	// Epoch fetches the current epoch
	Epoch(ctx context.Context) (types.Epoch, error)

	// DecodeSigned splits a signed envelope into its data and signature
	DecodeSigned(ctx context.Context, b []byte) ([]byte, []byte, error)
}

// New creates a new client object.
func New(uri string) Client {
	return &client{
		uri: uri,
		cli: http.DefaultClient,
	}
}

type client struct {
	uri string
	cli *http.Client
}

func (c *client) SubmitTx(ctx context.Context, kind ledger.TxKind, txData []byte) (bool, error) {
	data, err := formatting.EncodeWithChecksum(formatting.Hex, txData)
	if err != nil {
		return false, err
	}

	resp := new(service.SubmitTxReply)
	err = c.sendRequest(ctx,
		"submitTx",
		&service.SubmitTxArgs{Kind: kind, Data: data},
		resp,
	)
	if err != nil {
		return false, err
	}
	return resp.Accepted, nil
}

func (c *client) GetQueue(ctx context.Context) ([]ethbridge.TransferFromEthereum, error) {
	resp := new(service.GetQueueReply)
	if err := c.sendRequest(ctx, "getQueue", &struct{}{}, resp); err != nil {
		return nil, err
	}
	return resp.Transfers, nil
}

func (c *client) GetBalance(ctx context.Context, token, owner types.Address) (types.Amount, error) {
	resp := new(service.GetBalanceReply)
	err := c.sendRequest(ctx,
		"getBalance",
		&service.GetBalanceArgs{Token: token, Owner: owner},
		resp,
	)
	return types.Amount(resp.Balance), err
}

func (c *client) Epoch(ctx context.Context) (types.Epoch, error) {
	resp := new(service.EpochReply)
	err := c.sendRequest(ctx, "epoch", &struct{}{}, resp)
	return types.Epoch(resp.Epoch), err
}

func (c *client) DecodeSigned(ctx context.Context, b []byte) ([]byte, []byte, error) {
	encoded, err := formatting.EncodeWithChecksum(formatting.Hex, b)
	if err != nil {
		return nil, nil, err
	}

	resp := new(service.DecodeSignedReply)
	err = c.sendRequest(ctx,
		"decodeSigned",
		&service.DecodeSignedArgs{Bytes: encoded},
		resp,
	)
	if err != nil {
		return nil, nil, err
	}
	data, err := formatting.Decode(formatting.Hex, resp.Data)
	if err != nil {
		return nil, nil, err
	}
	sig, err := formatting.Decode(formatting.Hex, resp.Signature)
	if err != nil {
		return nil, nil, err
	}
	return data, sig, nil
}

// sendRequest calls [ledger.Name].[method] and decodes the result into [reply].
func (c *client) sendRequest(ctx context.Context, method string, params interface{}, reply interface{}) error {
	body, err := json2.EncodeClientRequest(ledger.Name+"."+method, params)
	if err != nil {
		return fmt.Errorf("failed to encode client params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uri, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return fmt.Errorf("failed to issue request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received status code %d", resp.StatusCode)
	}
	if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
		return fmt.Errorf("failed to decode client response: %w", err)
	}
	return nil
}
