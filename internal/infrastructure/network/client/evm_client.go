package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"
	"issuance_tracker/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ERC20 ABI minimal part for historical supply reads
const erc20ABI = `[
  {"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			// This is a critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
}

// ClientOptions tunes a single network client.
type ClientOptions struct {
	ConnectionTimeout time.Duration
	RPCCallTimeout    time.Duration
	RateLimit         rate.Limit
	BurstLimit        int
	// HeaderCache holds block timestamps keyed by "<chainID>:<number>". Shared between clients.
	HeaderCache *cache.Cache
}

// EVMClient implements the port.BlockchainClient interface for EVM-compatible chains.
type EVMClient struct {
	rpcClient      *rpc.Client
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	limiter        *rate.Limiter
	headers        *cache.Cache
}

// rpcHeader is the subset of an eth_getBlockByNumber response the client needs.
type rpcHeader struct {
	Number    hexutil.Uint64 `json:"number"`
	Timestamp hexutil.Uint64 `json:"timestamp"`
}

// NewEVMClient creates a new EVM client for the given network definition.
func NewEVMClient(netDef entity.NetworkDefinition, opts ClientOptions) (port.BlockchainClient, error) {
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectionTimeout)
		rpcClient, err := rpc.DialContext(ctx, rpcURL)
		cancel()

		if err == nil {
			return newEVMClient(rpcClient, netDef, opts), nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC URL configured")
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

func newEVMClient(rpcClient *rpc.Client, netDef entity.NetworkDefinition, opts ClientOptions) *EVMClient {
	initParsedERC20ABI()
	if opts.RPCCallTimeout <= 0 {
		opts.RPCCallTimeout = 10 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Inf
	}
	if opts.BurstLimit <= 0 {
		opts.BurstLimit = 1
	}
	if opts.HeaderCache == nil {
		opts.HeaderCache = cache.New(cache.NoExpiration, 0)
	}
	return &EVMClient{
		rpcClient:      rpcClient,
		ethClient:      ethclient.NewClient(rpcClient),
		netDef:         netDef,
		rpcCallTimeout: opts.RPCCallTimeout,
		limiter:        rate.NewLimiter(opts.RateLimit, opts.BurstLimit),
		headers:        opts.HeaderCache,
	}
}

// BlockAt returns the last block whose timestamp is strictly before the start of the given day.
// When the chain head is older than that, the head is returned.
func (c *EVMClient) BlockAt(ctx context.Context, at entity.PointInTime) (uint64, error) {
	target := uint64(at.Time().Unix())

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	latest, err := c.ethClient.BlockNumber(callCtx)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch latest block on %s: %w", c.netDef.Name, err)
	}

	latestTs, err := c.blockTimestamp(ctx, latest)
	if err != nil {
		return 0, err
	}
	if latestTs < target {
		return latest, nil
	}

	genesisTs, err := c.blockTimestamp(ctx, 0)
	if err != nil {
		return 0, err
	}
	if genesisTs >= target {
		return 0, fmt.Errorf("%w: %s has no blocks before %s", entity.ErrDataUnavailable, c.netDef.Name, at)
	}

	// invariant: ts(lo) < target <= ts(hi)
	lo, hi := uint64(0), latest
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		ts, err := c.blockTimestamp(ctx, mid)
		if err != nil {
			return 0, err
		}
		if ts < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// blockTimestamp returns the block timestamp, using the shared header cache.
func (c *EVMClient) blockTimestamp(ctx context.Context, number uint64) (uint64, error) {
	key := fmt.Sprintf("%d:%d", c.netDef.ChainID, number)
	if ts, found := c.headers.Get(key); found {
		if v, ok := ts.(uint64); ok {
			return v, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	var header *rpcHeader
	if err := c.rpcClient.CallContext(callCtx, &header, "eth_getBlockByNumber", hexutil.EncodeUint64(number), false); err != nil {
		return 0, fmt.Errorf("failed to fetch header %d on %s: %w", number, c.netDef.Name, err)
	}
	if header == nil {
		return 0, fmt.Errorf("header %d not found on %s", number, c.netDef.Name)
	}

	ts := uint64(header.Timestamp)
	c.headers.Set(key, ts, cache.DefaultExpiration)
	return ts, nil
}

// ReadAt fetches multiple token values at the given block using a JSON-RPC batch request.
func (c *EVMClient) ReadAt(ctx context.Context, block uint64, requests []entity.ReadRequestItem) ([]entity.ReadResultItem, error) {
	if len(requests) == 0 {
		return []entity.ReadResultItem{}, nil
	}

	batchElems := make([]rpc.BatchElem, 0, len(requests))
	elemIndex := make([]int, 0, len(requests))
	results := make([]entity.ReadResultItem, len(requests))
	blockTag := hexutil.EncodeUint64(block)

	for i, reqItem := range requests {
		results[i] = entity.ReadResultItem{
			RequestID:    reqItem.ID,
			TokenAddress: reqItem.TokenAddress,
			Account:      reqItem.Account,
		}

		var (
			callData []byte
			err      error
		)
		switch reqItem.Type {
		case entity.TotalSupplyRequest:
			callData, err = parsedERC20ABI.Pack("totalSupply")
		case entity.BalanceOfRequest:
			callData, err = parsedERC20ABI.Pack("balanceOf", common.HexToAddress(reqItem.Account))
		default:
			err = fmt.Errorf("unknown read request type: %v for %s", reqItem.Type, reqItem.TokenAddress)
		}
		if err != nil {
			results[i].Error = err
			continue
		}

		callArgs := map[string]interface{}{
			"to":   common.HexToAddress(reqItem.TokenAddress),
			"data": hexutil.Bytes(callData),
		}
		batchElems = append(batchElems, rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callArgs, blockTag},
			Result: new(hexutil.Bytes),
		})
		elemIndex = append(elemIndex, i)
	}
	if len(batchElems) == 0 {
		return results, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return results, err
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.rpcClient.BatchCallContext(rpcCallCtx, batchElems); err != nil {
		metrics.RPCBatchTotal.WithLabelValues(c.netDef.Identifier, "error").Inc()
		return results, fmt.Errorf("RPC batch call failed: %w", err)
	}
	metrics.RPCBatchTotal.WithLabelValues(c.netDef.Identifier, "ok").Inc()

	for n, elem := range batchElems {
		i := elemIndex[n]
		if elem.Error != nil {
			results[i].Error = fmt.Errorf("eth_call %s for %s at block %d failed: %w",
				methodName(requests[i].Type), requests[i].TokenAddress, block, elem.Error)
			continue
		}

		raw, ok := elem.Result.(*hexutil.Bytes)
		if !ok || raw == nil || len(*raw) == 0 {
			// an empty return means the contract did not exist at that block
			results[i].Error = fmt.Errorf("eth_call %s for %s at block %d returned no data",
				methodName(requests[i].Type), requests[i].TokenAddress, block)
			continue
		}

		unpacked, err := parsedERC20ABI.Unpack(methodName(requests[i].Type), *raw)
		if err != nil {
			results[i].Error = fmt.Errorf("failed to unpack %s result for %s: %w. Raw: %s",
				methodName(requests[i].Type), requests[i].TokenAddress, err, hexutil.Encode(*raw))
			continue
		}
		if len(unpacked) == 0 {
			results[i].Error = fmt.Errorf("%s unpack returned no data for %s", methodName(requests[i].Type), requests[i].TokenAddress)
			continue
		}
		value, ok := unpacked[0].(*big.Int)
		if !ok {
			results[i].Error = fmt.Errorf("failed to assert unpacked %s result to *big.Int for %s. Got: %T",
				methodName(requests[i].Type), requests[i].TokenAddress, unpacked[0])
			continue
		}
		results[i].Value = value
	}
	return results, nil
}

func methodName(t entity.ReadRequestType) string {
	if t == entity.TotalSupplyRequest {
		return "totalSupply"
	}
	return "balanceOf"
}

// Close closes the underlying RPC client.
func (c *EVMClient) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}
