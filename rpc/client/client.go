package client

import (
	"context"
	"github.com/ValentinKolb/dTodo/rpc/codec"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"time"
)

var Logger = logger.GetLogger("client")

// NewClient creates a new client request helper
// The function takes a config, a transport and a codec as parameters
// It returns an ITodoClient and an error if the transport could not be configured
func NewClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	codec codec.ICodec,
) (ITodoClient, error) {

	// Configure the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &rpcClient{
		config:    config,
		transport: transport,
		codec:     codec,
		metrics:   NewMetrics(),
	}, nil
}

// rpcClient holds everything needed to send a command and decode its response
type rpcClient struct {
	config    common.ClientConfig
	transport transport.IRPCClientTransport
	codec     codec.ICodec
	metrics   *Metrics
}

// --------------------------------------------------------------------------
// Interface Methods (docu see ITodoClient)
// --------------------------------------------------------------------------

func (c *rpcClient) Store(ctx context.Context, owner, list string) error {
	return c.invokeText(ctx, common.NewStoreCommand(owner, list), common.RespInserted)
}

func (c *rpcClient) UpdateList(ctx context.Context, owner, list string) error {
	return c.invokeText(ctx, common.NewUpdateListCommand(owner, list), common.RespUpdated)
}

func (c *rpcClient) Get(ctx context.Context, owner string) (*string, bool, error) {
	cmd := common.NewGetCommand(owner)
	data, err := c.invoke(ctx, cmd)
	if err != nil {
		return nil, false, err
	}

	value, err := c.codec.DecodeOptionalString(data)
	if err != nil {
		return nil, false, c.fallback(cmd, data, err)
	}

	if value != nil && *value == common.RespOwnerNotFound {
		return nil, false, nil
	}
	return value, true, nil
}

func (c *rpcClient) CreateOwner(ctx context.Context, owner string) error {
	return c.invokeText(ctx, common.NewCreateOwnerCommand(owner), common.CreatedOwnerText(owner))
}

func (c *rpcClient) ListCatalog(ctx context.Context, catalog common.Catalog) ([]string, error) {
	cmd := common.NewListCatalogCommand(catalog)
	data, err := c.invoke(ctx, cmd)
	if err != nil {
		return nil, err
	}

	items, err := c.codec.DecodeStrings(data)
	if err != nil {
		return nil, c.fallback(cmd, data, err)
	}
	return items, nil
}

func (c *rpcClient) DeleteOwner(ctx context.Context, owner string) error {
	return c.invokeText(ctx, common.NewDeleteOwnerCommand(owner), common.RespDeleted)
}

func (c *rpcClient) Metrics() *Metrics {
	return c.metrics
}

func (c *rpcClient) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// invoke encodes the command, sends it and returns the raw response
func (c *rpcClient) invoke(ctx context.Context, cmd common.Command) (resp []byte, err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(cmd.Kind(), start, err)
	}()

	req, err := c.codec.EncodeCommand(cmd)
	if err != nil {
		return nil, err
	}

	resp, err = c.transport.Send(ctx, req)
	if err != nil {
		Logger.Debugf("Sending %s failed: %v", cmd.Kind(), err)
		return nil, err
	}
	return resp, nil
}

// invokeText sends a command that is confirmed with a fixed text.
// Any other text is an error reported by the server.
func (c *rpcClient) invokeText(ctx context.Context, cmd common.Command, expected string) error {
	data, err := c.invoke(ctx, cmd)
	if err != nil {
		return err
	}

	text, err := c.codec.DecodeString(data)
	if err != nil {
		return err
	}
	if text != expected {
		return c.remoteError(cmd, text)
	}
	return nil
}

// fallback handles a response that does not have the shape expected for the command.
// The server then answered with an error text.
func (c *rpcClient) fallback(cmd common.Command, data []byte, decodeErr error) error {
	text, err := c.codec.DecodeString(data)
	if err != nil {
		return decodeErr
	}
	return c.remoteError(cmd, text)
}

func (c *rpcClient) remoteError(cmd common.Command, text string) error {
	err := common.ParseRemoteError(text)
	c.metrics.remoteError(cmd.Kind())
	Logger.Debugf("Server rejected %s: %s", cmd.Kind(), text)
	return err
}
