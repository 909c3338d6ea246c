package http

import (
	"bytes"
	"context"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/transport"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	serverURL string
	client    *http.Client
	maxSize   int64
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	if config.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}

	// Accept plain host:port endpoints like the stream transports do
	endpoint := config.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return err
	}

	// Every request uses a new connection, like the stream transports
	t.client = &http.Client{
		Transport: &http.Transport{
			DisableKeepAlives: true,
		},
		Timeout: time.Duration(config.TimeoutSecond) * time.Second,
	}
	t.serverURL = strings.TrimSuffix(parsedURL.String(), "/") + RPCPath

	t.maxSize = int64(config.Framing.MaxMessageSize)
	if t.maxSize <= 0 {
		t.maxSize = common.DefaultMaxMessageSize
	}

	return nil
}

func (t *httpClientTransport) Send(ctx context.Context, req []byte) ([]byte, error) {
	// Check if the transport is initialized
	if t.client == nil {
		return nil, &common.TransportError{Op: "dial", Err: fmt.Errorf("http transport not initialized")}
	}

	// Create the request
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, t.serverURL, bytes.NewReader(req))
	if err != nil {
		return nil, &common.TransportError{Op: "write", Err: err}
	}
	httpRequest.Header.Set("Content-Type", contentType)

	// Send the request (no retries)
	httpResponse, err := t.client.Do(httpRequest)
	if err != nil {
		return nil, &common.TransportError{Op: "write", Err: err}
	}
	defer httpResponse.Body.Close()

	// Check if the response status code is OK
	if httpResponse.StatusCode != http.StatusOK {
		return nil, &common.TransportError{Op: "read", Err: fmt.Errorf("http error: %s", httpResponse.Status)}
	}

	// Read the response body
	resp, err := io.ReadAll(io.LimitReader(httpResponse.Body, t.maxSize+1))
	if err != nil {
		return nil, &common.TransportError{Op: "read", Err: err}
	}
	if int64(len(resp)) > t.maxSize {
		return nil, &common.TransportError{Op: "read", Err: common.ErrCapacityExceeded}
	}
	return resp, nil
}

func (t *httpClientTransport) Close() error {
	// Close the client
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	t.client = nil
	return nil
}
