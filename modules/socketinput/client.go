// Package socketinput feeds key and menu events from a socket.io server into
// the demo game's input.
package socketinput

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/framekeeper/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names the client listens on.
const (
	EventKey  = "key"
	EventMenu = "menu"
)

const connectTimeout = 15 * time.Second

// Client is a connected socket.io client whose events fill a Buffer.
type Client struct {
	*Buffer
	io     *socket.Socket
	logger *slog.Logger
}

// Dial connects to rawURL and subscribes to key and menu events. It blocks
// until the connection succeeds, fails, times out or ctx is done.
func Dial(ctx context.Context, rawURL, namespace string) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("component", "socketinput", "url", rawURL)
	logger.Info("Connecting remote input...")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("input URL %q must include scheme and host", rawURL)
	}
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	c := &Client{Buffer: &Buffer{}, io: io, logger: logger}

	io.On(types.EventName(EventKey), c.Buffer.handleKey)
	io.On(types.EventName(EventMenu), func(data ...any) {
		if !c.Buffer.handleMenu(data...) {
			logger.Warn("Ignoring malformed menu event", "data", data)
		}
	})

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Remote input connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return c, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
}

// Close disconnects from the server. Buffered events stay readable.
func (c *Client) Close() error {
	c.logger.Info("Disconnecting remote input", "sid", c.io.Id())
	c.io.Disconnect()
	return nil
}
