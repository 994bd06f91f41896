package lspclient

import (
	"log/slog"

	"github.com/Camilotk/lspclient/middleware"
	"github.com/Camilotk/lspclient/protocol"
)

// Option configures a Client at construction time.
type Option func(*Client) error

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithFeatures attaches language features. Attaching two features for the
// same method fails.
func WithFeatures(features ...Feature) Option {
	return func(c *Client) error {
		for _, f := range features {
			if err := c.features.add(f); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithRegistrar sets the ProviderRegistrar that connects registrations to
// the embedding editor.
func WithRegistrar(r ProviderRegistrar) Option {
	return func(c *Client) error {
		if r != nil {
			c.registrar = r
		}
		return nil
	}
}

// WithInterceptors sets the per-operation dispatch interceptors.
func WithInterceptors(i Interceptors) Option {
	return func(c *Client) error {
		c.interceptors = i
		return nil
	}
}

// WithMiddleware appends wire middleware to the outgoing request chain.
// Middleware runs in the order given, outermost first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) error {
		c.chain = append(c.chain, mws...)
		return nil
	}
}

// WithDefaultSelector sets the workspace default document selector used when
// the server announces a capability without narrowing it.
func WithDefaultSelector(selector protocol.DocumentSelector) Option {
	return func(c *Client) error {
		c.defaultSelector = selector
		return nil
	}
}

// WithWorkspaceFolders sets the workspace folders announced on initialize.
// The first folder doubles as the root URI.
func WithWorkspaceFolders(folders ...protocol.WorkspaceFolder) Option {
	return func(c *Client) error {
		c.workspaceFolders = folders
		if len(folders) > 0 {
			uri := folders[0].URI
			c.rootURI = &uri
		}
		return nil
	}
}

// WithInitializationOptions sets the server-specific initializationOptions
// payload sent on initialize.
func WithInitializationOptions(opts interface{}) Option {
	return func(c *Client) error {
		c.initOptions = opts
		return nil
	}
}

// WithTrace sets the initial trace value ("off", "messages", "verbose").
func WithTrace(value string) Option {
	return func(c *Client) error {
		c.trace = value
		return nil
	}
}

// WithSettings attaches the settings store the client answers
// workspace/configuration requests from. Swapping the store after Connect
// sends workspace/didChangeConfiguration automatically.
func WithSettings(settings *Settings) Option {
	return func(c *Client) error {
		c.settings = settings
		return nil
	}
}
