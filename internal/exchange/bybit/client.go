package bybit

import (
	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client wraps the Bybit API client for read-only market data access
type Client struct {
	httpClient *bybit_api.Client
	testnet    bool
}

// Config holds the configuration for the Bybit client. Market data
// endpoints are public, so the credentials may be empty.
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
}

// NewClient creates a new Bybit client
func NewClient(config Config) *Client {
	baseURL := bybit_api.MAINNET
	if config.Testnet {
		baseURL = bybit_api.TESTNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		config.APIKey,
		config.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	return &Client{
		httpClient: httpClient,
		testnet:    config.Testnet,
	}
}

// IsTestnet returns whether the client is configured for testnet
func (c *Client) IsTestnet() bool {
	return c.testnet
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.testnet {
		return "testnet"
	}
	return "mainnet"
}
