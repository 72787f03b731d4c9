package fiscal

import "errors"

// TRAConfig holds configuration for the TRA (Tanzania Revenue Authority)
// virtual fiscal device API
type TRAConfig struct {
	// BaseURL is the base URL for the TRA VFD API (production or sandbox)
	BaseURL string
	// APIKey authorizes the integrator account with the authority
	APIKey string
	// IsSandbox indicates if this is a sandbox environment
	IsSandbox bool
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// TRAProductionAPIURL is the production VFD endpoint
	TRAProductionAPIURL = "https://vfd.tra.go.tz"
	// TRASandboxAPIURL is the test VFD endpoint
	TRASandboxAPIURL = "https://virtual.tra.go.tz"
)

// Errors for TRA configuration
var (
	ErrTRAConfigMissingAPIKey = errors.New("tra: api key is required")
)

// NewTRAConfig creates a new TRA configuration with defaults
func NewTRAConfig(apiKey string) *TRAConfig {
	return &TRAConfig{
		APIKey:         apiKey,
		BaseURL:        TRAProductionAPIURL,
		IsSandbox:      false,
		TimeoutSeconds: 30,
	}
}

// Validate validates the TRA configuration
func (c *TRAConfig) Validate() error {
	if c.APIKey == "" {
		return ErrTRAConfigMissingAPIKey
	}
	if c.BaseURL == "" {
		if c.IsSandbox {
			c.BaseURL = TRASandboxAPIURL
		} else {
			c.BaseURL = TRAProductionAPIURL
		}
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
