package manhattan

import (
	"strings"
	"time"

	"github.com/wmsbridge/backend/internal/domain/wms"
)

const (
	// AuthHost serves the OAuth token endpoint.
	AuthHost = "salep-auth.sce.manh.com"
	// APIHost serves the order search endpoint.
	APIHost = "salep.sce.manh.com"
	// ClientID is the OAuth client used for the password grant.
	ClientID = "omnicomponent.1.0.0"

	// DefaultTimeoutSeconds bounds every upstream call.
	DefaultTimeoutSeconds = 60

	tokenPath       = "/oauth/token"
	orderSearchPath = "/dcorder/api/dcorder/order/search"
)

// Config holds configuration for the Manhattan integration.
type Config struct {
	// Credentials are the grant password and client secret.
	Credentials wms.Credentials
	// AuthBaseURL is the scheme and host of the OAuth server.
	AuthBaseURL string
	// APIBaseURL is the scheme and host of the API server.
	APIBaseURL string
	// ClientID is the OAuth client id sent with HTTP Basic auth.
	ClientID string
	// TimeoutSeconds is the HTTP request timeout.
	TimeoutSeconds int
	// InsecureSkipVerify disables upstream certificate verification.
	InsecureSkipVerify bool
}

// NewConfig creates a Manhattan configuration pointing at the production hosts.
func NewConfig(creds wms.Credentials) *Config {
	return &Config{
		Credentials:        creds,
		AuthBaseURL:        "https://" + AuthHost,
		APIBaseURL:         "https://" + APIHost,
		ClientID:           ClientID,
		TimeoutSeconds:     DefaultTimeoutSeconds,
		InsecureSkipVerify: true,
	}
}

// Validate fills in defaults. Missing credentials are not an error here:
// they are reported per request so the service can still answer.
func (c *Config) Validate() error {
	if c.AuthBaseURL == "" {
		c.AuthBaseURL = "https://" + AuthHost
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://" + APIHost
	}
	c.AuthBaseURL = strings.TrimRight(c.AuthBaseURL, "/")
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.ClientID == "" {
		c.ClientID = ClientID
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TokenURL returns the password grant endpoint.
func (c *Config) TokenURL() string {
	return c.AuthBaseURL + tokenPath
}

// OrderSearchURL returns the order search endpoint.
func (c *Config) OrderSearchURL() string {
	return c.APIBaseURL + orderSearchPath
}
