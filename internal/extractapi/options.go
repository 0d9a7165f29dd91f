package extractapi

import "time"

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCredentials sets the basic-auth pair sent on every request.
func WithCredentials(user, password string) Option {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithUploadPath overrides the upload endpoint path relative to the base URL.
func WithUploadPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.uploadPath = p
		}
	}
}

// WithResultPath overrides the result endpoint prefix; the task id is appended.
func WithResultPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.resultPath = p
		}
	}
}

// WithLogger attaches a debug logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
