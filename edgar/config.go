package edgar

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/filinghawk-systems/filinghawk/common/logging"
)

const (
	defaultRatePerSecond = 10.0
	defaultTimeout       = 30 * time.Second
)

// Endpoints holds the base URLs for the upstream services. Each field
// defaults to the public production host when empty; tests point them
// at local servers.
type Endpoints struct {
	// Archives serves filing documents and index files.
	Archives string
	// Data serves per-company submissions JSON.
	Data string
	// Files serves supporting reference files such as the ticker map.
	Files string
	// Search is the full-text search API.
	Search string
	// Browse is the browse CGI backing the Atom feeds.
	Browse string
	// News serves the press release and litigation RSS feeds.
	News string
}

// DefaultEndpoints returns the public production endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Archives: "https://www.sec.gov/Archives/edgar",
		Data:     "https://data.sec.gov",
		Files:    "https://www.sec.gov/files",
		Search:   "https://efts.sec.gov/LATEST/search-index",
		Browse:   "https://www.sec.gov/cgi-bin/browse-edgar",
		News:     "https://www.sec.gov/news",
	}
}

func (e *Endpoints) applyDefaults() {
	d := DefaultEndpoints()
	if e.Archives == "" {
		e.Archives = d.Archives
	}
	if e.Data == "" {
		e.Data = d.Data
	}
	if e.Files == "" {
		e.Files = d.Files
	}
	if e.Search == "" {
		e.Search = d.Search
	}
	if e.Browse == "" {
		e.Browse = d.Browse
	}
	if e.News == "" {
		e.News = d.News
	}
}

// RetryPolicy controls the transport's retry loop. MaxAttempts counts
// total attempts, so MaxAttempts=1 disables retrying.
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	Multiplier     float64
	JitterFraction float64
}

// DefaultRetryPolicy returns the production policy: six total attempts
// with exponential backoff starting at one second and ±20% jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    6,
		BaseDelay:      time.Second,
		Multiplier:     2,
		JitterFraction: 0.2,
	}
}

// Config configures a Client. The zero value is not usable: UserAgent
// is mandatory because the upstream rejects anonymous traffic.
type Config struct {
	// UserAgent identifies the caller, conventionally
	// "Name Contact <email>". Required.
	UserAgent string

	// RatePerSecond caps outbound request admission. Defaults to 10,
	// the upstream's published fair-access limit.
	RatePerSecond float64

	// Burst is the governor's bucket depth. Defaults to
	// ceil(RatePerSecond).
	Burst int

	// Timeout bounds each HTTP attempt. Defaults to 30s.
	Timeout time.Duration

	Endpoints Endpoints
	Retry     RetryPolicy

	// Classifier overrides the structured-data heuristic applied to
	// normalized filings. Nil selects DefaultFinancialsClassifier.
	Classifier FinancialsClassifier

	// Logger receives transport and decode diagnostics. Nil selects a
	// no-op logger.
	Logger *logging.Logger

	// HTTPClient overrides the underlying HTTP client. The Timeout
	// field is ignored when this is set.
	HTTPClient *http.Client
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("%w: user agent is required", ErrInvalidConfig)
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidConfig)
	}
	if c.Burst < 0 {
		return fmt.Errorf("%w: burst must not be negative", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("%w: retry attempts must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.RatePerSecond == 0 {
		c.RatePerSecond = defaultRatePerSecond
	}
	if c.Burst == 0 {
		c.Burst = int(math.Ceil(c.RatePerSecond))
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = DefaultRetryPolicy()
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = time.Second
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 2
	}
	if c.Classifier == nil {
		c.Classifier = DefaultFinancialsClassifier
	}
	if c.Logger == nil {
		c.Logger = logging.New(slog.LevelError, "text", io.Discard)
	}
	c.Endpoints.applyDefaults()
}
