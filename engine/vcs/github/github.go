package github

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultAPIURL is the url of the github.com API.
const DefaultAPIURL = "https://api.github.com"

// Config is the configuration of the GitHub client.
type Config struct {
	APIURL  string `toml:"apiURL" default:"https://api.github.com" comment:"GitHub API URL, change it for GitHub Enterprise" json:"apiURL"`
	Timeout int    `toml:"timeout" default:"30" comment:"Timeout of API calls, in seconds. Artifact downloads are not bounded" json:"timeout"`
}

// Client is a GitHub API wrapper reading artifacts and releases of a repository.
type Client struct {
	OAuthToken   string
	GitHubAPIURL string

	httpClient     *http.Client
	downloadClient *http.Client

	rateMutex          sync.Mutex
	rateLimitLimit     int
	rateLimitRemaining int
	rateLimitReset     int
}

// New creates a new GitHub client authenticated with the given token.
func New(cfg Config, token string) *Client {
	apiURL := strings.TrimSuffix(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		OAuthToken:         token,
		GitHubAPIURL:       apiURL,
		httpClient:         NewHTTPClient(timeout, false),
		downloadClient:     NewHTTPClient(0, false),
		rateLimitLimit:     5000,
		rateLimitRemaining: 5000,
		rateLimitReset:     int(time.Now().Unix()),
	}
}
