package github

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rockbears/log"

	"github.com/ovh/layersync/sdk"
)

const userAgent = "layersync"

var linkNextRegex = regexp.MustCompile("<(.*)>.*")

// NewHTTPClient returns a http client. A zero timeout disables every timeout of the transport,
// for streaming downloads.
func NewHTTPClient(timeout time.Duration, insecureSkipVerifyTLS bool) *http.Client {
	transport := http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: insecureSkipVerifyTLS},
	}

	if timeout == 0 {
		transport.IdleConnTimeout = 0
		transport.ResponseHeaderTimeout = 0
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &transport,
	}
}

func getNextPage(headers http.Header) string {
	linkHeader := headers.Get("Link")
	if linkHeader != "" {
		links := strings.Split(linkHeader, ",")
		for _, link := range links {
			if strings.Contains(link, "rel=\"next\"") {
				s := linkNextRegex.FindStringSubmatch(strings.TrimSpace(link))
				if len(s) == 2 {
					return s[1]
				}
				break
			}
		}
	}
	return ""
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	if !strings.HasPrefix(path, c.GitHubAPIURL) && !strings.HasPrefix(path, "http") {
		path = c.GitHubAPIURL + path
	}

	callURL, err := url.ParseRequestURI(path)
	if err != nil {
		return nil, sdk.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, callURL.String(), nil)
	if err != nil {
		return nil, sdk.WithStack(err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Add("Accept", "application/vnd.github+json")
	if c.OAuthToken != "" {
		req.Header.Add("Authorization", fmt.Sprintf("token %s", c.OAuthToken))
	}
	return req, nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, http.Header, error) {
	if c.isRateLimitReached(ctx) {
		return 0, nil, nil, ErrorRateLimit
	}

	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return 0, nil, nil, err
	}

	log.Debug(ctx, "Github API>> Request URL %s", req.URL.String())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, sdk.WrapError(err, "unable to call %s", req.URL.Path)
	}
	defer res.Body.Close() // nolint

	c.updateRateLimit(res.Header)

	if res.StatusCode == http.StatusUnauthorized {
		return res.StatusCode, nil, nil, sdk.NewError(sdk.ErrUnauthorized, ErrorUnauthorized)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, nil, sdk.WithStack(err)
	}

	return res.StatusCode, resBody, res.Header, nil
}

// stream returns the body of a GET request. The caller must close it.
func (c *Client) stream(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/octet-stream")

	log.Debug(ctx, "Github API>> Download URL %s", req.URL.String())

	res, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, 0, sdk.WrapError(err, "unable to download %s", req.URL.Path)
	}
	c.updateRateLimit(res.Header)

	if res.StatusCode >= 400 {
		defer res.Body.Close() // nolint
		body, _ := io.ReadAll(res.Body)
		switch res.StatusCode {
		case http.StatusUnauthorized:
			return nil, 0, sdk.NewError(sdk.ErrUnauthorized, ErrorUnauthorized)
		case http.StatusNotFound, http.StatusGone:
			return nil, 0, sdk.NewError(sdk.ErrNotFound, errorAPI(body))
		}
		return nil, 0, sdk.NewError(sdk.ErrUnknownError, errorAPI(body))
	}
	return res.Body, res.ContentLength, nil
}

func (c *Client) updateRateLimit(headers http.Header) {
	rateLimitLimit := headers.Get("X-RateLimit-Limit")
	rateLimitRemaining := headers.Get("X-RateLimit-Remaining")
	rateLimitReset := headers.Get("X-RateLimit-Reset")

	if rateLimitLimit != "" && rateLimitRemaining != "" && rateLimitReset != "" {
		c.rateMutex.Lock()
		c.rateLimitLimit, _ = strconv.Atoi(rateLimitLimit)
		c.rateLimitRemaining, _ = strconv.Atoi(rateLimitRemaining)
		c.rateLimitReset, _ = strconv.Atoi(rateLimitReset)
		c.rateMutex.Unlock()
	}
}
