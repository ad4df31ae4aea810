package github

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rockbears/log"

	"github.com/ovh/layersync/sdk"
)

// RateLimit is the response of the rate limit endpoint.
type RateLimit struct {
	Rate struct {
		Limit     int `json:"limit"`
		Remaining int `json:"remaining"`
		Reset     int `json:"reset"`
	} `json:"rate"`
}

func (c *Client) isRateLimitReached(ctx context.Context) bool {
	c.rateMutex.Lock()
	defer c.rateMutex.Unlock()
	if c.rateLimitReset > 0 && c.rateLimitReset < int(time.Now().Unix()) {
		log.Debug(ctx, "RateLimitReset reached, it's ok to call github")
		return false
	}
	return c.rateLimitRemaining < 10
}

// RateLimit Get your current rate limit status
// https://docs.github.com/rest/rate-limit
func (c *Client) RateLimit(ctx context.Context) error {
	status, body, _, err := c.get(ctx, "/rate_limit")
	if err != nil {
		log.Warn(ctx, "githubClient.RateLimit> Error %s", err)
		return err
	}
	if status >= 400 {
		return sdk.NewError(sdk.ErrUnknownError, errorAPI(body))
	}
	rateLimit := &RateLimit{}
	if err := json.Unmarshal(body, rateLimit); err != nil {
		log.Warn(ctx, "githubClient.RateLimit> Error %s", err)
		return sdk.WithStack(err)
	}
	if rateLimit.Rate.Remaining < 10 {
		log.Error(ctx, "Github Rate Limit nearly exceeded %v", rateLimit)
		return ErrorRateLimit
	}
	return nil
}
