package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client asks the external execution service to run a competition.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Execute posts to {base}/execute?competition=<id>. Any non-2xx answer is
// an error carrying the start of the response body.
func (c *Client) Execute(ctx context.Context, competitionID int64) error {
	q := url.Values{}
	q.Set("competition", strconv.FormatInt(competitionID, 10))
	endpoint := c.baseUrl + "/execute?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute competition %d: %w", competitionID, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("execute competition %d: executor answered %d: %s", competitionID, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
