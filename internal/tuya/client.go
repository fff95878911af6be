// Package tuya is a minimal Tuya OpenAPI client covering the handful of
// read-only endpoints the exporter and the discovery wizard need.
package tuya

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	signMethod     = "HMAC-SHA256"
	tokenPath      = "/v1.0/token?grant_type=1"
	requestTimeout = 10 * time.Second

	// Tokens are refreshed slightly before the expiry the API reports.
	tokenExpirySlack = 60 * time.Second
)

// APIError is an API-level failure: the HTTP exchange worked but the
// response carried success=false.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tuya: api error %d: %s", e.Code, e.Msg)
}

// Response is the envelope every OpenAPI endpoint returns.
type Response struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Msg     string          `json:"msg"`
	T       int64           `json:"t"`
	Result  json.RawMessage `json:"result"`
}

type tokenResult struct {
	AccessToken string `json:"access_token"`
	ExpireTime  int64  `json:"expire_time"`
	UID         string `json:"uid"`
}

// Client signs and issues requests against one Tuya OpenAPI endpoint. The
// access token is fetched lazily and cached until shortly before expiry.
type Client struct {
	baseURL    string
	accessID   string
	accessKey  string
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	uid         string
}

// NewClient returns a client for the given endpoint and credentials.
func NewClient(baseURL, accessID, accessKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessID:  accessID,
		accessKey: accessKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

// Get performs a signed GET against a business endpoint.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, path, token)
}

// GetDeviceDetail fetches device metadata including the status list.
func (c *Client) GetDeviceDetail(ctx context.Context, deviceID string) (*Response, error) {
	return c.Get(ctx, "/v1.0/devices/"+deviceID)
}

// GetDeviceStatus fetches the bare status list of a device.
func (c *Client) GetDeviceStatus(ctx context.Context, deviceID string) (*Response, error) {
	return c.Get(ctx, "/v1.0/iot-03/devices/"+deviceID+"/status")
}

// ListUserDevices lists devices linked to a user account.
func (c *Client) ListUserDevices(ctx context.Context, uid string) (*Response, error) {
	return c.Get(ctx, "/v1.0/users/"+uid+"/devices")
}

// ListCloudThings lists devices of the cloud project, for accounts where the
// user-scoped listing is unavailable.
func (c *Client) ListCloudThings(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/v2.0/cloud/thing/device")
}

// UserID returns the account UID reported alongside the access token.
func (c *Client) UserID(ctx context.Context) (string, error) {
	if _, err := c.ensureToken(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uid, nil
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	resp, err := c.do(ctx, tokenPath, "")
	if err != nil {
		return "", fmt.Errorf("tuya: fetch token: %w", err)
	}
	if !resp.Success {
		return "", &APIError{Code: resp.Code, Msg: resp.Msg}
	}

	var result tokenResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return "", fmt.Errorf("tuya: decode token result: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("tuya: token response carried no access_token")
	}

	c.mu.Lock()
	c.token = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpireTime)*time.Second - tokenExpirySlack)
	c.uid = result.UID
	c.mu.Unlock()

	c.logger.Debug("obtained access token", zap.Int64("expires_in", result.ExpireTime))
	return result.AccessToken, nil
}

func (c *Client) do(ctx context.Context, path, token string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	t := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req.Header.Set("client_id", c.accessID)
	req.Header.Set("sign", c.sign(token, t, path))
	req.Header.Set("t", t)
	req.Header.Set("sign_method", signMethod)
	if token != "" {
		req.Header.Set("access_token", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tuya: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tuya: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tuya: %s: unexpected status %d", path, resp.StatusCode)
	}

	var envelope Response
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("tuya: decode response: %w", err)
	}
	return &envelope, nil
}

// sign computes the v2 request signature: HMAC-SHA256 over
// client_id + token + t + stringToSign, uppercase hex.
func (c *Client) sign(token, t, path string) string {
	bodyHash := sha256.Sum256(nil) // GET requests carry no body
	stringToSign := http.MethodGet + "\n" + hex.EncodeToString(bodyHash[:]) + "\n\n" + path

	mac := hmac.New(sha256.New, []byte(c.accessKey))
	mac.Write([]byte(c.accessID + token + t + stringToSign))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
