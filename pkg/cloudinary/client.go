package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/woodkari/woodkari-backend/pkg/config"
)

const apiBaseURL = "https://api.cloudinary.com/v1_1"

// Client calls the Cloudinary upload API with signed requests.
type Client struct {
	http      *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
	namespace string
	now       func() time.Time
}

// UploadResult is the subset of the upload response the storefront keeps.
type UploadResult struct {
	URL      string `json:"secure_url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// New constructs a Cloudinary client from configuration.
func New(cfg config.CloudinaryConfig) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary cloud name, api key and api secret are required")
	}
	http := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", apiBaseURL, cfg.CloudName)).
		SetTimeout(cfg.Timeout)
	return &Client{
		http:      http,
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		namespace: cfg.Namespace,
		now:       time.Now,
	}, nil
}

// Namespace returns the folder prefix this client owns.
func (c *Client) Namespace() string {
	return c.namespace
}

// Upload sends a base64 data URI to Cloudinary under the namespaced folder and
// returns the hosted URL and public id.
func (c *Client) Upload(ctx context.Context, dataURI, folder string) (*UploadResult, error) {
	target := folder
	if c.namespace != "" && !strings.HasPrefix(folder, c.namespace+"/") {
		target = c.namespace + "/" + folder
	}

	params := map[string]string{
		"folder":    target,
		"overwrite": "true",
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	signature := signParams(params, c.apiSecret)

	form := map[string]string{
		"file":      dataURI,
		"api_key":   c.apiKey,
		"signature": signature,
	}
	for k, v := range params {
		form[k] = v
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post("/image/upload")
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("cloudinary upload failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var result UploadResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("parsing cloudinary upload response: %w", err)
	}
	if result.URL == "" || result.PublicID == "" {
		return nil, fmt.Errorf("incomplete cloudinary upload response")
	}
	return &result, nil
}

// Destroy deletes an asset by its public id. Cloudinary reports "not found"
// as a 200 with result "not found", which is treated as success.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return fmt.Errorf("public id is required")
	}

	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	signature := signParams(params, c.apiSecret)

	form := map[string]string{
		"api_key":   c.apiKey,
		"signature": signature,
	}
	for k, v := range params {
		form[k] = v
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post("/image/destroy")
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("cloudinary destroy failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

// signParams produces the Cloudinary API signature: the params sorted by key,
// joined as key=value pairs with &, with the secret appended, SHA-1 hashed.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
