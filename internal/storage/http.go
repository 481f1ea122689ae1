package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/R3yz0n/beyond-pad/internal/common"
	"github.com/R3yz0n/beyond-pad/internal/logging"
)

// DefaultFetchTimeout bounds a single Get; uploads carry no timeout of
// their own beyond the caller's context.
const DefaultFetchTimeout = 10 * time.Second

// HTTPClient pins JSON blobs through an IPFS-style HTTP API and reads
// them back through a gateway. Authentication is a bearer credential,
// typically a JWT issued by the pinning provider.
type HTTPClient struct {
	apiURL       string
	gatewayURL   string
	token        string
	fetchTimeout time.Duration
	httpc        *http.Client
	log          logging.Logger
}

func NewHTTPClient(apiURL, gatewayURL, token string, fetchTimeout time.Duration, log logging.Logger) *HTTPClient {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	c := &HTTPClient{
		apiURL:       apiURL,
		gatewayURL:   gatewayURL,
		token:        token,
		fetchTimeout: fetchTimeout,
		httpc:        &http.Client{},
		log:          log,
	}
	if exp, ok := credentialExpiry(token); ok && time.Until(exp) < 24*time.Hour {
		log.Warn(context.Background(), "storage credential expires soon", "expires", exp)
	}
	return c
}

// credentialExpiry extracts the exp claim from a JWT-shaped credential
// without verifying the signature. Non-JWT credentials report ok=false.
func credentialExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

type addResponse struct {
	Hash string `json:"Hash"`
}

func (c *HTTPClient) Put(ctx context.Context, v any) (string, error) {
	blob, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "note.json")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(blob); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/v0/add", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: storage api returned %s", common.ErrUploadFailed, resp.Status)
	}

	var ar addResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", fmt.Errorf("%w: decoding add response: %v", common.ErrUploadFailed, err)
	}
	if ar.Hash == "" {
		return "", fmt.Errorf("%w: storage api returned no identifier", common.ErrUploadFailed)
	}

	c.log.Debug(ctx, "blob pinned", "cid", ar.Hash, "bytes", len(blob))
	return ar.Hash, nil
}

func (c *HTTPClient) Get(ctx context.Context, cid string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+"/ipfs/"+cid, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return classifyFetchErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", common.ErrNotFound, cid)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway returned %s", common.ErrFetchFailed, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding blob %s: %v", common.ErrFetchFailed, cid, err)
	}
	return nil
}
