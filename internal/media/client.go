// Package media uploads images to a remote media host and exposes the
// upload endpoint. The host stores the binary; this package only forwards
// it and hands back the hosted URL.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client wraps interactions with the media host's upload API.
type Client struct {
	uploadURL  string
	privateKey string
	folder     string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(uploadURL, privateKey, folder string) *Client {
	return &Client{
		uploadURL:  uploadURL,
		privateKey: privateKey,
		folder:     folder,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends the file to the media host and returns the hosted URL. The
// host expects the binary as a base64 form field alongside the target file
// name and folder, authenticated with the private key as basic-auth user.
func (c *Client) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("file", base64.StdEncoding.EncodeToString(data)); err != nil {
		return "", err
	}
	if err := writer.WriteField("fileName", fileName); err != nil {
		return "", err
	}
	if err := writer.WriteField("folder", c.folder); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("media host returned status %d: %s", resp.StatusCode, payload)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("media: decode upload response: %w", err)
	}
	return parsed.URL, nil
}
