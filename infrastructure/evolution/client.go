package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 30 * time.Second

// Config carries the Evolution API coordinates. It is injected at client
// construction; nothing here is ambient state.
type Config struct {
	BaseURL      string
	APIKey       string
	InstanceName string
	Timeout      time.Duration
}

// Client talks to an Evolution API instance. It implements
// domain.MessageGateway; a call that times out is reported as a failed send.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// ConnectionState describes the instance's session status as reported by the
// gateway.
type ConnectionState struct {
	Instance string `json:"instance"`
	State    string `json:"state"`
}

func (c *Client) SendText(ctx context.Context, recipient, text string) domain.SendResult {
	payload := map[string]string{
		"number": recipient,
		"text":   text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.SendResult{Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("message/sendText"), bytes.NewReader(body))
	if err != nil {
		return domain.SendResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.APIKey)

	return c.do(req)
}

func (c *Client) SendMedia(ctx context.Context, recipient, caption, mediaPath string, media domain.MediaType) domain.SendResult {
	file, err := os.Open(mediaPath)
	if err != nil {
		// Local failure, the gateway is never contacted.
		return domain.SendResult{Error: fmt.Sprintf("media file not found: %s", mediaPath)}
	}
	defer file.Close()

	if media == domain.MediaAudio {
		caption = ""
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(mediaField(media), filepath.Base(mediaPath))
	if err != nil {
		return domain.SendResult{Error: err.Error()}
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.SendResult{Error: err.Error()}
	}
	_ = writer.WriteField("number", recipient)
	_ = writer.WriteField("caption", caption)
	if err := writer.Close(); err != nil {
		return domain.SendResult{Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("message/sendMedia"), &buf)
	if err != nil {
		return domain.SendResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("apikey", c.cfg.APIKey)

	return c.do(req)
}

// CheckConnection asks the gateway for the instance's session state.
func (c *Client) CheckConnection(ctx context.Context) (ConnectionState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint("instance/connectionState"), nil)
	if err != nil {
		return ConnectionState{}, err
	}
	req.Header.Set("apikey", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return ConnectionState{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ConnectionState{}, fmt.Errorf("gateway returned HTTP %d", resp.StatusCode)
	}

	var wrapper struct {
		Instance struct {
			InstanceName string `json:"instanceName"`
			State        string `json:"state"`
		} `json:"instance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return ConnectionState{}, err
	}
	return ConnectionState{
		Instance: wrapper.Instance.InstanceName,
		State:    wrapper.Instance.State,
	}, nil
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, path, c.cfg.InstanceName)
}

func (c *Client) do(req *http.Request) domain.SendResult {
	resp, err := c.http.Do(req)
	if err != nil {
		logrus.WithError(err).Errorf("[EVOLUTION] request to %s failed", req.URL.Path)
		return domain.SendResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SendResult{Error: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.SendResult{
			Raw:   body,
			Error: fmt.Sprintf("gateway returned HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	return domain.SendResult{
		Success:   true,
		MessageID: extractMessageID(body),
		Raw:       body,
	}
}

// extractMessageID pulls the gateway's message id out of a send response.
// Evolution nests it under key.id.
func extractMessageID(body []byte) string {
	var payload struct {
		Key struct {
			ID string `json:"id"`
		} `json:"key"`
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Key.ID != "" {
		return payload.Key.ID
	}
	return payload.MessageID
}

func mediaField(media domain.MediaType) string {
	switch media {
	case domain.MediaImage:
		return "image"
	case domain.MediaAudio:
		return "audio"
	default:
		return "document"
	}
}
