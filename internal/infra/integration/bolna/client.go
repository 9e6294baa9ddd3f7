package bolna

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

const defaultBaseURL = "https://api.bolna.ai"

// Client triggers outbound voice calls through a Bolna AI agent.
type Client struct {
	apiKey  string
	agentID string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, agentID string) *Client {
	return &Client{
		apiKey:  apiKey,
		agentID: agentID,
		baseURL: defaultBaseURL,
		http:    http.DefaultClient,
	}
}

func (c *Client) Name() string { return entity.ChannelCall }

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.agentID != ""
}

// Send places a call to target. The template and params are ignored: the
// agent's conversation script lives on the Bolna side.
func (c *Client) Send(ctx context.Context, target, template string, params map[string]string) error {
	payload := map[string]string{
		"agent_id":               c.agentID,
		"recipient_phone_number": normalizeE164(target),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bolna request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bolna api status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func normalizeE164(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	if len(trimmed) == 10 {
		return "+91" + trimmed
	}
	return "+" + trimmed
}
