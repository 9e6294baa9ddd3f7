package aisensy

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

const defaultBaseURL = "https://backend.aisensy.com/campaign/t1/api/v2"

// Client sends WhatsApp template messages through the AiSensy campaign API.
type Client struct {
	apiKey   string
	userName string
	campaign string
	baseURL  string
	http     *http.Client
}

// NewClient builds the WhatsApp channel adapter. campaign is the AiSensy
// campaign that backs the enrollment template; every logical template maps
// onto it with [name, batch_start, timings] parameters.
func NewClient(apiKey, userName, campaign string) *Client {
	return &Client{
		apiKey:   apiKey,
		userName: userName,
		campaign: campaign,
		baseURL:  defaultBaseURL,
		http:     http.DefaultClient,
	}
}

func (c *Client) Name() string { return entity.ChannelWhatsApp }

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) Send(ctx context.Context, target, template string, params map[string]string) error {
	payload := campaignRequest{
		APIKey:       c.apiKey,
		CampaignName: c.campaign,
		Destination:  normalizeDestination(target),
		UserName:     c.userName,
		TemplateParams: []string{
			params["name"],
			params["batch_start"],
			params["timings"],
		},
		Source:         "api-trigger",
		ParamsFallback: map[string]string{"FirstName": "there"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling campaign payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("aisensy request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("aisensy api status %d: %s", resp.StatusCode, string(respBody))
	}

	var result campaignResponse
	if err := json.Unmarshal(respBody, &result); err == nil && result.ErrorText != "" {
		return fmt.Errorf("aisensy: %s", result.ErrorText)
	}
	return nil
}

// normalizeDestination formats the recipient for AiSensy: bare 10-digit
// Indian numbers get the country prefix, E.164 input loses its plus sign.
func normalizeDestination(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	if len(cleaned) == 10 {
		return "91" + cleaned
	}
	return cleaned
}
