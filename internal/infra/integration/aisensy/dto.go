package aisensy

// campaignRequest is the AiSensy v2 campaign trigger payload. The campaign
// name identifies the approved WhatsApp template.
type campaignRequest struct {
	APIKey         string            `json:"apiKey"`
	CampaignName   string            `json:"campaignName"`
	Destination    string            `json:"destination"`
	UserName       string            `json:"userName"`
	TemplateParams []string          `json:"templateParams"`
	Source         string            `json:"source"`
	ParamsFallback map[string]string `json:"paramsFallbackValue"`
}

type campaignResponse struct {
	Success   bool   `json:"success"`
	ErrorText string `json:"errorMessage"`
}
