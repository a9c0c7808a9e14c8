package domain

// GenerateContentRequest is the body sent to the multimodal provider
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// Content is one conversational turn made of parts
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is either a text prompt or an inline image
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData carries base64 image bytes without a data URI prefix
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GenerateContentResponse is the provider reply. Error is set instead of
// Candidates when the provider rejects the call.
type GenerateContentResponse struct {
	Candidates []Candidate    `json:"candidates"`
	Error      *ProviderError `json:"error,omitempty"`
}

// Candidate is one generated answer
type Candidate struct {
	Content Content `json:"content"`
}

// ProviderError is the provider's error envelope
type ProviderError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// ProxyRequest is the body accepted by the analysis proxy endpoint
type ProxyRequest struct {
	ImageData   string `json:"imageData"`
	ProductName string `json:"productName,omitempty"`
}

// ProxyResponse is returned by the analysis proxy endpoint.
// Exactly one of Analysis or Error is set.
type ProxyResponse struct {
	Analysis string `json:"analysis,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}
