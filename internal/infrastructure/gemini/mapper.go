package gemini

import (
	"fmt"
	"strings"

	"github.com/labelwise/backend/internal/domain"
)

// imageMimeType is sent for every label image regardless of its real format
const imageMimeType = "image/jpeg"

// BuildRequest assembles the generateContent body: one text part with the
// prompt and one inline image part
func BuildRequest(prompt, imageData string) *domain.GenerateContentRequest {
	return &domain.GenerateContentRequest{
		Contents: []domain.Content{
			{
				Parts: []domain.Part{
					{Text: prompt},
					{
						InlineData: &domain.InlineData{
							MimeType: imageMimeType,
							Data:     StripDataURI(imageData),
						},
					},
				},
			},
		},
	}
}

// StripDataURI removes a "data:<mime>;base64," prefix; raw base64 is returned unchanged
func StripDataURI(imageData string) string {
	if !strings.HasPrefix(imageData, "data:") {
		return imageData
	}
	if i := strings.Index(imageData, ","); i >= 0 {
		return imageData[i+1:]
	}
	return imageData
}

// ExtractText returns candidates[0].content.parts[0].text
func ExtractText(resp *domain.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: unexpected response format from Gemini API", domain.ErrProviderFailure)
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrProviderFailure, domain.ErrEmptyResponse)
	}
	return text, nil
}
