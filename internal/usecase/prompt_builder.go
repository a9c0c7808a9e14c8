package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labelwise/backend/internal/domain"
)

const defaultProductName = "product"

// IngredientsPrompt asks the model for the ingredient list only.
// The reply is requested under the Ingredient List label so that the same
// extractor handles direct and proxied answers.
func IngredientsPrompt(productName string) string {
	return fmt.Sprintf(`Please extract and list all ingredients from this %s label image. Return only the ingredients as a comma-separated list on a single line starting with "**Ingredient List**:", nothing else.`,
		productNameOrDefault(productName))
}

// AnalysisPrompt asks for the five labeled sections parsed by ParseAnalysis
func AnalysisPrompt(productName string) string {
	return fmt.Sprintf(`Analyze the ingredients in this %s image and provide:

1. **Ingredient List**: Extract all visible ingredients from the image
2. **Health Analysis**: Rate the overall healthiness (1-10 scale)
3. **Concerns**: List any potentially harmful ingredients or allergens
4. **Benefits**: List any beneficial ingredients
5. **Recommendations**: Suggest alternatives if needed

Please provide your response in a structured format with clear sections.`,
		productNameOrDefault(productName))
}

// comparisonEntry is the serialized form of a product inside the comparison prompt
type comparisonEntry struct {
	Name        string                  `json:"name"`
	Ingredients []string                `json:"ingredients"`
	Analysis    *domain.ProductAnalysis `json:"analysis"`
}

// ComparisonPrompt embeds the prior analyses of every product
func ComparisonPrompt(products []domain.Product) string {
	entries := make([]comparisonEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, comparisonEntry{
			Name:        p.Name,
			Ingredients: p.Ingredients,
			Analysis:    p.Analysis,
		})
	}

	// Marshal cannot fail for these plain types
	serialized, _ := json.MarshalIndent(entries, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "Compare these %d products based on their ingredient analyses:\n\n", len(products))
	b.Write(serialized)
	b.WriteString(`

For each category (health, sustainability, overall) name the winning product and give a one-sentence reason.
Finish with a short detailed analysis explaining the overall recommendation.`)
	return b.String()
}

func productNameOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return defaultProductName
	}
	return strings.TrimSpace(name)
}
