package domain

// Product is a single scanned label in a user's working set.
// Ingredients and Analysis are filled in after the product is created;
// a Product with a nil Analysis is valid but incomplete.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	ImageURI    string           `json:"imageUri"`
	Ingredients []string         `json:"ingredients"`
	Analysis    *ProductAnalysis `json:"analysis,omitempty"`
}

// ProductAnalysis holds the health and sustainability scoring for a product.
// Scores are integers in the 0-100 range.
type ProductAnalysis struct {
	HealthScore         int        `json:"healthScore"`
	SustainabilityScore int        `json:"sustainabilityScore"`
	OverallScore        int        `json:"overallScore"`
	HealthNotes         []string   `json:"healthNotes"`
	SustainabilityNotes []string   `json:"sustainabilityNotes"`
	Recommendation      string     `json:"recommendation"`
	Provenance          Provenance `json:"provenance"`
}

// Source identifies where a result came from.
type Source string

const (
	SourceMock   Source = "mock"
	SourceDirect Source = "direct"
	SourceProxy  Source = "proxy"
)

// Provenance records which transport produced a result and whether it is a
// fallback standing in for a failed remote call.
type Provenance struct {
	Source   Source `json:"source"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// IngredientsResult is the outcome of an ingredient extraction.
type IngredientsResult struct {
	Ingredients []string   `json:"ingredients"`
	Provenance  Provenance `json:"provenance"`
}

// CategoryVerdict names the winning product for one comparison category.
type CategoryVerdict struct {
	Winner Product `json:"winner"`
	Reason string  `json:"reason"`
}

// CategoryComparison groups the per-category verdicts.
type CategoryComparison struct {
	Health         CategoryVerdict `json:"health"`
	Sustainability CategoryVerdict `json:"sustainability"`
	Overall        CategoryVerdict `json:"overall"`
}

// ComparisonResult is derived from two or more analyzed products and is
// recomputed on every comparison request.
type ComparisonResult struct {
	Products         []Product          `json:"products"`
	Winner           Product            `json:"winner"`
	Comparison       CategoryComparison `json:"comparison"`
	DetailedAnalysis string             `json:"detailedAnalysis"`
	Degraded         bool               `json:"degraded"`
}

// ImageRequest carries a label image to the analysis pipeline.
type ImageRequest struct {
	// ImageData is raw base64 or a data URI ("data:image/jpeg;base64,...")
	ImageData   string
	ProductName string
	// AccessToken is forwarded to the proxy when present
	AccessToken string
}

// AddProductRequest is a new label scan submitted to a user's working set.
type AddProductRequest struct {
	Name      string `json:"name"`
	ImageData string `json:"imageData" binding:"required"`
	ImageURI  string `json:"imageUri"`
}
