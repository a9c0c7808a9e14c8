package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labelwise/backend/internal/domain"
	"github.com/labelwise/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareOptions holds the compare command flags
type compareOptions struct {
	mock       bool
	showPrompt bool
	names      []string
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare IMAGE IMAGE [IMAGE...]",
		Short: "Analyze label photos and compare the products",
		Long: `Reads each label photo from disk, extracts its ingredients, scores the
product and prints the comparison as JSON on stdout.

Product names default to the file name without extension; override them
in order with --name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.mock, "mock", false, "Use mock data instead of calling the AI provider")
	cmd.Flags().BoolVar(&opts.showPrompt, "show-prompt", false, "Print the comparison prompt built from the analyses to stderr")
	cmd.Flags().StringSliceVarP(&opts.names, "name", "n", nil, "Product names, in the same order as the images")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string, opts *compareOptions) error {
	// Rejected before any file is read or call is made
	if len(args) < 2 {
		return domain.ErrInsufficientProducts
	}

	images := make([]string, len(args))
	for i, path := range args {
		image, err := readImage(path)
		if err != nil {
			return err
		}
		images[i] = image
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.mock {
		cfg.Analysis.UseMockData = true
	}

	a := newApp(cfg, logger)
	defer a.close()

	ctx := cmd.Context()
	products := make([]domain.Product, 0, len(args))
	for i, path := range args {
		req := domain.ImageRequest{
			ImageData:   images[i],
			ProductName: productName(path, i, opts.names),
		}

		extracted := a.analysis.ExtractIngredients(ctx, req)
		analysis := a.analysis.AnalyzeProduct(ctx, req)

		logger.Debug("analyzed label",
			zap.String("file", path),
			zap.String("source", string(analysis.Provenance.Source)),
			zap.Bool("degraded", analysis.Provenance.Degraded))

		products = append(products, domain.Product{
			ID:          fmt.Sprintf("%d", i+1),
			Name:        req.ProductName,
			ImageURI:    "file://" + absPath(path),
			Ingredients: extracted.Ingredients,
			Analysis:    &analysis,
		})
	}

	if opts.showPrompt {
		fmt.Fprintln(cmd.ErrOrStderr(), usecase.ComparisonPrompt(products))
	}

	result, err := a.analysis.CompareProducts(ctx, products)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), result)
}

// readImage loads a file and returns it as a data URI. Anything that is not
// an image is an acquisition error.
func readImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%s (%s): %w", path, mtype.String(), domain.ErrNotAnImage)
	}

	return fmt.Sprintf("data:%s;base64,%s", mtype.String(), base64.StdEncoding.EncodeToString(data)), nil
}

func productName(path string, index int, names []string) string {
	if index < len(names) && strings.TrimSpace(names[index]) != "" {
		return strings.TrimSpace(names[index])
	}
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return fmt.Sprintf("Product %d", index+1)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
