package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileStore reads the product list from a YAML document (JSON is accepted as well).
//
//	products:
//	  - id: 1
//	    name: Obsidian Ceramic Vase
//	    category: home
//	    price: 189
//	    original_price: 240
//	    ...
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type fileProduct struct {
	ID            int      `yaml:"id"`
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category"`
	Price         float64  `yaml:"price"`
	OriginalPrice *float64 `yaml:"original_price"`
	Rating        float64  `yaml:"rating"`
	Reviews       int      `yaml:"reviews"`
	Badge         string   `yaml:"badge"`
	Description   string   `yaml:"description"`
	Details       []string `yaml:"details"`
	Images        []string `yaml:"images"`
	Tags          []string `yaml:"tags"`
}

type fileDoc struct {
	Products []fileProduct `yaml:"products"`
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

func (s *FileStore) Load(ctx context.Context) ([]Product, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return parseFile(raw)
}

func parseFile(raw []byte) ([]Product, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	out := make([]Product, 0, len(doc.Products))
	for _, fp := range doc.Products {
		p := Product{
			ID:          fp.ID,
			Name:        fp.Name,
			Category:    Category(fp.Category),
			Price:       decimal.NewFromFloat(fp.Price),
			Rating:      fp.Rating,
			ReviewCount: fp.Reviews,
			Badge:       fp.Badge,
			Description: fp.Description,
			Details:     fp.Details,
			Images:      fp.Images,
			Tags:        fp.Tags,
		}
		if fp.OriginalPrice != nil {
			p.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*fp.OriginalPrice))
		}
		out = append(out, p)
	}
	return out, nil
}
