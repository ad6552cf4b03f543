package adaptation

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

const CatalogEnv = "CATALOG_YAML"

// General tags listings that are not aimed at a specific need.
const General pdomain.Category = "general"

//go:embed catalog.yaml
var embeddedCatalog []byte

type Hotel struct {
	ID          string           `yaml:"id" json:"id"`
	Category    pdomain.Category `yaml:"category" json:"category"`
	Name        string           `yaml:"name" json:"name"`
	Location    string           `yaml:"location" json:"location"`
	Rating      float64          `yaml:"rating" json:"rating"`
	Price       string           `yaml:"price" json:"price"`
	Image       string           `yaml:"image" json:"image,omitempty"`
	Description string           `yaml:"description" json:"description"`
	Features    []string         `yaml:"features" json:"features"`
	Amenities   []string         `yaml:"amenities" json:"amenities"`
}

type Tour struct {
	ID          string           `yaml:"id" json:"id"`
	Category    pdomain.Category `yaml:"category" json:"category"`
	Name        string           `yaml:"name" json:"name"`
	Location    string           `yaml:"location" json:"location"`
	Duration    string           `yaml:"duration" json:"duration"`
	GroupSize   string           `yaml:"group_size" json:"group_size"`
	Price       string           `yaml:"price" json:"price"`
	Rating      float64          `yaml:"rating" json:"rating"`
	Image       string           `yaml:"image" json:"image,omitempty"`
	Description string           `yaml:"description" json:"description"`
	Highlights  []string         `yaml:"highlights" json:"highlights"`
}

type CareService struct {
	ID          string           `yaml:"id" json:"id"`
	Category    pdomain.Category `yaml:"category" json:"category"`
	Name        string           `yaml:"name" json:"name"`
	Duration    string           `yaml:"duration" json:"duration"`
	Price       string           `yaml:"price" json:"price"`
	Description string           `yaml:"description" json:"description"`
	Features    []string         `yaml:"features" json:"features"`
}

// Catalog is the static authored listing set. It is read-only after load.
type Catalog struct {
	Version      int           `yaml:"version"`
	Hotels       []Hotel       `yaml:"hotels"`
	Tours        []Tour        `yaml:"tours"`
	CareServices []CareService `yaml:"care_services"`
}

// LoadCatalog reads the override file named by CATALOG_YAML, falling back
// to the embedded catalog when it is unset or invalid.
func LoadCatalog(log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	if path := strings.TrimSpace(os.Getenv(CatalogEnv)); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			var cat *Catalog
			cat, err = ParseCatalog(data)
			if err == nil {
				log.Info("Loaded listing catalog override", "path", path, "hotels", len(cat.Hotels), "tours", len(cat.Tours), "care_services", len(cat.CareServices))
				return cat
			}
		}
		log.Warn("Listing catalog override failed; using embedded catalog", "path", path, "error", err)
	}
	cat, err := ParseCatalog(embeddedCatalog)
	if err != nil {
		// The embedded file ships with the binary.
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return cat
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	cat.normalize()
	return &cat, nil
}

func (c *Catalog) validate() error {
	if len(c.Hotels)+len(c.Tours)+len(c.CareServices) == 0 {
		return errors.New("catalog has no listings")
	}
	seen := map[string]bool{}
	check := func(kind, id, name string) error {
		if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s listing requires id and name", kind)
		}
		if seen[id] {
			return fmt.Errorf("duplicate listing id %q", id)
		}
		seen[id] = true
		return nil
	}
	for _, h := range c.Hotels {
		if err := check("hotel", h.ID, h.Name); err != nil {
			return err
		}
	}
	for _, t := range c.Tours {
		if err := check("tour", t.ID, t.Name); err != nil {
			return err
		}
	}
	for _, s := range c.CareServices {
		if err := check("care service", s.ID, s.Name); err != nil {
			return err
		}
	}
	return nil
}

// normalize maps listing tags through ParseCategory so authored aliases
// (e.g. low_vision) filter like their canonical tag. Untagged listings are
// general.
func (c *Catalog) normalize() {
	norm := func(raw pdomain.Category) pdomain.Category {
		if strings.EqualFold(strings.TrimSpace(string(raw)), string(General)) {
			return General
		}
		p := pdomain.ParseCategory(string(raw))
		if p == pdomain.None {
			return General
		}
		return p
	}
	for i := range c.Hotels {
		c.Hotels[i].Category = norm(c.Hotels[i].Category)
	}
	for i := range c.Tours {
		c.Tours[i].Category = norm(c.Tours[i].Category)
	}
	for i := range c.CareServices {
		c.CareServices[i].Category = norm(c.CareServices[i].Category)
	}
}
