package categorytree

import (
	"context"
	"fmt"
	"os"

	"ledgerkit/statement-csv/internal/logging"

	"gopkg.in/yaml.v3"
)

// SeedNode is one entry of a category seed file.
type SeedNode struct {
	Name     string     `yaml:"name"`
	Children []SeedNode `yaml:"children,omitempty"`
}

type seedFile struct {
	Categories []SeedNode `yaml:"categories"`
}

// LoadSeedFile reads a category taxonomy from a YAML file of the form:
//
//	categories:
//	  - name: Transport
//	    children:
//	      - name: Fuel
func LoadSeedFile(path string) ([]SeedNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return sf.Categories, nil
}

// Seed creates the given taxonomy under the owner's forest, skipping
// names that already exist under the same parent, so seeding is
// idempotent.
func (s *Service) Seed(ctx context.Context, nodes []SeedNode) error {
	cats, err := s.list(ctx, "category.seed")
	if err != nil {
		return err
	}

	existing := make(map[string]string) // parentKey+"/"+name -> id
	for _, c := range cats {
		existing[parentKey(c)+"/"+c.Name] = c.ID
	}

	var plant func(nodes []SeedNode, parentID *string) error
	plant = func(nodes []SeedNode, parentID *string) error {
		for _, n := range nodes {
			key := "/" + n.Name
			if parentID != nil {
				key = *parentID + "/" + n.Name
			}

			id, ok := existing[key]
			if !ok {
				created, err := s.Create(ctx, n.Name, parentID)
				if err != nil {
					return err
				}
				id = created.ID
				existing[key] = id
			}

			if err := plant(n.Children, &id); err != nil {
				return err
			}
		}
		return nil
	}

	if err := plant(nodes, nil); err != nil {
		return err
	}
	s.logger.Info("seeded category taxonomy", logging.F("roots", len(nodes)))
	return nil
}
