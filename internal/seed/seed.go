// Package seed holds the default dataset used when nothing has been persisted
// yet: the app's user profile, the starter listings and the category list.
package seed

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/lostmate/internal/model"
)

//go:embed seed.yaml
var defaultYAML []byte

// Dataset is a parsed seed fixture.
type Dataset struct {
	User       model.User   `yaml:"user"`
	Categories []string     `yaml:"categories"`
	Items      []model.Item `yaml:"items"`
}

// Clone returns a deep copy so callers can mutate the result freely.
func (d Dataset) Clone() Dataset {
	return Dataset{
		User:       d.User,
		Categories: append([]string(nil), d.Categories...),
		Items:      append([]model.Item(nil), d.Items...),
	}
}

// Parse decodes a seed fixture.
func Parse(data []byte) (Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Dataset{}, fmt.Errorf("parsing seed: %w", err)
	}
	if d.User.ID == "" {
		return Dataset{}, fmt.Errorf("parsing seed: user id missing")
	}
	return d, nil
}

var (
	defaultOnce sync.Once
	defaultSet  Dataset
)

// Default returns the embedded dataset. The fixture is compiled in, so a parse
// failure is a programming error and panics.
func Default() Dataset {
	defaultOnce.Do(func() {
		d, err := Parse(defaultYAML)
		if err != nil {
			panic(err)
		}
		defaultSet = d
	})
	return defaultSet.Clone()
}
