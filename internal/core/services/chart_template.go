package services

import (
	_ "embed"
	"fmt"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default_chart.yaml
var defaultChartYAML []byte

// chartEntry is one account of a chart template.
type chartEntry struct {
	Code        string             `yaml:"code"`
	Name        string             `yaml:"name"`
	Type        domain.AccountType `yaml:"type"`
	SubType     string             `yaml:"subType"`
	ParentCode  string             `yaml:"parentCode"`
	IsSystem    bool               `yaml:"isSystem"`
	Description string             `yaml:"description"`
}

type chartTemplate struct {
	Accounts []chartEntry `yaml:"accounts"`
}

// parseChartTemplate decodes a template and checks that codes are unique,
// types are valid and every parent appears before its children.
func parseChartTemplate(data []byte) ([]chartEntry, error) {
	var tmpl chartTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}
	if len(tmpl.Accounts) == 0 {
		return nil, fmt.Errorf("chart template has no accounts")
	}

	seen := make(map[string]bool, len(tmpl.Accounts))
	for i, e := range tmpl.Accounts {
		if e.Code == "" || e.Name == "" {
			return nil, fmt.Errorf("chart template entry %d: code and name are required", i)
		}
		if !e.Type.Valid() {
			return nil, fmt.Errorf("chart template entry %s: invalid type %q", e.Code, e.Type)
		}
		if seen[e.Code] {
			return nil, fmt.Errorf("chart template entry %s: duplicate code", e.Code)
		}
		if e.ParentCode != "" && !seen[e.ParentCode] {
			return nil, fmt.Errorf("chart template entry %s: parent %s must come first", e.Code, e.ParentCode)
		}
		seen[e.Code] = true
	}
	return tmpl.Accounts, nil
}

// defaultChart returns the embedded standard chart.
func defaultChart() ([]chartEntry, error) {
	return parseChartTemplate(defaultChartYAML)
}
