package models

import (
	"slices"
	"strings"
)

// ThesisType classifies a thesis
type ThesisType string

const (
	ThesisTypeBachelor ThesisType = "bachelor"
	ThesisTypeMaster   ThesisType = "master"
	ThesisTypeProject  ThesisType = "project"
	ThesisTypeOther    ThesisType = "other"
)

// ValidThesisTypes lists all valid thesis types
var ValidThesisTypes = []ThesisType{
	ThesisTypeBachelor,
	ThesisTypeMaster,
	ThesisTypeProject,
	ThesisTypeOther,
}

func (t ThesisType) IsValid() bool {
	return slices.Contains(ValidThesisTypes, t)
}

func (t ThesisType) String() string {
	return string(t)
}

// DisplayName returns the human readable label for the type
func (t ThesisType) DisplayName() string {
	switch t {
	case ThesisTypeBachelor:
		return "Bachelor Thesis"
	case ThesisTypeMaster:
		return "Master Thesis"
	case ThesisTypeProject:
		return "Project Work"
	default:
		return "Other"
	}
}

type thesisTypeRule struct {
	tokens []string
	result ThesisType
}

// thesisTypeRules maps free-form type tokens to canonical types. Rules are
// evaluated in order and the first hit wins.
var thesisTypeRules = []thesisTypeRule{
	{tokens: []string{"b", "bachelor", "bachelorarbeit", "ba", "bsc"}, result: ThesisTypeBachelor},
	{tokens: []string{"m", "master", "masterarbeit", "ma", "msc"}, result: ThesisTypeMaster},
	{tokens: []string{"p", "project", "projektarbeit", "proj"}, result: ThesisTypeProject},
}

// NormalizeThesisType maps a free-form type string to a canonical ThesisType.
// Unknown values map to "other".
func NormalizeThesisType(raw string) ThesisType {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return ThesisTypeOther
	}

	for _, rule := range thesisTypeRules {
		if slices.Contains(rule.tokens, token) {
			return rule.result
		}
	}
	return ThesisTypeOther
}
