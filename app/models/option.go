package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownOptionType = errors.New("unknown option type")

// OptionSelection is one (option type, value) pair of a variation.
type OptionSelection struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OptionTypes is the ordered list of option types a variation selects from,
// e.g. Size and Colour.
type OptionTypes []string

func ParseOptionTypes(raw string) OptionTypes {
	var types OptionTypes
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			types = append(types, name)
		}
	}
	return types
}

func (ot OptionTypes) Has(name string) bool {
	for _, t := range ot {
		if t == name {
			return true
		}
	}
	return false
}

// Normalize returns selections as a fixed-width tuple in configured order.
// Types missing from selections get an empty value.
func (ot OptionTypes) Normalize(selections []OptionSelection) ([]OptionSelection, error) {
	values := make(map[string]string, len(selections))
	for _, s := range selections {
		if !ot.Has(s.Name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOptionType, s.Name)
		}
		if _, dup := values[s.Name]; dup {
			return nil, fmt.Errorf("option type %q selected twice", s.Name)
		}
		values[s.Name] = strings.TrimSpace(s.Value)
	}

	normalized := make([]OptionSelection, len(ot))
	for i, t := range ot {
		normalized[i] = OptionSelection{Name: t, Value: values[t]}
	}
	return normalized, nil
}

// Combinations returns the cartesian product of the given values per type, in
// configured order. Types without values contribute a single empty selection.
func (ot OptionTypes) Combinations(values map[string][]string) [][]OptionSelection {
	combos := [][]OptionSelection{{}}
	for _, t := range ot {
		choices := values[t]
		if len(choices) == 0 {
			choices = []string{""}
		}
		next := make([][]OptionSelection, 0, len(combos)*len(choices))
		for _, combo := range combos {
			for _, choice := range choices {
				c := make([]OptionSelection, len(combo), len(combo)+1)
				copy(c, combo)
				next = append(next, append(c, OptionSelection{Name: t, Value: choice}))
			}
		}
		combos = next
	}
	return combos
}

// OptionsKey identifies a combination so duplicates can be detected.
func OptionsKey(selections []OptionSelection) string {
	parts := make([]string, len(selections))
	for i, s := range selections {
		parts[i] = s.Name + "=" + s.Value
	}
	return strings.Join(parts, "|")
}
