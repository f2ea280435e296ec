// Package validation checks decoded request bodies against declarative
// schemas. A Schema is plain data; Validate is the only routine that reads it.
package validation

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"blog-service/apperror"
)

// FieldType is the JSON type a rule accepts.
type FieldType int

const (
	String FieldType = iota
	StringArray
)

// Rule describes the constraints on one body field. Min and Max count runes
// for strings and elements for arrays; MaxBytes caps the encoded length of a
// string. Zero means unbounded.
type Rule struct {
	Field    string
	Type     FieldType
	Required bool
	Min      int
	Max      int
	MaxBytes int
	Format   func(string) bool

	RequiredMsg string
	TypeMsg     string
	MinMsg      string
	MaxMsg      string
	FormatMsg   string
	ItemMsg     string
}

// Schema is a named rule table. MinFields > 0 requires at least that many
// known fields to be present in the body.
type Schema struct {
	Name         string
	Rules        []Rule
	MinFields    int
	MinFieldsMsg string
}

// Validate checks body against s and returns every violation found, in rule
// order followed by unknown fields. A nil result means the body is accepted.
func Validate(body map[string]any, s Schema) []apperror.FieldError {
	var errs []apperror.FieldError

	known := make(map[string]struct{}, len(s.Rules))
	present := 0

	for _, rule := range s.Rules {
		known[rule.Field] = struct{}{}

		value, ok := body[rule.Field]
		if !ok {
			if rule.Required {
				errs = append(errs, apperror.FieldError{Field: rule.Field, Message: rule.RequiredMsg})
			}
			continue
		}
		present++

		switch rule.Type {
		case String:
			errs = append(errs, checkString(rule, value)...)
		case StringArray:
			errs = append(errs, checkStringArray(rule, value)...)
		}
	}

	if s.MinFields > 0 && present < s.MinFields {
		errs = append(errs, apperror.FieldError{Field: "", Message: s.MinFieldsMsg})
	}

	var unknown []string
	for key := range body {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs = append(errs, apperror.FieldError{Field: key, Message: fmt.Sprintf(MsgNotAllowed, key)})
	}

	return errs
}

func checkString(rule Rule, value any) []apperror.FieldError {
	s, ok := value.(string)
	if !ok {
		return []apperror.FieldError{{Field: rule.Field, Message: rule.TypeMsg}}
	}
	if s == "" {
		return []apperror.FieldError{{Field: rule.Field, Message: emptyMsg(rule)}}
	}

	n := utf8.RuneCountInString(s)
	switch {
	case rule.Min > 0 && n < rule.Min:
		return []apperror.FieldError{{Field: rule.Field, Message: rule.MinMsg}}
	case rule.Max > 0 && n > rule.Max,
		rule.MaxBytes > 0 && len(s) > rule.MaxBytes:
		return []apperror.FieldError{{Field: rule.Field, Message: rule.MaxMsg}}
	case rule.Format != nil && !rule.Format(s):
		return []apperror.FieldError{{Field: rule.Field, Message: rule.FormatMsg}}
	}
	return nil
}

func checkStringArray(rule Rule, value any) []apperror.FieldError {
	items, ok := value.([]any)
	if !ok {
		return []apperror.FieldError{{Field: rule.Field, Message: rule.TypeMsg}}
	}

	var errs []apperror.FieldError
	if rule.Min > 0 && len(items) < rule.Min {
		errs = append(errs, apperror.FieldError{Field: rule.Field, Message: rule.MinMsg})
	}
	if rule.Max > 0 && len(items) > rule.Max {
		errs = append(errs, apperror.FieldError{Field: rule.Field, Message: rule.MaxMsg})
	}
	for i, item := range items {
		if s, ok := item.(string); !ok || s == "" {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("%s.%d", rule.Field, i),
				Message: rule.ItemMsg,
			})
		}
	}
	return errs
}

func emptyMsg(rule Rule) string {
	if rule.RequiredMsg != "" {
		return rule.RequiredMsg
	}
	return fmt.Sprintf(MsgEmpty, rule.Field)
}
