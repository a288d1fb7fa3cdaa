package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation errors per field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|numeric|gte:18"}
type Rules map[string]string

// Validator validates a flat map of input values against Rules.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
}

// Make creates a new Validator.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	for field, ruleStr := range v.rules {
		value := v.data[field]

		for _, rule := range strings.Split(ruleStr, "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// Parse rule name and optional parameter: min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			fn, known := ruleTable[name]
			if !known {
				continue
			}
			if !fn(v, field, value, param) {
				break // stop at first failure per field
			}
		}
	}
}

// ── Rule table ───────────────────────────────────────────────────────────────

// ruleFunc checks one rule for a field. It records an error on failure
// and returns false to stop processing remaining rules for the field.
type ruleFunc func(v *Validator, field, value, param string) bool

// ruleTable is the fixed dispatch table of rule names, resolved once at
// package initialization.
var ruleTable map[string]ruleFunc

func init() {
	ruleTable = map[string]ruleFunc{
		"required": func(v *Validator, field, value, _ string) bool {
			if strings.TrimSpace(value) == "" {
				v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
				return false
			}
			return true
		},

		// Always passes; lets empty optional values flow through.
		"nullable": func(_ *Validator, _, _, _ string) bool { return true },

		// Skip remaining rules silently when the field is absent.
		"sometimes": func(_ *Validator, _, value, _ string) bool { return value != "" },

		"numeric": func(v *Validator, field, value, _ string) bool {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				v.errors.add(field, fmt.Sprintf("The %s must be a number.", field))
				return false
			}
			return true
		},

		"integer": func(v *Validator, field, value, _ string) bool {
			if _, err := strconv.Atoi(value); err != nil {
				v.errors.add(field, fmt.Sprintf("The %s must be an integer.", field))
				return false
			}
			return true
		},

		"boolean": func(v *Validator, field, value, _ string) bool {
			switch strings.ToLower(value) {
			case "true", "false", "1", "0", "yes", "no":
				return true
			}
			v.errors.add(field, fmt.Sprintf("The %s field must be true or false.", field))
			return false
		},

		"email": func(v *Validator, field, value, _ string) bool {
			if _, err := mail.ParseAddress(value); err != nil {
				v.errors.add(field, fmt.Sprintf("The %s must be a valid email address.", field))
				return false
			}
			return true
		},

		"url": func(v *Validator, field, value, _ string) bool {
			if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
				v.errors.add(field, fmt.Sprintf("The %s must be a valid URL.", field))
				return false
			}
			return true
		},

		"min": func(v *Validator, field, value, param string) bool {
			n, _ := strconv.Atoi(param)
			if utf8.RuneCountInString(value) < n {
				v.errors.add(field, fmt.Sprintf("The %s must be at least %d characters.", field, n))
				return false
			}
			return true
		},

		"max": func(v *Validator, field, value, param string) bool {
			n, _ := strconv.Atoi(param)
			if utf8.RuneCountInString(value) > n {
				v.errors.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
				return false
			}
			return true
		},

		"between": func(v *Validator, field, value, param string) bool {
			lo, hi, ok := strings.Cut(param, ",")
			if !ok {
				return true
			}
			min, _ := strconv.Atoi(strings.TrimSpace(lo))
			max, _ := strconv.Atoi(strings.TrimSpace(hi))
			l := utf8.RuneCountInString(value)
			if l < min || l > max {
				v.errors.add(field, fmt.Sprintf("The %s must be between %d and %d characters.", field, min, max))
				return false
			}
			return true
		},

		"in": func(v *Validator, field, value, param string) bool {
			for _, a := range strings.Split(param, ",") {
				if strings.TrimSpace(a) == value {
					return true
				}
			}
			v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
			return false
		},

		"confirmed": func(v *Validator, field, value, _ string) bool {
			if v.data[field+"_confirmation"] != value {
				v.errors.add(field, fmt.Sprintf("The %s confirmation does not match.", field))
				return false
			}
			return true
		},

		"alpha_num": func(v *Validator, field, value, _ string) bool {
			if !alphaNumRe.MatchString(value) {
				v.errors.add(field, fmt.Sprintf("The %s may only contain letters and numbers.", field))
				return false
			}
			return true
		},

		"regex": func(v *Validator, field, value, param string) bool {
			re, err := regexp.Compile(param)
			if err != nil || !re.MatchString(value) {
				v.errors.add(field, fmt.Sprintf("The %s format is invalid.", field))
				return false
			}
			return true
		},

		"gt":  numericCompare(func(f, t float64) bool { return f > t }, "greater than"),
		"gte": numericCompare(func(f, t float64) bool { return f >= t }, "greater than or equal to"),
		"lt":  numericCompare(func(f, t float64) bool { return f < t }, "less than"),
		"lte": numericCompare(func(f, t float64) bool { return f <= t }, "less than or equal to"),
	}
}

var alphaNumRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

func numericCompare(cmp func(f, t float64) bool, desc string) ruleFunc {
	return func(v *Validator, field, value, param string) bool {
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		if !cmp(f, t) {
			v.errors.add(field, fmt.Sprintf("The %s must be %s %s.", field, desc, param))
			return false
		}
		return true
	}
}
