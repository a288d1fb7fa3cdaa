// Package validation provides rule-string based input validation.
//
// Rules are pipe-separated per field; each rule optionally takes a
// parameter after a colon. The rule set is a fixed table resolved at
// package initialization.
//
//	v := validation.Make(map[string]string{
//	    "name":  "Alice",
//	    "email": "alice@example.com",
//	    "age":   "32",
//	}, validation.Rules{
//	    "name":  "required|min:2|max:100",
//	    "email": "required|email",
//	    "age":   "required|numeric|gte:18",
//	})
//
//	if v.Fails() {
//	    errs := v.Errors()          // *validation.Errors
//	    first := errs.First("name") // first message for a field
//	}
//
// # Available rules
//
//	required          value must be non-empty
//	nullable          always passes (lets empty optionals through)
//	sometimes         skip remaining rules when the field is absent
//	numeric           parses as float
//	integer           parses as int
//	boolean           true/false/1/0/yes/no
//	email             RFC 5322 address
//	url               http:// or https:// prefix
//	min:N  max:N      rune-count bounds
//	between:A,B       rune-count range
//	in:a,b,c          allow-list
//	confirmed         data["field_confirmation"] must match
//	alpha_num         letters and digits only
//	regex:PATTERN     Go regexp match
//	gt gte lt lte     numeric comparison against the parameter
//
// Validation errors serialize as {"errors": {"field": ["msg", ...]}},
// matching Response.ValidationError's 422 payload.
package validation
