// Package validator provides a catalog of self-contained validation
// rules and the aggregation machinery around them.
//
// A Rule is a configured predicate: Validate reports pass/fail for a
// value, Message renders the human-readable failure for a field. Rules
// are attached declaratively to the fields of a data-transfer shape and
// applied together; every rule of every field runs, and all failures are
// collected into one ValidationErrors value in field-declaration order,
// never one error per field.
//
//	errs := validator.Apply(input,
//	    validator.Field("name", validator.Required(), validator.LenBetween(3, 50)),
//	    validator.Field("email", validator.Required(), validator.Email()),
//	)
//	if len(errs) > 0 {
//	    // errs carries one entry per failing rule, with translation metadata
//	}
//
// Rules other than Required treat absent or empty values as passing, so
// optional fields only fail when present and malformed. Messages carry
// translation keys and values for use with ValidationErrors.Translate.
package validator
