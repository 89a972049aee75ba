// Package validator provides rule-based validation with structured errors.
//
// A Rule pairs a check with the error reported when it fails. Apply runs rules
// in order and returns ValidationErrors listing every failure, so callers that
// only surface one message can use First:
//
//	err := validator.Apply(
//		validator.RequiredString("email", req.Email).WithMessage("Email missing"),
//		validator.ValidEmail("email", req.Email).WithMessage("Email address invalid"),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//		return ve.First()
//	}
package validator
