// Package signup orchestrates a subscription purchase across the billing
// and content providers.
//
// A Workflow run moves through start, billing, content and reconcile:
//
//	start ──charge──▶ billing ──provision──▶ content ──settle──▶ reconcile ──complete──▶ done
//	  │                  │                      │ └───────settle (existing account)──────▶ done
//	  └──────fail────────┴─────────fail─────────┴──▶ failed
//
// The whole run holds the idempotency guard for the buyer's email, so a
// double-submitted form fails fast with KindAlreadyPending instead of
// charging twice. The billing and content orchestrators take part in the
// same lease through the context.
//
// Failures are returned as *Error. Its Kind drives the HTTP status and its
// Message is the text shown to the buyer; billing failures say the card was
// not charged, content failures point to support because billing already
// went through. A failure to store the content cross-reference on the
// billing customer does not fail the signup; it is reported through
// Result.CrossReferenceErr.
package signup
