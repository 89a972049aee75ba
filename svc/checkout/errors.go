package checkout

import (
	"net/http"

	"github.com/dmitrymomot/signup/handler"
)

var (
	ErrPlanNotFound   = handler.NewHTTPError(http.StatusNotFound, "Plan not found")
	ErrCouponNotFound = handler.NewHTTPError(http.StatusNotFound, "Coupon not found")

	ErrPlanUnavailable   = handler.NewHTTPError(http.StatusInternalServerError, "Failed to provide stripe plan details.")
	ErrCouponUnavailable = handler.NewHTTPError(http.StatusInternalServerError, "Failed to provide stripe coupon details.")
)
