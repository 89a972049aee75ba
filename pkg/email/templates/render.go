// Package templates renders templ components into email bodies.
package templates

import (
	"context"
	"errors"
	"strings"

	"github.com/a-h/templ"
)

// ErrNilComponent is returned when Render is called without a component.
var ErrNilComponent = errors.New("templates: nil component")

// Render takes a templ.Component and renders it to a string suitable for
// email.SendEmailParams.BodyHTML.
//
// Parameters:
//   - ctx: The context for rendering the component
//   - tpl: The templ component to render
//
// Returns:
//   - string: The rendered HTML as a string
//   - error: Any error encountered during rendering
func Render(ctx context.Context, tpl templ.Component) (string, error) {
	if tpl == nil {
		return "", ErrNilComponent
	}
	var sb strings.Builder
	if err := tpl.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
