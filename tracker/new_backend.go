//go:build !with_cv
// +build !with_cv

package tracker

import (
	"context"
)

// NewBackend returns a fresh tracker of the given kind.
func NewBackend(ctx context.Context, kind Kind, templateParams TemplateParams) (Backend, error) {
	switch kind {
	case KindTemplate:
		return NewTemplate(templateParams), nil
	default:
		return nil, ErrBackendUnavailable{Kind: kind}
	}
}
