package build

import "errors"

// Sentinel domain errors used to classify pipeline failures. They are
// always wrapped with context at the call site.
var (
	ErrOutput  = errors.New("portfoliobuilder: output error")
	ErrContent = errors.New("portfoliobuilder: content error")
	ErrRender  = errors.New("portfoliobuilder: render error")
	ErrLinks   = errors.New("portfoliobuilder: link verification error")
	ErrState   = errors.New("portfoliobuilder: state error")
)
