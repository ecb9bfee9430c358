package workflow

import "errors"

// Per-stage failure classes. Analysis, parse, plan, and mutate failures
// fail only their section; persist failures are hard failures because
// silent data loss is worse than a visible error.
var (
	ErrImageLoadFailed = errors.New("section image could not be loaded")
	ErrAnalysisFailed  = errors.New("model analysis failed")
	ErrPlanFailed      = errors.New("edit planning failed")
	ErrPersistFailed   = errors.New("persisting run output failed")
)
