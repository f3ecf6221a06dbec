package schemas

import "context"

// PageScanner fetches and evaluates one web page, returning a complete,
// renderable result. Implementations must degrade to the deterministic error
// result on failure rather than propagating a fault.
type PageScanner interface {
	CheckURL(ctx context.Context, url string) *ScoreResult
}

// DocumentAnalyzer evaluates one local document (PDF, Word, or plain text).
// The returned DocumentInfo may be nil when analysis failed outright.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, path, filename string) (*ScoreResult, *DocumentInfo)
}

// Advisor produces an optional AI advisory for an already-scored subject.
// Its output is attached to reports but never feeds back into scoring.
type Advisor interface {
	Advise(ctx context.Context, subject string, score int, findings []Finding) (*Advisory, error)
}
