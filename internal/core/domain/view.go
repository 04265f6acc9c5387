package domain

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// A View is the derived, filtered and sorted product sequence
// together with the catalog status it was computed in.
//
// Products is never nil. Err is set only when Status is [StatusError].
type View struct {
	Status   Status
	Products []Product
	Criteria Criteria
	Err      error
}

// NoMatches reports a ready catalog whose criteria match nothing.
func (v View) NoMatches() bool {
	return v.Status == StatusReady && len(v.Products) == 0
}
