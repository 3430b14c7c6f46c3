package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RequestStatus is the lifecycle state of a change request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

var allowedTransitions = map[RequestStatus][]RequestStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

// ParseRequestStatus accepts any casing of the three known states.
func ParseRequestStatus(raw string) (RequestStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("unknown request status %q", raw)
	}
}

// CanTransition reports whether a request may move from one state to another.
// Approved and Rejected are terminal.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsPending is shorthand used throughout the reconciler.
func (s RequestStatus) IsPending() bool {
	return s == StatusPending
}

// UnmarshalJSON normalises backend casing. Unknown values are kept verbatim so
// one odd row cannot break a whole listing; they never count as Pending.
func (s *RequestStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRequestStatus(raw)
	if err != nil {
		*s = RequestStatus(raw)
		return nil
	}
	*s = parsed
	return nil
}
