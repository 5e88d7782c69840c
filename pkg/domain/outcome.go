package domain

import (
	"fmt"
	"strings"
)

// Status of a relay run
type Status string

// enum of relay statuses
const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// Outcome summarizes a relay run
type Outcome struct {
	Status  Status
	Message string
	Sent    int
	Total   int
	Failed  []string // titles for posts, file names for uploads
}

// UploadsOutcome builds the outcome of an uploads batch. Transport failures are folded into
// failed entries, so the status is never StatusError.
func UploadsOutcome(sent, total int, failed []string) Outcome {
	status := StatusSuccess
	if sent != total {
		status = StatusPartial
	}
	return Outcome{
		Status:  status,
		Message: fmt.Sprintf("%d/%d files uploaded successfully", sent, total),
		Sent:    sent,
		Total:   total,
		Failed:  nonNil(failed),
	}
}

// PostsOutcome builds the outcome of a posts batch
func PostsOutcome(sent, total int, failed []string) Outcome {
	if len(failed) > 0 {
		return Outcome{
			Status:  StatusPartial,
			Message: fmt.Sprintf("Sent %d posts. Failed to send: %s", sent, strings.Join(failed, ", ")),
			Sent:    sent,
			Total:   total,
			Failed:  failed,
		}
	}
	return Outcome{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Successfully sent %d Reddit posts to Discord!", sent),
		Sent:    sent,
		Total:   total,
		Failed:  []string{},
	}
}

// ErrorOutcome builds the outcome of a run that failed as a whole
func ErrorOutcome(msg string) Outcome {
	return Outcome{Status: StatusError, Message: msg, Failed: []string{}}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
