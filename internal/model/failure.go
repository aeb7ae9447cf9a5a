package model

import "github.com/theodore-ai/theodore/internal/apperrors"

// Outcome is the discriminated result of analyzing one company (spec §7):
// exactly one of Success, PartialSuccess, or Failure.
type Outcome struct {
	Record   *CompanyRecord
	Warnings []string
	Failure  *Failure
}

// Failure describes a non-recoverable, exhausted-retry, or deadline-bound
// termination of an analyze() call.
type Failure struct {
	Kind    apperrors.Kind
	Message string
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	return string(f.Kind) + ": " + f.Message
}

// Success builds a successful Outcome.
func Success(record *CompanyRecord) Outcome {
	return Outcome{Record: record}
}

// PartialSuccess builds an Outcome with a usable record plus warnings about
// pages or fields that could not be obtained.
func PartialSuccess(record *CompanyRecord, warnings []string) Outcome {
	return Outcome{Record: record, Warnings: warnings}
}

// Fail builds a Failure-only Outcome.
func Fail(kind apperrors.Kind, message string) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Message: message}}
}

// IsFailure reports whether the outcome carries no usable record.
func (o Outcome) IsFailure() bool { return o.Record == nil && o.Failure != nil }
