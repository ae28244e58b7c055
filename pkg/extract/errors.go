package extract

import (
	"fmt"
)

// EmptyOutputError is returned when the model output is empty or whitespace only.
type EmptyOutputError struct{}

func (e *EmptyOutputError) Error() (msg string) {
	msg = "model output is empty"
	return msg
}

// NoJSONStartError is returned when the output contains no '{' at all.
type NoJSONStartError struct {
	Text string
}

func (e *NoJSONStartError) Error() (msg string) {
	msg = fmt.Sprintf("no JSON object start found in model output:\n%s", e.Text)
	return msg
}

// UnbalancedJSONError is returned when the brace walk reaches the end of the
// output before the first object closes.
type UnbalancedJSONError struct {
	Text string
}

func (e *UnbalancedJSONError) Error() (msg string) {
	msg = fmt.Sprintf("no complete JSON object found in model output:\n%s", e.Text)
	return msg
}

// JSONParseError is returned when the balanced candidate still fails to parse.
type JSONParseError struct {
	Candidate string
	Err       error
}

func (e *JSONParseError) Error() (msg string) {
	msg = fmt.Sprintf("could not parse JSON candidate:\n%s\nerror: %v", e.Candidate, e.Err)
	return msg
}

// Unwrap exposes the underlying decoder error.
func (e *JSONParseError) Unwrap() (err error) {
	err = e.Err
	return err
}

// Cause satisfies github.com/pkg/errors' causer.
func (e *JSONParseError) Cause() (err error) {
	err = e.Err
	return err
}

// NotObjectError is returned by Object when the recovered value is valid JSON
// but not a JSON object (an array, string, number...).
type NotObjectError struct {
	Text string
}

func (e *NotObjectError) Error() (msg string) {
	msg = fmt.Sprintf("model output is JSON but not an object:\n%s", e.Text)
	return msg
}
