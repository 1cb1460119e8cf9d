package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// ErrorKind tells which stage of a search request failed.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindHTTPStatus ErrorKind = "http-status"
	KindParse      ErrorKind = "parse"
)

// SearchError is returned for every failed search. The UI treats all kinds alike.
type SearchError struct {
	Kind ErrorKind
	// StatusCode is set for KindHTTPStatus.
	StatusCode int
	Err        error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("failed to search repositories (%s): %v", e.Kind, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

func classify(err error) *SearchError {
	var (
		errResp    *github.ErrorResponse
		rateErr    *github.RateLimitError
		abuseErr   *github.AbuseRateLimitError
		accepted   *github.AcceptedError
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		statusCode int
	)
	switch {
	case errors.As(err, &errResp):
		statusCode = responseStatus(errResp.Response)
	case errors.As(err, &rateErr):
		statusCode = responseStatus(rateErr.Response)
	case errors.As(err, &abuseErr):
		statusCode = responseStatus(abuseErr.Response)
	case errors.As(err, &accepted):
		statusCode = http.StatusAccepted
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &SearchError{Kind: KindParse, Err: err}
	default:
		return &SearchError{Kind: KindNetwork, Err: err}
	}
	return &SearchError{Kind: KindHTTPStatus, StatusCode: statusCode, Err: err}
}

func responseStatus(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
