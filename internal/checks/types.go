package checks

import "encoding/json"

type AddressRequest struct {
	Street *string `json:"street"`
	City   *string `json:"city"`
	State  *string `json:"state"`
	Zip    *string `json:"zip"`
}

type IdentityRequest struct {
	SSN   *string `json:"ssn"`
	Email *string `json:"email"`
}

type Result struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

// Response is the envelope returned to the workflow. Body holds the
// serialized Result; callers parse it themselves.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// NewResponse wraps r in a 200 envelope. Rejections are reported in the
// body only.
func NewResponse(r Result) Response {
	body, _ := json.Marshal(r)
	return Response{StatusCode: 200, Body: string(body)}
}

func newResult(check string, approved bool) Result {
	outcome := "failed"
	if approved {
		outcome = "passed"
	}
	return Result{Approved: approved, Message: check + " validation " + outcome}
}
