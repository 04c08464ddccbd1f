package backend

import (
	"encoding/json"
	"fmt"

	"github.com/vijay-prabhu/gcgcards/internal/card"
)

// StatusOK is the status value of a successful response
const StatusOK = "ok"

// MsgUnparseable is the failure message for a body that is not JSON
const MsgUnparseable = "無法解析回應"

// Result is the decoded backend response: either Success or Failure
type Result interface {
	isResult()
}

// Success is a response with status "ok". Cards is empty for writes.
type Success struct {
	Cards []card.Card
}

// Failure is any response that is not a success, including bodies that
// could not be decoded at all (Malformed).
type Failure struct {
	Status    string
	Message   string
	Malformed bool
	Err       error // decode error when Malformed
}

func (Success) isResult() {}
func (Failure) isResult() {}

// Err converts a Failure into a *BackendError or *ProtocolError.
// It returns nil for a Success.
func Err(action string, r Result) error {
	f, ok := r.(Failure)
	if !ok {
		return nil
	}
	if f.Malformed {
		return &ProtocolError{Action: action, Err: f.Err}
	}
	return &BackendError{Action: action, Status: f.Status, Message: f.Message}
}

// Decode parses a response body. It never fails: anything that is not a
// well-formed success becomes a Failure. Keys are matched exactly, so a
// "STATUS" key is not a status.
func Decode(body []byte) Result {
	status, message, cards, err := decodeEnvelope(body)
	if err != nil {
		return Failure{
			Status:    "error",
			Message:   MsgUnparseable,
			Malformed: true,
			Err:       fmt.Errorf("decode response: %w", err),
		}
	}

	if status.String() != StatusOK {
		return Failure{Status: status.String(), Message: message.Shown()}
	}
	if cards == nil {
		cards = []card.Card{}
	}
	return Success{Cards: cards}
}

// decodeEnvelope splits {status, message, data} out of body
func decodeEnvelope(body []byte) (status, message card.Value, cards []card.Card, err error) {
	var env map[string]json.RawMessage
	if err = json.Unmarshal(body, &env); err != nil {
		return
	}

	if raw, ok := env["status"]; ok {
		if err = status.UnmarshalJSON(raw); err != nil {
			return
		}
	}
	if raw, ok := env["message"]; ok {
		if err = message.UnmarshalJSON(raw); err != nil {
			return
		}
	}

	raw, ok := env["data"]
	if !ok {
		return
	}
	var rows []json.RawMessage
	if err = json.Unmarshal(raw, &rows); err != nil {
		return
	}
	if rows == nil {
		return
	}
	cards = make([]card.Card, len(rows))
	for i, row := range rows {
		if cards[i], err = card.Decode(row); err != nil {
			err = fmt.Errorf("data[%d]: %w", i, err)
			return
		}
	}
	return
}
