package endpoints

import (
	"encoding/json"

	"github.com/cage1016/adder/pkg/addsvc/service"
)

type Request interface {
	validate() error
}

// AddRequest collects the request parameters for the Add method.
type AddRequest struct {
	Num1 service.Operand `json:"num1"`
	Num2 service.Operand `json:"num2"`
}

// UnmarshalJSON reads num1 and num2 by their exact key. Keys that only match
// case-insensitively, such as NUM1, leave the operand absent.
func (r *AddRequest) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	var req AddRequest
	for key, op := range map[string]*service.Operand{"num1": &req.Num1, "num2": &req.Num2} {
		if raw, ok := fields[key]; ok {
			if err := op.UnmarshalJSON(raw); err != nil {
				return err
			}
		}
	}
	*r = req
	return nil
}

// validate leaves presence checks to the service, which owns the missing
// input rules.
func (r AddRequest) validate() error {
	return nil
}

// StatusRequest is empty; the status endpoint takes no parameters.
type StatusRequest struct{}

func (r StatusRequest) validate() error {
	return nil
}
