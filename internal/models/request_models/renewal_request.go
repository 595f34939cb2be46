package request_models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type CreateRenewalRequest struct {
	CustomerID       string `json:"customer_id"`
	MembershipPlanID string `json:"membership_plan_id"`
	RenewalDate      string `json:"renewal_date"`
	Concept          string `json:"concept"`
	Amount           Amount `json:"amount"`
	MethodOfPayment  string `json:"method_of_payment"`
	ReceivedBy       string `json:"received_by"`
}

type RenewalFilter struct {
	CustomerID string `form:"customer_id"`
}

// Amount accepts a JSON number or a numeric string. Anything that does not
// parse becomes 0, matching how the payment form has always been read.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if b[0] != '"' {
		v, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			v = ParseAmount(string(b))
		}
		*a = Amount(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(ParseAmount(s))
	return nil
}

// ParseAmount reads a leading decimal number, ignoring a "$" sign and
// thousands separators. Unparseable input yields 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	end, dot := 0, false
scan:
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !dot:
			dot = true
		case end == 0 && (c == '-' || c == '+'):
		default:
			break scan
		}
		end++
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
