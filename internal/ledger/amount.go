package ledger

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
)

// Amount é um valor inteiro sem sinal na menor unidade da moeda de liquidação.
// No JSON trafega como string decimal ("1000"), aceitando também número na entrada.
type Amount uint64

func (a Amount) String() string { return strconv.FormatUint(uint64(a), 10) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAmount converte uma string decimal em Amount
func ParseAmount(s string) (Amount, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount(v), nil
}

// Add soma com detecção de overflow
func (a Amount) Add(b Amount) (Amount, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return Amount(sum), nil
}

// Sub subtrai com detecção de underflow
func (a Amount) Sub(b Amount) (Amount, error) {
	diff, borrow := bits.Sub64(uint64(a), uint64(b), 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return Amount(diff), nil
}
