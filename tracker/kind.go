package tracker

import (
	"fmt"
	"strings"
)

// Kind selects the tracking algorithm.
type Kind int

const (
	KindUndefined = Kind(iota)
	KindTemplate
	KindKCF
	KindCSRT
	KindMIL
	EndOfKind
)

func ParseKind(s string) (Kind, error) {
	for k := KindUndefined + 1; k < EndOfKind; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return KindUndefined, fmt.Errorf("unknown tracker kind '%s'", s)
}

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "<undefined>"
	case KindTemplate:
		return "template"
	case KindKCF:
		return "kcf"
	case KindCSRT:
		return "csrt"
	case KindMIL:
		return "mil"
	default:
		return fmt.Sprintf("unknown_tracker_kind_%d", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
