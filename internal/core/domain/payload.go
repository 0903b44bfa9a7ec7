package domain

import (
	"encoding/json"
	"fmt"
)

// Payload is one domain's stored data. The cache engine treats payloads as
// opaque ordered collections; only the concrete variant knows its record type.
// Each Kind has exactly one payload variant.
type Payload interface {
	// Kind identifies which domain the payload belongs to.
	Kind() Kind

	// Len reports the number of records in the payload.
	Len() int
}

// ScoutsPayload is the youth roster payload.
type ScoutsPayload []Scout

func (p ScoutsPayload) Kind() Kind { return KindScouts }
func (p ScoutsPayload) Len() int   { return len(p) }

// AdultsPayload is the adult roster payload.
type AdultsPayload []Adult

func (p AdultsPayload) Kind() Kind { return KindAdults }
func (p AdultsPayload) Len() int   { return len(p) }

// EventsPayload is the calendar payload.
type EventsPayload []Event

func (p EventsPayload) Kind() Kind { return KindEvents }
func (p EventsPayload) Len() int   { return len(p) }

// RanksPayload is rank progress grouped by scout.
type RanksPayload []ScoutRanks

func (p RanksPayload) Kind() Kind { return KindRanks }
func (p RanksPayload) Len() int   { return len(p) }

// BadgesPayload is merit badge progress grouped by scout.
type BadgesPayload []ScoutBadges

func (p BadgesPayload) Kind() Kind { return KindBadges }
func (p BadgesPayload) Len() int   { return len(p) }

// UnitPayload is the unit profile payload. It always holds one record.
type UnitPayload struct {
	Profile UnitProfile `json:"profile"`
}

func (p UnitPayload) Kind() Kind { return KindUnit }
func (p UnitPayload) Len() int   { return 1 }

// EncodePayload serialises a payload for durable storage.
func EncodePayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", p.Kind(), err)
	}
	return data, nil
}

// DecodePayload deserialises a stored payload for the given kind.
// A nil or empty input yields a nil payload.
func DecodePayload(kind Kind, data []byte) (Payload, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var (
		p   Payload
		err error
	)
	switch kind {
	case KindScouts:
		var v ScoutsPayload
		err = json.Unmarshal(data, &v)
		p = v
	case KindAdults:
		var v AdultsPayload
		err = json.Unmarshal(data, &v)
		p = v
	case KindEvents:
		var v EventsPayload
		err = json.Unmarshal(data, &v)
		p = v
	case KindRanks:
		var v RanksPayload
		err = json.Unmarshal(data, &v)
		p = v
	case KindBadges:
		var v BadgesPayload
		err = json.Unmarshal(data, &v)
		p = v
	case KindUnit:
		var v UnitPayload
		err = json.Unmarshal(data, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", kind, err)
	}
	return p, nil
}
