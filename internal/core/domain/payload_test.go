package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePayload_Scouts(t *testing.T) {
	in := ScoutsPayload{
		{UserID: 1, FirstName: "Ada", LastName: "Lovelace", Rank: "Star", Patrol: "Hawks"},
		{UserID: 2, FirstName: "Sam", LastName: "Carter", NickName: "SG"},
	}

	data, err := EncodePayload(in)
	require.NoError(t, err)

	out, err := DecodePayload(KindScouts, data)
	require.NoError(t, err)
	require.Equal(t, KindScouts, out.Kind())
	assert.Equal(t, in, out)
}

func TestEncodeDecodePayload_Unit(t *testing.T) {
	in := UnitPayload{Profile: UnitProfile{
		GUID: "abc-123",
		Name: "Troop 42",
		Key3: []Leader{{Position: "Scoutmaster", Name: "Pat Doe"}},
	}}

	data, err := EncodePayload(in)
	require.NoError(t, err)

	out, err := DecodePayload(KindUnit, data)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, in, out)
}

func TestDecodePayload_Events_Timestamps(t *testing.T) {
	start := time.Date(2025, 7, 4, 18, 0, 0, 0, time.UTC)
	in := EventsPayload{{ID: 9, Name: "Campout", StartsAt: start}}

	data, err := EncodePayload(in)
	require.NoError(t, err)

	out, err := DecodePayload(KindEvents, data)
	require.NoError(t, err)
	events := out.(EventsPayload)
	require.Len(t, events, 1)
	assert.True(t, events[0].StartsAt.Equal(start))
}

func TestEncodePayload_Nil(t *testing.T) {
	data, err := EncodePayload(nil)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDecodePayload_Empty(t *testing.T) {
	p, err := DecodePayload(KindAdults, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDecodePayload_UnknownKind(t *testing.T) {
	_, err := DecodePayload(Kind("bogus"), []byte(`[]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDecodePayload_Corrupt(t *testing.T) {
	_, err := DecodePayload(KindScouts, []byte(`{not json`))
	require.Error(t, err)
}
