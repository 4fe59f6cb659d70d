package geocode_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollentracker/pollentracker/internal/geocode"
)

type fakeProvider struct {
	name  string
	addr  *geocode.Address
	err   error
	calls int
}

func (f *fakeProvider) ReverseGeocode(_ context.Context, _, _ float64, _ string) (*geocode.Address, error) {
	f.calls++
	return f.addr, f.err
}

func (f *fakeProvider) Name() string { return f.name }

func TestService_Resolve_PrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "primary", addr: &geocode.Address{City: "Moscow", Country: "Russia"}}
	secondary := &fakeProvider{name: "secondary"}

	svc := geocode.NewService(geocode.ServiceConfig{
		Primary:   primary,
		Secondary: secondary,
		Logger:    zerolog.Nop(),
	})

	addr, err := svc.Resolve(context.Background(), 55.75, 37.61, "en")
	require.NoError(t, err)
	assert.Equal(t, "Moscow", addr.City)
	assert.Equal(t, 0, secondary.calls)
}

func TestService_Resolve_FallsBackToSecondary(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("quota")}
	secondary := &fakeProvider{name: "secondary", addr: &geocode.Address{City: "Moscow", Country: "Russia"}}

	svc := geocode.NewService(geocode.ServiceConfig{
		Primary:   primary,
		Secondary: secondary,
		Logger:    zerolog.Nop(),
	})

	addr, err := svc.Resolve(context.Background(), 55.75, 37.61, "en")
	require.NoError(t, err)
	assert.Equal(t, "Moscow", addr.City)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestService_Resolve_AllProvidersFail(t *testing.T) {
	svc := geocode.NewService(geocode.ServiceConfig{
		Primary:   &fakeProvider{name: "primary", err: errors.New("down")},
		Secondary: &fakeProvider{name: "secondary", err: errors.New("down")},
		Logger:    zerolog.Nop(),
	})

	_, err := svc.Resolve(context.Background(), 55.75, 37.61, "en")
	assert.ErrorIs(t, err, geocode.ErrProviderUnavailable)
}

func TestService_DisplayName_FallsBackToCoordinates(t *testing.T) {
	svc := geocode.NewService(geocode.ServiceConfig{
		Primary: &fakeProvider{name: "primary", err: errors.New("down")},
		Logger:  zerolog.Nop(),
	})

	got := svc.DisplayName(context.Background(), 55.7558, 37.6173, "en")
	assert.Equal(t, "55.7558, 37.6173", got)
}

func TestFormatAddress_PriorityChain(t *testing.T) {
	tests := []struct {
		name string
		addr *geocode.Address
		want string
	}{
		{
			name: "city and country",
			addr: &geocode.Address{City: "Moscow", State: "Moscow Oblast", Country: "Russia"},
			want: "Moscow, Russia",
		},
		{
			name: "state and country",
			addr: &geocode.Address{State: "Bavaria", Country: "Germany"},
			want: "Bavaria, Germany",
		},
		{
			name: "country only",
			addr: &geocode.Address{Country: "France"},
			want: "France",
		},
		{
			name: "formatted truncated to two segments",
			addr: &geocode.Address{Formatted: "12 Main Street, Springfield, Illinois, USA"},
			want: "12 Main Street, Springfield",
		},
		{
			name: "short formatted kept whole",
			addr: &geocode.Address{Formatted: "Springfield, USA"},
			want: "Springfield, USA",
		},
		{
			name: "nothing usable",
			addr: &geocode.Address{},
			want: "",
		},
		{
			name: "nil address",
			addr: nil,
			want: "",
		},
		{
			name: "city without country falls to formatted",
			addr: &geocode.Address{City: "Moscow", Formatted: "Moscow"},
			want: "Moscow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geocode.FormatAddress(tt.addr))
		})
	}
}

func TestCoordinateLabel(t *testing.T) {
	assert.Equal(t, "55.7558, 37.6173", geocode.CoordinateLabel(55.75581, 37.61728))
}
