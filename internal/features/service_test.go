package features

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-lms/backend/internal/models"
)

type stubSettings struct {
	value string
	found bool
	err   error
}

func (s *stubSettings) Get(_ context.Context, key string) (*models.Setting, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.found {
		return nil, nil
	}
	return &models.Setting{Key: key, Value: s.value}, nil
}

func (s *stubSettings) Upsert(_ context.Context, key, value string) (*models.Setting, error) {
	s.value, s.found = value, true
	return &models.Setting{Key: key, Value: value}, nil
}

func TestIsEnabledParsesStoredValues(t *testing.T) {
	cases := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"on", false, true},
		{"YES", false, true},
		{" true ", false, true},
		{"false", true, false},
		{"0", true, false},
		{"off", true, false},
		{"no", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
		{"", true, true},
	}
	for _, tc := range cases {
		svc := NewService(&stubSettings{value: tc.value, found: true}, nil)
		got := svc.IsEnabled(context.Background(), FlagVideoProgressEnforcement, tc.def)
		assert.Equal(t, tc.want, got, "value %q with default %v", tc.value, tc.def)
	}
}

func TestIsEnabledAbsentFlagUsesDefault(t *testing.T) {
	svc := NewService(&stubSettings{found: false}, nil)

	assert.True(t, svc.IsEnabled(context.Background(), FlagVideoProgressEnforcement, true))
	assert.False(t, svc.IsEnabled(context.Background(), FlagVideoProgressEnforcement, false))
}

func TestIsEnabledStoreErrorUsesDefault(t *testing.T) {
	svc := NewService(&stubSettings{err: errors.New("db down")}, nil)

	assert.True(t, svc.IsEnabled(context.Background(), FlagVideoProgressEnforcement, true))
}

func TestFlagFlipTakesEffectImmediately(t *testing.T) {
	store := &stubSettings{value: "true", found: true}
	svc := NewService(store, nil)
	ctx := context.Background()

	assert.True(t, svc.IsEnabled(ctx, FlagVideoProgressEnforcement, true))

	_, err := store.Upsert(ctx, FlagVideoProgressEnforcement, "false")
	assert.NoError(t, err)
	assert.False(t, svc.IsEnabled(ctx, FlagVideoProgressEnforcement, true))
}
