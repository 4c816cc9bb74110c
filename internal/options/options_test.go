package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type encodeSettings struct {
	differential bool
	workers      int
	calls        []string
}

type settingOption = Option[*encodeSettings]

func withDifferential(on bool) settingOption {
	return NoError(func(s *encodeSettings) {
		s.differential = on
		s.calls = append(s.calls, "differential")
	})
}

func withWorkers(n int) settingOption {
	return New(func(s *encodeSettings) error {
		if n <= 0 {
			return errors.New("workers must be positive")
		}
		s.workers = n
		s.calls = append(s.calls, "workers")

		return nil
	})
}

func TestApply_InOrder(t *testing.T) {
	s := &encodeSettings{}

	err := Apply(s, withWorkers(4), withDifferential(true))
	require.NoError(t, err)
	require.True(t, s.differential)
	require.Equal(t, 4, s.workers)
	require.Equal(t, []string{"workers", "differential"}, s.calls)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	s := &encodeSettings{}

	err := Apply(s, withWorkers(0), withDifferential(true))
	require.EqualError(t, err, "workers must be positive")
	require.False(t, s.differential)
	require.Empty(t, s.calls)
}

func TestApply_SkipsNil(t *testing.T) {
	s := &encodeSettings{}

	require.NoError(t, Apply(s, nil, withDifferential(true)))
	require.True(t, s.differential)
}

func TestApply_NoOptions(t *testing.T) {
	s := &encodeSettings{workers: 1}

	require.NoError(t, Apply[*encodeSettings](s))
	require.Equal(t, 1, s.workers)
}
