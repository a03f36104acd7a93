package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/series"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      series.Series
		wantErr error
	}{
		{"empty", nil, errors.ErrInsufficientData},
		{"single", series.Series{at(0, 1)}, errors.ErrInsufficientData},
		{"two", series.Series{at(0, 1), at(60, 2)}, nil},
		{"duplicate adjacent", series.Series{at(0, 1), at(60, 2), at(60, 3)}, errors.ErrDuplicateTimestamp},
		{"duplicate apart", series.Series{at(0, 1), at(60, 2), at(0, 3)}, errors.ErrDuplicateTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateDoesNotReorder(t *testing.T) {
	in := series.Series{at(60, 1), at(0, 2)}
	require.NoError(t, Validate(in))
	assert.Equal(t, int64(60000), in[0].TimestampMs())
}
