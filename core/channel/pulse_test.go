package channel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashlab/crashpulse/internal/contract"
)

// pulseChannel builds a crossmember accelerometer whose trace is a 40 g
// half-sine recorded with inverted polarity and a 0.2 g static offset.
// Samples run from -100 ms to +300 ms at 10 kHz.
func pulseChannel() *stubChannel {
	const (
		fs  = 10000.0
		t0  = -0.100
		n   = 4001
		dur = 0.030
	)
	samples := make([]float64, n)
	for i := range samples {
		ts := t0 + float64(i)/fs
		samples[i] = 0.2
		if ts >= 0 && ts <= dur {
			samples[i] += 40.0 * math.Sin(math.Pi*ts/dur)
		}
	}
	return &stubChannel{
		name: "11XMEM000001ACXP",
		props: map[string]string{
			"INST_SENTYP": "AC",
			"INST_AXIS":   "XG",
			"INST_INSCOM": "REAR SEAT CROSSMEMBER",
			"INST_INIVEL": "50.0",
		},
		samples: samples,
		inc:     1.0 / fs,
		t0:      t0,
	}
}

// TestLoadAutoSelect verifies windowing, polarity correction, offset removal
// and metadata extraction on the auto-selected channel.
func TestLoadAutoSelect(t *testing.T) {
	rec := &stubRecording{chans: []contract.Channel{pulseChannel()}}

	pulse, err := Load(rec, "")
	require.NoError(t, err)

	// The -50..+250 ms window at 10 kHz keeps about 3001 samples.
	assert.InDelta(t, 3001, len(pulse.TimeS), 2)
	assert.Len(t, pulse.AccelG, len(pulse.TimeS))
	assert.InDelta(t, -0.050, pulse.TimeS[0], 1e-3)
	assert.InDelta(t, 0.250, pulse.TimeS[len(pulse.TimeS)-1], 1e-3)

	// Recorded positive, so the trace must come back flipped: deceleration
	// is negative, with the static offset gone.
	minV := 0.0
	for _, v := range pulse.AccelG {
		minV = math.Min(minV, v)
	}
	assert.InDelta(t, -40.0, minV, 1.0)
	assert.InDelta(t, 0.0, pulse.AccelG[0], 0.05)

	assert.Equal(t, 50.0, pulse.ImpactVelocityKph)
	assert.Equal(t, "11XMEM000001ACXP", pulse.Channel.Name)
	assert.Equal(t, 100, pulse.Channel.Score)
}

// TestLoadExactName verifies that naming a channel bypasses scoring.
func TestLoadExactName(t *testing.T) {
	rec := &stubRecording{chans: []contract.Channel{pulseChannel()}}

	pulse, err := Load(rec, "11XMEM000001ACXP")
	require.NoError(t, err)

	assert.Equal(t, "11XMEM000001ACXP", pulse.Channel.Name)
	assert.Zero(t, pulse.Channel.Score)
}

// TestLoadMissingNameFallsBack verifies that a bogus requested name falls
// back to auto-selection instead of failing the case.
func TestLoadMissingNameFallsBack(t *testing.T) {
	rec := &stubRecording{chans: []contract.Channel{pulseChannel()}}

	pulse, err := Load(rec, "NO_SUCH_CHANNEL")
	require.NoError(t, err)
	assert.Equal(t, "11XMEM000001ACXP", pulse.Channel.Name)
}

// TestLoadUnhealthyNameFallsBack verifies that naming a lab-flagged channel
// falls back to auto-selection rather than analyzing a bad trace.
func TestLoadUnhealthyNameFallsBack(t *testing.T) {
	bad := pulseChannel()
	bad.name = "11SILLRIRE01ACXP"
	bad.props["INST_INSCOM"] = "REAR SILL RIGHT - SENSOR FAILED"

	rec := &stubRecording{chans: []contract.Channel{bad, pulseChannel()}}

	pulse, err := Load(rec, "11SILLRIRE01ACXP")
	require.NoError(t, err)
	assert.Equal(t, "11XMEM000001ACXP", pulse.Channel.Name)
	assert.Equal(t, 100, pulse.Channel.Score)
}

// TestLoadRecordingLevelSpeed verifies the metadata fallback from channel
// properties to recording properties.
func TestLoadRecordingLevelSpeed(t *testing.T) {
	ch := pulseChannel()
	delete(ch.props, "INST_INIVEL")
	rec := &stubRecording{
		chans: []contract.Channel{ch},
		props: map[string]string{"TEST_CLSSPD": "56.3"},
	}

	pulse, err := Load(rec, "")
	require.NoError(t, err)
	assert.Equal(t, 56.3, pulse.ImpactVelocityKph)
}

// TestLoadErrors checks the per-case failure paths.
func TestLoadErrors(t *testing.T) {
	t.Run("no usable channel", func(t *testing.T) {
		rec := &stubRecording{chans: []contract.Channel{
			accelChannel("11ENGN000001ACXP", "ENGINE MOUNT"),
		}}
		_, err := Load(rec, "")
		assert.ErrorIs(t, err, contract.ErrChannelNotFound)
	})

	t.Run("bad increment", func(t *testing.T) {
		ch := pulseChannel()
		ch.inc = 0
		rec := &stubRecording{chans: []contract.Channel{ch}}
		_, err := Load(rec, "")
		assert.ErrorIs(t, err, contract.ErrTimeVector)
	})

	t.Run("too few samples in window", func(t *testing.T) {
		ch := pulseChannel()
		ch.samples = ch.samples[:5]
		rec := &stubRecording{chans: []contract.Channel{ch}}
		_, err := Load(rec, "")
		assert.ErrorIs(t, err, contract.ErrDataTooShort)
	})
}
