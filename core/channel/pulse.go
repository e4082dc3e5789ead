package channel

import (
	"strconv"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// Analysis window around the trigger. Pre-trigger data is kept for bias
// estimation; structural response past 250 ms is rebound.
const (
	windowStartS = -0.050
	windowEndS   = 0.250
)

// Metadata keys tried, in order, for the calibrated impact speed and angle.
var (
	speedKeys = []string{"INST_INIVEL", "TEST_CLSSPD", "VEH_VEHSPD", "CLOSING_SPEED"}
	angleKeys = []string{"TEST_IMPANG", "IMPANG", "IMPACT_ANGLE"}
)

// Pulse is the raw (time, acceleration) pair extracted for one test case,
// windowed and polarity-corrected, plus the metadata the processing stage
// and metrics need.
type Pulse struct {
	Channel schema.ChannelInfo
	TimeS   []float64
	AccelG  []float64

	ImpactVelocityKph float64 // 0 when no plausible metadata value exists
	ImpactAngleDeg    float64
}

// Load extracts the analysis pulse from a recording. A non-empty
// channelName selects that exact channel, bypassing scoring, unless the lab
// marked it unhealthy; otherwise the best vehicle accelerometer is chosen. The trace is windowed to
// -50ms..+250ms, roughly zeroed, and polarity-corrected so that
// deceleration is negative.
func Load(rec contract.Recording, channelName string) (*Pulse, error) {
	var ch contract.Channel
	var info schema.ChannelInfo
	var err error

	if channelName != "" {
		ch, err = FindByName(rec, channelName)
		if err == nil && !IsHealthy(ch) {
			// Lab-flagged channel; fall back to scoring like a missing name.
			ch = nil
		}
		if ch != nil {
			info = schema.ChannelInfo{Name: ch.Name(), LocationLabel: propertyValue(ch, "INST_INSCOM", "SENLOCD")}
		}
	}
	if ch == nil {
		ch, info, err = FindVehicleAccelChannel(rec)
	}
	if err != nil {
		return nil, err
	}

	timeS, err := timeVector(ch)
	if err != nil {
		return nil, err
	}
	raw := ch.Samples()

	// Window the trace.
	var wTime, wAccel []float64
	for i, t := range timeS {
		if t >= windowStartS && t <= windowEndS {
			wTime = append(wTime, t)
			wAccel = append(wAccel, raw[i])
		}
	}
	if len(wTime) < contract.MinSamples {
		return nil, contract.ErrDataTooShort
	}

	accel := preprocess(wTime, wAccel)

	return &Pulse{
		Channel:           info,
		TimeS:             wTime,
		AccelG:            accel,
		ImpactVelocityKph: metadataFloat(rec, ch, speedKeys, 1.0),
		ImpactAngleDeg:    metadataFloat(rec, ch, angleKeys, -1e9),
	}, nil
}

// timeVector builds the time axis from the channel's waveform increment and
// start offset.
func timeVector(ch contract.Channel) ([]float64, error) {
	dt := ch.Increment()
	if dt <= 0 {
		return nil, contract.ErrTimeVector
	}
	t0 := ch.StartOffset()
	n := len(ch.Samples())
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + float64(i)*dt
	}
	return out, nil
}

// preprocess removes a rough zero offset and fixes inverted polarity. Muted
// (exactly zero) samples are excluded from the offset estimate; the precise
// bias search happens later in the dsp stage. A deceleration pulse must
// integrate negative, so a positive-sum trace is flipped.
func preprocess(timeS, rawG []float64) []float64 {
	offset := 0.0
	var preImpact []float64
	for i, t := range timeS {
		if t < -0.005 && rawG[i] != 0.0 {
			preImpact = append(preImpact, rawG[i])
		}
	}
	if len(preImpact) > 10 {
		offset = mean(preImpact)
	} else {
		// No usable pre-impact segment; fall back to the first active
		// samples (tests whose recording starts at t=0).
		var active []float64
		for _, v := range rawG {
			if v != 0.0 {
				active = append(active, v)
				if len(active) == 20 {
					break
				}
			}
		}
		if len(active) > 0 {
			offset = mean(active)
		}
	}

	out := make([]float64, len(rawG))
	sum := 0.0
	for i, v := range rawG {
		out[i] = v - offset
		sum += out[i]
	}
	if sum > 0 {
		for i := range out {
			out[i] = -out[i]
		}
	}
	return out
}

// metadataFloat tries the given keys on the channel first, then on the
// recording, returning the first parseable value above the floor.
func metadataFloat(rec contract.Recording, ch contract.Channel, keys []string, floor float64) float64 {
	for _, key := range keys {
		if v, ok := ch.Property(key); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > floor {
				return f
			}
		}
		if v, ok := rec.Property(key); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > floor {
				return f
			}
		}
	}
	return 0.0
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
