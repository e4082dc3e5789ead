// Package channel selects the vehicle-body longitudinal accelerometer from a
// multi-channel recording and prepares its trace for the processing stage.
package channel

import (
	"sort"
	"strings"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// blacklist holds description fragments that mark a channel as something
// other than a body-frame sensor: powertrain, barrier hardware, dummy body
// segments, seat rails, chassis components, dashboard, bumper, battery.
// DOOR is deliberately absent; vendor data frequently names sill-mounted
// sensors after the adjacent door.
var blacklist = []string{
	"ENGINE", "ENGN",
	"MDB", "BARRIER", "SLED",
	"DUMMY", "HEAD", "CHEST", "CHST", "NECK", "FEMUR", "TIBIA",
	"PELVIS", "PELV", "FOOT", "SPINE", "SPIN",
	"SEAT TRACK", "SEAT CUSHION",
	"STEER", "WHEEL", "WHEL", "BRAKE", "TIRE", "SUSP",
	"DASH", "INSTRUMENT",
	"BUMP", "BUMPER",
	"BAT", "BATT",
}

// invalidMarkers flag channels the test lab itself marked unreliable.
var invalidMarkers = []string{"FAIL", "QUESTION", "BAD", "ERROR"}

// candidate pairs a surviving channel with its mounting-location score.
type candidate struct {
	ch    contract.Channel
	score int
	loc   string
	order int
}

// propertyValue returns the uppercased value of the first channel property
// whose key contains any of the given fragments, case-insensitively. Vendor
// metadata keys are wildly inconsistent, so matching is by substring.
func propertyValue(ch contract.Channel, fragments ...string) string {
	for _, frag := range fragments {
		fragUpper := strings.ToUpper(frag)
		for _, key := range ch.PropertyKeys() {
			if strings.Contains(strings.ToUpper(key), fragUpper) {
				if v, ok := ch.Property(key); ok {
					return strings.ToUpper(v)
				}
			}
		}
	}
	return ""
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// FindByName returns the channel with the exact given name.
func FindByName(rec contract.Recording, name string) (contract.Channel, error) {
	for _, ch := range rec.Channels() {
		if ch.Name() == name {
			return ch, nil
		}
	}
	return nil, contract.ErrChannelNotFound
}

// IsHealthy checks channel metadata for failure or quality markers left by
// the test lab.
func IsHealthy(ch contract.Channel) bool {
	desc := propertyValue(ch, "DESCRIPTION", "INST_INSCOM", "COMMENT")
	return !containsAny(desc, invalidMarkers)
}

// FindVehicleAccelChannel scores every channel in the recording and returns
// the best vehicle-body longitudinal accelerometer.
//
// A channel survives when its combined description passes the blacklist, it
// is not mounted on the opposing vehicle, the lab has not flagged it
// unreliable, and it is tagged (or plausibly named) as an X-axis
// accelerometer. Survivors are ranked by structural
// mounting location: rear seat crossmember (100) > rear sill, including
// door-named sill aliases (95) > generic side sill (80) > B-pillar (70).
// Zero-score survivors are discarded; ties keep encounter order.
func FindVehicleAccelChannel(rec contract.Recording) (contract.Channel, schema.ChannelInfo, error) {
	var candidates []candidate

	for i, ch := range rec.Channels() {
		name := strings.ToUpper(strings.TrimSpace(ch.Name()))

		insCom := propertyValue(ch, "INST_INSCOM", "COMMENT", "DESCRIPTION")
		insAxis := propertyValue(ch, "INST_AXIS", "AXIS", "D1AXIS")
		senType := propertyValue(ch, "INST_SENTYP", "SENTYP", "TYPE")

		fullDesc := insCom + " " + name

		if containsAny(fullDesc, blacklist) {
			continue
		}
		// Channels on the opposing/target vehicle start with "20" or "MDB".
		if strings.HasPrefix(name, "20") || strings.HasPrefix(name, "MDB") {
			continue
		}
		if !IsHealthy(ch) {
			continue
		}

		if !isAccelerometer(senType, name) || !isLongitudinal(insAxis, name) {
			continue
		}

		score, loc := scoreLocation(fullDesc, name)
		if score > 0 {
			candidates = append(candidates, candidate{ch: ch, score: score, loc: loc, order: i})
		}
	}

	if len(candidates) == 0 {
		return nil, schema.ChannelInfo{}, contract.ErrChannelNotFound
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	best := candidates[0]
	return best.ch, schema.ChannelInfo{
		Name:          best.ch.Name(),
		LocationLabel: best.loc,
		Score:         best.score,
	}, nil
}

// isAccelerometer accepts the sensor-type tag or an AC marker in the name.
func isAccelerometer(senType, name string) bool {
	return strings.Contains(senType, "AC") ||
		strings.Contains(senType, "ACCEL") ||
		strings.Contains(name, "AC")
}

// isLongitudinal recognizes the X axis through the several naming
// conventions in circulation: an explicit axis tag, XG/LONG markers, or
// name-pattern heuristics (AC1, ACX, 1P suffix, _X, or an 11-prefixed
// accelerometer code).
func isLongitudinal(insAxis, name string) bool {
	if strings.Contains(insAxis, "XG") || strings.Contains(insAxis, "LONG") || insAxis == "X" {
		return true
	}
	if strings.Contains(name, "AC1") || strings.Contains(name, "ACX") ||
		strings.Contains(name, "1P") || strings.Contains(name, "_X") {
		return true
	}
	if strings.HasPrefix(name, "11") && strings.Contains(name, "AC") {
		return true
	}
	return false
}

// scoreLocation ranks the structural mounting location of a surviving
// channel. Body-frame sensors near the occupant compartment carry the most
// representative pulse, with rear mounts preferred over front.
func scoreLocation(fullDesc, name string) (int, string) {
	isSill := containsAny(fullDesc, []string{"SILL", "ROCKER", "DOOR"})
	isXmem := containsAny(fullDesc, []string{"CROSSMEMBER", "XMEM"})
	isPillar := containsAny(fullDesc, []string{"PILLAR", "POST", "BPLL"})

	isRear := strings.Contains(fullDesc, "REAR") ||
		strings.Contains(name, "LERE") || strings.Contains(name, "RIRE")

	switch {
	case isXmem && isRear:
		return 100, "Rear Seat Crossmember (" + name + ")"
	case isSill && isRear:
		return 95, "Rear Sill (" + name + ")"
	case isSill:
		return 80, "Side Sill (" + name + ")"
	case isPillar && (strings.Contains(fullDesc, "B-") || strings.Contains(name, "BPLL") || strings.Contains(fullDesc, "MID")):
		return 70, "B-Pillar (" + name + ")"
	default:
		return 0, ""
	}
}
