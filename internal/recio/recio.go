// Package recio reads crash-test recording containers and batch selection
// lists. The container is the JSON channel-dump format produced by the lab
// export tooling: recording-level properties plus a flat channel array, each
// channel carrying its own properties, timing, and samples.
package recio

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/crashlab/crashpulse/internal/contract"
)

// channelDoc is the on-disk form of one channel.
type channelDoc struct {
	Name        string            `json:"name"`
	Properties  map[string]string `json:"properties,omitempty"`
	Increment   float64           `json:"increment"`
	StartOffset float64           `json:"start_offset"`
	Samples     []float64         `json:"samples"`
}

// recordingDoc is the on-disk form of one recording.
type recordingDoc struct {
	TestNo     int64             `json:"test_no,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Channels   []channelDoc      `json:"channels"`
}

// Channel adapts one decoded channel to contract.Channel.
type Channel struct {
	doc *channelDoc
}

// Name implements contract.Channel.
func (c *Channel) Name() string { return c.doc.Name }

// Samples implements contract.Channel.
func (c *Channel) Samples() []float64 { return c.doc.Samples }

// Property implements contract.Channel.
func (c *Channel) Property(key string) (string, bool) {
	v, ok := c.doc.Properties[key]
	return v, ok
}

// PropertyKeys implements contract.Channel.
func (c *Channel) PropertyKeys() []string {
	keys := make([]string, 0, len(c.doc.Properties))
	for k := range c.doc.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Increment implements contract.Channel.
func (c *Channel) Increment() float64 { return c.doc.Increment }

// StartOffset implements contract.Channel.
func (c *Channel) StartOffset() float64 { return c.doc.StartOffset }

// Recording is a decoded recording container.
type Recording struct {
	doc      recordingDoc
	channels []contract.Channel
}

// TestNo returns the test number embedded in the container, 0 when absent.
func (r *Recording) TestNo() int64 { return r.doc.TestNo }

// Channels implements contract.Recording.
func (r *Recording) Channels() []contract.Channel { return r.channels }

// Property implements contract.Recording.
func (r *Recording) Property(key string) (string, bool) {
	v, ok := r.doc.Properties[key]
	return v, ok
}

// Decode parses a recording container from raw JSON bytes.
func Decode(data []byte) (*Recording, error) {
	var doc recordingDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	if len(doc.Channels) == 0 {
		return nil, fmt.Errorf("decode recording: no channels")
	}
	rec := &Recording{doc: doc}
	rec.channels = make([]contract.Channel, len(doc.Channels))
	for i := range rec.doc.Channels {
		rec.channels[i] = &Channel{doc: &rec.doc.Channels[i]}
	}
	return rec, nil
}

// Opener loads recording containers from the filesystem. It satisfies
// contract.RecordingOpener.
type Opener struct{}

// Open reads and decodes the container at path.
func (Opener) Open(path string) (contract.Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open recording %s: %w", path, err)
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("recording %s: %w", path, err)
	}
	return rec, nil
}
