// Package mqttsurface streams animation frames to a remote renderer over
// MQTT. Every engine frame becomes one JSON message on a topic.
package mqttsurface

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/value"
)

// Publisher is the part of mqtt.Client a Surface needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Write is one property update inside a Frame.
type Write struct {
	Element  string `json:"element"`
	Property string `json:"property"`
	Value    string `json:"value"`
	Kind     string `json:"kind"`
}

// Frame is the message published once per engine frame.
type Frame struct {
	Seq    uint64  `json:"seq"`
	Writes []Write `json:"writes"`
}

// Surface buffers writes and publishes them as one Frame per Flush.
type Surface struct {
	client  Publisher
	topic   string
	qos     byte
	timeout time.Duration
	props   surface.PropertySet

	mu      sync.Mutex
	pending []Write
	seq     uint64
}

// Option configures a Surface.
type Option func(*Surface)

// WithQoS sets the MQTT quality of service. The default is 0.
func WithQoS(qos byte) Option {
	return func(s *Surface) { s.qos = qos }
}

// WithTimeout bounds how long Flush waits for the broker. The default is
// 100ms; frames that miss it are dropped and logged.
func WithTimeout(d time.Duration) Option {
	return func(s *Surface) { s.timeout = d }
}

// WithProperties restricts the supported properties.
func WithProperties(props surface.PropertySet) Option {
	return func(s *Surface) { s.props = props }
}

// New returns a Surface publishing to topic through client.
func New(client Publisher, topic string, opts ...Option) *Surface {
	s := &Surface{
		client:  client,
		topic:   topic,
		timeout: 100 * time.Millisecond,
		props:   surface.Standard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Supports implements surface.Surface.
func (s *Surface) Supports(property string) bool {
	return s.props.Supports(property)
}

// Apply implements surface.Surface by buffering the write until Flush.
func (s *Surface) Apply(el animation.ElementID, property string, v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, Write{
		Element:  string(el),
		Property: property,
		Value:    v.String(),
		Kind:     v.Kind().String(),
	})
}

// Flush implements surface.Flusher. It publishes buffered writes as one
// frame; an empty frame is not published.
func (s *Surface) Flush() {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	s.seq++
	frame := Frame{Seq: s.seq, Writes: s.pending}
	s.pending = nil
	s.mu.Unlock()

	payload, err := json.Marshal(frame)
	if err != nil {
		errors.Report(errors.New("mqttsurface.Flush", errors.KindBackend, err))
		return
	}
	token := s.client.Publish(s.topic, s.qos, false, payload)
	if !token.WaitTimeout(s.timeout) {
		log.Printf("motion: mqtt frame %d to %s timed out after %v", frame.Seq, s.topic, s.timeout)
		return
	}
	if err := token.Error(); err != nil {
		errors.Report(errors.New("mqttsurface.Flush", errors.KindBackend, err))
	}
}

// Seq returns the sequence number of the last published frame.
func (s *Surface) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Config holds broker connection settings.
type Config struct {
	URL      string `yaml:"url"`
	ClientID string `yaml:"clientID"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
}

// Dial connects to the broker described by cfg.
func Dial(cfg Config) (mqtt.Client, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "motion"
	}
	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(clientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetConnectTimeout(5 * time.Second)
	client := mqtt.NewClient(options)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, errors.New("mqttsurface.Dial", errors.KindBackend, err)
	}
	return client, nil
}
