package mqttsurface

import (
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/value"
)

type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type message struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeClient struct {
	sent []message
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, message{topic: topic, qos: qos, payload: payload.([]byte)})
	return newToken(c.err)
}

func TestFlushPublishesOneFrame(t *testing.T) {
	client := &fakeClient{}
	s := New(client, "motion/frames", WithQoS(1))

	s.Apply("box", "x", value.Pixels(10))
	s.Apply("box", "opacity", value.Number(0.5))
	s.Flush()

	if len(client.sent) != 1 {
		t.Fatalf("published %d messages, want 1", len(client.sent))
	}
	msg := client.sent[0]
	if msg.topic != "motion/frames" || msg.qos != 1 {
		t.Errorf("topic=%q qos=%d", msg.topic, msg.qos)
	}
	var f Frame
	if err := json.Unmarshal(msg.payload, &f); err != nil {
		t.Fatal(err)
	}
	if f.Seq != 1 || len(f.Writes) != 2 {
		t.Fatalf("frame = %+v", f)
	}
	want := Write{Element: "box", Property: "x", Value: "10px", Kind: "length"}
	if f.Writes[0] != want {
		t.Errorf("first write = %+v, want %+v", f.Writes[0], want)
	}
}

func TestEmptyFlushPublishesNothing(t *testing.T) {
	client := &fakeClient{}
	s := New(client, "t")
	s.Flush()
	if len(client.sent) != 0 || s.Seq() != 0 {
		t.Errorf("empty flush published %d messages", len(client.sent))
	}
}

func TestFlushReportsPublishErrors(t *testing.T) {
	h := &recorder{}
	prev := errors.SetHandler(h)
	defer errors.SetHandler(prev)

	client := &fakeClient{err: stderrors.New("broker gone")}
	s := New(client, "t")
	s.Apply("a", "x", value.Pixels(1))
	s.Flush()
	if len(h.errs) != 1 {
		t.Fatalf("reported %d errors, want 1", len(h.errs))
	}
	if h.errs[0].Op != "mqttsurface.Flush" {
		t.Errorf("Op = %q", h.errs[0].Op)
	}
}

func TestProperties(t *testing.T) {
	s := New(&fakeClient{}, "t", WithProperties(surface.NewPropertySet("x")))
	if !s.Supports("x") || s.Supports("opacity") {
		t.Error("WithProperties ignored")
	}
}

type recorder struct{ errs []*errors.MotionError }

func (r *recorder) HandleError(e *errors.MotionError) { r.errs = append(r.errs, e) }
func (r *recorder) HandlePanic(*errors.PanicError)    {}
