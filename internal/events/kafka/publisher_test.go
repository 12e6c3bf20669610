package kafka

import (
	"reflect"
	"testing"

	"ledger/internal/events"
)

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"localhost:9092", []string{"localhost:9092"}},
		{" a:9092 , ,b:9092 ", []string{"a:9092", "b:9092"}},
	}
	for _, tt := range tests {
		if got := ParseBrokers(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseBrokers(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMessage(t *testing.T) {
	ev := events.NewDeletedEvent(12)

	msg, err := message(ev)
	if err != nil {
		t.Fatalf("message() error = %v", err)
	}
	if string(msg.Key) != "12" {
		t.Errorf("key = %q, want 12", msg.Key)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[0].Value) != string(events.TransactionDeleted) {
		t.Errorf("unexpected headers: %+v", msg.Headers)
	}

	decoded, err := events.FromJSON(msg.Value)
	if err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if decoded.EventID != ev.EventID {
		t.Errorf("event id = %q, want %q", decoded.EventID, ev.EventID)
	}
}

func TestNewPublisherDefaultTopic(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "")
	defer p.Close()
	if p.writer.Topic != DefaultTopic {
		t.Errorf("topic = %q, want %q", p.writer.Topic, DefaultTopic)
	}
}
