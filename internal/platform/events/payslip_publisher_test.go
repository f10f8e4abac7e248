package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"payroll/internal/domain/payroll"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.msgs = append(c.msgs, msgs...)
	return c.err
}

func TestPublishPayslipIssued(t *testing.T) {
	w := &captureWriter{}
	pub := NewPayslipPublisher(w, "")
	pub.now = func() time.Time { return time.Date(2024, 3, 28, 10, 0, 0, 0, time.UTC) }

	payslip := payroll.Payslip{ID: 5, PayslipDraft: payroll.PayslipDraft{
		EmployeeID: 12,
		Month:      3,
		Year:       2024,
		IssuedOn:   time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC),
		Breakdown: payroll.Breakdown{
			GrossSalary:     decimal.RequireFromString("55000"),
			TotalDeductions: decimal.RequireFromString("9850.00"),
			NetSalary:       decimal.RequireFromString("45150.00"),
		},
	}}
	if err := pub.PublishPayslipIssued(context.Background(), payslip); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if msg.Topic != PayslipIssuedTopic || string(msg.Key) != "12" {
		t.Fatalf("unexpected topic/key %q/%q", msg.Topic, msg.Key)
	}
	if len(msg.Headers) == 0 || msg.Headers[0].Key != "event_type" || string(msg.Headers[0].Value) != PayslipIssuedType {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}

	var event PayslipIssuedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.PayslipID != 5 || event.IssuedOn != "2024-03-28" || !event.NetSalary.Equal(payslip.NetSalary) {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.EventID == "" {
		t.Fatal("expected event id")
	}
}

func TestPublishPayslipIssuedReturnsWriterError(t *testing.T) {
	w := &captureWriter{err: errors.New("leader not available")}
	pub := NewPayslipPublisher(w, "custom.topic")

	err := pub.PublishPayslipIssued(context.Background(), payroll.Payslip{ID: 1})
	if err == nil {
		t.Fatal("expected writer error")
	}
	if w.msgs[0].Topic != "custom.topic" {
		t.Fatalf("expected custom topic, got %q", w.msgs[0].Topic)
	}
}

func TestNewWriterFlushesSingleMessagesPromptly(t *testing.T) {
	w := NewWriter([]string{"kafka-1:9092", "kafka-2:9092"})
	defer w.Close()

	if w.BatchTimeout != 10*time.Millisecond {
		t.Fatalf("expected 10ms batch timeout, got %s", w.BatchTimeout)
	}
	if w.Async {
		t.Fatal("writes must stay synchronous so publish errors reach the caller")
	}
	if _, ok := w.Balancer.(*kafka.Hash); !ok {
		t.Fatalf("expected hash balancer, got %T", w.Balancer)
	}
	if w.RequiredAcks != kafka.RequireAll {
		t.Fatalf("expected RequireAll acks, got %v", w.RequiredAcks)
	}
}
