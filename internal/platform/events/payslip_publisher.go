package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"payroll/internal/domain/payroll"
)

const (
	PayslipIssuedTopic = "payroll.payslip.issued.v1"
	PayslipIssuedType  = "payroll.payslip.issued"
)

type PayslipIssuedEvent struct {
	EventID         string          `json:"eventId"`
	OccurredAt      time.Time       `json:"occurredAt"`
	PayslipID       int64           `json:"payslipId"`
	EmployeeID      int64           `json:"employeeId"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	IssuedOn        string          `json:"issuedOn"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// PayslipPublisher emits one Kafka message per stored payslip, keyed by employee so that
// events of one employee stay ordered within a partition.
type PayslipPublisher struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

var _ payroll.Publisher = (*PayslipPublisher)(nil)

func NewPayslipPublisher(writer MessageWriter, topic string) *PayslipPublisher {
	if topic == "" {
		topic = PayslipIssuedTopic
	}
	return &PayslipPublisher{writer: writer, topic: topic, now: time.Now}
}

// writerBatchTimeout bounds how long a synchronous single-message write waits for a batch to fill.
const writerBatchTimeout = 10 * time.Millisecond

func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           writerBatchTimeout,
		AllowAutoTopicCreation: true,
	}
}

func (p *PayslipPublisher) PublishPayslipIssued(ctx context.Context, payslip payroll.Payslip) error {
	event := PayslipIssuedEvent{
		EventID:         uuid.NewString(),
		OccurredAt:      p.now().UTC(),
		PayslipID:       payslip.ID,
		EmployeeID:      payslip.EmployeeID,
		Month:           payslip.Month,
		Year:            payslip.Year,
		IssuedOn:        payslip.IssuedOn.Format("2006-01-02"),
		GrossSalary:     payslip.GrossSalary,
		TotalDeductions: payslip.TotalDeductions,
		NetSalary:       payslip.NetSalary,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(payslip.EmployeeID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(PayslipIssuedType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	})
}
