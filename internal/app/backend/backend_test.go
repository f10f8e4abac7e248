package backend

import (
	"testing"

	"payroll/internal/platform/config"
)

func TestAssembleAttachesPublisherWhenBrokersConfigured(t *testing.T) {
	cfg := config.Config{
		PayslipDir:        t.TempDir(),
		KafkaBrokers:      []string{"localhost:9092"},
		KafkaPayslipTopic: "payroll.payslip.issued.v1",
	}
	b, err := Assemble(cfg, nil, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	defer b.Close()

	if b.Publisher == nil || b.kafka == nil {
		t.Fatal("expected a Kafka publisher when brokers are configured")
	}
	if b.Issuer == nil || b.Runner == nil || b.Jobs == nil || b.Jobs.Observer == nil {
		t.Fatalf("expected issuer, runner and observed jobs, got %+v", b)
	}
}

func TestAssembleWithoutBrokersHasNoPublisher(t *testing.T) {
	b, err := Assemble(config.Config{PayslipDir: t.TempDir()}, nil, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	defer b.Close()

	if b.Publisher != nil {
		t.Fatalf("expected no publisher, got %T", b.Publisher)
	}
	if b.Jobs.DB != nil {
		t.Fatal("expected run bookkeeping to be off without a database")
	}
}

func TestAssembleRejectsBadEncryptionKey(t *testing.T) {
	if _, err := Assemble(config.Config{DataEncryptionKey: "short"}, nil, nil); err == nil {
		t.Fatal("expected an invalid encryption key to fail")
	}
}
