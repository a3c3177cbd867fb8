package eventbus

import (
	"encoding/json"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// RecordHandler is invoked for each well-formed procurement record.
type RecordHandler func(record *models.ProcurementRecord)

// Subscriber listens for incoming procurement records on NATS.
type Subscriber struct {
	conn         *nats.Conn
	subscription *nats.Subscription
	subject      string
	handler      RecordHandler
	validate     *validator.Validate
}

// NewSubscriber creates a new event bus subscriber. The handler runs on the
// NATS delivery goroutine.
func NewSubscriber(natsURL, subject string, handler RecordHandler) (*Subscriber, error) {
	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Risk analyser (Sub) connected to NATS at %s", natsURL)

	return &Subscriber{
		conn:     conn,
		subject:  subject,
		handler:  handler,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Start begins listening for procurement records
func (s *Subscriber) Start() error {
	var err error

	log.Printf("Subscribing to '%s' for procurement records...", s.subject)

	s.subscription, err = s.conn.Subscribe(s.subject, func(msg *nats.Msg) {
		s.handleRecord(msg)
	})

	if err != nil {
		return err
	}

	log.Printf("Subscribed to '%s'", s.subject)

	return nil
}

func (s *Subscriber) handleRecord(msg *nats.Msg) {
	log.Printf("Received procurement record (%d bytes)", len(msg.Data))

	var record models.ProcurementRecord
	if err := json.Unmarshal(msg.Data, &record); err != nil {
		log.Printf("Failed to unmarshal procurement record: %v", err)
		return
	}

	// Ingestion owns required-field validation; anything that slips through
	// without tender_id, department_id or a positive budget stops here.
	if err := s.validate.Struct(&record); err != nil {
		log.Printf("Rejected malformed record %q: %v", record.TenderID, err)
		return
	}

	s.handler(&record)
}

// Close unsubscribes and closes the NATS connection
func (s *Subscriber) Close() {
	if s.subscription != nil {
		s.subscription.Unsubscribe()
	}

	if s.conn != nil {
		s.conn.Close()
		log.Printf("Risk analyser disconnected from NATS")
	}
}

// IsConnected returns true if connected to NATS
func (s *Subscriber) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}
