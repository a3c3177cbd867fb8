package eventbus

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// Publisher publishes finished analyses to NATS
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher creates a new event bus publisher
func NewPublisher(natsURL, subject string) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Risk analyser (Pub) connected to NATS at %s", natsURL)

	return &Publisher{
		conn:    conn,
		subject: subject,
	}, nil
}

// PublishAnalysis publishes a validated analysis to the analyses subject
func (p *Publisher) PublishAnalysis(analysis *models.RiskAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return err
	}

	log.Printf("Published analysis to event bus: [%s] %s (score: %.1f)",
		analysis.RiskLevel, analysis.ProcurementID, analysis.OverallRiskScore)

	return nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		log.Println("Risk analyser (Pub) disconnected from NATS")
	}
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}
