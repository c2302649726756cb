package nsqfeed

import (
	"errors"
	"fmt"
	"log/slog"

	"relay/internal/core/ports"

	"github.com/nsqio/go-nsq"
)

var topics = []string{
	ports.TopicPackageChanged,
	ports.TopicTransitRecordsChanged,
	ports.TopicMovementsChanged,
}

type Config struct {
	NSQDAddress    string
	LookupdAddress string
	Channel        string
	MaxInFlight    int
}

// Subscriber runs one NSQ consumer per change feed topic.
type Subscriber struct {
	cfg       Config
	handler   *Handler
	logger    *slog.Logger
	consumers []*nsq.Consumer
}

func NewSubscriber(cfg Config, handler *Handler, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		cfg:     cfg,
		handler: handler,
		logger:  logger.With("component", "feed_subscriber"),
	}
}

// Start creates the consumers and connects them, through lookupd when an
// address is configured and directly to nsqd otherwise.
func (s *Subscriber) Start() error {
	if s.cfg.NSQDAddress == "" && s.cfg.LookupdAddress == "" {
		return errors.New("either an nsqd or an nsqlookupd address is required")
	}

	for _, topic := range topics {
		consumer, err := s.consume(topic)
		if err != nil {
			s.Stop()
			return err
		}
		s.consumers = append(s.consumers, consumer)
	}

	s.logger.Info("subscribed to change feed", "channel", s.cfg.Channel)
	return nil
}

func (s *Subscriber) consume(topic string) (*nsq.Consumer, error) {
	config := nsq.NewConfig()
	if s.cfg.MaxInFlight > 0 {
		config.MaxInFlight = s.cfg.MaxInFlight
	}

	consumer, err := nsq.NewConsumer(topic, s.cfg.Channel, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ consumer for %s: %w", topic, err)
	}
	consumer.SetLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn), nsq.LogLevelWarning)

	consumer.AddHandler(nsq.HandlerFunc(func(message *nsq.Message) error {
		s.handler.Handle(topic, message.Body)
		return nil
	}))

	if s.cfg.LookupdAddress != "" {
		err = consumer.ConnectToNSQLookupd(s.cfg.LookupdAddress)
	} else {
		err = consumer.ConnectToNSQD(s.cfg.NSQDAddress)
	}
	if err != nil {
		consumer.Stop()
		return nil, fmt.Errorf("failed to connect NSQ consumer for %s: %w", topic, err)
	}

	return consumer, nil
}

// Stop disconnects every consumer and waits for in-flight handlers.
func (s *Subscriber) Stop() {
	for _, c := range s.consumers {
		c.Stop()
		<-c.StopChan
	}
	s.consumers = nil
}
