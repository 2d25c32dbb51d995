package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(ctx context.Context, value []byte) error
}

// ConsumerConfig holds consumer settings.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	WorkerCount int
	BufferSize  int
	RetryMax    int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
}

// Consumer reads registered topics with a shared worker pool. Failed
// messages are retried with linear backoff and then dropped; offsets
// are committed by the group reader either way.
type Consumer struct {
	cfg      ConsumerConfig
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	msgChan  chan message
	stopOnce sync.Once
	stop     chan struct{}
	readerWg sync.WaitGroup
	workerWg sync.WaitGroup
	onError  func(topic string, err error)
}

type message struct {
	topic string
	value []byte
}

// NewConsumer creates a Kafka consumer with sane defaults.
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "default"
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 3
	}
	if cfg.BackoffMin <= 0 {
		cfg.BackoffMin = 50 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 2 * time.Second
	}
	return &Consumer{
		cfg:      cfg,
		readers:  make(map[string]*kafka.Reader),
		handlers: make(map[string]MessageHandler),
		msgChan:  make(chan message, cfg.BufferSize),
		stop:     make(chan struct{}),
	}, nil
}

// OnError installs a callback invoked when a message exhausts retries.
func (c *Consumer) OnError(fn func(topic string, err error)) { c.onError = fn }

// RegisterHandler registers a handler for its topic. Must be called
// before Start.
func (c *Consumer) RegisterHandler(h MessageHandler) {
	c.handlers[h.Topic()] = h
}

// Start launches the readers and worker pool.
func (c *Consumer) Start() error {
	if len(c.handlers) == 0 {
		return fmt.Errorf("no handlers registered")
	}
	for topic := range c.handlers {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers: c.cfg.Brokers,
			Topic:   topic,
			GroupID: c.cfg.GroupID,
		})
	}

	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.workerWg.Add(1)
		go c.worker()
	}
	for topic, reader := range c.readers {
		c.readerWg.Add(1)
		go c.readLoop(topic, reader)
	}
	return nil
}

// Stop shuts the consumer down, waiting up to ctx for in-flight work.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error
	c.stopOnce.Do(func() {
		close(c.stop)
		for _, reader := range c.readers {
			_ = reader.Close()
		}

		done := make(chan struct{})
		go func() {
			// The channel must not close while a read loop can still
			// send on it.
			c.readerWg.Wait()
			close(c.msgChan)
			c.workerWg.Wait()
			close(done)
		}()
		select {
		case <-ctx.Done():
			stopErr = fmt.Errorf("consumer stop: %w", ctx.Err())
		case <-done:
		}
	})
	return stopErr
}

func (c *Consumer) readLoop(topic string, reader *kafka.Reader) {
	defer c.readerWg.Done()
	for {
		m, err := reader.ReadMessage(context.Background())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			select {
			case <-c.stop:
				return
			case <-time.After(c.cfg.BackoffMin):
				continue
			}
		}
		select {
		case <-c.stop:
			return
		case c.msgChan <- message{topic: topic, value: m.Value}:
		}
	}
}

func (c *Consumer) worker() {
	defer c.workerWg.Done()
	for m := range c.msgChan {
		c.handle(m)
	}
}

func (c *Consumer) handle(m message) {
	handler, ok := c.handlers[m.topic]
	if !ok {
		return
	}
	var err error
	for attempt := 1; attempt <= c.cfg.RetryMax; attempt++ {
		err = handler.Handle(context.Background(), m.value)
		if err == nil {
			return
		}
		backoff := c.cfg.BackoffMin * time.Duration(attempt)
		if backoff > c.cfg.BackoffMax {
			backoff = c.cfg.BackoffMax
		}
		select {
		case <-c.stop:
			return
		case <-time.After(backoff):
		}
	}
	if c.onError != nil {
		c.onError(m.topic, err)
	}
}
