package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/broncoore/fsw/internal/command"
	"github.com/broncoore/fsw/internal/telem"
)

const (
	bufferSize   = 256
	commandQueue = 16
)

// RealPublisher talks to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
	log    logrus.FieldLogger
	cmds   chan Inbound

	mu      sync.Mutex
	offline *ringBuffer
}

// NewRealPublisher creates a publisher for the given broker. The initial
// connection is retried in the background; messages published before it
// succeeds are buffered.
func NewRealPublisher(broker, clientID string, log logrus.FieldLogger) *RealPublisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &RealPublisher{
		log:     log,
		cmds:    make(chan Inbound, commandQueue),
		offline: newRingBuffer(bufferSize, log),
	}

	will, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE", Reason: "LWT"})
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.WithError(err).Warn("mqtt: connection lost")
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// onConnect subscribes to commands and replays buffered messages.
func (p *RealPublisher) onConnect(c paho.Client) {
	p.log.Info("mqtt: connected")
	token := c.Subscribe(TopicCommands, 1, p.onCommand)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		p.log.WithError(token.Error()).Error("mqtt: subscribe to commands")
	}

	p.mu.Lock()
	msgs, dropped := p.offline.drainAll()
	p.mu.Unlock()
	if dropped > 0 {
		p.log.Warnf("mqtt: %d buffered messages were dropped while offline", dropped)
	}
	for _, m := range msgs {
		c.Publish(m.topic, m.qos, m.retained, m.payload)
	}
	if len(msgs) > 0 {
		p.log.Infof("mqtt: replayed %d buffered messages", len(msgs))
	}
}

// onCommand runs on a paho goroutine: it only decodes and enqueues.
func (p *RealPublisher) onCommand(_ paho.Client, m paho.Message) {
	in := decodeInbound(m.Payload())
	select {
	case p.cmds <- in:
	default:
		p.log.WithField("opcode", in.Req.Opcode).Warn("mqtt: command queue full")
		if in.Err != nil {
			return
		}
		// Waiting on a token inside a paho callback would stall the client.
		payload, err := command.Encode(in.Req.Respond(command.Busy))
		if err != nil {
			p.log.WithError(err).Warn("mqtt: format busy response")
			return
		}
		p.send(TopicResponses, 1, false, payload)
	}
}

// Commands delivers decoded inbound commands.
func (p *RealPublisher) Commands() <-chan Inbound {
	return p.cmds
}

// Telemetry publishes a sample without waiting for delivery.
func (p *RealPublisher) Telemetry(s telem.Sample) {
	payload, err := FormatTelemetry(s)
	if err != nil {
		p.log.WithError(err).Warn("mqtt: format telemetry")
		return
	}
	p.send(TopicTelemetry, 0, false, payload)
}

// Event publishes an event record without waiting for delivery.
func (p *RealPublisher) Event(e telem.Event) {
	payload, err := FormatEvent(e)
	if err != nil {
		p.log.WithError(err).Warn("mqtt: format event")
		return
	}
	p.send(TopicEvents, 1, false, payload)
}

func (p *RealPublisher) send(topic string, qos byte, retained bool, payload []byte) {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.offline.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return
	}
	token := p.client.Publish(topic, qos, retained, payload)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			p.log.WithError(err).WithField("topic", topic).Warn("mqtt: publish")
		}
	}()
}

// PublishResponse sends a command completion and waits for the broker.
// While disconnected the response is buffered for replay instead.
func (p *RealPublisher) PublishResponse(resp command.Response) error {
	payload, err := command.Encode(resp)
	if err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.offline.push(bufferedMsg{topic: TopicResponses, payload: payload, qos: 1})
		p.mu.Unlock()
		return nil
	}

	// QoS 1: the ground waits on every response
	token := p.client.Publish(TopicResponses, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish response timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish response: %w", err)
	}
	return nil
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
