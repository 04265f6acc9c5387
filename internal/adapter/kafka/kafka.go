package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt connects a [kgo.Client] producing to topic.
// A nil tlsCfg means plaintext.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsCfg *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsCfg != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsCfg))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// EmitterConfig describes the stream a goka emitter writes to.
type EmitterConfig struct {
	SeedBrokers []string
	Topic       string
	TLS         *tls.Config
}

func (c EmitterConfig) validate() error {
	if len(c.SeedBrokers) == 0 {
		return errors.New("seed brokers are empty")
	}
	if c.Topic == "" {
		return errors.New("topic is empty string")
	}
	return nil
}

func withNonlogEmitterOpt() goka.EmitterOption {
	return goka.WithEmitterLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func browseEventToSchemaV1(v domain.BrowseEvent) (s schema.BrowseEventV1) {
	s.Category = v.Criteria.Filter.Category
	s.MinPrice = v.Criteria.Filter.MinPrice
	s.MaxPrice = v.Criteria.Filter.MaxPrice
	s.SortAttribute = string(v.Criteria.Sort.Attribute)
	s.SortDirection = string(v.Criteria.Sort.Direction)
	s.Matched = int64(v.Matched)
	s.OccurredAt = v.OccurredAt.UTC()
	return
}

func catalogChangeToSchemaV1(v domain.CatalogChange) (s schema.CatalogChangeV1) {
	s.Kind = string(v.Kind)
	s.ProductID = v.ProductID
	s.OccurredAt = v.OccurredAt.UTC()
	return
}
