package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/internal/core/port"
	"github.com/niksmo/catalog-review/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.BrowseEventsProducer = (*BrowseEventsProducer)(nil)

// A BrowseEventsProducer produces [domain.BrowseEvent] records keyed by
// the selected category.
type BrowseEventsProducer struct {
	cl       ProducerClient
	encoder  Encoder
	opPrefix string
}

func NewBrowseEventsProducer(
	opts ...ProducerOpt,
) (BrowseEventsProducer, error) {
	const op = "NewBrowseEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return BrowseEventsProducer{}, opErr(err, op)
		}
	}

	return newBrowseEventsProducer(options.cl, options.encoder), nil
}

func newBrowseEventsProducer(
	cl ProducerClient, encoder Encoder,
) BrowseEventsProducer {
	return BrowseEventsProducer{
		cl:       cl,
		encoder:  encoder,
		opPrefix: "BrowseEventsProducer",
	}
}

func (p BrowseEventsProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p BrowseEventsProducer) ProduceBrowseEvent(
	ctx context.Context, e domain.BrowseEvent,
) error {
	const op = "ProduceBrowseEvent"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(e)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p BrowseEventsProducer) createRecord(
	e domain.BrowseEvent,
) (*kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(e)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(s.Category), Value: b}, nil
}

func (BrowseEventsProducer) toSchema(e domain.BrowseEvent) schema.BrowseEventV1 {
	return browseEventToSchemaV1(e)
}
