package kafka

import (
	"context"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/internal/core/port"
	"github.com/niksmo/catalog-review/pkg/schema"
)

var _ port.CatalogChangesEmitter = (*CatalogChangesEmitter)(nil)

type gokaEmitter interface {
	EmitSync(key string, msg any) error
	Finish() error
}

// A CatalogChangesEmitter emits [domain.CatalogChange] messages to a goka
// stream keyed by product id.
type CatalogChangesEmitter struct {
	ge       gokaEmitter
	opPrefix string
}

func NewCatalogChangesEmitter(
	cfg EmitterConfig, serde Serde,
) (CatalogChangesEmitter, error) {
	const op = "NewCatalogChangesEmitter"

	if err := cfg.validate(); err != nil {
		return CatalogChangesEmitter{}, opErr(err, op)
	}

	gokaCfg := goka.DefaultConfig()
	if cfg.TLS != nil {
		gokaCfg.Net.TLS.Enable = true
		gokaCfg.Net.TLS.Config = cfg.TLS
	}

	ge, err := goka.NewEmitter(
		cfg.SeedBrokers,
		goka.Stream(cfg.Topic),
		newCatalogChangeCodec(serde),
		goka.WithEmitterProducerBuilder(
			goka.ProducerBuilderWithConfig(gokaCfg),
		),
		withNonlogEmitterOpt(),
	)
	if err != nil {
		return CatalogChangesEmitter{}, opErr(err, op)
	}

	return newCatalogChangesEmitter(ge), nil
}

func newCatalogChangesEmitter(ge gokaEmitter) CatalogChangesEmitter {
	return CatalogChangesEmitter{ge: ge, opPrefix: "CatalogChangesEmitter"}
}

func (e CatalogChangesEmitter) EmitChange(
	ctx context.Context, c domain.CatalogChange,
) error {
	const op = "EmitChange"

	if err := ctx.Err(); err != nil {
		return opErr(err, e.opPrefix, op)
	}

	s := catalogChangeToSchemaV1(c)
	if err := e.ge.EmitSync(s.ProductID, s); err != nil {
		return opErr(err, e.opPrefix, op)
	}
	return nil
}

func (e CatalogChangesEmitter) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(e.opPrefix, op))

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}

// A catalogChangeCodec used for serde [schema.CatalogChangeV1]
type catalogChangeCodec struct {
	serde Serde
}

func newCatalogChangeCodec(s Serde) catalogChangeCodec {
	return catalogChangeCodec{s}
}

func (c catalogChangeCodec) Encode(v any) ([]byte, error) {
	const op = "catalogChangeCodec.Encode"
	if _, ok := v.(schema.CatalogChangeV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c catalogChangeCodec) Decode(data []byte) (any, error) {
	const op = "catalogChangeCodec.Decode"
	var s schema.CatalogChangeV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}
