package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type mockProducerClient struct {
	mock.Mock
}

func (c *mockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := c.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (c *mockProducerClient) Close() {
	c.Called()
}

type mockSerde struct {
	mock.Mock
}

func (s *mockSerde) Encode(v any) ([]byte, error) {
	args := s.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (s *mockSerde) Decode(data []byte, v any) error {
	args := s.Called(data, v)
	return args.Error(0)
}

type mockGokaEmitter struct {
	mock.Mock
}

func (e *mockGokaEmitter) EmitSync(key string, msg any) error {
	return e.Called(key, msg).Error(0)
}

func (e *mockGokaEmitter) Finish() error {
	return e.Called().Error(0)
}

func browseEvent() domain.BrowseEvent {
	c := domain.DefaultCriteria()
	c.Filter.Category = "Books"
	c.Filter.MinPrice = domain.Bound(8)
	c.Sort.Direction = domain.Descending
	return domain.BrowseEvent{
		Criteria:   c,
		Matched:    2,
		OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestBrowseEventsProducer(t *testing.T) {
	t.Run("Produce", func(t *testing.T) {
		cl := new(mockProducerClient)
		enc := new(mockSerde)
		e := browseEvent()
		want := schema.BrowseEventV1{
			Category:      "Books",
			MinPrice:      e.Criteria.Filter.MinPrice,
			SortAttribute: "price",
			SortDirection: "desc",
			Matched:       2,
			OccurredAt:    e.OccurredAt,
		}
		enc.On("Encode", want).Return([]byte("payload"), nil)
		cl.On("ProduceSync", t.Context(), mock.MatchedBy(
			func(rs []*kgo.Record) bool {
				return len(rs) == 1 &&
					string(rs[0].Key) == "Books" &&
					string(rs[0].Value) == "payload"
			},
		)).Return(kgo.ProduceResults{{}})

		p := newBrowseEventsProducer(cl, enc)
		require.NoError(t, p.ProduceBrowseEvent(t.Context(), e))
		cl.AssertExpectations(t)
		enc.AssertExpectations(t)
	})

	t.Run("EncodeFailure", func(t *testing.T) {
		cl := new(mockProducerClient)
		enc := new(mockSerde)
		encErr := errors.New("bad schema")
		enc.On("Encode", mock.Anything).Return(nil, encErr)

		p := newBrowseEventsProducer(cl, enc)
		err := p.ProduceBrowseEvent(t.Context(), browseEvent())
		require.ErrorIs(t, err, encErr)
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("BrokerFailure", func(t *testing.T) {
		cl := new(mockProducerClient)
		enc := new(mockSerde)
		brokerErr := errors.New("not enough replicas")
		enc.On("Encode", mock.Anything).Return([]byte("payload"), nil)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: brokerErr}})

		p := newBrowseEventsProducer(cl, enc)
		err := p.ProduceBrowseEvent(t.Context(), browseEvent())
		require.ErrorIs(t, err, brokerErr)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cl := new(mockProducerClient)
		enc := new(mockSerde)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		p := newBrowseEventsProducer(cl, enc)
		err := p.ProduceBrowseEvent(ctx, browseEvent())
		require.ErrorIs(t, err, context.Canceled)
		enc.AssertNotCalled(t, "Encode", mock.Anything)
	})

	t.Run("Close", func(t *testing.T) {
		cl := new(mockProducerClient)
		cl.On("Close").Return()
		newBrowseEventsProducer(cl, new(mockSerde)).Close()
		cl.AssertExpectations(t)
	})

	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewBrowseEventsProducer(ProducerEncoderOpt(new(mockSerde)))
		})
	})

	t.Run("NilEncoder", func(t *testing.T) {
		noClient := func(*producerOpts) error { return nil }
		_, err := NewBrowseEventsProducer(noClient, ProducerEncoderOpt(nil))
		require.Error(t, err)
	})
}

func TestCatalogChangesEmitter(t *testing.T) {
	change := domain.CatalogChange{
		Kind:       domain.ProductDeleted,
		ProductID:  "p1",
		OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("Emit", func(t *testing.T) {
		ge := new(mockGokaEmitter)
		ge.On("EmitSync", "p1", schema.CatalogChangeV1{
			Kind:       "product_deleted",
			ProductID:  "p1",
			OccurredAt: change.OccurredAt,
		}).Return(nil)

		e := newCatalogChangesEmitter(ge)
		require.NoError(t, e.EmitChange(t.Context(), change))
		ge.AssertExpectations(t)
	})

	t.Run("EmitFailure", func(t *testing.T) {
		ge := new(mockGokaEmitter)
		emitErr := errors.New("emitter stopped")
		ge.On("EmitSync", mock.Anything, mock.Anything).Return(emitErr)

		e := newCatalogChangesEmitter(ge)
		require.ErrorIs(t, e.EmitChange(t.Context(), change), emitErr)
	})

	t.Run("Close", func(t *testing.T) {
		ge := new(mockGokaEmitter)
		ge.On("Finish").Return(errors.New("flush timeout"))
		newCatalogChangesEmitter(ge).Close()
		ge.AssertExpectations(t)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		_, err := NewCatalogChangesEmitter(EmitterConfig{}, new(mockSerde))
		require.Error(t, err)

		_, err = NewCatalogChangesEmitter(
			EmitterConfig{SeedBrokers: []string{"localhost:9092"}},
			new(mockSerde),
		)
		require.Error(t, err)
	})
}

func TestCatalogChangeCodec(t *testing.T) {
	t.Run("RejectsForeignValue", func(t *testing.T) {
		c := newCatalogChangeCodec(new(mockSerde))
		_, err := c.Encode("product_deleted")
		require.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("Decode", func(t *testing.T) {
		serde := new(mockSerde)
		serde.On("Decode", []byte("raw"), mock.AnythingOfType("*schema.CatalogChangeV1")).
			Run(func(args mock.Arguments) {
				s := args.Get(1).(*schema.CatalogChangeV1)
				s.ProductID = "p1"
			}).
			Return(nil)

		v, err := newCatalogChangeCodec(serde).Decode([]byte("raw"))
		require.NoError(t, err)
		assert.Equal(t, "p1", v.(schema.CatalogChangeV1).ProductID)
	})
}
