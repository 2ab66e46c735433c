package jetstream_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/logger"
	"github.com/lilianna-roll/issuance/internal/mocks"
	"github.com/lilianna-roll/issuance/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testPublisherMocks contains all the mocks needed for testing the publisher
type testPublisherMocks struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func setupTestPublisher(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)
	return &testPublisherMocks{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}
}

var testConfig = jetstream.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "ISSUANCE_EVENTS",
	SubjectPrefix:  "issuance",
	MaxReconnects:  3,
	ReconnectWait:  time.Second,
	ConnectionName: "event-relay",
}

func TestNewPublisher_EnsuresStream(t *testing.T) {
	m := setupTestPublisher(t)

	m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cfg natsjs.StreamConfig) error {
			assert.Equal(t, "ISSUANCE_EVENTS", cfg.Name)
			assert.Equal(t, []string{"issuance.>"}, cfg.Subjects)
			assert.Equal(t, 10*time.Minute, cfg.Duplicates)
			return nil
		})

	pub, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
	require.NoError(t, err)
	require.NotNil(t, pub)
}

func TestNewPublisher_Errors(t *testing.T) {
	t.Run("connect failure", func(t *testing.T) {
		m := setupTestPublisher(t)
		m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(nil, nil, errors.New("no servers available"))

		_, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
		require.Error(t, err)
	})

	t.Run("stream failure closes connection", func(t *testing.T) {
		m := setupTestPublisher(t)
		m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(m.conn, m.js, nil)
		m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(errors.New("insufficient resources"))
		m.conn.EXPECT().Close()

		_, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
		require.Error(t, err)
	})

	t.Run("missing subject prefix", func(t *testing.T) {
		m := setupTestPublisher(t)
		cfg := testConfig
		cfg.SubjectPrefix = ""

		_, err := jetstream.NewPublisher(context.Background(), cfg, m.natsJS, adapter.NewJSON())
		require.Error(t, err)
	})
}

func TestPublisher_PublishEvent(t *testing.T) {
	m := setupTestPublisher(t)
	m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(nil)

	pub, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	index := uint64(0)
	event := &domain.Event{
		EventID:      "01JG8XAMPLE1234567890123456",
		EventType:    domain.EventTypeTokenIssued,
		Timestamp:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		CollectionID: 1,
		TokenID:      1,
		Index:        &index,
		Path:         domain.MintPathBuy,
		Recipient:    "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
	}

	t.Run("publishes to the event type subject", func(t *testing.T) {
		m.js.EXPECT().Publish(gomock.Any(), "issuance.token.issued", gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
				assert.Contains(t, string(data), `"event_id":"01JG8XAMPLE1234567890123456"`)
				assert.Len(t, opts, 1)
				return &natsjs.PubAck{Stream: "ISSUANCE_EVENTS", Sequence: 1}, nil
			})

		require.NoError(t, pub.PublishEvent(context.Background(), event))
	})

	t.Run("publish failure", func(t *testing.T) {
		m.js.EXPECT().Publish(gomock.Any(), "issuance.token.issued", gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		require.Error(t, pub.PublishEvent(context.Background(), event))
	})

	t.Run("marshal failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jsonMock := mocks.NewMockJSON(ctrl)
		jsonMock.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("boom"))

		m2 := setupTestPublisher(t)
		m2.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(m2.conn, m2.js, nil)
		m2.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(nil)
		pub2, err := jetstream.NewPublisher(context.Background(), testConfig, m2.natsJS, jsonMock)
		require.NoError(t, err)

		require.Error(t, pub2.PublishEvent(context.Background(), event))
	})
}

func TestPublisher_Close(t *testing.T) {
	m := setupTestPublisher(t)
	m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(nil)
	m.conn.EXPECT().Close()

	pub, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	select {
	case <-pub.CloseChan():
		t.Fatal("close channel should be open")
	default:
	}

	pub.Close()
	pub.Close()

	select {
	case <-pub.CloseChan():
	default:
		t.Fatal("close channel should be closed")
	}
}
