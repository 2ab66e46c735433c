package webhook_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilianna-roll/issuance/internal/mocks"
	"github.com/lilianna-roll/issuance/internal/webhook"
)

func TestNotifier_Notify(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 5, 0, time.UTC)
	cfg := webhook.Config{URL: "https://hooks.example.com/issuance", Secret: testSecret}

	t.Run("posts signed payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		httpClient := mocks.NewMockHTTPClient(ctrl)
		clock := mocks.NewMockClock(ctrl)
		clock.EXPECT().Now().Return(now)

		event := buildTestEvent("01JG8XAMPLE1234567890123456")
		httpClient.EXPECT().Post(gomock.Any(), cfg.URL, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, headers map[string]string, body []byte) ([]byte, error) {
				assert.Equal(t, event.EventID, headers[webhook.HeaderEventID])
				assert.Equal(t, "token.issued", headers[webhook.HeaderEventType])
				assert.Equal(t, strconv.FormatInt(now.Unix(), 10), headers[webhook.HeaderTimestamp])
				assert.True(t, webhook.Verify(testSecret, now.Unix(), event.EventID, body, headers[webhook.HeaderSignature]))
				return nil, nil
			})

		n := webhook.NewNotifier(cfg, httpClient, newSigner(), clock)
		require.NoError(t, n.Notify(context.Background(), event))
	})

	t.Run("delivery failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		httpClient := mocks.NewMockHTTPClient(ctrl)
		clock := mocks.NewMockClock(ctrl)
		clock.EXPECT().Now().Return(now)
		httpClient.EXPECT().Post(gomock.Any(), cfg.URL, gomock.Any(), gomock.Any()).Return(nil, errors.New("503"))

		n := webhook.NewNotifier(cfg, httpClient, newSigner(), clock)
		err := n.Notify(context.Background(), buildTestEvent("01JG8XAMPLE1234567890123456"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "01JG8XAMPLE1234567890123456")
	})
}
