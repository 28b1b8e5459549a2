// internal/rates/client_test.go
package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"payflow-wallet/internal/util"
)

func TestConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("IdentityConversionSkipsProvider", func(t *testing.T) {
		hits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		amount := decimal.NewFromFloat(123.45)
		quote, err := client.Convert(ctx, "USD", "USD", amount)

		assert.NoError(t, err)
		assert.True(t, quote.ConvertedAmount.Equal(amount))
		assert.True(t, quote.Rate.Equal(decimal.NewFromInt(1)))
		assert.Equal(t, 0, hits, "identity conversion must not call the provider")
	})

	t.Run("CrossCurrencyConversion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "USD", r.URL.Query().Get("from"))
			assert.Equal(t, "EUR", r.URL.Query().Get("to"))
			assert.Equal(t, "100", r.URL.Query().Get("amount"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"info":{"rate":0.92},"result":92}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		quote, err := client.Convert(ctx, "USD", "EUR", decimal.NewFromInt(100))

		assert.NoError(t, err)
		assert.True(t, quote.ConvertedAmount.Equal(decimal.NewFromInt(92)))
		assert.True(t, quote.Rate.Equal(decimal.NewFromFloat(0.92)))
	})

	t.Run("RateDerivedFromResultWhenMissing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"result":50}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		quote, err := client.Convert(ctx, "USD", "GBP", decimal.NewFromInt(100))

		assert.NoError(t, err)
		assert.True(t, quote.Rate.Equal(decimal.NewFromFloat(0.5)))
	})

	t.Run("ProviderErrorStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		_, err := client.Convert(ctx, "USD", "EUR", decimal.NewFromInt(100))

		assert.ErrorIs(t, err, util.ErrRateProvider)
	})

	t.Run("ProviderNonPositiveResult", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":false,"result":0}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		_, err := client.Convert(ctx, "USD", "EUR", decimal.NewFromInt(100))

		assert.ErrorIs(t, err, util.ErrRateProvider)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		client := NewClient("http://unused.example")
		_, err := client.Convert(ctx, "USD", "EUR", decimal.Zero)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}
