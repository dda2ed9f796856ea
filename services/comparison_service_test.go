package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"menucompare/metrics"
	"menucompare/models"
	"menucompare/scraper"
	"menucompare/scraper/scrapertest"
)

const (
	zomatoDish       = "https://www.zomato.com/bangalore/pizza-palace-indiranagar/order/margherita"
	swiggyHome       = "https://www.swiggy.com"
	swiggyRestaurant = "https://www.swiggy.com/restaurants/pizza-palace-indiranagar-123"
)

func pizzaPages(targetPrice string) map[string]scrapertest.Page {
	return map[string]scrapertest.Page{
		zomatoDish: {
			Title: "Margherita Pizza - Pizza Palace - Zomato",
			Body:  "Margherita Pizza ₹349\nClassic cheese and tomato on a hand-tossed base\nDelivery in 30 minutes",
		},
		swiggyHome: {
			HasSearch: true,
			Results: map[string][]models.Anchor{
				"Pizza Palace": {
					{Text: "Swiggy One", Href: "/one"},
					{Text: "Pizza Palace", Href: swiggyRestaurant},
				},
			},
		},
		swiggyRestaurant: {
			Title: "Pizza Palace, Indiranagar | Swiggy",
			Body:  "Margherita Pizza " + targetPrice + "\nFresh basil and mozzarella on a thin crust\nGarlic Bread ₹149",
		},
	}
}

func newTestService(r scraper.Renderer, m *metrics.Registry) *ComparisonService {
	svc := NewComparisonService(r, nil, nil, m, DefaultOptions(), zap.NewNop())
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	svc.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 3 * time.Second)
	}
	return svc
}

func TestCompare_EndToEnd(t *testing.T) {
	renderer := scrapertest.NewRenderer(pizzaPages("₹299"))
	m := metrics.NewRegistry()
	svc := newTestService(renderer, m)

	res, err := svc.Compare(context.Background(), zomatoDish)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 3*time.Second, res.Duration)

	source, target := res.Records[0], res.Records[1]
	assert.Equal(t, models.PlatformZomato, source.Platform)
	assert.Equal(t, zomatoDish, source.URL)
	assert.Equal(t, "Margherita Pizza", source.ItemName)
	assert.Equal(t, "Pizza Palace", source.RestaurantName)
	require.NotNil(t, source.Price)
	assert.Equal(t, models.Money(349), *source.Price)

	assert.Equal(t, models.PlatformSwiggy, target.Platform)
	assert.Equal(t, swiggyRestaurant, target.URL)
	assert.Equal(t, "Margherita Pizza", target.ItemName)
	assert.Equal(t, "Pizza Palace", target.RestaurantName)
	require.NotNil(t, target.Price)
	assert.Equal(t, models.Money(299), *target.Price)

	require.NotNil(t, res.Cheapest)
	assert.Equal(t, models.PlatformSwiggy, *res.Cheapest)
	assert.Same(t, &res.Records[1], res.CheapestRecord())

	sessions := renderer.Sessions()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Closed())
	assert.Equal(t, []string{zomatoDish, swiggyHome, swiggyRestaurant}, sessions[0].Visited())
	assert.Equal(t, []string{"Pizza Palace"}, sessions[0].Submitted())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Comparisons.WithLabelValues(metrics.OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cheapest.WithLabelValues("swiggy")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestCompare_TargetRestaurantNotFound(t *testing.T) {
	pages := pizzaPages("₹299")
	delete(pages, swiggyHome)
	renderer := scrapertest.NewRenderer(pages)

	res, err := newTestService(renderer, nil).Compare(context.Background(), zomatoDish)
	require.NoError(t, err)

	target := res.Records[1]
	assert.Nil(t, target.Price)
	assert.False(t, target.HasURL())

	require.NotNil(t, res.Cheapest)
	assert.Equal(t, models.PlatformZomato, *res.Cheapest)
	assert.Same(t, &res.Records[0], res.CheapestRecord())
	assert.True(t, renderer.Sessions()[0].Closed())
}

func TestCompare_EqualPricesSourceWins(t *testing.T) {
	renderer := scrapertest.NewRenderer(pizzaPages("₹349"))

	res, err := newTestService(renderer, nil).Compare(context.Background(), zomatoDish)
	require.NoError(t, err)

	require.NotNil(t, res.Cheapest)
	assert.Equal(t, models.PlatformZomato, *res.Cheapest)
}

func TestCompare_SourceUnreachable(t *testing.T) {
	renderer := scrapertest.NewRenderer(map[string]scrapertest.Page{})

	res, err := newTestService(renderer, nil).Compare(context.Background(), zomatoDish)
	require.NoError(t, err)

	assert.Nil(t, res.Records[0].Price)
	assert.Nil(t, res.Records[1].Price)
	assert.Nil(t, res.Cheapest)
	assert.True(t, renderer.Sessions()[0].Closed())
}

func TestCompare_BlockedSourcePage(t *testing.T) {
	renderer := scrapertest.NewRenderer(map[string]scrapertest.Page{
		zomatoDish: {Title: "Access Denied", Body: "Access denied. Unusual traffic from your network."},
	})
	m := metrics.NewRegistry()

	res, err := newTestService(renderer, m).Compare(context.Background(), zomatoDish)
	require.NoError(t, err)

	assert.Nil(t, res.Records[0].Price)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BlockedPages.WithLabelValues("zomato", string(scraper.BlockBotWall))))
}

func TestCompare_RejectsWithoutRendering(t *testing.T) {
	tests := []struct {
		url    string
		reason RejectReason
	}{
		{"https://zoma.to/r/abc123", ReasonMobileDeepLink},
		{"https://swiggy.onelink.me/888564224/abc", ReasonMobileDeepLink},
		{"https://zomato.onelink.me/xyz", ReasonMobileDeepLink},
		{"https://onelink.me/abc", ReasonMobileDeepLink},
		{"https://www.ubereats.com/in/store/pizza-palace", ReasonUnsupportedDomain},
		{"", ReasonInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			renderer := scrapertest.NewRenderer(pizzaPages("₹299"))
			m := metrics.NewRegistry()

			res, err := newTestService(renderer, m).Compare(context.Background(), tt.url)
			assert.Nil(t, res)

			var rejected *InputRejectedError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, tt.reason, rejected.Reason)
			assert.Empty(t, renderer.Sessions())
			assert.Equal(t, 1.0, testutil.ToFloat64(m.Comparisons.WithLabelValues(metrics.OutcomeRejected)))
		})
	}
}

func TestCompare_RendererUnavailable(t *testing.T) {
	renderer := scrapertest.NewRenderer(nil)
	renderer.SessionErr = errors.New("chromium not found")

	res, err := newTestService(renderer, nil).Compare(context.Background(), zomatoDish)

	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRendererUnavailable))

	var rejected *InputRejectedError
	assert.False(t, errors.As(err, &rejected))
}

func TestCompare_RestaurantlessTitleSearchesByItem(t *testing.T) {
	renderer := scrapertest.NewRenderer(map[string]scrapertest.Page{
		zomatoDish: {Title: "Margherita Pizza", Body: "Margherita Pizza ₹349"},
		swiggyHome: {HasSearch: true},
	})

	_, err := newTestService(renderer, nil).Compare(context.Background(), zomatoDish)
	require.NoError(t, err)

	assert.Equal(t, []string{"Margherita Pizza"}, renderer.Sessions()[0].Submitted())
}
