package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDaysInclusive(t *testing.T) {
	assert.Equal(t, 1, DaysInclusive(day(t, "2024-01-01"), day(t, "2024-01-01")))
	assert.Equal(t, 14, DaysInclusive(day(t, "2024-01-01"), day(t, "2024-01-14")))
	assert.Equal(t, 91, DaysInclusive(day(t, "2024-03-01"), day(t, "2024-05-30")))

	// time-of-day on the inputs does not shift the count
	start := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysInclusive(start, end))
}

func TestDeliveryFeeBoundaries(t *testing.T) {
	cases := map[int]int64{0: 35, 7: 35, 8: 20, 12: 20, 17: 20, 18: 35, 23: 35}
	for hour, want := range cases {
		assert.Truef(t, decimal.NewFromInt(want).Equal(DeliveryFee(DeliveryDelivery, hour)), "hour %d", hour)
		assert.Truef(t, DeliveryFee(DeliverySelfPickup, hour).IsZero(), "pickup hour %d", hour)
	}
}

func TestDailyRateSelectsPeriod(t *testing.T) {
	r := Rates{ShortTerm: decimal.NewFromInt(45), LongTerm: decimal.NewFromInt(30)}
	assert.True(t, DailyRate(r, PeriodShortTerm).Equal(decimal.NewFromInt(45)))
	assert.True(t, DailyRate(r, PeriodLongTerm).Equal(decimal.NewFromInt(30)))
}

func TestQuoteShortTermSelfPickup(t *testing.T) {
	q := NewQuote(QuoteInput{
		Rates:    Rates{ShortTerm: decimal.NewFromInt(45), LongTerm: decimal.NewFromInt(30)},
		Period:   PeriodShortTerm,
		Start:    day(t, "2024-01-01"),
		End:      day(t, "2024-01-14"),
		Delivery: DeliverySelfPickup,
	})
	assert.Equal(t, 14, q.Days)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(630)))
	assert.True(t, q.Total.Equal(decimal.NewFromInt(1130)))
}

func TestQuoteLongTermEveningDelivery(t *testing.T) {
	q := NewQuote(QuoteInput{
		Rates:        Rates{ShortTerm: decimal.NewFromInt(45), LongTerm: decimal.NewFromInt(30)},
		Period:       PeriodLongTerm,
		Start:        day(t, "2024-03-01"),
		End:          day(t, "2024-05-30"),
		Delivery:     DeliveryDelivery,
		DeliveryHour: 19,
	})
	assert.Equal(t, 91, q.Days)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(2730)))
	assert.True(t, q.DeliveryFee.Equal(decimal.NewFromInt(35)))
	assert.True(t, q.Total.Equal(decimal.NewFromInt(3265)))
}

func TestQuoteTotalIsSumOfParts(t *testing.T) {
	rates := Rates{ShortTerm: decimal.RequireFromString("52.75"), LongTerm: decimal.RequireFromString("31.10")}
	for _, p := range []Period{PeriodShortTerm, PeriodLongTerm} {
		for hour := 0; hour < 24; hour++ {
			q := NewQuote(QuoteInput{Rates: rates, Period: p, Start: day(t, "2024-02-27"), End: day(t, "2024-03-02"), Delivery: DeliveryDelivery, DeliveryHour: hour})
			assert.True(t, q.Total.Equal(q.Subtotal.Add(q.DeliveryFee).Add(Deposit)))
			assert.Equal(t, 5, q.Days)
		}
	}
}

func TestParseClock(t *testing.T) {
	h, err := ParseClock("")
	require.NoError(t, err)
	assert.Equal(t, 12, h)

	h, err = ParseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, h)

	for _, bad := range []string{"24:00", "7", "ab:cd", "12:60"} {
		_, err := ParseClock(bad)
		assert.Errorf(t, err, "expected error for %q", bad)
	}
}

func TestTermsParse(t *testing.T) {
	rates := Rates{ShortTerm: decimal.NewFromInt(45), LongTerm: decimal.NewFromInt(30)}

	in, problems := Terms{Period: "ShortTerm", StartDate: "2024-01-01", EndDate: "2024-01-14", Delivery: "Delivery"}.Parse(rates)
	require.Nil(t, problems)
	assert.Equal(t, 12, in.DeliveryHour)
	assert.True(t, NewQuote(in).Total.Equal(decimal.NewFromInt(1150)))

	in, problems = Terms{Period: "LongTerm", StartDate: "2024-01-01", EndDate: "2024-01-01"}.Parse(rates)
	require.Nil(t, problems)
	assert.Equal(t, DeliverySelfPickup, in.Delivery)

	_, problems = Terms{Period: "Weekly", StartDate: "2024-02-10", EndDate: "2024-02-01", Delivery: "Drone", DeliveryTime: "noon"}.Parse(rates)
	assert.Contains(t, problems, "rental_period")
	assert.Contains(t, problems, "end_date")
	assert.Contains(t, problems, "delivery_option")
	assert.NotContains(t, problems, "delivery_time")

	_, problems = Terms{Period: "ShortTerm", StartDate: "2024-02-01", EndDate: "2024-02-10", Delivery: "Delivery", DeliveryTime: "25:00"}.Parse(rates)
	assert.Contains(t, problems, "delivery_time")
}
