// Package pricing holds the rental fee rules. Everything here is pure.
package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period selects which of a car's two daily rates applies.
type Period string

const (
	PeriodShortTerm Period = "ShortTerm"
	PeriodLongTerm  Period = "LongTerm"
)

func (p Period) IsValid() bool {
	return p == PeriodShortTerm || p == PeriodLongTerm
}

// DeliveryOption is how the car reaches the customer.
type DeliveryOption string

const (
	DeliverySelfPickup DeliveryOption = "SelfPickup"
	DeliveryDelivery   DeliveryOption = "Delivery"
)

func (o DeliveryOption) IsValid() bool {
	return o == DeliverySelfPickup || o == DeliveryDelivery
}

const (
	// DefaultDeliveryTime is used when a delivery booking omits a time.
	DefaultDeliveryTime = "12:00"
	DateLayout          = "2006-01-02"

	dayWindowStart = 8
	dayWindowEnd   = 18
)

var (
	Deposit            = decimal.NewFromInt(500)
	DaytimeDeliveryFee = decimal.NewFromInt(20)
	OffHourDeliveryFee = decimal.NewFromInt(35)
)

// Rates are a car's daily prices.
type Rates struct {
	ShortTerm decimal.Decimal `json:"short_term" gorm:"type:numeric(12,2);not null;default:0"`
	LongTerm  decimal.Decimal `json:"long_term" gorm:"type:numeric(12,2);not null;default:0"`
}

func DailyRate(r Rates, p Period) decimal.Decimal {
	if p == PeriodShortTerm {
		return r.ShortTerm
	}
	return r.LongTerm
}

// DaysInclusive counts calendar days from start to end with both endpoints included.
func DaysInclusive(start, end time.Time) int {
	s := calendarDay(start)
	e := calendarDay(end)
	return int(e.Sub(s).Hours()/24) + 1
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func RentalSubtotal(r Rates, p Period, start, end time.Time) decimal.Decimal {
	return DailyRate(r, p).Mul(decimal.NewFromInt(int64(DaysInclusive(start, end))))
}

// DeliveryFee is zero for pickup, otherwise a flat fee that depends only on the hour.
func DeliveryFee(o DeliveryOption, hour int) decimal.Decimal {
	if o != DeliveryDelivery {
		return decimal.Zero
	}
	if hour >= dayWindowStart && hour < dayWindowEnd {
		return DaytimeDeliveryFee
	}
	return OffHourDeliveryFee
}

// ParseClock reads "HH:MM" and returns the hour. Empty input means DefaultDeliveryTime.
func ParseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = DefaultDeliveryTime
	}
	hh, mm, ok := strings.Cut(value, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, nil
}

// ParseDate reads a yyyy-mm-dd calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", value)
	}
	return t, nil
}

// Quote is the full price breakdown of a rental.
type Quote struct {
	Days        int             `json:"days"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Deposit     decimal.Decimal `json:"deposit"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteInput is everything the fee rules look at.
type QuoteInput struct {
	Rates        Rates
	Period       Period
	Start        time.Time
	End          time.Time
	Delivery     DeliveryOption
	DeliveryHour int
}

func NewQuote(in QuoteInput) Quote {
	rate := DailyRate(in.Rates, in.Period)
	days := DaysInclusive(in.Start, in.End)
	subtotal := rate.Mul(decimal.NewFromInt(int64(days)))
	fee := DeliveryFee(in.Delivery, in.DeliveryHour)
	return Quote{
		Days:        days,
		DailyRate:   rate,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Deposit:     Deposit,
		Total:       subtotal.Add(fee).Add(Deposit),
	}
}

// Terms is an unparsed rental request as it arrives from a client.
type Terms struct {
	Period       string `json:"rental_period" form:"period"`
	StartDate    string `json:"start_date" form:"start"`
	EndDate      string `json:"end_date" form:"end"`
	Delivery     string `json:"delivery_option" form:"delivery"`
	DeliveryTime string `json:"delivery_time" form:"delivery_time"`
}

// Parse checks the terms against rates. The returned map holds one message
// per offending field and is nil when the terms are valid.
func (t Terms) Parse(rates Rates) (QuoteInput, map[string]string) {
	problems := map[string]string{}
	in := QuoteInput{Rates: rates}

	in.Period = Period(t.Period)
	if !in.Period.IsValid() {
		problems["rental_period"] = "must be ShortTerm or LongTerm"
	}

	in.Delivery = DeliveryOption(t.Delivery)
	if t.Delivery == "" {
		in.Delivery = DeliverySelfPickup
	}
	if !in.Delivery.IsValid() {
		problems["delivery_option"] = "must be SelfPickup or Delivery"
	}

	var err error
	if in.Start, err = ParseDate(t.StartDate); err != nil {
		problems["start_date"] = err.Error()
	}
	if in.End, err = ParseDate(t.EndDate); err != nil {
		problems["end_date"] = err.Error()
	}
	if _, ok := problems["start_date"]; !ok {
		if _, ok := problems["end_date"]; !ok && in.End.Before(in.Start) {
			problems["end_date"] = "must not be before start_date"
		}
	}

	if in.Delivery == DeliveryDelivery {
		if t.DeliveryTime == "" {
			t.DeliveryTime = DefaultDeliveryTime
		}
		if in.DeliveryHour, err = ParseClock(t.DeliveryTime); err != nil {
			problems["delivery_time"] = err.Error()
		}
	}

	if len(problems) > 0 {
		return QuoteInput{}, problems
	}
	return in, nil
}
