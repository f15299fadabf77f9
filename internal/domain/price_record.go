package domain

import "time"

// TimestampLayout is the ISO-8601 local timestamp used wherever a record
// timestamp leaves the process (file store, exports, console).
const TimestampLayout = "2006-01-02T15:04:05.000000"

// timestampParseLayout accepts timestamps with or without fractional seconds.
const timestampParseLayout = "2006-01-02T15:04:05.999999999"

type PriceRecord struct {
	PriceUSD  float64
	PriceReal float64
	Timestamp time.Time
}

func (r *PriceRecord) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp in the local time zone.
func ParseTimestamp(value string) (time.Time, error) {
	return time.ParseInLocation(timestampParseLayout, value, time.Local)
}

// RawPrice is the undecoded body returned by the spot price source.
type RawPrice struct {
	Body     []byte
	Currency string
}

type ExchangeRate struct {
	Value    float64
	Currency string
	Source   string
	Fallback bool
}
