package tick

import "fmt"

// FieldMapping names the persistence columns that supply a tick's
// id/timestamp/price. It is resolved once at startup from
// information_schema (the ticks table varies between deployments:
// `ts` vs `timestamp`, a `mid` column vs raw `bid`/`ask`), never
// re-detected per tick.
type FieldMapping struct {
	Table           string
	IDColumn        string
	TimestampColumn string
	// PriceExpr is a SQL expression, not necessarily a bare column:
	// "mid", "price" or "(bid+ask)/2".
	PriceExpr string
}

// Config selects the ticks table and the price input. When UseSmoothed
// is set the smoothed level column is consumed instead of the raw price,
// transparently to the segment builder.
type Config struct {
	Table          string `env:"TABLE" envDefault:"ticks"`
	UseSmoothed    bool   `env:"USE_SMOOTHED" envDefault:"false"`
	SmoothedColumn string `env:"SMOOTHED_COLUMN" envDefault:"kalman_level"`
}

func (m FieldMapping) String() string {
	return fmt.Sprintf("%s(%s, %s, %s)", m.Table, m.IDColumn, m.TimestampColumn, m.PriceExpr)
}
