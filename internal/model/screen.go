package model

import (
	"fmt"
	"strings"
	"time"
)

// Criterion is a screener condition evaluated on the last rows of a frame.
type Criterion int

const (
	CriterionRSIOversold Criterion = iota
	CriterionRSIOverbought
	CriterionGoldenCross
	CriterionDeathCross
	CriterionMACDBuy
	CriterionMACDSell
	CriterionNewDoubleBottom
	CriterionNewDoubleTop
)

var Criteria = []Criterion{
	CriterionRSIOversold, CriterionRSIOverbought,
	CriterionGoldenCross, CriterionDeathCross,
	CriterionMACDBuy, CriterionMACDSell,
	CriterionNewDoubleBottom, CriterionNewDoubleTop,
}

func (c Criterion) String() string {
	switch c {
	case CriterionRSIOversold:
		return "RSI_OVERSOLD"
	case CriterionRSIOverbought:
		return "RSI_OVERBOUGHT"
	case CriterionGoldenCross:
		return "GOLDEN_CROSS"
	case CriterionDeathCross:
		return "DEATH_CROSS"
	case CriterionMACDBuy:
		return "MACD_BUY"
	case CriterionMACDSell:
		return "MACD_SELL"
	case CriterionNewDoubleBottom:
		return "NEW_DB"
	case CriterionNewDoubleTop:
		return "NEW_DT"
	default:
		return fmt.Sprintf("Criterion(%d)", int(c))
	}
}

func ParseCriterion(s string) (Criterion, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Criteria {
		if c.String() == want {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown screener criterion %q", s)
}

// ScreenMatch is one instrument that satisfied a screener criterion.
type ScreenMatch struct {
	Symbol   string
	Time     time.Time
	Close    float64
	Volume   float64
	RSI      float64
	MACDHist float64
}
