package model

// RSIState is the oscillator zone of the latest RSI value.
type RSIState string

const (
	RSIOverbought RSIState = "OVERBOUGHT"
	RSIOversold   RSIState = "OVERSOLD"
	RSINeutral    RSIState = "NEUTRAL"
)

// Cross describes how two lines moved between the previous and the latest bar.
type Cross string

const (
	CrossUp   Cross = "CROSS_UP"
	CrossDown Cross = "CROSS_DOWN"
	CrossNone Cross = "SIDEWAYS"
)

// Summary is the at-a-glance view of the latest bar.
type Summary struct {
	Close       float64
	ChangePct   float64
	RSI         float64
	RSIState    RSIState
	MACDBullish bool
	MACDCross   Cross
	// Bullish is the medium-vs-long moving average trend.
	Bullish    bool
	RangeHigh  float64
	RangeLow   float64
	RangePos   float64
	Prediction Prediction
}

// Direction is the label returned by a next-bar direction classifier.
type Direction string

const (
	DirectionUp          Direction = "UP"
	DirectionDown        Direction = "DOWN"
	DirectionUnavailable Direction = "UNAVAILABLE"
)

// Prediction is an opaque classifier answer with its historical accuracy.
type Prediction struct {
	Label    Direction
	Accuracy float64
}
