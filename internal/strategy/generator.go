package strategy

import (
	"errors"

	"SignalSentinel/internal/model"
)

// ErrEmptyFrame is returned when there is no bar to classify.
var ErrEmptyFrame = errors.New("indicator frame has no rows")

// Generate classifies the most recent bar of frame into action and trend
// signals. It is a pure function; notification is handled by Alerter.
func Generate(frame *model.IndicatorFrame, th Thresholds) (*model.TradeSignal, error) {
	last, ok := frame.Last()
	if !ok {
		return nil, ErrEmptyFrame
	}

	signal := &model.TradeSignal{
		Symbol:   frame.Symbol,
		Interval: frame.Interval,
		Last:     last,
	}
	for _, r := range rules {
		actions, trends := r(last, th)
		signal.Actions = append(signal.Actions, actions...)
		signal.Trends = append(signal.Trends, trends...)
	}
	return signal, nil
}
