package hub

import (
	"encoding/json"
	"fmt"

	"github.com/rickgao/coin-ticker/internal/program"
	"github.com/rickgao/coin-ticker/internal/ticker"
	"github.com/rickgao/coin-ticker/internal/view"
)

// MessageTypeFrame is the type of a pushed frame.
const MessageTypeFrame = "frame"

// Message is the JSON payload pushed to browsers.
type Message struct {
	Type     string                 `json:"type"`
	Revision uint64                 `json:"revision"`
	Updated  string                 `json:"updated"`
	Price    float64                `json:"price"`
	Currency string                 `json:"currency"`
	Symbol   string                 `json:"symbol"`
	Digits   [ticker.DigitCount]int `json:"digits"`
	HTML     string                 `json:"html"`
}

// Encode renders a frame's view and serializes it as a Message.
func Encode(fr program.Frame) ([]byte, error) {
	markup, err := view.RenderString(fr.View)
	if err != nil {
		return nil, fmt.Errorf("render frame: %w", err)
	}

	s := fr.Snapshot
	data, err := json.Marshal(Message{
		Type:     MessageTypeFrame,
		Revision: s.Revision,
		Updated:  s.LastUpdated,
		Price:    s.Price,
		Currency: s.Currency,
		Symbol:   s.Symbol,
		Digits:   s.Digits,
		HTML:     markup,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	return data, nil
}
