package http

import (
	"encoding/json"
	"fmt"

	"storefront-quiz-service/internal/app"
	"storefront-quiz-service/internal/domain"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type searchPayload struct {
	Text string `json:"text"`
}

type sortPayload struct {
	Mode string `json:"mode"`
}

type pagePayload struct {
	Page int `json:"page"`
}

type cartPayload struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
	Delta     int `json:"delta"`
}

type startPayload struct {
	Count int `json:"count"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type scorePayload struct {
	Name string `json:"name"`
}

// decodeCommand turns an inbound message into an app command.
func decodeCommand(msg inboundMessage) (app.Command, error) {
	switch msg.Type {
	case "search":
		var p searchPayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.Search{Text: p.Text}, nil
	case "setSort":
		var p sortPayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.SetSort{Mode: domain.SortMode(p.Mode)}, nil
	case "goToPage":
		var p pagePayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.GoToPage{Page: p.Page}, nil
	case "prevPage":
		return app.PrevPage{}, nil
	case "nextPage":
		return app.NextPage{}, nil
	case "addToCart":
		var p cartPayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.AddToCart{ProductID: p.ProductID, Quantity: p.Quantity}, nil
	case "changeQuantity":
		var p cartPayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.ChangeQuantity{ProductID: p.ProductID, Delta: p.Delta}, nil
	case "removeFromCart":
		var p cartPayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.RemoveFromCart{ProductID: p.ProductID}, nil
	case "clearCart":
		return app.ClearCart{}, nil
	case "openCart":
		return app.OpenCart{}, nil
	case "closeCart":
		return app.CloseCart{}, nil
	case "startQuiz":
		var p startPayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.StartQuiz{Count: p.Count}, nil
	case "answer":
		var p answerPayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.AnswerQuestion{Choice: p.Choice}, nil
	case "submitScore":
		var p scorePayload
		if err := unmarshalPayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return app.SubmitScore{Name: p.Name}, nil
	case "resetLeaderboard":
		return app.ResetLeaderboard{}, nil
	case "refresh":
		return app.Refresh{}, nil
	default:
		return nil, fmt.Errorf("unsupported message type")
	}
}

func unmarshalPayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid payload")
	}
	return nil
}
