package grpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	TokenField    = "token"
	AmountMlField = "amount_ml"

	IntakeField  = "intake"
	AccountField = "account"
	StatsField   = "stats"
)

var errInvalidAmountField = errors.New("amount_ml must be a whole number")

// NewRedeemRequest builds a Redeem request. A zero amount leaves amount_ml
// unset so the server applies the default.
func NewRedeemRequest(token string, amountMl int) *structpb.Struct {
	fields := map[string]*structpb.Value{
		TokenField: structpb.NewStringValue(token),
	}
	if amountMl != 0 {
		fields[AmountMlField] = structpb.NewNumberValue(float64(amountMl))
	}
	return &structpb.Struct{Fields: fields}
}

func redeemArgs(req *structpb.Struct) (string, int, error) {
	fields := req.GetFields()
	token := fields[TokenField].GetStringValue()

	value, ok := fields[AmountMlField]
	if !ok {
		return token, 0, nil
	}
	if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
		return token, 0, nil
	}
	number, isNumber := value.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || number.NumberValue != math.Trunc(number.NumberValue) || math.Abs(number.NumberValue) > math.MaxInt32 {
		return "", 0, errInvalidAmountField
	}
	return token, int(number.NumberValue), nil
}

// newResponse puts the JSON view of v under field.
func newResponse(field string, v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	value := &structpb.Value{}
	if err = protojson.Unmarshal(data, value); err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{field: value}}, nil
}

// DecodeResponse copies the entry stored under field into v.
func DecodeResponse(res *structpb.Struct, field string, v any) error {
	value, ok := res.GetFields()[field]
	if !ok {
		return fmt.Errorf("response has no %q field", field)
	}

	data, err := protojson.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
