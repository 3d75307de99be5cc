package endpoints

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cage1016/adder/pkg/addsvc/service"
)

func TestAddRequestUnmarshalJSONExactKeys(t *testing.T) {
	cases := []struct {
		body       string
		num1, num2 service.Kind
	}{
		{`{"num1": 1, "num2": "2"}`, service.KindNumber, service.KindString},
		{`{"NUM1": 1, "num2": 2}`, service.KindAbsent, service.KindNumber},
		{`{"Num1": 1, "Num2": 2}`, service.KindAbsent, service.KindAbsent},
		{`{"num1": null}`, service.KindNull, service.KindAbsent},
		{`null`, service.KindAbsent, service.KindAbsent},
	}
	for _, c := range cases {
		var req AddRequest
		require.NoError(t, json.Unmarshal([]byte(c.body), &req), c.body)
		assert.Equal(t, c.num1, req.Num1.Kind(), c.body)
		assert.Equal(t, c.num2, req.Num2.Kind(), c.body)
	}
}

func TestAddRequestUnmarshalJSONPrefersExactKey(t *testing.T) {
	var req AddRequest
	require.NoError(t, json.Unmarshal([]byte(`{"NUM1": "", "num1": 4, "Num1": null, "num2": 1}`), &req))
	assert.Equal(t, 4.0, req.Num1.Float())
}

func TestAddRequestUnmarshalJSONRejectsNonObjects(t *testing.T) {
	var req AddRequest
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &req))
}

func TestAddRequestJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(AddRequest{Num1: service.String("2.5"), Num2: service.Number(3)})
	require.NoError(t, err)

	var req AddRequest
	require.NoError(t, json.Unmarshal(b, &req))
	assert.Equal(t, "2.5", req.Num1.Text())
	assert.Equal(t, 3.0, req.Num2.Float())
}
